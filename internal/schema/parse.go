package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// propertyDoc mirrors one entry of the schema document's "properties" object.
type propertyDoc struct {
	Type        string   `json:"type"`
	Enum        []string `json:"enum"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Unit        string   `json:"unit"`
	Items       *struct {
		Type string   `json:"type"`
		Enum []string `json:"enum"`
	} `json:"items"`
}

// Parse builds an AttributeSchema from a category's schema document.
// Declaration order matters (it drives comparison row order), so the
// "properties" object is walked token by token rather than decoded into a
// map.
func Parse(categoryID string, raw []byte) (*AttributeSchema, error) {
	s := &AttributeSchema{
		CategoryID: categoryID,
		index:      make(map[string]int),
	}
	if len(raw) == 0 {
		return s, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("schema for category %s: %w", categoryID, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("schema for category %s: document must be a JSON object", categoryID)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("schema for category %s: %w", categoryID, err)
		}
		key := keyTok.(string)
		if key != "properties" {
			// type, $schema and similar top-level fields are ignored
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("schema for category %s: field %q: %w", categoryID, key, err)
			}
			continue
		}

		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("schema for category %s: %w", categoryID, err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("schema for category %s: properties must be a JSON object", categoryID)
		}

		for dec.More() {
			nameTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("schema for category %s: %w", categoryID, err)
			}
			name := nameTok.(string)

			var prop propertyDoc
			if err := dec.Decode(&prop); err != nil {
				return nil, fmt.Errorf("schema for category %s: attribute %q: %w", categoryID, name, err)
			}

			attr, err := buildAttribute(name, prop)
			if err != nil {
				return nil, fmt.Errorf("schema for category %s: %w", categoryID, err)
			}

			if _, dup := s.index[name]; dup {
				return nil, fmt.Errorf("schema for category %s: duplicate attribute key %q", categoryID, name)
			}
			s.index[name] = len(s.attrs)
			s.attrs = append(s.attrs, attr)
		}

		// closing '}' of properties
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("schema for category %s: %w", categoryID, err)
		}
	}

	return s, nil
}

func buildAttribute(name string, prop propertyDoc) (Attribute, error) {
	t, err := parseType(prop.Type)
	if err != nil {
		return Attribute{}, fmt.Errorf("attribute %q: %w", name, err)
	}

	attr := Attribute{
		Key:         name,
		Type:        t,
		Enum:        prop.Enum,
		Label:       prop.Label,
		Description: prop.Description,
		Unit:        prop.Unit,
	}
	if attr.Label == "" {
		attr.Label = name
	}

	if t == TypeArray {
		attr.Elem = TypeString
		if prop.Items != nil {
			elem, err := parseType(prop.Items.Type)
			if err != nil {
				return Attribute{}, fmt.Errorf("attribute %q items: %w", name, err)
			}
			if elem == TypeArray || elem == TypeObject {
				return Attribute{}, fmt.Errorf("attribute %q: array elements must be scalar", name)
			}
			attr.Elem = elem
			if len(prop.Items.Enum) > 0 {
				attr.Enum = prop.Items.Enum
			}
		}
	}

	return attr, nil
}

func parseType(t string) (Type, error) {
	switch Type(t) {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeArray, TypeObject:
		return Type(t), nil
	case "":
		return TypeString, nil
	default:
		return "", fmt.Errorf("unsupported type %q", t)
	}
}
