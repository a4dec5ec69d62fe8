package schema

// Type is the declared type of a category attribute.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Attribute is one declared key of a category schema. A non-empty Enum set
// constrains the value (or, for arrays, every element) to its members,
// checked case-sensitively.
type Attribute struct {
	Key         string
	Type        Type
	Elem        Type // element type for arrays; defaults to string
	Enum        []string
	Label       string
	Description string
	Unit        string
}

// EnumContains reports membership of v in the attribute's enum set.
func (a Attribute) EnumContains(v string) bool {
	for _, e := range a.Enum {
		if e == v {
			return true
		}
	}
	return false
}

// AttributeSchema is the ordered, immutable set of attributes declared for
// one category. Order follows the schema document and drives comparison row
// order.
type AttributeSchema struct {
	CategoryID string
	attrs      []Attribute
	index      map[string]int
}

// Keys returns the declared attribute keys in schema order.
func (s *AttributeSchema) Keys() []string {
	keys := make([]string, len(s.attrs))
	for i, a := range s.attrs {
		keys[i] = a.Key
	}
	return keys
}

// Attributes returns the declared attributes in schema order.
func (s *AttributeSchema) Attributes() []Attribute {
	out := make([]Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out
}

// Lookup returns the declared attribute for key, if any.
func (s *AttributeSchema) Lookup(key string) (Attribute, bool) {
	i, ok := s.index[key]
	if !ok {
		return Attribute{}, false
	}
	return s.attrs[i], true
}

// Len returns the number of declared attributes.
func (s *AttributeSchema) Len() int {
	return len(s.attrs)
}
