package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"product-intel/internal/model"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"
)

// Validator coerces raw attribute maps into their canonical typed forms and
// collects every field-level problem instead of stopping at the first.
// Canonical forms are: string, int64, float64, bool, []any and
// map[string]any. Coercion is idempotent: validating an already-canonical
// map yields an equal map.
type Validator struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewValidator creates a validator bound to a schema registry.
func NewValidator(registry *Registry, logger zerolog.Logger) *Validator {
	return &Validator{
		registry: registry,
		logger:   logger.With().Str("component", "attribute-validator").Logger(),
	}
}

// Validate checks raw against the category's schema and returns the
// canonical map, or a ValidationError carrying the complete list of field
// errors. Nothing is written on failure; the caller gets all-or-nothing
// semantics. A nil or empty raw map is valid (every attribute is optional).
func (v *Validator) Validate(categoryID string, raw map[string]any) (map[string]any, error) {
	s, err := v.registry.SchemaFor(categoryID)
	if err != nil {
		return nil, err
	}

	canonical := make(map[string]any, len(raw))
	var fieldErrs []model.FieldError

	// Iterate in schema order so collected errors are stable.
	for _, attr := range s.Attributes() {
		value, present := raw[attr.Key]
		if !present {
			continue
		}
		coerced, ferr := CoerceValue(attr, value)
		if ferr != nil {
			fieldErrs = append(fieldErrs, *ferr)
			continue
		}
		canonical[attr.Key] = coerced
	}

	for key := range raw {
		if _, ok := s.Lookup(key); !ok {
			fieldErrs = append(fieldErrs, model.FieldError{
				Key:     key,
				Code:    model.FieldUnknownAttribute,
				Message: fmt.Sprintf("attribute is not declared for category %q", categoryID),
			})
		}
	}

	if len(fieldErrs) > 0 {
		v.logger.Debug().
			Str("category_id", categoryID).
			Int("errors", len(fieldErrs)).
			Msg("attribute validation failed")
		return nil, model.NewValidationError(fieldErrs)
	}

	return canonical, nil
}

// CoerceValue converts a single raw value to the canonical form declared by
// the attribute. It is shared by the write path and by filter predicate
// evaluation so both sides compare like with like.
func CoerceValue(attr Attribute, value any) (any, *model.FieldError) {
	switch attr.Type {
	case TypeString:
		return coerceString(attr, value)
	case TypeInteger:
		return coerceInteger(attr, value)
	case TypeNumber:
		return coerceNumber(attr, value)
	case TypeBoolean:
		return coerceBoolean(attr, value)
	case TypeArray:
		return coerceArray(attr, value)
	case TypeObject:
		return coerceObject(attr, value)
	}
	return nil, &model.FieldError{
		Key:     attr.Key,
		Code:    model.FieldTypeMismatch,
		Message: fmt.Sprintf("unsupported declared type %q", attr.Type),
	}
}

func coerceString(attr Attribute, value any) (any, *model.FieldError) {
	s, ok := value.(string)
	if !ok {
		return nil, typeMismatch(attr.Key, "string", value)
	}
	if len(attr.Enum) > 0 && !attr.EnumContains(s) {
		return nil, &model.FieldError{
			Key:     attr.Key,
			Code:    model.FieldInvalidEnumValue,
			Message: fmt.Sprintf("value %q is not one of the allowed values", s),
			Allowed: attr.Enum,
		}
	}
	return s, nil
}

func coerceInteger(attr Attribute, value any) (any, *model.FieldError) {
	f, err := toFiniteFloat(value)
	if err != nil {
		return nil, typeMismatch(attr.Key, "integer", value)
	}
	if f != math.Trunc(f) {
		return nil, &model.FieldError{
			Key:     attr.Key,
			Code:    model.FieldTypeMismatch,
			Message: fmt.Sprintf("value %v is not an integer", value),
		}
	}
	n := int64(f)
	if n < 0 && nonNegativeKey(attr.Key) {
		return nil, rangeError(attr.Key, n)
	}
	return n, nil
}

func coerceNumber(attr Attribute, value any) (any, *model.FieldError) {
	f, err := toFiniteFloat(value)
	if err != nil {
		return nil, typeMismatch(attr.Key, "number", value)
	}
	if f < 0 && nonNegativeKey(attr.Key) {
		return nil, rangeError(attr.Key, f)
	}
	return f, nil
}

func coerceBoolean(attr Attribute, value any) (any, *model.FieldError) {
	switch b := value.(type) {
	case bool:
		return b, nil
	case string:
		// only the canonical literals, not "1"/"yes"/"t"
		if b == "true" {
			return true, nil
		}
		if b == "false" {
			return false, nil
		}
	}
	return nil, typeMismatch(attr.Key, "boolean", value)
}

func coerceArray(attr Attribute, value any) (any, *model.FieldError) {
	var elems []any
	switch arr := value.(type) {
	case []any:
		elems = arr
	case []string:
		elems = make([]any, len(arr))
		for i, s := range arr {
			elems[i] = s
		}
	default:
		return nil, typeMismatch(attr.Key, "array", value)
	}

	elemAttr := Attribute{Key: attr.Key, Type: attr.Elem, Enum: attr.Enum}
	out := make([]any, 0, len(elems))
	for _, e := range elems {
		coerced, ferr := CoerceValue(elemAttr, e)
		if ferr != nil {
			return nil, ferr
		}
		out = append(out, coerced)
	}
	return out, nil
}

func coerceObject(attr Attribute, value any) (any, *model.FieldError) {
	// Nested shape is deliberately not schema-checked; seed files and
	// extraction output carry free-form maps such as port counts by speed.
	m, ok := value.(map[string]any)
	if !ok {
		return nil, typeMismatch(attr.Key, "object", value)
	}
	return m, nil
}

// toFiniteFloat parses numeric input of any reasonable kind, rejecting NaN
// and infinities.
func toFiniteFloat(value any) (float64, error) {
	switch value.(type) {
	case bool, nil, []any, map[string]any:
		return 0, fmt.Errorf("not a number: %v", value)
	case json.Number:
		value = value.(json.Number).String()
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite number: %v", f)
	}
	return f, nil
}

// nonNegativeKey reports whether the attribute names a quantity that cannot
// meaningfully be negative (counts, throughputs, costs).
func nonNegativeKey(key string) bool {
	k := strings.ToLower(key)
	for _, marker := range []string{
		"count", "clients", "throughput", "mbps", "gbps",
		"ports", "cost", "price", "capacity", "sessions", "users",
	} {
		if strings.Contains(k, marker) {
			return true
		}
	}
	return false
}

func typeMismatch(key, want string, got any) *model.FieldError {
	return &model.FieldError{
		Key:     key,
		Code:    model.FieldTypeMismatch,
		Message: fmt.Sprintf("expected %s, got %T", want, got),
	}
}

func rangeError(key string, got any) *model.FieldError {
	return &model.FieldError{
		Key:     key,
		Code:    model.FieldOutOfRange,
		Message: fmt.Sprintf("%s cannot be negative, got %v", key, got),
	}
}
