package schema

import (
	"fmt"

	"product-intel/internal/model"

	"github.com/rs/zerolog"
)

// Registry holds the attribute schema for every known category. It is built
// once at startup from the category records and is read-only afterwards, so
// concurrent readers need no locking.
type Registry struct {
	schemas map[string]*AttributeSchema
	logger  zerolog.Logger
}

// NewRegistry parses the schema document of every category and indexes them
// by category id.
func NewRegistry(categories []model.Category, logger zerolog.Logger) (*Registry, error) {
	r := &Registry{
		schemas: make(map[string]*AttributeSchema, len(categories)),
		logger:  logger.With().Str("component", "schema-registry").Logger(),
	}

	for _, c := range categories {
		s, err := Parse(c.ID, c.AttributeSchema)
		if err != nil {
			return nil, fmt.Errorf("failed to parse schema: %w", err)
		}
		r.schemas[c.ID] = s
		r.logger.Debug().
			Str("category_id", c.ID).
			Int("attributes", s.Len()).
			Msg("category schema registered")
	}

	r.logger.Info().
		Int("categories", len(r.schemas)).
		Msg("schema registry loaded")

	return r, nil
}

// SchemaFor returns the attribute schema of a category.
func (r *Registry) SchemaFor(categoryID string) (*AttributeSchema, error) {
	s, ok := r.schemas[categoryID]
	if !ok {
		return nil, model.NewNotFoundError("category", categoryID)
	}
	return s, nil
}

// IsKnownAttribute reports whether the category declares the given key.
// Unknown categories yield false rather than an error; existence demands
// belong to SchemaFor.
func (r *Registry) IsKnownAttribute(categoryID, key string) bool {
	s, ok := r.schemas[categoryID]
	if !ok {
		return false
	}
	_, ok = s.Lookup(key)
	return ok
}

// DeclaredType returns the declared type of an attribute key within a
// category.
func (r *Registry) DeclaredType(categoryID, key string) (Type, error) {
	s, err := r.SchemaFor(categoryID)
	if err != nil {
		return "", err
	}
	attr, ok := s.Lookup(key)
	if !ok {
		return "", model.NewUnknownAttributeError(categoryID, key)
	}
	return attr.Type, nil
}

// Categories returns the ids of all registered categories.
func (r *Registry) Categories() []string {
	ids := make([]string, 0, len(r.schemas))
	for id := range r.schemas {
		ids = append(ids, id)
	}
	return ids
}
