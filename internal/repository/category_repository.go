package repository

import (
	"context"
	"fmt"

	"product-intel/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// categoryRepository implements CategoryRepository using PostgreSQL. The
// attribute schema document is stored as JSONB and handed to the schema
// registry untouched.
type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

const categoryColumns = "id, name, description, attribute_schema, created_at, updated_at"

// GetAll retrieves all categories ordered by id.
func (r *categoryRepository) GetAll(ctx context.Context) ([]model.Category, error) {
	sql := "SELECT " + categoryColumns + " FROM categories ORDER BY id"

	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var schemaDoc []byte
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &schemaDoc, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.AttributeSchema = schemaDoc
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a single category, or nil when it does not exist.
func (r *categoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	sql := "SELECT " + categoryColumns + " FROM categories WHERE id = $1"

	var c model.Category
	var schemaDoc []byte
	err := r.pool.QueryRow(ctx, sql, id).
		Scan(&c.ID, &c.Name, &c.Description, &schemaDoc, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("category_id", id).Msg("failed to query category")
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	c.AttributeSchema = schemaDoc
	return &c, nil
}

// Upsert inserts the category or replaces its whole schema document. Schema
// evolution is replace-whole-schema; per-key edits are not supported.
func (r *categoryRepository) Upsert(ctx context.Context, c *model.Category) error {
	sql := `
		INSERT INTO categories (id, name, description, attribute_schema, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			attribute_schema = EXCLUDED.attribute_schema,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, sql, c.ID, c.Name, c.Description, []byte(c.AttributeSchema), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", c.ID).Msg("failed to upsert category")
		return fmt.Errorf("failed to upsert category: %w", err)
	}
	return nil
}
