package repository

import (
	"context"
	"fmt"

	"product-intel/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// vendorRepository implements VendorRepository using PostgreSQL.
type vendorRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewVendorRepository creates a new PostgreSQL-backed vendor repository.
func NewVendorRepository(pool *pgxpool.Pool, logger zerolog.Logger) VendorRepository {
	return &vendorRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "vendor").Logger(),
	}
}

const vendorColumns = "id, name, website, partner_portal_url, created_at, updated_at"

// GetAll retrieves all vendors ordered by name.
func (r *vendorRepository) GetAll(ctx context.Context) ([]model.Vendor, error) {
	sql := "SELECT " + vendorColumns + " FROM vendors ORDER BY name"

	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query vendors")
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer rows.Close()

	var vendors []model.Vendor
	for rows.Next() {
		var v model.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Website, &v.PartnerPortalURL, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendors: %w", err)
	}
	return vendors, nil
}

// GetByID retrieves a single vendor, or nil when it does not exist.
func (r *vendorRepository) GetByID(ctx context.Context, id string) (*model.Vendor, error) {
	sql := "SELECT " + vendorColumns + " FROM vendors WHERE id = $1"

	var v model.Vendor
	err := r.pool.QueryRow(ctx, sql, id).
		Scan(&v.ID, &v.Name, &v.Website, &v.PartnerPortalURL, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("vendor_id", id).Msg("failed to query vendor")
		return nil, fmt.Errorf("failed to query vendor: %w", err)
	}
	return &v, nil
}

// Upsert inserts the vendor or updates it in place by id.
func (r *vendorRepository) Upsert(ctx context.Context, v *model.Vendor) error {
	sql := `
		INSERT INTO vendors (id, name, website, partner_portal_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			website = EXCLUDED.website,
			partner_portal_url = EXCLUDED.partner_portal_url,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, sql, v.ID, v.Name, v.Website, v.PartnerPortalURL, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("vendor_id", v.ID).Msg("failed to upsert vendor")
		return fmt.Errorf("failed to upsert vendor: %w", err)
	}
	return nil
}

// Delete removes a vendor.
func (r *vendorRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM vendors WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Str("vendor_id", id).Msg("failed to delete vendor")
		return false, fmt.Errorf("failed to delete vendor: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
