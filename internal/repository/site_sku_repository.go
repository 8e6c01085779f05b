package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aim-high/checkout-api/internal/models"
)

// SiteSKURepository handles persistence of per-site inventory allocations.
type SiteSKURepository struct {
	db *sqlx.DB
}

// NewSiteSKURepository constructs the repository.
func NewSiteSKURepository(db *sqlx.DB) *SiteSKURepository {
	return &SiteSKURepository{db: db}
}

const siteSKUDetailColumns = `ss.id, ss.site_id, ss.sku_id, ss.units, ss.storage_location,
		s.display_name, s.model_identifier, s.type_id,
		t.name AS type_name`

// ListBySite returns a site's allocations with catalog naming, ordered by
// display name for stable schedules.
func (r *SiteSKURepository) ListBySite(ctx context.Context, siteID string) ([]models.SiteSKUDetail, error) {
	query := `SELECT ` + siteSKUDetailColumns + `
		FROM site_skus ss
		JOIN skus s ON s.id = ss.sku_id
		JOIN sku_types t ON t.id = s.type_id
		WHERE ss.site_id = $1
		ORDER BY s.display_name`
	var allocations []models.SiteSKUDetail
	if err := r.db.SelectContext(ctx, &allocations, query, siteID); err != nil {
		return nil, fmt.Errorf("list site skus: %w", err)
	}
	return allocations, nil
}

// FindByID returns one allocation with catalog naming.
func (r *SiteSKURepository) FindByID(ctx context.Context, id string) (*models.SiteSKUDetail, error) {
	query := `SELECT ` + siteSKUDetailColumns + `
		FROM site_skus ss
		JOIN skus s ON s.id = ss.sku_id
		JOIN sku_types t ON t.id = s.type_id
		WHERE ss.id = $1`
	var allocation models.SiteSKUDetail
	if err := r.db.GetContext(ctx, &allocation, query, id); err != nil {
		return nil, err
	}
	return &allocation, nil
}

// Create persists a new allocation.
func (r *SiteSKURepository) Create(ctx context.Context, siteSKU *models.SiteSKU) error {
	if siteSKU.ID == "" {
		siteSKU.ID = uuid.NewString()
	}
	const query = `INSERT INTO site_skus (id, site_id, sku_id, units, storage_location)
		VALUES (:id, :site_id, :sku_id, :units, :storage_location)`
	if _, err := r.db.NamedExecContext(ctx, query, siteSKU); err != nil {
		return fmt.Errorf("create site sku: %w", err)
	}
	return nil
}

// Update rewrites an allocation's units and storage location.
func (r *SiteSKURepository) Update(ctx context.Context, siteSKU *models.SiteSKU) error {
	const query = `UPDATE site_skus SET units = :units, storage_location = :storage_location WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, siteSKU)
	if err != nil {
		return fmt.Errorf("update site sku: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update site sku rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
