package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aim-high/checkout-api/internal/models"
)

// SKURepository handles persistence of the inventory catalog: SKU types and
// SKUs.
type SKURepository struct {
	db *sqlx.DB
}

// NewSKURepository constructs the repository.
func NewSKURepository(db *sqlx.DB) *SKURepository {
	return &SKURepository{db: db}
}

// ListTypes returns all SKU types ordered by name.
func (r *SKURepository) ListTypes(ctx context.Context) ([]models.SKUType, error) {
	const query = `SELECT id, name FROM sku_types ORDER BY name`
	var types []models.SKUType
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("list sku types: %w", err)
	}
	return types, nil
}

// CreateType persists a new SKU type.
func (r *SKURepository) CreateType(ctx context.Context, skuType *models.SKUType) error {
	if skuType.ID == "" {
		skuType.ID = uuid.NewString()
	}
	const query = `INSERT INTO sku_types (id, name) VALUES (:id, :name)`
	if _, err := r.db.NamedExecContext(ctx, query, skuType); err != nil {
		return fmt.Errorf("create sku type: %w", err)
	}
	return nil
}

// List returns the catalog with type names and per-SKU assigned unit totals.
func (r *SKURepository) List(ctx context.Context) ([]models.SKUDetail, error) {
	const query = `SELECT s.id, s.type_id, s.model_identifier, s.display_name, s.units,
			t.name AS type_name,
			COALESCE(SUM(ss.units), 0) AS assigned_units
		FROM skus s
		JOIN sku_types t ON t.id = s.type_id
		LEFT JOIN site_skus ss ON ss.sku_id = s.id
		GROUP BY s.id, s.type_id, s.model_identifier, s.display_name, s.units, t.name
		ORDER BY s.display_name`
	var skus []models.SKUDetail
	if err := r.db.SelectContext(ctx, &skus, query); err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	return skus, nil
}

// FindByID returns a SKU by its ID.
func (r *SKURepository) FindByID(ctx context.Context, id string) (*models.SKU, error) {
	const query = `SELECT id, type_id, model_identifier, display_name, units FROM skus WHERE id = $1`
	var sku models.SKU
	if err := r.db.GetContext(ctx, &sku, query, id); err != nil {
		return nil, err
	}
	return &sku, nil
}

// Create persists a new SKU.
func (r *SKURepository) Create(ctx context.Context, sku *models.SKU) error {
	if sku.ID == "" {
		sku.ID = uuid.NewString()
	}
	const query = `INSERT INTO skus (id, type_id, model_identifier, display_name, units)
		VALUES (:id, :type_id, :model_identifier, :display_name, :units)`
	if _, err := r.db.NamedExecContext(ctx, query, sku); err != nil {
		return fmt.Errorf("create sku: %w", err)
	}
	return nil
}

// SumAssignedUnits returns the units of a SKU already assigned to sites,
// optionally excluding one site allocation (for updates).
func (r *SKURepository) SumAssignedUnits(ctx context.Context, skuID, excludeSiteSKUID string) (int, error) {
	const query = `SELECT COALESCE(SUM(units), 0) FROM site_skus WHERE sku_id = $1 AND ($2 = '' OR id <> $2)`
	var total int
	if err := r.db.GetContext(ctx, &total, query, skuID, excludeSiteSKUID); err != nil {
		return 0, fmt.Errorf("sum assigned units: %w", err)
	}
	return total, nil
}
