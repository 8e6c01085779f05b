package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aim-high/checkout-api/internal/models"
)

// PeriodRepository handles persistence of site periods.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository constructs the repository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// ListBySite returns a site's periods in their total order: number
// ascending, ties broken by site for deployments sharing a global calendar.
func (r *PeriodRepository) ListBySite(ctx context.Context, siteID string) ([]models.Period, error) {
	const query = `SELECT id, site_id, number, name FROM periods WHERE site_id = $1 ORDER BY number, site_id`
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query, siteID); err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	return periods, nil
}

// FindByID returns a period by its ID.
func (r *PeriodRepository) FindByID(ctx context.Context, id string) (*models.Period, error) {
	const query = `SELECT id, site_id, number, name FROM periods WHERE id = $1`
	var period models.Period
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		return nil, err
	}
	return &period, nil
}

// Create persists a new period.
func (r *PeriodRepository) Create(ctx context.Context, period *models.Period) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	const query = `INSERT INTO periods (id, site_id, number, name) VALUES (:id, :site_id, :number, :name)`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("create period: %w", err)
	}
	return nil
}
