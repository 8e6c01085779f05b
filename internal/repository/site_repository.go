package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aim-high/checkout-api/internal/models"
)

// SiteRepository handles persistence of sites.
type SiteRepository struct {
	db *sqlx.DB
}

// NewSiteRepository constructs the repository.
func NewSiteRepository(db *sqlx.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// List returns all sites ordered by name.
func (r *SiteRepository) List(ctx context.Context) ([]models.Site, error) {
	const query = `SELECT id, name, created_at FROM sites ORDER BY name`
	var sites []models.Site
	if err := r.db.SelectContext(ctx, &sites, query); err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return sites, nil
}

// FindByID returns a site by its ID.
func (r *SiteRepository) FindByID(ctx context.Context, id string) (*models.Site, error) {
	const query = `SELECT id, name, created_at FROM sites WHERE id = $1`
	var site models.Site
	if err := r.db.GetContext(ctx, &site, query, id); err != nil {
		return nil, err
	}
	return &site, nil
}

// FindByName returns a site by its unique name.
func (r *SiteRepository) FindByName(ctx context.Context, name string) (*models.Site, error) {
	const query = `SELECT id, name, created_at FROM sites WHERE name = $1`
	var site models.Site
	if err := r.db.GetContext(ctx, &site, query, name); err != nil {
		return nil, err
	}
	return &site, nil
}

// Create persists a new site.
func (r *SiteRepository) Create(ctx context.Context, site *models.Site) error {
	if site.ID == "" {
		site.ID = uuid.NewString()
	}
	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO sites (id, name, created_at) VALUES (:id, :name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, site); err != nil {
		return fmt.Errorf("create site: %w", err)
	}
	return nil
}
