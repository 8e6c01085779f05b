package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aim-high/checkout-api/internal/models"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
)

type siteRepository interface {
	List(ctx context.Context) ([]models.Site, error)
	FindByID(ctx context.Context, id string) (*models.Site, error)
	Create(ctx context.Context, site *models.Site) error
}

// SiteService manages the roster of sites.
type SiteService struct {
	repo      siteRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSiteService constructs a SiteService.
func NewSiteService(repo siteRepository, validate *validator.Validate, logger *zap.Logger) *SiteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteService{repo: repo, validator: validate, logger: logger}
}

// List returns all sites.
func (s *SiteService) List(ctx context.Context) ([]models.Site, error) {
	sites, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sites")
	}
	return sites, nil
}

// Get returns one site.
func (s *SiteService) Get(ctx context.Context, id string) (*models.Site, error) {
	site, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "site not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load site")
	}
	return site, nil
}

// Create adds a site.
func (s *SiteService) Create(ctx context.Context, name string) (*models.Site, error) {
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	site := &models.Site{Name: name}
	if err := s.repo.Create(ctx, site); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create site")
	}
	s.logger.Info("site created", zap.String("site_id", site.ID), zap.String("name", site.Name))
	return site, nil
}
