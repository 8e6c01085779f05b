package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aim-high/checkout-api/internal/dto"
	"github.com/aim-high/checkout-api/internal/models"
	"github.com/aim-high/checkout-api/internal/repository"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
)

type catalogSKURepository interface {
	ListTypes(ctx context.Context) ([]models.SKUType, error)
	CreateType(ctx context.Context, skuType *models.SKUType) error
	List(ctx context.Context) ([]models.SKUDetail, error)
	FindByID(ctx context.Context, id string) (*models.SKU, error)
	Create(ctx context.Context, sku *models.SKU) error
	SumAssignedUnits(ctx context.Context, skuID, excludeSiteSKUID string) (int, error)
}

type catalogSiteSKURepository interface {
	ListBySite(ctx context.Context, siteID string) ([]models.SiteSKUDetail, error)
	FindByID(ctx context.Context, id string) (*models.SiteSKUDetail, error)
	Create(ctx context.Context, siteSKU *models.SiteSKU) error
	Update(ctx context.Context, siteSKU *models.SiteSKU) error
}

// CatalogServiceConfig tunes allocation defaults.
type CatalogServiceConfig struct {
	DefaultStorageLocation string
}

// CatalogService administers the inventory catalog and its per-site
// allocations, holding the invariant that a SKU's site assignments never
// exceed its total units.
type CatalogService struct {
	skus           catalogSKURepository
	siteSKUs       catalogSiteSKURepository
	validator      *validator.Validate
	logger         *zap.Logger
	defaultStorage string
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(skus catalogSKURepository, siteSKUs catalogSiteSKURepository, validate *validator.Validate, logger *zap.Logger, cfg CatalogServiceConfig) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultStorageLocation == "" {
		cfg.DefaultStorageLocation = "Site Director's Office"
	}
	return &CatalogService{
		skus:           skus,
		siteSKUs:       siteSKUs,
		validator:      validate,
		logger:         logger,
		defaultStorage: cfg.DefaultStorageLocation,
	}
}

// ListTypes returns the catalog categories.
func (s *CatalogService) ListTypes(ctx context.Context) ([]models.SKUType, error) {
	types, err := s.skus.ListTypes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sku types")
	}
	return types, nil
}

// CreateType adds a catalog category.
func (s *CatalogService) CreateType(ctx context.Context, req dto.CreateSKUTypeRequest) (*models.SKUType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sku type payload")
	}
	skuType := &models.SKUType{Name: req.Name}
	if err := s.skus.CreateType(ctx, skuType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sku type")
	}
	return skuType, nil
}

// ListSKUs returns the catalog with assignment totals.
func (s *CatalogService) ListSKUs(ctx context.Context) ([]models.SKUDetail, error) {
	skus, err := s.skus.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list skus")
	}
	return skus, nil
}

// CreateSKU adds a catalog item.
func (s *CatalogService) CreateSKU(ctx context.Context, req dto.CreateSKURequest) (*models.SKU, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sku payload")
	}
	sku := &models.SKU{
		TypeID:          req.TypeID,
		ModelIdentifier: req.ModelIdentifier,
		DisplayName:     req.DisplayName,
		Units:           req.Units,
	}
	if err := s.skus.Create(ctx, sku); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sku")
	}
	return sku, nil
}

// ListSiteSKUs returns a site's allocations.
func (s *CatalogService) ListSiteSKUs(ctx context.Context, siteID string) ([]models.SiteSKUDetail, error) {
	allocations, err := s.siteSKUs.ListBySite(ctx, siteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list allocations")
	}
	return allocations, nil
}

// CreateSiteSKU assigns units to a site, refusing assignments that would push
// the SKU's site total past its unit count.
func (s *CatalogService) CreateSiteSKU(ctx context.Context, req dto.CreateSiteSKURequest) (*models.SiteSKU, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid allocation payload")
	}

	if err := s.checkAssignment(ctx, req.SKUID, "", req.Units); err != nil {
		return nil, err
	}

	storage := req.StorageLocation
	if storage == "" {
		storage = s.defaultStorage
	}
	siteSKU := &models.SiteSKU{
		SiteID:          req.SiteID,
		SKUID:           req.SKUID,
		Units:           req.Units,
		StorageLocation: storage,
	}
	if err := s.siteSKUs.Create(ctx, siteSKU); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create allocation")
	}

	s.logger.Info("allocation created",
		zap.String("site_id", siteSKU.SiteID),
		zap.String("sku_id", siteSKU.SKUID),
		zap.Int("units", siteSKU.Units))
	return siteSKU, nil
}

// UpdateSiteSKU rewrites an allocation's units and storage location under the
// same assignment invariant.
func (s *CatalogService) UpdateSiteSKU(ctx context.Context, id string, req dto.UpdateSiteSKURequest) (*models.SiteSKU, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid allocation payload")
	}

	existing, err := s.siteSKUs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load allocation")
	}

	if err := s.checkAssignment(ctx, existing.SKUID, id, req.Units); err != nil {
		return nil, err
	}

	storage := req.StorageLocation
	if storage == "" {
		storage = existing.StorageLocation
	}
	updated := &models.SiteSKU{
		ID:              id,
		SiteID:          existing.SiteID,
		SKUID:           existing.SKUID,
		Units:           req.Units,
		StorageLocation: storage,
	}
	if err := s.siteSKUs.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update allocation")
	}
	return updated, nil
}

func (s *CatalogService) checkAssignment(ctx context.Context, skuID, excludeID string, units int) error {
	sku, err := s.skus.FindByID(ctx, skuID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "sku not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sku")
	}

	assigned, err := s.skus.SumAssignedUnits(ctx, skuID, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum assignments")
	}
	if assigned+units > sku.Units {
		return appErrors.Clone(appErrors.ErrOverAllocated,
			fmt.Sprintf("%d of %d units already assigned", assigned, sku.Units))
	}
	return nil
}
