package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aim-high/checkout-api/internal/dto"
	"github.com/aim-high/checkout-api/internal/models"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
	"github.com/aim-high/checkout-api/pkg/response"
)

type catalogService interface {
	ListTypes(ctx context.Context) ([]models.SKUType, error)
	CreateType(ctx context.Context, req dto.CreateSKUTypeRequest) (*models.SKUType, error)
	ListSKUs(ctx context.Context) ([]models.SKUDetail, error)
	CreateSKU(ctx context.Context, req dto.CreateSKURequest) (*models.SKU, error)
	ListSiteSKUs(ctx context.Context, siteID string) ([]models.SiteSKUDetail, error)
	CreateSiteSKU(ctx context.Context, req dto.CreateSiteSKURequest) (*models.SiteSKU, error)
	UpdateSiteSKU(ctx context.Context, id string, req dto.UpdateSiteSKURequest) (*models.SiteSKU, error)
}

// CatalogHandler exposes inventory catalog administration endpoints.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler builds a new handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListTypes godoc
// @Summary List catalog categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/types [get]
func (h *CatalogHandler) ListTypes(c *gin.Context) {
	types, err := h.service.ListTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, nil)
}

// CreateType godoc
// @Summary Add a catalog category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreateSKUTypeRequest true "Category payload"
// @Success 201 {object} response.Envelope
// @Router /catalog/types [post]
func (h *CatalogHandler) CreateType(c *gin.Context) {
	var req dto.CreateSKUTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid category payload"))
		return
	}
	skuType, err := h.service.CreateType(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, skuType)
}

// ListSKUs godoc
// @Summary List the catalog with assignment totals
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/skus [get]
func (h *CatalogHandler) ListSKUs(c *gin.Context) {
	skus, err := h.service.ListSKUs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, skus, nil)
}

// CreateSKU godoc
// @Summary Add a catalog item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreateSKURequest true "SKU payload"
// @Success 201 {object} response.Envelope
// @Router /catalog/skus [post]
func (h *CatalogHandler) CreateSKU(c *gin.Context) {
	var req dto.CreateSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sku payload"))
		return
	}
	sku, err := h.service.CreateSKU(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sku)
}

// ListSiteSKUs godoc
// @Summary List a site's allocations
// @Tags Catalog
// @Produce json
// @Param siteId path string true "Site ID"
// @Success 200 {object} response.Envelope
// @Router /sites/{siteId}/skus [get]
func (h *CatalogHandler) ListSiteSKUs(c *gin.Context) {
	allocations, err := h.service.ListSiteSKUs(c.Request.Context(), c.Param("siteId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, allocations, nil)
}

// CreateSiteSKU godoc
// @Summary Assign catalog units to a site
// @Tags Catalog
// @Accept json
// @Produce json
// @Param siteId path string true "Site ID"
// @Param payload body dto.CreateSiteSKURequest true "Allocation payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sites/{siteId}/skus [post]
func (h *CatalogHandler) CreateSiteSKU(c *gin.Context) {
	var req dto.CreateSiteSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid allocation payload"))
		return
	}
	req.SiteID = c.Param("siteId")
	allocation, err := h.service.CreateSiteSKU(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, allocation)
}

// UpdateSiteSKU godoc
// @Summary Rewrite a site allocation
// @Tags Catalog
// @Accept json
// @Produce json
// @Param siteId path string true "Site ID"
// @Param id path string true "Allocation ID"
// @Param payload body dto.UpdateSiteSKURequest true "Allocation payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sites/{siteId}/skus/{id} [put]
func (h *CatalogHandler) UpdateSiteSKU(c *gin.Context) {
	var req dto.UpdateSiteSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid allocation payload"))
		return
	}
	allocation, err := h.service.UpdateSiteSKU(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, allocation, nil)
}
