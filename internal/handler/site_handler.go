package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aim-high/checkout-api/internal/models"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
	"github.com/aim-high/checkout-api/pkg/response"
)

type siteService interface {
	List(ctx context.Context) ([]models.Site, error)
	Get(ctx context.Context, id string) (*models.Site, error)
	Create(ctx context.Context, name string) (*models.Site, error)
}

// SiteHandler exposes site roster endpoints.
type SiteHandler struct {
	service siteService
}

// NewSiteHandler builds a new handler.
func NewSiteHandler(service siteService) *SiteHandler {
	return &SiteHandler{service: service}
}

type createSiteRequest struct {
	Name string `json:"name"`
}

// List godoc
// @Summary List sites
// @Tags Sites
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sites [get]
func (h *SiteHandler) List(c *gin.Context) {
	sites, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sites, nil)
}

// Get godoc
// @Summary Get a site
// @Tags Sites
// @Produce json
// @Param siteId path string true "Site ID"
// @Success 200 {object} response.Envelope
// @Router /sites/{siteId} [get]
func (h *SiteHandler) Get(c *gin.Context) {
	site, err := h.service.Get(c.Request.Context(), c.Param("siteId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, site, nil)
}

// Create godoc
// @Summary Add a site
// @Tags Sites
// @Accept json
// @Produce json
// @Param payload body createSiteRequest true "Site payload"
// @Success 201 {object} response.Envelope
// @Router /sites [post]
func (h *SiteHandler) Create(c *gin.Context) {
	var req createSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid site payload"))
		return
	}
	site, err := h.service.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, site)
}
