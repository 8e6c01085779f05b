package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aim-high/checkout-api/internal/dto"
	"github.com/aim-high/checkout-api/internal/service"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
	"github.com/aim-high/checkout-api/pkg/response"
)

type availabilityService interface {
	Free(ctx context.Context, siteSKUID string, date time.Time, periodID string) (int, error)
	DayAvailability(ctx context.Context, siteSKUID string, date time.Time) ([]service.PeriodAvailability, error)
	SiteAvailability(ctx context.Context, siteID string, date time.Time, typeID string) ([]service.AllocationAvailability, error)
	PickBestAllocation(ctx context.Context, req dto.PickAllocationRequest) (*service.AllocationPick, error)
}

// AvailabilityHandler exposes free-unit queries.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler builds a new handler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Free godoc
// @Summary Free units for one allocation slot
// @Tags Availability
// @Produce json
// @Param site_sku_id query string true "Allocation ID"
// @Param date query string true "Date (2006-01-02)"
// @Param period_id query string false "Period ID; omit for the whole day"
// @Success 200 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) Free(c *gin.Context) {
	siteSKUID := c.Query("site_sku_id")
	if siteSKUID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "site_sku_id is required"))
		return
	}
	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must use the 2006-01-02 layout"))
		return
	}

	if periodID := c.Query("period_id"); periodID != "" {
		free, err := h.service.Free(c.Request.Context(), siteSKUID, date, periodID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, gin.H{"free": free}, nil)
		return
	}

	availability, err := h.service.DayAvailability(c.Request.Context(), siteSKUID, date)
	if err != nil {
		response.Error(c, calendarHint(c, err))
		return
	}
	response.JSON(c, http.StatusOK, availability, nil)
}

// Site godoc
// @Summary Free-unit grid for every allocation at a site
// @Tags Availability
// @Produce json
// @Param siteId path string true "Site ID"
// @Param date query string true "Date (2006-01-02)"
// @Param type_id query string false "SKU type filter"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /sites/{siteId}/availability [get]
func (h *AvailabilityHandler) Site(c *gin.Context) {
	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must use the 2006-01-02 layout"))
		return
	}
	grid, err := h.service.SiteAvailability(c.Request.Context(), c.Param("siteId"), date, c.Query("type_id"))
	if err != nil {
		response.Error(c, calendarHint(c, err))
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// Pick godoc
// @Summary Pick the best allocation for a request
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body dto.PickAllocationRequest true "Pick payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /availability/pick [post]
func (h *AvailabilityHandler) Pick(c *gin.Context) {
	var req dto.PickAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pick payload"))
		return
	}
	pick, err := h.service.PickBestAllocation(c.Request.Context(), req)
	if err != nil {
		response.Error(c, calendarHint(c, err))
		return
	}
	response.JSON(c, http.StatusOK, pick, nil)
}
