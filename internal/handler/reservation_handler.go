package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aim-high/checkout-api/internal/dto"
	"github.com/aim-high/checkout-api/internal/models"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
	"github.com/aim-high/checkout-api/pkg/response"
)

const dateLayout = "2006-01-02"

type reservationService interface {
	List(ctx context.Context, filter models.ReservationFilter) ([]models.ReservationDetail, error)
	Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateReservationRequest) ([]*models.Reservation, error)
	Delete(ctx context.Context, claims *models.JWTClaims, id string) error
}

// ReservationHandler exposes the reservation ledger endpoints.
type ReservationHandler struct {
	service reservationService
}

// NewReservationHandler builds a new handler.
func NewReservationHandler(service reservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// List godoc
// @Summary List reservations
// @Tags Reservations
// @Produce json
// @Param site_id query string false "Site ID"
// @Param site_sku_id query string false "Allocation ID"
// @Param team_id query string false "Team ID"
// @Param date query string false "Date (2006-01-02)"
// @Param period_id query string false "Period ID"
// @Success 200 {object} response.Envelope
// @Router /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	filter := models.ReservationFilter{
		SiteID:    c.Query("site_id"),
		SiteSKUID: c.Query("site_sku_id"),
		TeamID:    c.Query("team_id"),
		PeriodID:  c.Query("period_id"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must use the 2006-01-02 layout"))
			return
		}
		filter.Date = date
	}

	reservations, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, nil)
}

// Create godoc
// @Summary Create a reservation batch
// @Tags Reservations
// @Accept json
// @Produce json
// @Param payload body dto.CreateReservationRequest true "Reservation payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reservation payload"))
		return
	}
	created, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Delete godoc
// @Summary Delete a reservation
// @Tags Reservations
// @Param id path string true "Reservation ID"
// @Success 204
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
