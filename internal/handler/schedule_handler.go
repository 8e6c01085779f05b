package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aim-high/checkout-api/internal/schedule"
	"github.com/aim-high/checkout-api/internal/service"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
	"github.com/aim-high/checkout-api/pkg/response"
)

type scheduleService interface {
	MovementPlan(ctx context.Context, siteID string, date time.Time) (*schedule.Plan, error)
	DaySchedule(ctx context.Context, siteID string, date time.Time) ([]service.SchedulePeriodRow, error)
	ExportCSV(ctx context.Context, siteID string, date time.Time) ([]byte, error)
	ExportPDF(ctx context.Context, siteID string, date time.Time) ([]byte, error)
}

// ScheduleHandler exposes movement and reservation schedules.
type ScheduleHandler struct {
	service        scheduleService
	exportsEnabled bool
}

// NewScheduleHandler builds a new handler.
func NewScheduleHandler(service scheduleService, exportsEnabled bool) *ScheduleHandler {
	return &ScheduleHandler{service: service, exportsEnabled: exportsEnabled}
}

func (h *ScheduleHandler) siteAndDate(c *gin.Context) (string, time.Time, bool) {
	siteID := c.Param("siteId")
	date, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must use the 2006-01-02 layout"))
		return "", time.Time{}, false
	}
	return siteID, date, true
}

// Movements godoc
// @Summary Movement schedule for one site and date
// @Tags Schedules
// @Produce json
// @Param siteId path string true "Site ID"
// @Param date path string true "Date (2006-01-02)"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /sites/{siteId}/schedule/{date}/movements [get]
func (h *ScheduleHandler) Movements(c *gin.Context) {
	siteID, date, ok := h.siteAndDate(c)
	if !ok {
		return
	}
	plan, err := h.service.MovementPlan(c.Request.Context(), siteID, date)
	if err != nil {
		response.Error(c, calendarHint(c, err))
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Day godoc
// @Summary Reservation schedule for one site and date
// @Tags Schedules
// @Produce json
// @Param siteId path string true "Site ID"
// @Param date path string true "Date (2006-01-02)"
// @Success 200 {object} response.Envelope
// @Router /sites/{siteId}/schedule/{date} [get]
func (h *ScheduleHandler) Day(c *gin.Context) {
	siteID, date, ok := h.siteAndDate(c)
	if !ok {
		return
	}
	rows, err := h.service.DaySchedule(c.Request.Context(), siteID, date)
	if err != nil {
		response.Error(c, calendarHint(c, err))
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// ExportCSV godoc
// @Summary Download the movement schedule as CSV
// @Tags Schedules
// @Produce text/csv
// @Param siteId path string true "Site ID"
// @Param date path string true "Date (2006-01-02)"
// @Success 200 {file} file
// @Router /sites/{siteId}/schedule/{date}/movements.csv [get]
func (h *ScheduleHandler) ExportCSV(c *gin.Context) {
	if !h.exportsEnabled {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled"))
		return
	}
	siteID, date, ok := h.siteAndDate(c)
	if !ok {
		return
	}
	data, err := h.service.ExportCSV(c.Request.Context(), siteID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("movements-%s.csv", date.Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF godoc
// @Summary Download the movement schedule as PDF
// @Tags Schedules
// @Produce application/pdf
// @Param siteId path string true "Site ID"
// @Param date path string true "Date (2006-01-02)"
// @Success 200 {file} file
// @Router /sites/{siteId}/schedule/{date}/movements.pdf [get]
func (h *ScheduleHandler) ExportPDF(c *gin.Context) {
	if !h.exportsEnabled {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled"))
		return
	}
	siteID, date, ok := h.siteAndDate(c)
	if !ok {
		return
	}
	data, err := h.service.ExportPDF(c.Request.Context(), siteID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("movements-%s.pdf", date.Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
