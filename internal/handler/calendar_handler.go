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

type calendarService interface {
	OrderedPeriods(ctx context.Context, siteID string) ([]models.Period, error)
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest) (*models.Period, error)
	ListWeeks(ctx context.Context, siteID string) ([]models.Week, error)
	CreateWeek(ctx context.Context, req dto.CreateWeekRequest) (*models.Week, error)
	DeleteWeek(ctx context.Context, id string) error
	ListClassrooms(ctx context.Context, siteID string) ([]models.Classroom, error)
	CreateClassroom(ctx context.Context, req dto.CreateClassroomRequest) (*models.Classroom, error)
}

// CalendarHandler exposes the site calendar administration endpoints.
type CalendarHandler struct {
	service calendarService
}

// NewCalendarHandler builds a new handler.
func NewCalendarHandler(service calendarService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// ListPeriods godoc
// @Summary List a site's periods in schedule order
// @Tags Calendar
// @Produce json
// @Param siteId path string true "Site ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /sites/{siteId}/periods [get]
func (h *CalendarHandler) ListPeriods(c *gin.Context) {
	periods, err := h.service.OrderedPeriods(c.Request.Context(), c.Param("siteId"))
	if err != nil {
		response.Error(c, calendarHint(c, err))
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// CreatePeriod godoc
// @Summary Add a period to a site's calendar
// @Tags Calendar
// @Accept json
// @Produce json
// @Param siteId path string true "Site ID"
// @Param payload body dto.CreatePeriodRequest true "Period payload"
// @Success 201 {object} response.Envelope
// @Router /sites/{siteId}/periods [post]
func (h *CalendarHandler) CreatePeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid period payload"))
		return
	}
	req.SiteID = c.Param("siteId")
	period, err := h.service.CreatePeriod(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// ListWeeks godoc
// @Summary List a site's weeks
// @Tags Calendar
// @Produce json
// @Param siteId path string true "Site ID"
// @Success 200 {object} response.Envelope
// @Router /sites/{siteId}/weeks [get]
func (h *CalendarHandler) ListWeeks(c *gin.Context) {
	weeks, err := h.service.ListWeeks(c.Request.Context(), c.Param("siteId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, weeks, nil)
}

// CreateWeek godoc
// @Summary Add a week of working days
// @Tags Calendar
// @Accept json
// @Produce json
// @Param siteId path string true "Site ID"
// @Param payload body dto.CreateWeekRequest true "Week payload"
// @Success 201 {object} response.Envelope
// @Router /sites/{siteId}/weeks [post]
func (h *CalendarHandler) CreateWeek(c *gin.Context) {
	var req dto.CreateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid week payload"))
		return
	}
	req.SiteID = c.Param("siteId")
	week, err := h.service.CreateWeek(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, week)
}

// DeleteWeek godoc
// @Summary Delete a week
// @Tags Calendar
// @Param siteId path string true "Site ID"
// @Param id path string true "Week ID"
// @Success 204
// @Router /sites/{siteId}/weeks/{id} [delete]
func (h *CalendarHandler) DeleteWeek(c *gin.Context) {
	if err := h.service.DeleteWeek(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListClassrooms godoc
// @Summary List a site's classrooms
// @Tags Calendar
// @Produce json
// @Param siteId path string true "Site ID"
// @Success 200 {object} response.Envelope
// @Router /sites/{siteId}/classrooms [get]
func (h *CalendarHandler) ListClassrooms(c *gin.Context) {
	classrooms, err := h.service.ListClassrooms(c.Request.Context(), c.Param("siteId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classrooms, nil)
}

// CreateClassroom godoc
// @Summary Add a classroom
// @Tags Calendar
// @Accept json
// @Produce json
// @Param siteId path string true "Site ID"
// @Param payload body dto.CreateClassroomRequest true "Classroom payload"
// @Success 201 {object} response.Envelope
// @Router /sites/{siteId}/classrooms [post]
func (h *CalendarHandler) CreateClassroom(c *gin.Context) {
	var req dto.CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid classroom payload"))
		return
	}
	req.SiteID = c.Param("siteId")
	classroom, err := h.service.CreateClassroom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, classroom)
}
