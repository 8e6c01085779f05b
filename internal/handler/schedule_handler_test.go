package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aim-high/checkout-api/internal/middleware"
	"github.com/aim-high/checkout-api/internal/models"
	"github.com/aim-high/checkout-api/internal/schedule"
	"github.com/aim-high/checkout-api/internal/service"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
)

type scheduleServiceMock struct {
	plan    *schedule.Plan
	planErr error
	day     []service.SchedulePeriodRow
	csv     []byte
	pdf     []byte
}

func (m *scheduleServiceMock) MovementPlan(ctx context.Context, siteID string, date time.Time) (*schedule.Plan, error) {
	if m.planErr != nil {
		return nil, m.planErr
	}
	return m.plan, nil
}

func (m *scheduleServiceMock) DaySchedule(ctx context.Context, siteID string, date time.Time) ([]service.SchedulePeriodRow, error) {
	return m.day, nil
}

func (m *scheduleServiceMock) ExportCSV(ctx context.Context, siteID string, date time.Time) ([]byte, error) {
	return m.csv, nil
}

func (m *scheduleServiceMock) ExportPDF(ctx context.Context, siteID string, date time.Time) ([]byte, error) {
	return m.pdf, nil
}

func scheduleTestContext(t *testing.T, method, target string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	c.Request = req
	c.Params = gin.Params{
		{Key: "siteId", Value: "site-1"},
		{Key: "date", Value: "2026-06-22"},
	}
	return w, c
}

func TestScheduleHandlerMovements(t *testing.T) {
	mock := &scheduleServiceMock{plan: &schedule.Plan{
		Periods: []schedule.PeriodMovements{
			{Period: schedule.Period{Number: 0, Name: "Before Period 1"}},
		},
	}}
	handler := NewScheduleHandler(mock, true)
	w, c := scheduleTestContext(t, http.MethodGet, "/sites/site-1/schedule/2026-06-22/movements")

	handler.Movements(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data schedule.Plan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Periods, 1)
	assert.Equal(t, "Before Period 1", envelope.Data.Periods[0].Name)
}

func TestScheduleHandlerMovementsRejectsBadDate(t *testing.T) {
	handler := NewScheduleHandler(&scheduleServiceMock{}, true)
	w, c := scheduleTestContext(t, http.MethodGet, "/sites/site-1/schedule/today/movements")
	c.Params = gin.Params{
		{Key: "siteId", Value: "site-1"},
		{Key: "date", Value: "today"},
	}

	handler.Movements(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerMissingCalendarHintsStaff(t *testing.T) {
	mock := &scheduleServiceMock{planErr: appErrors.Clone(appErrors.ErrConfigurationMissing, "")}
	handler := NewScheduleHandler(mock, true)

	w, c := scheduleTestContext(t, http.MethodGet, "/sites/site-1/schedule/2026-06-22/movements")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Staff: true})
	handler.Movements(c)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Contains(t, w.Body.String(), "add periods")

	w, c = scheduleTestContext(t, http.MethodGet, "/sites/site-1/schedule/2026-06-22/movements")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-2"})
	handler.Movements(c)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Contains(t, w.Body.String(), "contact site staff")
	assert.NotContains(t, w.Body.String(), "add periods")
}

func TestScheduleHandlerExportCSV(t *testing.T) {
	mock := &scheduleServiceMock{csv: []byte("Period,Item\n")}
	handler := NewScheduleHandler(mock, true)
	w, c := scheduleTestContext(t, http.MethodGet, "/sites/site-1/schedule/2026-06-22/movements.csv")

	handler.ExportCSV(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "movements-2026-06-22.csv")
}

func TestScheduleHandlerExportsDisabled(t *testing.T) {
	handler := NewScheduleHandler(&scheduleServiceMock{}, false)
	w, c := scheduleTestContext(t, http.MethodGet, "/sites/site-1/schedule/2026-06-22/movements.pdf")

	handler.ExportPDF(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
