package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aim-high/checkout-api/internal/dto"
	"github.com/aim-high/checkout-api/internal/middleware"
	"github.com/aim-high/checkout-api/internal/models"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
)

type reservationServiceMock struct {
	listResp   []models.ReservationDetail
	listFilter models.ReservationFilter
	createResp []*models.Reservation
	createErr  error
	deleteErr  error
}

func (m *reservationServiceMock) List(ctx context.Context, filter models.ReservationFilter) ([]models.ReservationDetail, error) {
	m.listFilter = filter
	return m.listResp, nil
}

func (m *reservationServiceMock) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateReservationRequest) ([]*models.Reservation, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.createResp, nil
}

func (m *reservationServiceMock) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	return m.deleteErr
}

func TestReservationHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reservationServiceMock{createResp: []*models.Reservation{{ID: "res-1"}, {ID: "res-2"}}}
	handler := NewReservationHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateReservationRequest{
		SiteSKUID:   "ss-1",
		ClassroomID: "room-1",
		Dates:       []string{"2026-06-22"},
		PeriodIDs:   []string{"p-1", "p-2"},
		Units:       3,
		Purpose:     "Biology",
	})
	req, _ := http.NewRequest(http.MethodPost, "/reservations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1"})

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data []models.Reservation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
}

func TestReservationHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReservationHandler(&reservationServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/reservations", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1"})

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationHandlerCreateCapacityConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reservationServiceMock{createErr: appErrors.Clone(appErrors.ErrCapacityExceeded, "only 0 units free on 2026-06-22")}
	handler := NewReservationHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateReservationRequest{
		SiteSKUID:   "ss-1",
		ClassroomID: "room-1",
		Dates:       []string{"2026-06-22"},
		PeriodIDs:   []string{"p-1"},
		Units:       3,
		Purpose:     "Biology",
	})
	req, _ := http.NewRequest(http.MethodPost, "/reservations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1"})

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CAPACITY_EXCEEDED")
}

func TestReservationHandlerListParsesFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reservationServiceMock{}
	handler := NewReservationHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/reservations?site_id=site-1&date=2026-06-22&period_id=p-1", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "site-1", mock.listFilter.SiteID)
	assert.Equal(t, "p-1", mock.listFilter.PeriodID)
	assert.Equal(t, "2026-06-22", mock.listFilter.Date.Format("2006-01-02"))
}

func TestReservationHandlerListRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReservationHandler(&reservationServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/reservations?date=22-06-2026", nil)
	c.Request = req

	handler.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReservationHandler(&reservationServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/reservations/res-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "res-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1"})

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
}
