package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aim-high/checkout-api/internal/models"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
)

type reservationListStub struct {
	details []models.ReservationDetail
	calls   int
}

func (s *reservationListStub) ListDetails(ctx context.Context, filter models.ReservationFilter) ([]models.ReservationDetail, error) {
	s.calls++
	return s.details, nil
}

type mapCacheStub struct {
	entries map[string]string
}

func newMapCache() *mapCacheStub {
	return &mapCacheStub{entries: map[string]string{}}
}

func (c *mapCacheStub) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok := c.entries[key]
	return value, ok, nil
}

func (c *mapCacheStub) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *mapCacheStub) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func scheduleFixtureDetails() []models.ReservationDetail {
	return []models.ReservationDetail{
		{
			Reservation: models.Reservation{
				ID: "res-1", SiteSKUID: "ss-1", ClassroomID: "room-101",
				PeriodID: "p1", Units: 3, Purpose: "Lab practice",
			},
			ClassroomCode: "101",
			PeriodNumber:  1,
			TeamSubject:   "Biology",
		},
	}
}

func newScheduleFixture(cache planCache) (*ScheduleService, *reservationListStub) {
	calendar := newCalendarService(&periodRepoStub{periods: []models.Period{
		{ID: "p1", SiteID: "site-1", Number: 1, Name: "Period 1"},
		{ID: "p2", SiteID: "site-1", Number: 2, Name: "Period 2"},
	}}, &weekRepoStub{})
	skus := &siteSKURepoStub{allocations: []models.SiteSKUDetail{allocationDetail("ss-1", "Chromebook", 5)}}
	reservations := &reservationListStub{details: scheduleFixtureDetails()}
	service := NewScheduleService(calendar, skus, reservations, cache, nil, nil, ScheduleServiceConfig{
		CacheEnabled: cache != nil,
		CacheTTL:     time.Minute,
	})
	return service, reservations
}

func TestMovementPlanComputesFromLedger(t *testing.T) {
	service, _ := newScheduleFixture(nil)
	date := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)

	plan, err := service.MovementPlan(context.Background(), "site-1", date)
	require.NoError(t, err)
	require.Len(t, plan.Periods, 3)
	assert.Empty(t, plan.Warnings)

	before1 := plan.Periods[0]
	assert.Equal(t, "Before Period 1", before1.Name)
	require.Len(t, before1.Movements, 1)
	assert.Equal(t, 3, before1.Movements[0].Units)
	assert.Equal(t, "101", before1.Movements[0].Destination.Name)
	assert.Contains(t, before1.Movements[0].Note, "Biology")

	// Leftovers return home between periods and nothing remains for cleanup.
	require.Len(t, plan.Periods[1].Movements, 1)
	assert.True(t, plan.Periods[1].Movements[0].Destination.Storage)
	assert.Empty(t, plan.Periods[2].Movements)
}

func TestMovementPlanUsesCache(t *testing.T) {
	cache := newMapCache()
	service, reservations := newScheduleFixture(cache)
	date := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)

	first, err := service.MovementPlan(context.Background(), "site-1", date)
	require.NoError(t, err)
	require.Equal(t, 1, reservations.calls)

	second, err := service.MovementPlan(context.Background(), "site-1", date)
	require.NoError(t, err)
	assert.Equal(t, 1, reservations.calls, "second read should come from cache")
	assert.Equal(t, first, second)
}

func TestInvalidateDayDropsCacheEntry(t *testing.T) {
	cache := newMapCache()
	service, reservations := newScheduleFixture(cache)
	date := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)

	_, err := service.MovementPlan(context.Background(), "site-1", date)
	require.NoError(t, err)
	require.Len(t, cache.entries, 1)

	service.InvalidateDay(context.Background(), "site-1", date)
	assert.Empty(t, cache.entries)

	_, err = service.MovementPlan(context.Background(), "site-1", date)
	require.NoError(t, err)
	assert.Equal(t, 2, reservations.calls)
}

func TestDayScheduleBuildsPeriodRows(t *testing.T) {
	service, _ := newScheduleFixture(nil)
	date := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)

	rows, err := service.DaySchedule(context.Background(), "site-1", date)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "Period 1", first.Period.Name)
	require.Len(t, first.Availability, 1)
	assert.Equal(t, 2, first.Availability[0].Free)
	require.Len(t, first.Reservations, 1)
	assert.Equal(t, "res-1", first.Reservations[0].ID)

	second := rows[1]
	assert.Equal(t, "Period 2", second.Period.Name)
	assert.Equal(t, 5, second.Availability[0].Free)
	assert.Empty(t, second.Reservations)
}

func TestMovementPlanRequiresPeriods(t *testing.T) {
	calendar := newCalendarService(&periodRepoStub{}, &weekRepoStub{})
	skus := &siteSKURepoStub{}
	service := NewScheduleService(calendar, skus, &reservationListStub{}, nil, nil, nil, ScheduleServiceConfig{})

	_, err := service.MovementPlan(context.Background(), "site-1", time.Now())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConfigurationMissing.Code, appErrors.FromError(err).Code)
}

func TestExportCSVListsMovements(t *testing.T) {
	service, _ := newScheduleFixture(nil)
	date := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)

	data, err := service.ExportCSV(context.Background(), "site-1", date)
	require.NoError(t, err)
	csv := string(data)
	assert.Contains(t, csv, "Period,Item,Units,From,To,Note")
	assert.Contains(t, csv, "Before Period 1")
	assert.Contains(t, csv, "Chromebook")
	assert.Contains(t, csv, "101")
}

func TestExportPDFRenders(t *testing.T) {
	service, _ := newScheduleFixture(nil)
	date := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)

	data, err := service.ExportPDF(context.Background(), "site-1", date)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}
