package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aim-high/checkout-api/internal/models"
	"github.com/aim-high/checkout-api/internal/schedule"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
	"github.com/aim-high/checkout-api/pkg/export"
	"github.com/aim-high/checkout-api/pkg/jobs"
)

type scheduleSiteSKUReader interface {
	ListBySite(ctx context.Context, siteID string) ([]models.SiteSKUDetail, error)
}

type scheduleReservationReader interface {
	ListDetails(ctx context.Context, filter models.ReservationFilter) ([]models.ReservationDetail, error)
}

// planCache stores rendered plans keyed by site and date.
type planCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisPlanCache adapts a redis client to the planCache interface.
type RedisPlanCache struct {
	client *redis.Client
}

// NewRedisPlanCache wraps a redis client for schedule caching.
func NewRedisPlanCache(client *redis.Client) *RedisPlanCache {
	return &RedisPlanCache{client: client}
}

func (c *RedisPlanCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (c *RedisPlanCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisPlanCache) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// ScheduleServiceConfig tunes plan caching and background warming.
type ScheduleServiceConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	WarmWorkers  int
}

// warmPayload names the plan a warm job recomputes.
type warmPayload struct {
	SiteID string
	Date   time.Time
}

// ScheduleService turns the day's ledger into movement plans: it snapshots
// periods, allocations and reservations, runs the planner, caches the result
// and rewarms the cache in the background after ledger writes.
type ScheduleService struct {
	calendar     *CalendarService
	siteSKUs     scheduleSiteSKUReader
	reservations scheduleReservationReader
	cache        planCache
	metrics      *MetricsService
	logger       *zap.Logger
	cfg          ScheduleServiceConfig

	csv   *export.CSVExporter
	pdf   *export.PDFExporter
	queue *jobs.Queue
}

// NewScheduleService constructs a ScheduleService. Cache and metrics may be
// nil; the service then computes every plan on demand.
func NewScheduleService(calendar *CalendarService, siteSKUs scheduleSiteSKUReader, reservations scheduleReservationReader, cache planCache, metrics *MetricsService, logger *zap.Logger, cfg ScheduleServiceConfig) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.WarmWorkers <= 0 {
		cfg.WarmWorkers = 1
	}

	s := &ScheduleService{
		calendar:     calendar,
		siteSKUs:     siteSKUs,
		reservations: reservations,
		cache:        cache,
		metrics:      metrics,
		logger:       logger,
		cfg:          cfg,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
	}
	s.queue = jobs.NewQueue("schedule-warm", s.handleWarmJob, jobs.QueueConfig{
		Workers: cfg.WarmWorkers,
		Logger:  logger,
	})
	return s
}

// Start launches the background warm workers.
func (s *ScheduleService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the warm workers.
func (s *ScheduleService) Stop() {
	s.queue.Stop()
}

// MovementPlan returns the movement schedule for one site and date, from
// cache when possible.
func (s *ScheduleService) MovementPlan(ctx context.Context, siteID string, date time.Time) (*schedule.Plan, error) {
	key := planKey(siteID, date)

	if s.cacheEnabled() {
		cached, hit, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("schedule cache read failed", zap.Error(err))
		} else {
			s.metrics.RecordScheduleCache(hit)
			if hit {
				var plan schedule.Plan
				if err := json.Unmarshal([]byte(cached), &plan); err == nil {
					return &plan, nil
				}
				s.logger.Warn("schedule cache entry corrupt, recomputing", zap.String("key", key))
			}
		}
	}

	plan, err := s.compute(ctx, siteID, date)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if encoded, err := json.Marshal(plan); err == nil {
			if err := s.cache.Set(ctx, key, string(encoded), s.cfg.CacheTTL); err != nil {
				s.logger.Warn("schedule cache write failed", zap.Error(err))
			}
		}
	}
	return plan, nil
}

// ScheduleAllocationFree is one allocation's free count within a period row.
type ScheduleAllocationFree struct {
	Allocation models.SiteSKUDetail `json:"allocation"`
	Free       int                  `json:"free"`
}

// SchedulePeriodRow is one period of the day view: per-allocation free counts
// alongside the period's reservations.
type SchedulePeriodRow struct {
	Period       models.Period              `json:"period"`
	Availability []ScheduleAllocationFree   `json:"availability"`
	Reservations []models.ReservationDetail `json:"reservations"`
}

// DaySchedule returns the day's reservation grid for the site, one row per
// period in schedule order.
func (s *ScheduleService) DaySchedule(ctx context.Context, siteID string, date time.Time) ([]SchedulePeriodRow, error) {
	periods, err := s.calendar.OrderedPeriods(ctx, siteID)
	if err != nil {
		return nil, err
	}
	allocations, err := s.siteSKUs.ListBySite(ctx, siteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load allocations")
	}
	reservations, err := s.reservations.ListDetails(ctx, models.ReservationFilter{SiteID: siteID, Date: date})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}

	reserved := make(map[string]int, len(reservations))
	byPeriod := make(map[string][]models.ReservationDetail, len(periods))
	for _, r := range reservations {
		reserved[r.SiteSKUID+"/"+r.PeriodID] += r.Units
		byPeriod[r.PeriodID] = append(byPeriod[r.PeriodID], r)
	}

	rows := make([]SchedulePeriodRow, 0, len(periods))
	for _, period := range periods {
		row := SchedulePeriodRow{
			Period:       period,
			Availability: make([]ScheduleAllocationFree, 0, len(allocations)),
			Reservations: byPeriod[period.ID],
		}
		for _, allocation := range allocations {
			free := allocation.Units - reserved[allocation.ID+"/"+period.ID]
			if free < 0 {
				free = 0
			}
			row.Availability = append(row.Availability, ScheduleAllocationFree{Allocation: allocation, Free: free})
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// InvalidateDay drops the cached plan for one site and date and queues a
// background recomputation.
func (s *ScheduleService) InvalidateDay(ctx context.Context, siteID string, date time.Time) {
	if s.cacheEnabled() {
		if err := s.cache.Del(ctx, planKey(siteID, date)); err != nil {
			s.logger.Warn("schedule cache invalidation failed", zap.Error(err))
		}
	}
	if err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "warm-plan",
		Payload: warmPayload{SiteID: siteID, Date: date},
	}); err != nil {
		s.logger.Debug("schedule warm not queued", zap.Error(err))
	}
}

// ExportCSV renders the day's movement plan as a flat CSV.
func (s *ScheduleService) ExportCSV(ctx context.Context, siteID string, date time.Time) ([]byte, error) {
	plan, err := s.MovementPlan(ctx, siteID, date)
	if err != nil {
		return nil, err
	}

	headers := []string{"Period", "Item", "Units", "From", "To", "Note"}
	dataset := export.Dataset{Headers: headers}
	for _, pm := range plan.Periods {
		for _, m := range pm.Movements {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Period": pm.Name,
				"Item":   m.SKUName,
				"Units":  strconv.Itoa(m.Units),
				"From":   m.Origin.Name,
				"To":     m.Destination.Name,
				"Note":   m.Note,
			})
		}
	}
	return s.csv.Render(dataset)
}

// ExportPDF renders the day's movement plan as a printable PDF, one table per
// movement period.
func (s *ScheduleService) ExportPDF(ctx context.Context, siteID string, date time.Time) ([]byte, error) {
	plan, err := s.MovementPlan(ctx, siteID, date)
	if err != nil {
		return nil, err
	}

	headers := []string{"Item", "Units", "From", "To", "Note"}
	sections := make([]export.Section, 0, len(plan.Periods))
	for _, pm := range plan.Periods {
		section := export.Section{Title: pm.Name, Data: export.Dataset{Headers: headers}}
		for _, m := range pm.Movements {
			section.Data.Rows = append(section.Data.Rows, map[string]string{
				"Item":  m.SKUName,
				"Units": strconv.Itoa(m.Units),
				"From":  m.Origin.Name,
				"To":    m.Destination.Name,
				"Note":  m.Note,
			})
		}
		sections = append(sections, section)
	}
	title := fmt.Sprintf("Movement schedule %s", date.Format(dateLayout))
	return s.pdf.Render(sections, title)
}

func (s *ScheduleService) compute(ctx context.Context, siteID string, date time.Time) (*schedule.Plan, error) {
	periods, err := s.calendar.OrderedPeriods(ctx, siteID)
	if err != nil {
		return nil, err
	}

	allocations, err := s.siteSKUs.ListBySite(ctx, siteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load allocations")
	}

	reservations, err := s.reservations.ListDetails(ctx, models.ReservationFilter{SiteID: siteID, Date: date})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}

	base := make([]schedule.Period, 0, len(periods))
	for _, p := range periods {
		base = append(base, schedule.Period{Number: p.Number, Name: p.Name})
	}

	demands := make(map[string][]schedule.Demand, len(allocations))
	for _, r := range reservations {
		demands[r.SiteSKUID] = append(demands[r.SiteSKUID], schedule.Demand{
			ReservationID: r.ID,
			PeriodNumber:  r.PeriodNumber,
			Units:         r.Units,
			Destination:   schedule.Location{ID: r.ClassroomID, Name: r.ClassroomCode},
			Note:          fmt.Sprintf("%s: %s", r.TeamSubject, r.Purpose),
		})
	}

	snapshot := make([]schedule.Allocation, 0, len(allocations))
	for _, a := range allocations {
		snapshot = append(snapshot, schedule.Allocation{
			ID:              a.ID,
			SKUName:         a.DisplayName,
			Units:           a.Units,
			StorageLocation: a.StorageLocation,
			Demands:         demands[a.ID],
		})
	}

	start := time.Now()
	plan := schedule.BuildPlan(base, snapshot)
	elapsed := time.Since(start)

	movements := 0
	for _, pm := range plan.Periods {
		movements += len(pm.Movements)
	}
	s.metrics.ObservePlanBuild(elapsed, movements, len(plan.Warnings))

	for _, w := range plan.Warnings {
		s.logger.Warn("demand could not be fully sourced",
			zap.String("site_id", siteID),
			zap.String("reservation_id", w.ReservationID),
			zap.String("sku", w.SKUName),
			zap.Int("units_short", w.UnitsShort))
	}

	s.logger.Debug("movement plan computed",
		zap.String("site_id", siteID),
		zap.String("date", date.Format(dateLayout)),
		zap.Int("movements", movements),
		zap.Duration("elapsed", elapsed))
	return &plan, nil
}

func (s *ScheduleService) handleWarmJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(warmPayload)
	if !ok {
		return fmt.Errorf("unexpected warm payload %T", job.Payload)
	}
	_, err := s.MovementPlan(ctx, payload.SiteID, payload.Date)
	return err
}

func (s *ScheduleService) cacheEnabled() bool {
	return s.cfg.CacheEnabled && s.cache != nil
}

func planKey(siteID string, date time.Time) string {
	return fmt.Sprintf("schedule:%s:%s", siteID, date.Format(dateLayout))
}
