package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aim-high/checkout-api/internal/dto"
	"github.com/aim-high/checkout-api/internal/models"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
)

type availabilitySiteSKURepository interface {
	FindByID(ctx context.Context, id string) (*models.SiteSKUDetail, error)
	ListBySite(ctx context.Context, siteID string) ([]models.SiteSKUDetail, error)
}

type availabilityReservationReader interface {
	SumUnits(ctx context.Context, siteSKUID string, date time.Time, periodID string) (int, error)
}

// PeriodAvailability is the free unit count for one period of the day.
type PeriodAvailability struct {
	Period models.Period `json:"period"`
	Free   int           `json:"free"`
}

// AllocationAvailability is one allocation's free units across the whole day.
type AllocationAvailability struct {
	Allocation models.SiteSKUDetail `json:"allocation"`
	Periods    []PeriodAvailability `json:"periods"`
}

// AllocationPick is the outcome of the best-allocation heuristic.
type AllocationPick struct {
	Allocation models.SiteSKUDetail `json:"allocation"`
	AvgFree    float64              `json:"avg_free"`
}

// AvailabilityService computes free units from capacity minus committed
// reservations. Availability is advisory; the create transaction re-checks
// under a row lock.
type AvailabilityService struct {
	siteSKUs     availabilitySiteSKURepository
	reservations availabilityReservationReader
	calendar     *CalendarService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(siteSKUs availabilitySiteSKURepository, reservations availabilityReservationReader, calendar *CalendarService, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		siteSKUs:     siteSKUs,
		reservations: reservations,
		calendar:     calendar,
		validator:    validate,
		logger:       logger,
	}
}

// Free returns the unreserved units of one allocation in one slot, floored at
// zero so legacy over-commitments surface as "nothing free" rather than a
// negative count.
func (s *AvailabilityService) Free(ctx context.Context, siteSKUID string, date time.Time, periodID string) (int, error) {
	allocation, err := s.siteSKUs.FindByID(ctx, siteSKUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "allocation not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load allocation")
	}

	reserved, err := s.reservations.SumUnits(ctx, siteSKUID, date, periodID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum reservations")
	}

	free := allocation.Units - reserved
	if free < 0 {
		free = 0
	}
	return free, nil
}

// DayAvailability returns one allocation's free units for every period of the
// day.
func (s *AvailabilityService) DayAvailability(ctx context.Context, siteSKUID string, date time.Time) ([]PeriodAvailability, error) {
	allocation, err := s.siteSKUs.FindByID(ctx, siteSKUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load allocation")
	}

	periods, err := s.calendar.OrderedPeriods(ctx, allocation.SiteID)
	if err != nil {
		return nil, err
	}

	out := make([]PeriodAvailability, 0, len(periods))
	for _, period := range periods {
		free, err := s.Free(ctx, siteSKUID, date, period.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, PeriodAvailability{Period: period, Free: free})
	}
	return out, nil
}

// SiteAvailability returns the day's free-unit grid for every allocation at
// the site, optionally filtered to one SKU type. Each cell starts at the
// allocation's units and subtracts committed reservations, floored at zero.
func (s *AvailabilityService) SiteAvailability(ctx context.Context, siteID string, date time.Time, typeID string) ([]AllocationAvailability, error) {
	periods, err := s.calendar.OrderedPeriods(ctx, siteID)
	if err != nil {
		return nil, err
	}

	allocations, err := s.siteSKUs.ListBySite(ctx, siteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load allocations")
	}

	out := make([]AllocationAvailability, 0, len(allocations))
	for _, allocation := range allocations {
		if typeID != "" && allocation.TypeID != typeID {
			continue
		}

		row := AllocationAvailability{Allocation: allocation, Periods: make([]PeriodAvailability, 0, len(periods))}
		for _, period := range periods {
			reserved, err := s.reservations.SumUnits(ctx, allocation.ID, date, period.ID)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum reservations")
			}
			free := allocation.Units - reserved
			if free < 0 {
				free = 0
			}
			row.Periods = append(row.Periods, PeriodAvailability{Period: period, Free: free})
		}
		out = append(out, row)
	}
	return out, nil
}

// PickBestAllocation suggests the allocation to book for a request starting
// in the selected period. Candidates need free units in the selected period;
// among them the highest average free count across the selected and all later
// periods of the day wins, so items that stay in stock for the rest of the day
// are preferred. Ties break on display name.
func (s *AvailabilityService) PickBestAllocation(ctx context.Context, req dto.PickAllocationRequest) (*AllocationPick, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pick payload")
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must use the 2006-01-02 layout")
	}

	periods, err := s.calendar.OrderedPeriods(ctx, req.SiteID)
	if err != nil {
		return nil, err
	}
	var selected *models.Period
	for i := range periods {
		if periods[i].ID == req.PeriodID {
			selected = &periods[i]
			break
		}
	}
	if selected == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period does not belong to this site")
	}

	window := make([]models.Period, 0, len(periods))
	for _, period := range periods {
		if period.Number >= selected.Number {
			window = append(window, period)
		}
	}

	allocations, err := s.siteSKUs.ListBySite(ctx, req.SiteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load allocations")
	}

	type candidate struct {
		allocation models.SiteSKUDetail
		avgFree    float64
	}
	var candidates []candidate

	for _, allocation := range allocations {
		if req.TypeID != "" && allocation.TypeID != req.TypeID {
			continue
		}

		totalFree := 0
		selectedFree := 0
		for _, period := range window {
			reserved, err := s.reservations.SumUnits(ctx, allocation.ID, date, period.ID)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum reservations")
			}
			free := allocation.Units - reserved
			if free < 0 {
				free = 0
			}
			if period.ID == req.PeriodID {
				selectedFree = free
			}
			totalFree += free
		}
		if selectedFree == 0 {
			continue
		}
		candidates = append(candidates, candidate{
			allocation: allocation,
			avgFree:    float64(totalFree) / float64(len(window)),
		})
	}

	if len(candidates) == 0 {
		return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "no allocation has free units in the selected period")
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].avgFree != candidates[j].avgFree {
			return candidates[i].avgFree > candidates[j].avgFree
		}
		return candidates[i].allocation.DisplayName < candidates[j].allocation.DisplayName
	})

	best := candidates[0]
	return &AllocationPick{Allocation: best.allocation, AvgFree: best.avgFree}, nil
}
