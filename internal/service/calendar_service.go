package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aim-high/checkout-api/internal/dto"
	"github.com/aim-high/checkout-api/internal/models"
	"github.com/aim-high/checkout-api/internal/repository"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type calendarPeriodRepository interface {
	ListBySite(ctx context.Context, siteID string) ([]models.Period, error)
	Create(ctx context.Context, period *models.Period) error
}

type calendarWeekRepository interface {
	ListBySite(ctx context.Context, siteID string) ([]models.Week, error)
	FindBySiteAndDate(ctx context.Context, siteID string, date time.Time) (*models.Week, error)
	Create(ctx context.Context, week *models.Week) error
	Delete(ctx context.Context, id string) error
}

type calendarClassroomRepository interface {
	ListBySite(ctx context.Context, siteID string) ([]models.Classroom, error)
	Create(ctx context.Context, classroom *models.Classroom) error
}

// CalendarServiceConfig tunes week creation.
type CalendarServiceConfig struct {
	MaxHolidays int
}

// CalendarService manages a site's scheduling calendar: its ordered periods,
// its weeks of working days and its classrooms.
type CalendarService struct {
	periods     calendarPeriodRepository
	weeks       calendarWeekRepository
	classrooms  calendarClassroomRepository
	validator   *validator.Validate
	logger      *zap.Logger
	maxHolidays int
}

// NewCalendarService constructs a CalendarService.
func NewCalendarService(periods calendarPeriodRepository, weeks calendarWeekRepository, classrooms calendarClassroomRepository, validate *validator.Validate, logger *zap.Logger, cfg CalendarServiceConfig) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxHolidays <= 0 {
		cfg.MaxHolidays = 4
	}
	return &CalendarService{
		periods:     periods,
		weeks:       weeks,
		classrooms:  classrooms,
		validator:   validate,
		logger:      logger,
		maxHolidays: cfg.MaxHolidays,
	}
}

// OrderedPeriods returns a site's periods in schedule order. A site with no
// periods has no usable calendar, which callers treat as a configuration
// problem rather than an empty result.
func (s *CalendarService) OrderedPeriods(ctx context.Context, siteID string) ([]models.Period, error) {
	periods, err := s.periods.ListBySite(ctx, siteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load periods")
	}
	if len(periods) == 0 {
		return nil, appErrors.Clone(appErrors.ErrConfigurationMissing, "site has no periods configured")
	}
	return periods, nil
}

// CreatePeriod adds a period to a site's calendar.
func (s *CalendarService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload")
	}

	period := &models.Period{SiteID: req.SiteID, Number: req.Number, Name: req.Name}
	if err := s.periods.Create(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create period")
	}
	return period, nil
}

// ListWeeks returns a site's weeks with their working days.
func (s *CalendarService) ListWeeks(ctx context.Context, siteID string) ([]models.Week, error) {
	weeks, err := s.weeks.ListBySite(ctx, siteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weeks")
	}
	return weeks, nil
}

// WeekForDate returns the site week containing the given working day.
func (s *CalendarService) WeekForDate(ctx context.Context, siteID string, date time.Time) (*models.Week, error) {
	week, err := s.weeks.FindBySiteAndDate(ctx, siteID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no week covers that date")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load week")
	}
	return week, nil
}

// CreateWeek expands a date range into working days, dropping weekends and
// the listed holidays, and persists the result.
func (s *CalendarService) CreateWeek(ctx context.Context, req dto.CreateWeekRequest) (*models.Week, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid week payload")
	}
	if len(req.Holidays) > s.maxHolidays {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d holidays per week", s.maxHolidays))
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must use the 2006-01-02 layout")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must use the 2006-01-02 layout")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date precedes start_date")
	}

	holidays := make(map[string]struct{}, len(req.Holidays))
	for _, raw := range req.Holidays {
		holiday, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "holidays must use the 2006-01-02 layout")
		}
		if holiday.Before(start) || holiday.After(end) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "holidays must fall inside the week range")
		}
		holidays[raw] = struct{}{}
	}

	var days []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		if _, skip := holidays[day.Format(dateLayout)]; skip {
			continue
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "week has no working days")
	}

	week := &models.Week{SiteID: req.SiteID, WeekNumber: req.WeekNumber, Days: days}
	if err := s.weeks.Create(ctx, week); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create week")
	}

	s.logger.Info("week created",
		zap.String("site_id", week.SiteID),
		zap.Int("week_number", week.WeekNumber),
		zap.Int("working_days", len(days)))
	return week, nil
}

// DeleteWeek removes a week and its working days.
func (s *CalendarService) DeleteWeek(ctx context.Context, id string) error {
	if err := s.weeks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "week not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete week")
	}
	return nil
}

// ListClassrooms returns a site's classrooms.
func (s *CalendarService) ListClassrooms(ctx context.Context, siteID string) ([]models.Classroom, error) {
	classrooms, err := s.classrooms.ListBySite(ctx, siteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	return classrooms, nil
}

// CreateClassroom adds a classroom to a site.
func (s *CalendarService) CreateClassroom(ctx context.Context, req dto.CreateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}

	classroom := &models.Classroom{SiteID: req.SiteID, Code: req.Code, Name: req.Name}
	if err := s.classrooms.Create(ctx, classroom); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create classroom")
	}
	return classroom, nil
}
