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

type reservationRepository interface {
	ListDetails(ctx context.Context, filter models.ReservationFilter) ([]models.ReservationDetail, error)
	FindDetailByID(ctx context.Context, id string) (*models.ReservationDetail, error)
	CreateMulti(ctx context.Context, reservations []*models.Reservation) error
	Delete(ctx context.Context, id string) error
}

type reservationTeamRepository interface {
	FindByID(ctx context.Context, id string) (*models.Team, error)
	FindByMember(ctx context.Context, siteID, userID string) (*models.Team, error)
	Create(ctx context.Context, team *models.Team) error
}

type reservationSiteSKUReader interface {
	FindByID(ctx context.Context, id string) (*models.SiteSKUDetail, error)
}

type reservationUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// scheduleInvalidator drops cached movement plans whose inputs changed.
type scheduleInvalidator interface {
	InvalidateDay(ctx context.Context, siteID string, date time.Time)
}

// ReservationService owns the reservation ledger: creating all-or-nothing
// batches, listing and deleting. Capacity enforcement lives in the repository
// transaction; this layer resolves the caller's team and permissions.
type ReservationService struct {
	reservations reservationRepository
	teams        reservationTeamRepository
	siteSKUs     reservationSiteSKUReader
	users        reservationUserReader
	schedules    scheduleInvalidator
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewReservationService constructs a ReservationService. The invalidator may
// be nil when schedule caching is disabled.
func NewReservationService(reservations reservationRepository, teams reservationTeamRepository, siteSKUs reservationSiteSKUReader, users reservationUserReader, schedules scheduleInvalidator, validate *validator.Validate, logger *zap.Logger) *ReservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationService{
		reservations: reservations,
		teams:        teams,
		siteSKUs:     siteSKUs,
		users:        users,
		schedules:    schedules,
		validator:    validate,
		logger:       logger,
	}
}

// List returns reservations matching the filter.
func (s *ReservationService) List(ctx context.Context, filter models.ReservationFilter) ([]models.ReservationDetail, error) {
	reservations, err := s.reservations.ListDetails(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}
	return reservations, nil
}

// Create books the full (dates x periods) batch for the caller's team, or
// nothing at all. A caller without a team gets a solo team created on the
// spot.
func (s *ReservationService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateReservationRequest) ([]*models.Reservation, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing caller identity")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reservation payload")
	}

	dates := make([]time.Time, 0, len(req.Dates))
	for _, raw := range req.Dates {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "dates must use the 2006-01-02 layout")
		}
		dates = append(dates, date)
	}

	allocation, err := s.siteSKUs.FindByID(ctx, req.SiteSKUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load allocation")
	}
	if req.Units > allocation.Units {
		return nil, appErrors.Clone(appErrors.ErrCapacityExceeded,
			fmt.Sprintf("requested %d units but the site only holds %d", req.Units, allocation.Units))
	}

	team, err := s.resolveTeam(ctx, allocation.SiteID, claims.UserID)
	if err != nil {
		return nil, err
	}

	batch := make([]*models.Reservation, 0, len(dates)*len(req.PeriodIDs))
	for _, date := range dates {
		for _, periodID := range req.PeriodIDs {
			batch = append(batch, &models.Reservation{
				TeamID:        team.ID,
				SiteSKUID:     req.SiteSKUID,
				ClassroomID:   req.ClassroomID,
				Date:          date,
				PeriodID:      periodID,
				Units:         req.Units,
				Purpose:       req.Purpose,
				Collaborative: req.Collaborative,
				CreatorID:     claims.UserID,
				Comment:       req.Comment,
			})
		}
	}

	if err := s.reservations.CreateMulti(ctx, batch); err != nil {
		var capErr *repository.CapacityError
		var dupErr *repository.DuplicateError
		switch {
		case errors.As(err, &capErr):
			return nil, appErrors.Clone(appErrors.ErrCapacityExceeded,
				fmt.Sprintf("only %d units free in period %s on %s", capErr.Free, capErr.PeriodID, capErr.Date.Format(dateLayout)))
		case errors.As(err, &dupErr):
			return nil, appErrors.Clone(appErrors.ErrDuplicateReservation,
				fmt.Sprintf("an identical reservation already exists for classroom %s in period %s on %s",
					dupErr.ClassroomID, dupErr.PeriodID, dupErr.Date.Format(dateLayout)))
		case errors.Is(err, repository.ErrDuplicate):
			return nil, appErrors.Clone(appErrors.ErrDuplicateReservation, "")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reservations")
		}
	}

	s.logger.Info("reservations created",
		zap.String("team_id", team.ID),
		zap.String("site_sku_id", req.SiteSKUID),
		zap.Int("count", len(batch)))

	if s.schedules != nil {
		for _, date := range dates {
			s.schedules.InvalidateDay(ctx, allocation.SiteID, date)
		}
	}
	return batch, nil
}

// Delete removes a reservation. Team members and site staff may delete;
// everyone else is refused.
func (s *ReservationService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	if claims == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "missing caller identity")
	}

	reservation, err := s.reservations.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}

	if !claims.Staff {
		team, err := s.teams.FindByID(ctx, reservation.TeamID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load team")
		}
		if !team.HasMember(claims.UserID) {
			return appErrors.Clone(appErrors.ErrPermissionDenied, "")
		}
	}

	if err := s.reservations.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete reservation")
	}

	s.logger.Info("reservation deleted",
		zap.String("reservation_id", id),
		zap.String("deleted_by", claims.UserID))

	if s.schedules != nil {
		allocation, err := s.siteSKUs.FindByID(ctx, reservation.SiteSKUID)
		if err == nil {
			s.schedules.InvalidateDay(ctx, allocation.SiteID, reservation.Date)
		}
	}
	return nil
}

// resolveTeam finds the caller's team at the site, creating a solo team on
// first reservation.
func (s *ReservationService) resolveTeam(ctx context.Context, siteID, userID string) (*models.Team, error) {
	team, err := s.teams.FindByMember(ctx, siteID, userID)
	if err == nil {
		return team, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load team")
	}

	subject := "Individual"
	if user, err := s.users.FindByID(ctx, userID); err == nil && user.DisplayName != "" {
		subject = user.DisplayName
	}

	solo := &models.Team{SiteID: siteID, Subject: subject, MemberIDs: []string{userID}}
	if err := s.teams.Create(ctx, solo); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create team")
	}
	s.logger.Info("solo team created", zap.String("site_id", siteID), zap.String("user_id", userID))
	return solo, nil
}
