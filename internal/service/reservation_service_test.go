package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aim-high/checkout-api/internal/dto"
	"github.com/aim-high/checkout-api/internal/models"
	"github.com/aim-high/checkout-api/internal/repository"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
)

// reservationLedgerStub replays the repository's transactional capacity check
// against an in-memory ledger.
type reservationLedgerStub struct {
	capacity map[string]int
	reserved map[string]int
	created  []*models.Reservation
	deleted  []string
	details  map[string]*models.ReservationDetail
}

func slotKey(siteSKUID string, date time.Time, periodID string) string {
	return siteSKUID + "/" + date.Format("2006-01-02") + "/" + periodID
}

func (s *reservationLedgerStub) ListDetails(ctx context.Context, filter models.ReservationFilter) ([]models.ReservationDetail, error) {
	return nil, nil
}

func (s *reservationLedgerStub) FindDetailByID(ctx context.Context, id string) (*models.ReservationDetail, error) {
	if detail, ok := s.details[id]; ok {
		return detail, nil
	}
	return nil, sql.ErrNoRows
}

func (s *reservationLedgerStub) CreateMulti(ctx context.Context, reservations []*models.Reservation) error {
	if s.reserved == nil {
		s.reserved = make(map[string]int)
	}
	staged := make(map[string]int)
	for _, r := range reservations {
		key := slotKey(r.SiteSKUID, r.Date, r.PeriodID)
		free := s.capacity[r.SiteSKUID] - s.reserved[key] - staged[key]
		if r.Units > free {
			return &repository.CapacityError{
				SiteSKUID: r.SiteSKUID,
				Date:      r.Date,
				PeriodID:  r.PeriodID,
				Requested: r.Units,
				Free:      free,
			}
		}
		staged[key] += r.Units
	}
	for key, units := range staged {
		s.reserved[key] += units
	}
	s.created = append(s.created, reservations...)
	return nil
}

func (s *reservationLedgerStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.details[id]; !ok {
		return repository.ErrNotFound
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type teamRepoStub struct {
	teams   map[string]*models.Team
	byUser  map[string]*models.Team
	created []*models.Team
}

func (s *teamRepoStub) FindByID(ctx context.Context, id string) (*models.Team, error) {
	if team, ok := s.teams[id]; ok {
		return team, nil
	}
	return nil, sql.ErrNoRows
}

func (s *teamRepoStub) FindByMember(ctx context.Context, siteID, userID string) (*models.Team, error) {
	if team, ok := s.byUser[userID]; ok {
		return team, nil
	}
	return nil, sql.ErrNoRows
}

func (s *teamRepoStub) Create(ctx context.Context, team *models.Team) error {
	team.ID = "team-new"
	s.created = append(s.created, team)
	return nil
}

type userReaderStub struct {
	users map[string]*models.User
}

func (s *userReaderStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

type invalidatorStub struct {
	calls []string
}

func (s *invalidatorStub) InvalidateDay(ctx context.Context, siteID string, date time.Time) {
	s.calls = append(s.calls, siteID+"/"+date.Format("2006-01-02"))
}

func memberClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", Email: "teacher@example.org", SiteID: "site-1"}
}

func newReservationFixture(capacity int) (*ReservationService, *reservationLedgerStub, *teamRepoStub, *invalidatorStub) {
	ledger := &reservationLedgerStub{
		capacity: map[string]int{"ss-1": capacity},
		details:  map[string]*models.ReservationDetail{},
	}
	teams := &teamRepoStub{
		teams:  map[string]*models.Team{},
		byUser: map[string]*models.Team{},
	}
	skus := &siteSKURepoStub{allocations: []models.SiteSKUDetail{allocationDetail("ss-1", "Chromebook", capacity)}}
	users := &userReaderStub{users: map[string]*models.User{
		"user-1": {ID: "user-1", DisplayName: "Dana Smith"},
	}}
	invalidator := &invalidatorStub{}
	service := NewReservationService(ledger, teams, skus, users, invalidator, validator.New(), nil)
	return service, ledger, teams, invalidator
}

func TestCreateExpandsDatesAndPeriods(t *testing.T) {
	service, ledger, teams, invalidator := newReservationFixture(10)
	team := &models.Team{ID: "team-1", SiteID: "site-1", Subject: "Biology", MemberIDs: []string{"user-1"}}
	teams.byUser["user-1"] = team

	created, err := service.Create(context.Background(), memberClaims(), dto.CreateReservationRequest{
		SiteSKUID:   "ss-1",
		ClassroomID: "room-1",
		Dates:       []string{"2026-06-22", "2026-06-23"},
		PeriodIDs:   []string{"p1", "p2"},
		Units:       3,
		Purpose:     "Lab practice",
	})
	require.NoError(t, err)
	require.Len(t, created, 4)
	require.Len(t, ledger.created, 4)
	for _, r := range created {
		assert.Equal(t, "team-1", r.TeamID)
		assert.Equal(t, "user-1", r.CreatorID)
	}
	assert.Len(t, invalidator.calls, 2)
}

func TestCreateSecondBatchHitsCapacity(t *testing.T) {
	service, _, teams, _ := newReservationFixture(5)
	teams.byUser["user-1"] = &models.Team{ID: "team-1", SiteID: "site-1", MemberIDs: []string{"user-1"}}

	first := dto.CreateReservationRequest{
		SiteSKUID:   "ss-1",
		ClassroomID: "room-1",
		Dates:       []string{"2026-06-22"},
		PeriodIDs:   []string{"p1"},
		Units:       5,
		Purpose:     "Lab practice",
	}
	_, err := service.Create(context.Background(), memberClaims(), first)
	require.NoError(t, err)

	second := first
	second.ClassroomID = "room-2"
	second.Units = 1
	_, err = service.Create(context.Background(), memberClaims(), second)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "only 0 units free")
	assert.Contains(t, appErr.Message, "period p1")
	assert.Contains(t, appErr.Message, "2026-06-22")
}

func TestCreateRefusesMoreThanSiteHolds(t *testing.T) {
	service, ledger, teams, _ := newReservationFixture(4)
	teams.byUser["user-1"] = &models.Team{ID: "team-1", SiteID: "site-1", MemberIDs: []string{"user-1"}}

	_, err := service.Create(context.Background(), memberClaims(), dto.CreateReservationRequest{
		SiteSKUID:   "ss-1",
		ClassroomID: "room-1",
		Dates:       []string{"2026-06-22"},
		PeriodIDs:   []string{"p1"},
		Units:       6,
		Purpose:     "Lab practice",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, appErrors.FromError(err).Code)
	assert.Empty(t, ledger.created)
}

func TestCreateLazySoloTeam(t *testing.T) {
	service, _, teams, _ := newReservationFixture(10)

	created, err := service.Create(context.Background(), memberClaims(), dto.CreateReservationRequest{
		SiteSKUID:   "ss-1",
		ClassroomID: "room-1",
		Dates:       []string{"2026-06-22"},
		PeriodIDs:   []string{"p1"},
		Units:       2,
		Purpose:     "Reading group",
	})
	require.NoError(t, err)
	require.Len(t, teams.created, 1)
	assert.Equal(t, "Dana Smith", teams.created[0].Subject)
	assert.Equal(t, []string{"user-1"}, teams.created[0].MemberIDs)
	assert.Equal(t, "team-new", created[0].TeamID)
}

func TestDeleteRequiresMembershipOrStaff(t *testing.T) {
	service, ledger, teams, _ := newReservationFixture(10)
	ledger.details["res-1"] = &models.ReservationDetail{
		Reservation: models.Reservation{ID: "res-1", TeamID: "team-1", SiteSKUID: "ss-1", Date: time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)},
	}
	teams.teams["team-1"] = &models.Team{ID: "team-1", SiteID: "site-1", MemberIDs: []string{"someone-else"}}

	err := service.Delete(context.Background(), memberClaims(), "res-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPermissionDenied.Code, appErrors.FromError(err).Code)
	assert.Empty(t, ledger.deleted)

	staff := memberClaims()
	staff.Staff = true
	require.NoError(t, service.Delete(context.Background(), staff, "res-1"))
	assert.Equal(t, []string{"res-1"}, ledger.deleted)
}

func TestDeleteMemberAllowed(t *testing.T) {
	service, ledger, teams, invalidator := newReservationFixture(10)
	ledger.details["res-1"] = &models.ReservationDetail{
		Reservation: models.Reservation{ID: "res-1", TeamID: "team-1", SiteSKUID: "ss-1", Date: time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)},
	}
	teams.teams["team-1"] = &models.Team{ID: "team-1", SiteID: "site-1", MemberIDs: []string{"user-1"}}

	require.NoError(t, service.Delete(context.Background(), memberClaims(), "res-1"))
	assert.Equal(t, []string{"res-1"}, ledger.deleted)
	assert.Equal(t, []string{"site-1/2026-06-22"}, invalidator.calls)
}

type duplicateLedgerStub struct {
	reservationLedgerStub
}

func (s *duplicateLedgerStub) CreateMulti(ctx context.Context, reservations []*models.Reservation) error {
	first := reservations[0]
	return &repository.DuplicateError{
		ClassroomID: first.ClassroomID,
		Date:        first.Date,
		PeriodID:    first.PeriodID,
	}
}

func TestCreateDuplicateReservation(t *testing.T) {
	ledger := &duplicateLedgerStub{}
	teams := &teamRepoStub{byUser: map[string]*models.Team{
		"user-1": {ID: "team-1", SiteID: "site-1", MemberIDs: []string{"user-1"}},
	}}
	skus := &siteSKURepoStub{allocations: []models.SiteSKUDetail{allocationDetail("ss-1", "Chromebook", 10)}}
	service := NewReservationService(ledger, teams, skus, &userReaderStub{}, nil, validator.New(), nil)

	_, err := service.Create(context.Background(), memberClaims(), dto.CreateReservationRequest{
		SiteSKUID:   "ss-1",
		ClassroomID: "room-1",
		Dates:       []string{"2026-06-22"},
		PeriodIDs:   []string{"p1"},
		Units:       2,
		Purpose:     "Lab practice",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateReservation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "classroom room-1")
	assert.Contains(t, appErr.Message, "period p1")
}

func TestDeleteMissingReservation(t *testing.T) {
	service, _, _, _ := newReservationFixture(10)
	err := service.Delete(context.Background(), memberClaims(), "res-gone")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
