package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/aim-high/checkout-api/internal/models"
)

func newReservationRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func testReservation(units int) *models.Reservation {
	return &models.Reservation{
		TeamID:      "team-1",
		SiteSKUID:   "ss-1",
		ClassroomID: "room-1",
		Date:        time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC),
		PeriodID:    "period-1",
		Units:       units,
		Purpose:     "Lab practice",
		CreatorID:   "user-1",
	}
}

func TestReservationRepositoryCreateMulti(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)
	reservation := testReservation(3)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT units FROM site_skus WHERE id = $1 FOR UPDATE")).
		WithArgs("ss-1").
		WillReturnRows(sqlmock.NewRows([]string{"units"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(units), 0) FROM reservations")).
		WithArgs("ss-1", reservation.Date, "period-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateMulti(context.Background(), []*models.Reservation{reservation}))
	require.NotEmpty(t, reservation.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryCreateMultiCapacityExceeded(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)
	reservation := testReservation(4)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT units FROM site_skus WHERE id = $1 FOR UPDATE")).
		WithArgs("ss-1").
		WillReturnRows(sqlmock.NewRows([]string{"units"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(units), 0) FROM reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(8))
	mock.ExpectRollback()

	err := repo.CreateMulti(context.Background(), []*models.Reservation{reservation})
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	require.Equal(t, 4, capErr.Requested)
	require.Equal(t, 2, capErr.Free)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryCreateMultiSecondInsertRollsBackBatch(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)
	first := testReservation(6)
	second := testReservation(6)
	second.Date = first.Date.AddDate(0, 0, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT units FROM site_skus WHERE id = $1 FOR UPDATE")).
		WithArgs("ss-1").
		WillReturnRows(sqlmock.NewRows([]string{"units"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(units), 0) FROM reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(units), 0) FROM reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7))
	mock.ExpectRollback()

	err := repo.CreateMulti(context.Background(), []*models.Reservation{first, second})
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryCreateMultiDuplicate(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)
	reservation := testReservation(2)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT units FROM site_skus WHERE id = $1 FOR UPDATE")).
		WithArgs("ss-1").
		WillReturnRows(sqlmock.NewRows([]string{"units"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(units), 0) FROM reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.CreateMulti(context.Background(), []*models.Reservation{reservation})
	require.ErrorIs(t, err, ErrDuplicate)
	var dupErr *DuplicateError
	require.ErrorAs(t, err, &dupErr)
	require.Equal(t, "room-1", dupErr.ClassroomID)
	require.Equal(t, "period-1", dupErr.PeriodID)
	require.Contains(t, dupErr.Error(), "classroom room-1")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositorySumUnits(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)
	date := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(units), 0) FROM reservations")).
		WithArgs("ss-1", date, "period-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7))

	total, err := repo.SumUnits(context.Background(), "ss-1", date, "period-1")
	require.NoError(t, err)
	require.Equal(t, 7, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryListDetailsFilters(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)
	date := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "team_id", "site_sku_id", "classroom_id", "date", "period_id",
		"units", "purpose", "collaborative", "creator_id", "comment", "created_at",
		"classroom_code", "classroom_name", "period_number", "period_name",
		"sku_display_name", "team_subject",
	}).AddRow(
		"res-1", "team-1", "ss-1", "room-1", date, "period-1",
		3, "Lab practice", false, "user-1", "", time.Now(),
		"101", "Room 101", 1, "Period 1",
		"Chromebook", "Biology",
	)
	mock.ExpectQuery("SELECT r.id, r.team_id").
		WithArgs("site-1", date).
		WillReturnRows(rows)

	list, err := repo.ListDetails(context.Background(), models.ReservationFilter{
		SiteID: "site-1",
		Date:   date,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "res-1", list[0].ID)
	require.Equal(t, "101", list[0].ClassroomCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reservations WHERE id = $1")).
		WithArgs("res-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "res-1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reservations WHERE id = $1")).
		WithArgs("res-gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Delete(context.Background(), "res-gone")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCapacityErrorMessage(t *testing.T) {
	err := &CapacityError{
		SiteSKUID: "ss-1",
		Date:      time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC),
		PeriodID:  "period-1",
		Requested: 4,
		Free:      2,
	}
	require.Contains(t, err.Error(), "requested 4, free 2")
	require.True(t, errors.As(error(err), new(*CapacityError)))
}
