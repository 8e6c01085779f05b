package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/aim-high/checkout-api/internal/models"
)

func newWeekRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestWeekRepositoryListBySiteLoadsDays(t *testing.T) {
	db, mock, cleanup := newWeekRepoMock(t)
	defer cleanup()

	repo := NewWeekRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, site_id, week_number FROM weeks")).
		WithArgs("site-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "site_id", "week_number"}).
			AddRow("week-1", "site-1", 1).
			AddRow("week-2", "site-1", 2))

	monday := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT wd.week_id, wd.day")).
		WithArgs("site-1").
		WillReturnRows(sqlmock.NewRows([]string{"week_id", "day"}).
			AddRow("week-1", monday).
			AddRow("week-1", monday.AddDate(0, 0, 1)).
			AddRow("week-2", monday.AddDate(0, 0, 7)))

	weeks, err := repo.ListBySite(context.Background(), "site-1")
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	require.Len(t, weeks[0].Days, 2)
	require.Equal(t, monday, weeks[0].StartDate())
	require.Equal(t, monday.AddDate(0, 0, 7), weeks[1].StartDate())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekRepositoryCreateInsertsDaysInOneTransaction(t *testing.T) {
	db, mock, cleanup := newWeekRepoMock(t)
	defer cleanup()

	repo := NewWeekRepository(db)
	monday := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)
	week := &models.Week{
		SiteID:     "site-1",
		WeekNumber: 1,
		Days:       []time.Time{monday, monday.AddDate(0, 0, 1)},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO weeks")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO week_days")).
		WithArgs(sqlmock.AnyArg(), monday).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO week_days")).
		WithArgs(sqlmock.AnyArg(), monday.AddDate(0, 0, 1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), week))
	require.NotEmpty(t, week.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newWeekRepoMock(t)
	defer cleanup()

	repo := NewWeekRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weeks WHERE id = $1")).
		WithArgs("week-gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), "week-gone"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
