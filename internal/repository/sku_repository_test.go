package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newSKURepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSKURepositoryListIncludesAssignedUnits(t *testing.T) {
	db, mock, cleanup := newSKURepoMock(t)
	defer cleanup()

	repo := NewSKURepository(db)
	rows := sqlmock.NewRows([]string{"id", "type_id", "model_identifier", "display_name", "units", "type_name", "assigned_units"}).
		AddRow("sku-1", "type-1", "CB-100", "Chromebook", 30, "Laptop", 25).
		AddRow("sku-2", "type-2", "PJ-200", "Projector", 5, "Projector", 0)
	mock.ExpectQuery("SELECT s.id, s.type_id").WillReturnRows(rows)

	skus, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, skus, 2)
	require.Equal(t, 25, skus[0].AssignedUnits)
	require.Equal(t, "Laptop", skus[0].TypeName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSKURepositorySumAssignedUnitsExcludesAllocation(t *testing.T) {
	db, mock, cleanup := newSKURepoMock(t)
	defer cleanup()

	repo := NewSKURepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(units), 0) FROM site_skus")).
		WithArgs("sku-1", "ss-2").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(20))

	total, err := repo.SumAssignedUnits(context.Background(), "sku-1", "ss-2")
	require.NoError(t, err)
	require.Equal(t, 20, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
