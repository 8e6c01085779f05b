package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aim-high/checkout-api/internal/models"
)

// WeekRepository handles persistence of site weeks and their working days.
type WeekRepository struct {
	db *sqlx.DB
}

// NewWeekRepository constructs the repository.
func NewWeekRepository(db *sqlx.DB) *WeekRepository {
	return &WeekRepository{db: db}
}

type weekDayRow struct {
	WeekID string    `db:"week_id"`
	Day    time.Time `db:"day"`
}

// ListBySite returns a site's weeks ordered by week number, each with its
// working days loaded in ascending date order.
func (r *WeekRepository) ListBySite(ctx context.Context, siteID string) ([]models.Week, error) {
	const weeksQuery = `SELECT id, site_id, week_number FROM weeks WHERE site_id = $1 ORDER BY week_number`
	var weeks []models.Week
	if err := r.db.SelectContext(ctx, &weeks, weeksQuery, siteID); err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	if len(weeks) == 0 {
		return weeks, nil
	}

	const daysQuery = `SELECT wd.week_id, wd.day
		FROM week_days wd
		JOIN weeks w ON w.id = wd.week_id
		WHERE w.site_id = $1
		ORDER BY wd.day`
	var rows []weekDayRow
	if err := r.db.SelectContext(ctx, &rows, daysQuery, siteID); err != nil {
		return nil, fmt.Errorf("list week days: %w", err)
	}

	daysByWeek := make(map[string][]time.Time, len(weeks))
	for _, row := range rows {
		daysByWeek[row.WeekID] = append(daysByWeek[row.WeekID], row.Day)
	}
	for i := range weeks {
		weeks[i].Days = daysByWeek[weeks[i].ID]
	}
	return weeks, nil
}

// FindByID returns a week with its working days loaded.
func (r *WeekRepository) FindByID(ctx context.Context, id string) (*models.Week, error) {
	const query = `SELECT id, site_id, week_number FROM weeks WHERE id = $1`
	var week models.Week
	if err := r.db.GetContext(ctx, &week, query, id); err != nil {
		return nil, err
	}

	const daysQuery = `SELECT day FROM week_days WHERE week_id = $1 ORDER BY day`
	if err := r.db.SelectContext(ctx, &week.Days, daysQuery, id); err != nil {
		return nil, fmt.Errorf("load week days: %w", err)
	}
	return &week, nil
}

// FindBySiteAndDate returns the week whose working days contain the date.
func (r *WeekRepository) FindBySiteAndDate(ctx context.Context, siteID string, date time.Time) (*models.Week, error) {
	const query = `SELECT w.id, w.site_id, w.week_number
		FROM weeks w
		JOIN week_days wd ON wd.week_id = w.id
		WHERE w.site_id = $1 AND wd.day = $2`
	var week models.Week
	if err := r.db.GetContext(ctx, &week, query, siteID, date); err != nil {
		return nil, err
	}

	const daysQuery = `SELECT day FROM week_days WHERE week_id = $1 ORDER BY day`
	if err := r.db.SelectContext(ctx, &week.Days, daysQuery, week.ID); err != nil {
		return nil, fmt.Errorf("load week days: %w", err)
	}
	return &week, nil
}

// Create persists a week and its working days in one transaction.
func (r *WeekRepository) Create(ctx context.Context, week *models.Week) error {
	if week.ID == "" {
		week.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create week: %w", err)
	}
	defer tx.Rollback()

	const weekQuery = `INSERT INTO weeks (id, site_id, week_number) VALUES (:id, :site_id, :week_number)`
	if _, err := tx.NamedExecContext(ctx, weekQuery, week); err != nil {
		return fmt.Errorf("create week: %w", err)
	}

	const dayQuery = `INSERT INTO week_days (week_id, day) VALUES ($1, $2)`
	for _, day := range week.Days {
		if _, err := tx.ExecContext(ctx, dayQuery, week.ID, day); err != nil {
			return fmt.Errorf("create week day: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create week: %w", err)
	}
	return nil
}

// Delete removes a week; its days go with it via the FK cascade.
func (r *WeekRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM weeks WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete week: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete week rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
