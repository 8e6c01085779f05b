package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/aim-high/checkout-api/internal/models"
)

// CapacityError reports a create batch that asked for more units than the
// slot had free. It is produced inside the create transaction, after the
// allocation row is locked, so the free count is authoritative.
type CapacityError struct {
	SiteSKUID string
	Date      time.Time
	PeriodID  string
	Requested int
	Free      int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded for allocation %s on %s: requested %d, free %d",
		e.SiteSKUID, e.Date.Format("2006-01-02"), e.Requested, e.Free)
}

// DuplicateError reports the batch row that collided with an identical
// existing reservation, so callers can name the classroom and period.
type DuplicateError struct {
	ClassroomID string
	Date        time.Time
	PeriodID    string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate reservation for classroom %s in period %s on %s",
		e.ClassroomID, e.PeriodID, e.Date.Format("2006-01-02"))
}

// Is matches the ErrDuplicate sentinel.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// ReservationRepository handles persistence of reservations.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository constructs the repository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationDetailColumns = `r.id, r.team_id, r.site_sku_id, r.classroom_id, r.date, r.period_id,
		r.units, r.purpose, r.collaborative, r.creator_id, r.comment, r.created_at,
		c.code AS classroom_code, c.name AS classroom_name,
		p.number AS period_number, p.name AS period_name,
		s.display_name AS sku_display_name,
		t.subject AS team_subject`

const reservationDetailJoins = `
		FROM reservations r
		JOIN classrooms c ON c.id = r.classroom_id
		JOIN periods p ON p.id = r.period_id
		JOIN site_skus ss ON ss.id = r.site_sku_id
		JOIN skus s ON s.id = ss.sku_id
		JOIN teams t ON t.id = r.team_id`

// ListDetails returns reservations matching the filter, newest first, with
// the joined context the schedule views render.
func (r *ReservationRepository) ListDetails(ctx context.Context, filter models.ReservationFilter) ([]models.ReservationDetail, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.SiteID != "" {
		args = append(args, filter.SiteID)
		conditions = append(conditions, fmt.Sprintf("ss.site_id = $%d", len(args)))
	}
	if filter.SiteSKUID != "" {
		args = append(args, filter.SiteSKUID)
		conditions = append(conditions, fmt.Sprintf("r.site_sku_id = $%d", len(args)))
	}
	if filter.TeamID != "" {
		args = append(args, filter.TeamID)
		conditions = append(conditions, fmt.Sprintf("r.team_id = $%d", len(args)))
	}
	if !filter.Date.IsZero() {
		args = append(args, filter.Date)
		conditions = append(conditions, fmt.Sprintf("r.date = $%d", len(args)))
	}
	if filter.PeriodID != "" {
		args = append(args, filter.PeriodID)
		conditions = append(conditions, fmt.Sprintf("r.period_id = $%d", len(args)))
	}

	query := `SELECT ` + reservationDetailColumns + reservationDetailJoins + `
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY r.date, p.number, c.code, r.created_at`

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		args = append(args, filter.PageSize)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, (page-1)*filter.PageSize)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var reservations []models.ReservationDetail
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

// FindDetailByID returns one reservation with its joined context.
func (r *ReservationRepository) FindDetailByID(ctx context.Context, id string) (*models.ReservationDetail, error) {
	query := `SELECT ` + reservationDetailColumns + reservationDetailJoins + ` WHERE r.id = $1`
	var reservation models.ReservationDetail
	if err := r.db.GetContext(ctx, &reservation, query, id); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// SumUnits returns the units already reserved against one allocation slot.
// Reads outside the create transaction are advisory; the authoritative check
// happens under the row lock in CreateMulti.
func (r *ReservationRepository) SumUnits(ctx context.Context, siteSKUID string, date time.Time, periodID string) (int, error) {
	const query = `SELECT COALESCE(SUM(units), 0) FROM reservations
		WHERE site_sku_id = $1 AND date = $2 AND period_id = $3`
	var total int
	if err := r.db.GetContext(ctx, &total, query, siteSKUID, date, periodID); err != nil {
		return 0, fmt.Errorf("sum reserved units: %w", err)
	}
	return total, nil
}

// CreateMulti inserts a batch of reservations atomically. Each distinct
// allocation row is locked FOR UPDATE first, serialising concurrent batches
// against the same allocation, then every insert is capacity-checked against
// reserved units visible inside the transaction. Any failure rolls the whole
// batch back.
//
// Returns *CapacityError when a slot runs out of units and *DuplicateError
// when the batch collides with an identical existing reservation.
func (r *ReservationRepository) CreateMulti(ctx context.Context, reservations []*models.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create reservations: %w", err)
	}
	defer tx.Rollback()

	capacities := make(map[string]int)
	for _, reservation := range reservations {
		if _, locked := capacities[reservation.SiteSKUID]; locked {
			continue
		}
		const lockQuery = `SELECT units FROM site_skus WHERE id = $1 FOR UPDATE`
		var units int
		if err := tx.GetContext(ctx, &units, lockQuery, reservation.SiteSKUID); err != nil {
			return fmt.Errorf("lock site sku %s: %w", reservation.SiteSKUID, err)
		}
		capacities[reservation.SiteSKUID] = units
	}

	for _, reservation := range reservations {
		const sumQuery = `SELECT COALESCE(SUM(units), 0) FROM reservations
			WHERE site_sku_id = $1 AND date = $2 AND period_id = $3`
		var reserved int
		if err := tx.GetContext(ctx, &reserved, sumQuery, reservation.SiteSKUID, reservation.Date, reservation.PeriodID); err != nil {
			return fmt.Errorf("sum reserved units: %w", err)
		}

		free := capacities[reservation.SiteSKUID] - reserved
		if reservation.Units > free {
			return &CapacityError{
				SiteSKUID: reservation.SiteSKUID,
				Date:      reservation.Date,
				PeriodID:  reservation.PeriodID,
				Requested: reservation.Units,
				Free:      free,
			}
		}

		if reservation.ID == "" {
			reservation.ID = uuid.NewString()
		}
		if reservation.CreatedAt.IsZero() {
			reservation.CreatedAt = time.Now().UTC()
		}
		const insertQuery = `INSERT INTO reservations
			(id, team_id, site_sku_id, classroom_id, date, period_id, units, purpose, collaborative, creator_id, comment, created_at)
			VALUES (:id, :team_id, :site_sku_id, :classroom_id, :date, :period_id, :units, :purpose, :collaborative, :creator_id, :comment, :created_at)`
		if _, err := tx.NamedExecContext(ctx, insertQuery, reservation); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return &DuplicateError{
					ClassroomID: reservation.ClassroomID,
					Date:        reservation.Date,
					PeriodID:    reservation.PeriodID,
				}
			}
			return fmt.Errorf("insert reservation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create reservations: %w", err)
	}
	return nil
}

// Delete removes a reservation.
func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM reservations WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete reservation rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
