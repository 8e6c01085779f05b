package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aim-high/checkout-api/internal/models"
)

// ClassroomRepository handles persistence of classrooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs the repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// ListBySite returns a site's classrooms ordered by code.
func (r *ClassroomRepository) ListBySite(ctx context.Context, siteID string) ([]models.Classroom, error) {
	const query = `SELECT id, site_id, code, name FROM classrooms WHERE site_id = $1 ORDER BY code`
	var classrooms []models.Classroom
	if err := r.db.SelectContext(ctx, &classrooms, query, siteID); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return classrooms, nil
}

// FindByID returns a classroom by its ID.
func (r *ClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	const query = `SELECT id, site_id, code, name FROM classrooms WHERE id = $1`
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, id); err != nil {
		return nil, err
	}
	return &classroom, nil
}

// Create persists a new classroom.
func (r *ClassroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	if classroom.ID == "" {
		classroom.ID = uuid.NewString()
	}
	const query = `INSERT INTO classrooms (id, site_id, code, name) VALUES (:id, :site_id, :code, :name)`
	if _, err := r.db.NamedExecContext(ctx, query, classroom); err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}
	return nil
}
