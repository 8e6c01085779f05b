package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aim-high/checkout-api/internal/models"
)

// TeamRepository handles persistence of teams and their membership.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository constructs the repository.
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// FindByID returns a team with its member IDs loaded.
func (r *TeamRepository) FindByID(ctx context.Context, id string) (*models.Team, error) {
	const query = `SELECT id, site_id, subject, created_at FROM teams WHERE id = $1`
	var team models.Team
	if err := r.db.GetContext(ctx, &team, query, id); err != nil {
		return nil, err
	}

	const membersQuery = `SELECT user_id FROM team_members WHERE team_id = $1 ORDER BY user_id`
	if err := r.db.SelectContext(ctx, &team.MemberIDs, membersQuery, id); err != nil {
		return nil, fmt.Errorf("load team members: %w", err)
	}
	return &team, nil
}

// FindByMember returns the user's team at a site, if any. A user belongs to
// at most one team per site.
func (r *TeamRepository) FindByMember(ctx context.Context, siteID, userID string) (*models.Team, error) {
	const query = `SELECT t.id, t.site_id, t.subject, t.created_at
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE t.site_id = $1 AND tm.user_id = $2`
	var team models.Team
	if err := r.db.GetContext(ctx, &team, query, siteID, userID); err != nil {
		return nil, err
	}

	const membersQuery = `SELECT user_id FROM team_members WHERE team_id = $1 ORDER BY user_id`
	if err := r.db.SelectContext(ctx, &team.MemberIDs, membersQuery, team.ID); err != nil {
		return nil, fmt.Errorf("load team members: %w", err)
	}
	return &team, nil
}

// Create persists a team and its membership in one transaction.
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create team: %w", err)
	}
	defer tx.Rollback()

	const teamQuery = `INSERT INTO teams (id, site_id, subject, created_at)
		VALUES (:id, :site_id, :subject, :created_at)`
	if _, err := tx.NamedExecContext(ctx, teamQuery, team); err != nil {
		return fmt.Errorf("create team: %w", err)
	}

	const memberQuery = `INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`
	for _, userID := range team.MemberIDs {
		if _, err := tx.ExecContext(ctx, memberQuery, team.ID, userID); err != nil {
			return fmt.Errorf("create team member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create team: %w", err)
	}
	return nil
}
