package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/rezoom/internal/types"
)

const experienceColumns = `id, user_id, company, role, start_date, end_date, description, technologies, created_at, updated_at`

func scanExperience(row pgx.Row) (*types.Experience, error) {
	var (
		e            types.Experience
		start        time.Time
		end          *time.Time
		technologies string
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Company, &e.Role, &start, &end,
		&e.Description, &technologies, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.StartDate = types.DateOf(start)
	e.EndDate = types.DatePtr(end)
	e.Technologies = types.SplitList(technologies)
	return &e, nil
}

// CreateExperience inserts an experience and fills in its id and timestamps
func (db *DB) CreateExperience(ctx context.Context, exp *types.Experience) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO experiences (user_id, company, role, start_date, end_date, description, technologies)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		exp.UserID, exp.Company, exp.Role, exp.StartDate.Time, exp.EndDate.TimePtr(),
		exp.Description, types.JoinList(exp.Technologies),
	).Scan(&exp.ID, &exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create experience: %w", err)
	}
	return nil
}

// GetExperience retrieves one experience owned by the user
func (db *DB) GetExperience(ctx context.Context, userID, id uuid.UUID) (*types.Experience, error) {
	e, err := scanExperience(db.pool.QueryRow(ctx,
		`SELECT `+experienceColumns+` FROM experiences WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, notFound(err, "get experience")
	}
	return e, nil
}

// ListExperiences returns the user's experiences, most recent first
func (db *DB) ListExperiences(ctx context.Context, userID uuid.UUID) ([]types.Experience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+experienceColumns+` FROM experiences
		 WHERE user_id = $1
		 ORDER BY start_date DESC, created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	experiences := []types.Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		experiences = append(experiences, *e)
	}
	return experiences, rows.Err()
}

// UpdateExperience overwrites every field of an experience owned by exp.UserID
func (db *DB) UpdateExperience(ctx context.Context, exp *types.Experience) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE experiences
		 SET company = $1, role = $2, start_date = $3, end_date = $4, description = $5, technologies = $6, updated_at = NOW()
		 WHERE id = $7 AND user_id = $8
		 RETURNING updated_at`,
		exp.Company, exp.Role, exp.StartDate.Time, exp.EndDate.TimePtr(),
		exp.Description, types.JoinList(exp.Technologies), exp.ID, exp.UserID,
	).Scan(&exp.UpdatedAt)
	if err != nil {
		return notFound(err, "update experience")
	}
	return nil
}

// DeleteExperience removes an experience owned by the user
func (db *DB) DeleteExperience(ctx context.Context, userID, id uuid.UUID) error {
	return db.execOwned(ctx, "delete experience",
		`DELETE FROM experiences WHERE id = $1 AND user_id = $2`, id, userID)
}
