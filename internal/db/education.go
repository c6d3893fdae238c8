package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/rezoom/internal/types"
)

const educationColumns = `id, user_id, degree, institution, start_year, end_year, description, created_at, updated_at`

func scanEducation(row pgx.Row) (*types.Education, error) {
	var e types.Education
	err := row.Scan(&e.ID, &e.UserID, &e.Degree, &e.Institution, &e.StartYear, &e.EndYear,
		&e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEducation inserts an education entry and fills in its id and timestamps
func (db *DB) CreateEducation(ctx context.Context, edu *types.Education) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO education (user_id, degree, institution, start_year, end_year, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		edu.UserID, edu.Degree, edu.Institution, edu.StartYear, edu.EndYear, edu.Description,
	).Scan(&edu.ID, &edu.CreatedAt, &edu.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create education: %w", err)
	}
	return nil
}

// GetEducation retrieves one education entry owned by the user
func (db *DB) GetEducation(ctx context.Context, userID, id uuid.UUID) (*types.Education, error) {
	e, err := scanEducation(db.pool.QueryRow(ctx,
		`SELECT `+educationColumns+` FROM education WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, notFound(err, "get education")
	}
	return e, nil
}

// ListEducation returns the user's education, most recent first
func (db *DB) ListEducation(ctx context.Context, userID uuid.UUID) ([]types.Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+educationColumns+` FROM education
		 WHERE user_id = $1
		 ORDER BY start_year DESC, created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	defer rows.Close()

	education := []types.Education{}
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		education = append(education, *e)
	}
	return education, rows.Err()
}

// UpdateEducation overwrites every field of an education entry owned by edu.UserID
func (db *DB) UpdateEducation(ctx context.Context, edu *types.Education) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE education
		 SET degree = $1, institution = $2, start_year = $3, end_year = $4, description = $5, updated_at = NOW()
		 WHERE id = $6 AND user_id = $7
		 RETURNING updated_at`,
		edu.Degree, edu.Institution, edu.StartYear, edu.EndYear, edu.Description, edu.ID, edu.UserID,
	).Scan(&edu.UpdatedAt)
	if err != nil {
		return notFound(err, "update education")
	}
	return nil
}

// DeleteEducation removes an education entry owned by the user
func (db *DB) DeleteEducation(ctx context.Context, userID, id uuid.UUID) error {
	return db.execOwned(ctx, "delete education",
		`DELETE FROM education WHERE id = $1 AND user_id = $2`, id, userID)
}
