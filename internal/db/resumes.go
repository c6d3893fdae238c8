package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/rezoom/internal/types"
)

const resumeColumns = `id, user_id, title, content, template, created_at, updated_at`

func scanResume(row pgx.Row) (*types.Resume, error) {
	var r types.Resume
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Content, &r.Template, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateResume stores a rendered resume document
func (db *DB) CreateResume(ctx context.Context, resume *types.Resume) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, content, template)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		resume.UserID, resume.Title, resume.Content, resume.Template,
	).Scan(&resume.ID, &resume.CreatedAt, &resume.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// GetResume retrieves one resume owned by the user
func (db *DB) GetResume(ctx context.Context, userID, id uuid.UUID) (*types.Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, notFound(err, "get resume")
	}
	return r, nil
}

// ListResumes returns the user's resumes, newest first
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]types.Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []types.Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	return resumes, rows.Err()
}

// UpdateResume replaces the title, content and template of a resume
func (db *DB) UpdateResume(ctx context.Context, resume *types.Resume) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE resumes SET title = $1, content = $2, template = $3, updated_at = NOW()
		 WHERE id = $4 AND user_id = $5
		 RETURNING updated_at`,
		resume.Title, resume.Content, resume.Template, resume.ID, resume.UserID,
	).Scan(&resume.UpdatedAt)
	if err != nil {
		return notFound(err, "update resume")
	}
	return nil
}

// DeleteResume removes a resume owned by the user
func (db *DB) DeleteResume(ctx context.Context, userID, id uuid.UUID) error {
	return db.execOwned(ctx, "delete resume",
		`DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
}
