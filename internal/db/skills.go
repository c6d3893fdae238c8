package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/rezoom/internal/types"
)

const skillColumns = `id, user_id, name, proficiency, created_at, updated_at`

func scanSkill(row pgx.Row) (*types.Skill, error) {
	var (
		s           types.Skill
		proficiency string
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &proficiency, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Proficiency = types.Proficiency(proficiency)
	return &s, nil
}

// CreateSkill inserts a skill and fills in its id and timestamps
func (db *DB) CreateSkill(ctx context.Context, skill *types.Skill) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO skills (user_id, name, proficiency)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		skill.UserID, skill.Name, string(skill.Proficiency),
	).Scan(&skill.ID, &skill.CreatedAt, &skill.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create skill: %w", err)
	}
	return nil
}

// GetSkill retrieves one skill owned by the user
func (db *DB) GetSkill(ctx context.Context, userID, id uuid.UUID) (*types.Skill, error) {
	s, err := scanSkill(db.pool.QueryRow(ctx,
		`SELECT `+skillColumns+` FROM skills WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, notFound(err, "get skill")
	}
	return s, nil
}

// ListSkills returns the user's skills in insertion order
func (db *DB) ListSkills(ctx context.Context, userID uuid.UUID) ([]types.Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+skillColumns+` FROM skills WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	skills := []types.Skill{}
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, *s)
	}
	return skills, rows.Err()
}

// UpdateSkill overwrites the name and proficiency of a skill owned by skill.UserID
func (db *DB) UpdateSkill(ctx context.Context, skill *types.Skill) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE skills SET name = $1, proficiency = $2, updated_at = NOW()
		 WHERE id = $3 AND user_id = $4
		 RETURNING updated_at`,
		skill.Name, string(skill.Proficiency), skill.ID, skill.UserID,
	).Scan(&skill.UpdatedAt)
	if err != nil {
		return notFound(err, "update skill")
	}
	return nil
}

// DeleteSkill removes a skill owned by the user
func (db *DB) DeleteSkill(ctx context.Context, userID, id uuid.UUID) error {
	return db.execOwned(ctx, "delete skill",
		`DELETE FROM skills WHERE id = $1 AND user_id = $2`, id, userID)
}
