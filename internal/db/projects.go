package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/rezoom/internal/types"
)

const projectColumns = `id, user_id, title, description, tech_stack, github_url, live_url, created_at, updated_at`

func scanProject(row pgx.Row) (*types.Project, error) {
	var (
		p         types.Project
		techStack string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &techStack,
		&p.GithubURL, &p.LiveURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.TechStack = types.SplitList(techStack)
	return &p, nil
}

// CreateProject inserts a project and fills in its id and timestamps
func (db *DB) CreateProject(ctx context.Context, project *types.Project) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO projects (user_id, title, description, tech_stack, github_url, live_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		project.UserID, project.Title, project.Description, types.JoinList(project.TechStack),
		project.GithubURL, project.LiveURL,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetProject retrieves one project owned by the user
func (db *DB) GetProject(ctx context.Context, userID, id uuid.UUID) (*types.Project, error) {
	p, err := scanProject(db.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, notFound(err, "get project")
	}
	return p, nil
}

// ListProjects returns the user's projects in insertion order
func (db *DB) ListProjects(ctx context.Context, userID uuid.UUID) ([]types.Project, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []types.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// UpdateProject overwrites every field of a project owned by project.UserID
func (db *DB) UpdateProject(ctx context.Context, project *types.Project) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE projects
		 SET title = $1, description = $2, tech_stack = $3, github_url = $4, live_url = $5, updated_at = NOW()
		 WHERE id = $6 AND user_id = $7
		 RETURNING updated_at`,
		project.Title, project.Description, types.JoinList(project.TechStack),
		project.GithubURL, project.LiveURL, project.ID, project.UserID,
	).Scan(&project.UpdatedAt)
	if err != nil {
		return notFound(err, "update project")
	}
	return nil
}

// DeleteProject removes a project owned by the user
func (db *DB) DeleteProject(ctx context.Context, userID, id uuid.UUID) error {
	return db.execOwned(ctx, "delete project",
		`DELETE FROM projects WHERE id = $1 AND user_id = $2`, id, userID)
}
