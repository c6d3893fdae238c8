package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/rezoom/internal/types"
)

const certificationColumns = `id, user_id, title, issuer, issue_date, expiry_date, credential_id, credential_url, created_at, updated_at`

func scanCertification(row pgx.Row) (*types.Certification, error) {
	var (
		c      types.Certification
		issued time.Time
		expiry *time.Time
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Issuer, &issued, &expiry,
		&c.CredentialID, &c.CredentialURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.IssueDate = types.DateOf(issued)
	c.ExpiryDate = types.DatePtr(expiry)
	return &c, nil
}

// CreateCertification inserts a certification and fills in its id and timestamps
func (db *DB) CreateCertification(ctx context.Context, cert *types.Certification) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO certifications (user_id, title, issuer, issue_date, expiry_date, credential_id, credential_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		cert.UserID, cert.Title, cert.Issuer, cert.IssueDate.Time, cert.ExpiryDate.TimePtr(),
		cert.CredentialID, cert.CredentialURL,
	).Scan(&cert.ID, &cert.CreatedAt, &cert.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create certification: %w", err)
	}
	return nil
}

// GetCertification retrieves one certification owned by the user
func (db *DB) GetCertification(ctx context.Context, userID, id uuid.UUID) (*types.Certification, error) {
	c, err := scanCertification(db.pool.QueryRow(ctx,
		`SELECT `+certificationColumns+` FROM certifications WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, notFound(err, "get certification")
	}
	return c, nil
}

// ListCertifications returns the user's certifications, most recent first
func (db *DB) ListCertifications(ctx context.Context, userID uuid.UUID) ([]types.Certification, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+certificationColumns+` FROM certifications
		 WHERE user_id = $1
		 ORDER BY issue_date DESC, created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}
	defer rows.Close()

	certs := []types.Certification{}
	for rows.Next() {
		c, err := scanCertification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certification: %w", err)
		}
		certs = append(certs, *c)
	}
	return certs, rows.Err()
}

// UpdateCertification overwrites every field of a certification owned by cert.UserID
func (db *DB) UpdateCertification(ctx context.Context, cert *types.Certification) error {
	err := db.pool.QueryRow(ctx,
		`UPDATE certifications
		 SET title = $1, issuer = $2, issue_date = $3, expiry_date = $4, credential_id = $5, credential_url = $6, updated_at = NOW()
		 WHERE id = $7 AND user_id = $8
		 RETURNING updated_at`,
		cert.Title, cert.Issuer, cert.IssueDate.Time, cert.ExpiryDate.TimePtr(),
		cert.CredentialID, cert.CredentialURL, cert.ID, cert.UserID,
	).Scan(&cert.UpdatedAt)
	if err != nil {
		return notFound(err, "update certification")
	}
	return nil
}

// DeleteCertification removes a certification owned by the user
func (db *DB) DeleteCertification(ctx context.Context, userID, id uuid.UUID) error {
	return db.execOwned(ctx, "delete certification",
		`DELETE FROM certifications WHERE id = $1 AND user_id = $2`, id, userID)
}
