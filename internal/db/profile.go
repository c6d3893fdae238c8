package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/rezoom/internal/types"
	"golang.org/x/sync/errgroup"
)

// ProfileLister is the read side needed to assemble a profile snapshot
type ProfileLister interface {
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)
	ListExperiences(ctx context.Context, userID uuid.UUID) ([]types.Experience, error)
	ListEducation(ctx context.Context, userID uuid.UUID) ([]types.Education, error)
	ListSkills(ctx context.Context, userID uuid.UUID) ([]types.Skill, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]types.Project, error)
	ListCertifications(ctx context.Context, userID uuid.UUID) ([]types.Certification, error)
}

// LoadProfile loads the user and all five record collections concurrently
func (db *DB) LoadProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	return LoadProfile(ctx, db, userID)
}

// LoadProfile assembles a profile snapshot from any lister.
// The user must exist; missing collections load as empty slices.
func LoadProfile(ctx context.Context, store ProfileLister, userID uuid.UUID) (*types.Profile, error) {
	user, err := store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	profile := &types.Profile{User: *user}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := store.ListExperiences(gctx, userID)
		profile.Experiences = v
		return err
	})
	g.Go(func() error {
		v, err := store.ListEducation(gctx, userID)
		profile.Education = v
		return err
	})
	g.Go(func() error {
		v, err := store.ListSkills(gctx, userID)
		profile.Skills = v
		return err
	})
	g.Go(func() error {
		v, err := store.ListProjects(gctx, userID)
		profile.Projects = v
		return err
	})
	g.Go(func() error {
		v, err := store.ListCertifications(gctx, userID)
		profile.Certifications = v
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}
