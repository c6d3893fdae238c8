package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/rezoom/internal/types"
)

// Store is the profile store consumed by the agent, the extraction persister and the HTTP layer.
// Every record operation is scoped by the owning user id; a record owned by another user
// behaves exactly like a missing one (ErrNotFound).
type Store interface {
	UserStore
	ProfileStore
	ResumeStore
}

// UserStore manages account records
type UserStore interface {
	CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error)
	// GetUser returns nil, nil when the user does not exist
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)
	// GetUserByEmail returns nil, nil when no user has the email
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpdateUser(ctx context.Context, user *types.User) error
}

// ProfileStore manages the five profile record collections
type ProfileStore interface {
	CreateExperience(ctx context.Context, exp *types.Experience) error
	GetExperience(ctx context.Context, userID, id uuid.UUID) (*types.Experience, error)
	ListExperiences(ctx context.Context, userID uuid.UUID) ([]types.Experience, error)
	UpdateExperience(ctx context.Context, exp *types.Experience) error
	DeleteExperience(ctx context.Context, userID, id uuid.UUID) error

	CreateEducation(ctx context.Context, edu *types.Education) error
	GetEducation(ctx context.Context, userID, id uuid.UUID) (*types.Education, error)
	ListEducation(ctx context.Context, userID uuid.UUID) ([]types.Education, error)
	UpdateEducation(ctx context.Context, edu *types.Education) error
	DeleteEducation(ctx context.Context, userID, id uuid.UUID) error

	CreateSkill(ctx context.Context, skill *types.Skill) error
	GetSkill(ctx context.Context, userID, id uuid.UUID) (*types.Skill, error)
	ListSkills(ctx context.Context, userID uuid.UUID) ([]types.Skill, error)
	UpdateSkill(ctx context.Context, skill *types.Skill) error
	DeleteSkill(ctx context.Context, userID, id uuid.UUID) error

	CreateProject(ctx context.Context, project *types.Project) error
	GetProject(ctx context.Context, userID, id uuid.UUID) (*types.Project, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]types.Project, error)
	UpdateProject(ctx context.Context, project *types.Project) error
	DeleteProject(ctx context.Context, userID, id uuid.UUID) error

	CreateCertification(ctx context.Context, cert *types.Certification) error
	GetCertification(ctx context.Context, userID, id uuid.UUID) (*types.Certification, error)
	ListCertifications(ctx context.Context, userID uuid.UUID) ([]types.Certification, error)
	UpdateCertification(ctx context.Context, cert *types.Certification) error
	DeleteCertification(ctx context.Context, userID, id uuid.UUID) error

	// LoadProfile returns the user together with every record collection
	LoadProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
}

// ResumeStore manages generated resume documents
type ResumeStore interface {
	CreateResume(ctx context.Context, resume *types.Resume) error
	GetResume(ctx context.Context, userID, id uuid.UUID) (*types.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]types.Resume, error)
	UpdateResume(ctx context.Context, resume *types.Resume) error
	DeleteResume(ctx context.Context, userID, id uuid.UUID) error
}

var _ Store = (*DB)(nil)
