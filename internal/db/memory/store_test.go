package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/rezoom/internal/db"
	"github.com/jonathan/rezoom/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, s *Store, email string) uuid.UUID {
	t.Helper()
	id, err := s.CreateUser(context.Background(), "Jane Doe", email, "")
	require.NoError(t, err)
	return id
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	s := New()

	id := newUser(t, s, "Jane@Example.com")

	exists, err := s.CheckEmailExists(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.CreateUser(ctx, "Other", "JANE@example.com", "")
	var dup *DuplicateEmailError
	assert.ErrorAs(t, err, &dup)

	require.NoError(t, s.UpdatePassword(ctx, id, "hash"))
	u, err := s.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "hash", u.PasswordHash)

	missing, err := s.GetUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	u.Headline = "Backend engineer"
	require.NoError(t, s.UpdateUser(ctx, u))
	reloaded, err := s.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Backend engineer", reloaded.Headline)
}

func TestStore_ExperienceCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()
	userID := newUser(t, s, "a@example.com")

	exp := &types.Experience{
		UserID:       userID,
		Company:      "Acme",
		Role:         "Engineer",
		StartDate:    types.NewDate(2020, 1, 1),
		Technologies: []string{"Go"},
	}
	require.NoError(t, s.CreateExperience(ctx, exp))
	assert.NotEqual(t, uuid.Nil, exp.ID)
	assert.False(t, exp.CreatedAt.IsZero())

	// Mutating the caller's copy does not leak into the store
	exp.Technologies[0] = "Rust"
	got, err := s.GetExperience(ctx, userID, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, got.Technologies)

	got.Role = "Senior Engineer"
	require.NoError(t, s.UpdateExperience(ctx, got))
	assert.Equal(t, exp.CreatedAt, got.CreatedAt)

	list, err := s.ListExperiences(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Senior Engineer", list[0].Role)

	require.NoError(t, s.DeleteExperience(ctx, userID, exp.ID))
	assert.ErrorIs(t, s.DeleteExperience(ctx, userID, exp.ID), db.ErrNotFound)
}

func TestStore_ScopedByUser(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner := newUser(t, s, "owner@example.com")
	intruder := newUser(t, s, "intruder@example.com")

	skill := &types.Skill{UserID: owner, Name: "Go", Proficiency: types.ProficiencyExpert}
	require.NoError(t, s.CreateSkill(ctx, skill))

	_, err := s.GetSkill(ctx, intruder, skill.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)

	hijack := *skill
	hijack.UserID = intruder
	hijack.Name = "Hijacked"
	assert.ErrorIs(t, s.UpdateSkill(ctx, &hijack), db.ErrNotFound)
	assert.ErrorIs(t, s.DeleteSkill(ctx, intruder, skill.ID), db.ErrNotFound)

	skills, err := s.ListSkills(ctx, intruder)
	require.NoError(t, err)
	assert.Empty(t, skills)

	still, err := s.GetSkill(ctx, owner, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", still.Name)
}

func TestStore_CreateRequiresUser(t *testing.T) {
	s := New()
	err := s.CreateProject(context.Background(), &types.Project{UserID: uuid.New(), Title: "Orphan"})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestStore_LoadProfile(t *testing.T) {
	ctx := context.Background()
	s := New()
	userID := newUser(t, s, "p@example.com")

	end := 2016
	require.NoError(t, s.CreateEducation(ctx, &types.Education{UserID: userID, Degree: "BSc", Institution: "MIT", StartYear: 2012, EndYear: &end}))
	require.NoError(t, s.CreateSkill(ctx, &types.Skill{UserID: userID, Name: "Go", Proficiency: types.ProficiencyExpert}))
	require.NoError(t, s.CreateCertification(ctx, &types.Certification{UserID: userID, Title: "CKA", Issuer: "CNCF", IssueDate: types.NewDate(2022, 5, 1)}))

	profile, err := s.LoadProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "p@example.com", profile.User.Email)
	assert.Len(t, profile.Education, 1)
	assert.Len(t, profile.Skills, 1)
	assert.Len(t, profile.Certifications, 1)
	assert.NotNil(t, profile.Experiences)
	assert.Empty(t, profile.Experiences)

	_, err = s.LoadProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestStore_ResumesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	userID := newUser(t, s, "r@example.com")

	first := &types.Resume{UserID: userID, Title: "First", Content: "a", Template: "classic"}
	second := &types.Resume{UserID: userID, Title: "Second", Content: "b", Template: "classic"}
	require.NoError(t, s.CreateResume(ctx, first))
	require.NoError(t, s.CreateResume(ctx, second))

	list, err := s.ListResumes(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Title)
}
