package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/rezoom/internal/db"
	"github.com/jonathan/rezoom/internal/types"
)

// requireUser mirrors the foreign key on every record table. Caller holds s.mu.
func (s *Store) requireUser(userID uuid.UUID) error {
	if _, ok := s.users.get(userID, userID); !ok {
		return fmt.Errorf("user %s: %w", userID, db.ErrNotFound)
	}
	return nil
}

func insert[T any](s *Store, c *collection[T], userID uuid.UUID, id *uuid.UUID, created, updated *time.Time, value func() T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUser(userID); err != nil {
		return err
	}
	seq, now := s.next()
	*id, *created, *updated = uuid.New(), now, now
	c.put(seq, userID, *id, value())
	return nil
}

func fetch[T any](s *Store, c *collection[T], userID, id uuid.UUID, clone func(T) T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := c.get(userID, id)
	if !ok {
		return nil, db.ErrNotFound
	}
	v := clone(e.value)
	return &v, nil
}

func listAll[T any](s *Store, c *collection[T], userID uuid.UUID, clone func(T) T) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := c.list(userID)
	for i := range items {
		items[i] = clone(items[i])
	}
	return items
}

// replace overwrites a stored record, keeping its creation time
func replace[T any](s *Store, c *collection[T], userID, id uuid.UUID, created, updated *time.Time, value func() T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := c.get(userID, id)
	if !ok {
		return db.ErrNotFound
	}
	*created = createdAt(e.value)
	*updated = s.now()
	c.put(e.seq, userID, id, value())
	return nil
}

func drop[T any](s *Store, c *collection[T], userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !c.remove(userID, id) {
		return db.ErrNotFound
	}
	return nil
}

func createdAt(v any) time.Time {
	switch r := v.(type) {
	case types.Experience:
		return r.CreatedAt
	case types.Education:
		return r.CreatedAt
	case types.Skill:
		return r.CreatedAt
	case types.Project:
		return r.CreatedAt
	case types.Certification:
		return r.CreatedAt
	case types.Resume:
		return r.CreatedAt
	}
	return time.Time{}
}

func same[T any](v T) T { return v }

func cloneDate(d *types.Date) *types.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

func cloneExperience(e types.Experience) types.Experience {
	e.EndDate = cloneDate(e.EndDate)
	e.Technologies = slices.Clone(e.Technologies)
	if e.Technologies == nil {
		e.Technologies = []string{}
	}
	return e
}

func cloneEducation(e types.Education) types.Education {
	e.EndYear = cloneInt(e.EndYear)
	return e
}

func cloneProject(p types.Project) types.Project {
	p.TechStack = slices.Clone(p.TechStack)
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	p.GithubURL = cloneString(p.GithubURL)
	p.LiveURL = cloneString(p.LiveURL)
	return p
}

func cloneCertification(c types.Certification) types.Certification {
	c.ExpiryDate = cloneDate(c.ExpiryDate)
	c.CredentialID = cloneString(c.CredentialID)
	c.CredentialURL = cloneString(c.CredentialURL)
	return c
}

// --- experiences ---

// CreateExperience inserts an experience and fills in its id and timestamps
func (s *Store) CreateExperience(_ context.Context, exp *types.Experience) error {
	return insert(s, s.experiences, exp.UserID, &exp.ID, &exp.CreatedAt, &exp.UpdatedAt,
		func() types.Experience { return cloneExperience(*exp) })
}

// GetExperience retrieves one experience owned by the user
func (s *Store) GetExperience(_ context.Context, userID, id uuid.UUID) (*types.Experience, error) {
	return fetch(s, s.experiences, userID, id, cloneExperience)
}

// ListExperiences returns the user's experiences, most recent first
func (s *Store) ListExperiences(_ context.Context, userID uuid.UUID) ([]types.Experience, error) {
	items := listAll(s, s.experiences, userID, cloneExperience)
	sort.SliceStable(items, func(i, j int) bool { return items[i].StartDate.After(items[j].StartDate.Time) })
	return items, nil
}

// UpdateExperience overwrites every field of an experience owned by exp.UserID
func (s *Store) UpdateExperience(_ context.Context, exp *types.Experience) error {
	return replace(s, s.experiences, exp.UserID, exp.ID, &exp.CreatedAt, &exp.UpdatedAt,
		func() types.Experience { return cloneExperience(*exp) })
}

// DeleteExperience removes an experience owned by the user
func (s *Store) DeleteExperience(_ context.Context, userID, id uuid.UUID) error {
	return drop(s, s.experiences, userID, id)
}

// --- education ---

// CreateEducation inserts an education entry and fills in its id and timestamps
func (s *Store) CreateEducation(_ context.Context, edu *types.Education) error {
	return insert(s, s.education, edu.UserID, &edu.ID, &edu.CreatedAt, &edu.UpdatedAt,
		func() types.Education { return cloneEducation(*edu) })
}

// GetEducation retrieves one education entry owned by the user
func (s *Store) GetEducation(_ context.Context, userID, id uuid.UUID) (*types.Education, error) {
	return fetch(s, s.education, userID, id, cloneEducation)
}

// ListEducation returns the user's education, most recent first
func (s *Store) ListEducation(_ context.Context, userID uuid.UUID) ([]types.Education, error) {
	items := listAll(s, s.education, userID, cloneEducation)
	sort.SliceStable(items, func(i, j int) bool { return items[i].StartYear > items[j].StartYear })
	return items, nil
}

// UpdateEducation overwrites every field of an education entry owned by edu.UserID
func (s *Store) UpdateEducation(_ context.Context, edu *types.Education) error {
	return replace(s, s.education, edu.UserID, edu.ID, &edu.CreatedAt, &edu.UpdatedAt,
		func() types.Education { return cloneEducation(*edu) })
}

// DeleteEducation removes an education entry owned by the user
func (s *Store) DeleteEducation(_ context.Context, userID, id uuid.UUID) error {
	return drop(s, s.education, userID, id)
}

// --- skills ---

// CreateSkill inserts a skill and fills in its id and timestamps
func (s *Store) CreateSkill(_ context.Context, skill *types.Skill) error {
	return insert(s, s.skills, skill.UserID, &skill.ID, &skill.CreatedAt, &skill.UpdatedAt,
		func() types.Skill { return *skill })
}

// GetSkill retrieves one skill owned by the user
func (s *Store) GetSkill(_ context.Context, userID, id uuid.UUID) (*types.Skill, error) {
	return fetch(s, s.skills, userID, id, same[types.Skill])
}

// ListSkills returns the user's skills in insertion order
func (s *Store) ListSkills(_ context.Context, userID uuid.UUID) ([]types.Skill, error) {
	return listAll(s, s.skills, userID, same[types.Skill]), nil
}

// UpdateSkill overwrites the name and proficiency of a skill owned by skill.UserID
func (s *Store) UpdateSkill(_ context.Context, skill *types.Skill) error {
	return replace(s, s.skills, skill.UserID, skill.ID, &skill.CreatedAt, &skill.UpdatedAt,
		func() types.Skill { return *skill })
}

// DeleteSkill removes a skill owned by the user
func (s *Store) DeleteSkill(_ context.Context, userID, id uuid.UUID) error {
	return drop(s, s.skills, userID, id)
}

// --- projects ---

// CreateProject inserts a project and fills in its id and timestamps
func (s *Store) CreateProject(_ context.Context, project *types.Project) error {
	return insert(s, s.projects, project.UserID, &project.ID, &project.CreatedAt, &project.UpdatedAt,
		func() types.Project { return cloneProject(*project) })
}

// GetProject retrieves one project owned by the user
func (s *Store) GetProject(_ context.Context, userID, id uuid.UUID) (*types.Project, error) {
	return fetch(s, s.projects, userID, id, cloneProject)
}

// ListProjects returns the user's projects in insertion order
func (s *Store) ListProjects(_ context.Context, userID uuid.UUID) ([]types.Project, error) {
	return listAll(s, s.projects, userID, cloneProject), nil
}

// UpdateProject overwrites every field of a project owned by project.UserID
func (s *Store) UpdateProject(_ context.Context, project *types.Project) error {
	return replace(s, s.projects, project.UserID, project.ID, &project.CreatedAt, &project.UpdatedAt,
		func() types.Project { return cloneProject(*project) })
}

// DeleteProject removes a project owned by the user
func (s *Store) DeleteProject(_ context.Context, userID, id uuid.UUID) error {
	return drop(s, s.projects, userID, id)
}

// --- certifications ---

// CreateCertification inserts a certification and fills in its id and timestamps
func (s *Store) CreateCertification(_ context.Context, cert *types.Certification) error {
	return insert(s, s.certifications, cert.UserID, &cert.ID, &cert.CreatedAt, &cert.UpdatedAt,
		func() types.Certification { return cloneCertification(*cert) })
}

// GetCertification retrieves one certification owned by the user
func (s *Store) GetCertification(_ context.Context, userID, id uuid.UUID) (*types.Certification, error) {
	return fetch(s, s.certifications, userID, id, cloneCertification)
}

// ListCertifications returns the user's certifications, most recent first
func (s *Store) ListCertifications(_ context.Context, userID uuid.UUID) ([]types.Certification, error) {
	items := listAll(s, s.certifications, userID, cloneCertification)
	sort.SliceStable(items, func(i, j int) bool { return items[i].IssueDate.After(items[j].IssueDate.Time) })
	return items, nil
}

// UpdateCertification overwrites every field of a certification owned by cert.UserID
func (s *Store) UpdateCertification(_ context.Context, cert *types.Certification) error {
	return replace(s, s.certifications, cert.UserID, cert.ID, &cert.CreatedAt, &cert.UpdatedAt,
		func() types.Certification { return cloneCertification(*cert) })
}

// DeleteCertification removes a certification owned by the user
func (s *Store) DeleteCertification(_ context.Context, userID, id uuid.UUID) error {
	return drop(s, s.certifications, userID, id)
}

// --- resumes ---

// CreateResume stores a rendered resume document
func (s *Store) CreateResume(_ context.Context, resume *types.Resume) error {
	return insert(s, s.resumes, resume.UserID, &resume.ID, &resume.CreatedAt, &resume.UpdatedAt,
		func() types.Resume { return *resume })
}

// GetResume retrieves one resume owned by the user
func (s *Store) GetResume(_ context.Context, userID, id uuid.UUID) (*types.Resume, error) {
	return fetch(s, s.resumes, userID, id, same[types.Resume])
}

// ListResumes returns the user's resumes, newest first
func (s *Store) ListResumes(_ context.Context, userID uuid.UUID) ([]types.Resume, error) {
	items := listAll(s, s.resumes, userID, same[types.Resume])
	slices.Reverse(items)
	return items, nil
}

// UpdateResume replaces the title, content and template of a resume
func (s *Store) UpdateResume(_ context.Context, resume *types.Resume) error {
	return replace(s, s.resumes, resume.UserID, resume.ID, &resume.CreatedAt, &resume.UpdatedAt,
		func() types.Resume { return *resume })
}

// DeleteResume removes a resume owned by the user
func (s *Store) DeleteResume(_ context.Context, userID, id uuid.UUID) error {
	return drop(s, s.resumes, userID, id)
}
