package extraction

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/rezoom/internal/types"
	"go.uber.org/zap"
)

// DuplicatePolicy decides what happens to a candidate identical to an existing record
type DuplicatePolicy string

const (
	// DuplicatesAllow persists every valid candidate; repeated uploads create duplicates
	DuplicatesAllow DuplicatePolicy = "allow"
	// DuplicatesSkip drops candidates whose identity fields match an existing record
	DuplicatesSkip DuplicatePolicy = "skip"
)

// ParseDuplicatePolicy parses a policy name; empty means allow
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DuplicatesAllow:
		return DuplicatesAllow, nil
	case DuplicatesSkip:
		return DuplicatesSkip, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want allow or skip)", s)
	}
}

// Store is the subset of the profile store the persister writes to
type Store interface {
	LoadProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	CreateExperience(ctx context.Context, exp *types.Experience) error
	CreateEducation(ctx context.Context, edu *types.Education) error
	CreateSkill(ctx context.Context, skill *types.Skill) error
	CreateProject(ctx context.Context, project *types.Project) error
	CreateCertification(ctx context.Context, cert *types.Certification) error
}

// Persister validates extraction candidates and stores the ones that qualify
type Persister struct {
	store  Store
	policy DuplicatePolicy
	logger *zap.Logger
}

// NewPersister creates a persister with the given duplicate policy
func NewPersister(store Store, policy DuplicatePolicy, logger *zap.Logger) *Persister {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == "" {
		policy = DuplicatesAllow
	}
	return &Persister{store: store, policy: policy, logger: logger}
}

// Persist stores every valid candidate for the user and returns per-category counts.
// Invalid candidates are skipped silently; only the counts reflect them.
// A store failure aborts the call; records created before it remain.
func (p *Persister) Persist(ctx context.Context, userID uuid.UUID, result *types.ExtractionResult) (types.ExtractionSummary, error) {
	var summary types.ExtractionSummary
	if result == nil {
		return summary, nil
	}

	seen, err := p.existing(ctx, userID)
	if err != nil {
		return summary, err
	}
	log := p.logger.With(zap.String("user_id", userID.String()))

	for i, c := range result.Experiences {
		exp, reason := ExperienceFromCandidate(c)
		if exp == nil {
			log.Debug("skipping experience candidate", zap.Int("index", i), zap.String("reason", reason))
			continue
		}
		if !seen.add(experienceKey(exp)) {
			log.Debug("skipping duplicate experience", zap.Int("index", i))
			continue
		}
		exp.UserID = userID
		if err := p.store.CreateExperience(ctx, exp); err != nil {
			return summary, fmt.Errorf("failed to persist experience: %w", err)
		}
		summary.Experiences++
	}

	for i, c := range result.Education {
		edu, reason := EducationFromCandidate(c)
		if edu == nil {
			log.Debug("skipping education candidate", zap.Int("index", i), zap.String("reason", reason))
			continue
		}
		if !seen.add(educationKey(edu)) {
			log.Debug("skipping duplicate education", zap.Int("index", i))
			continue
		}
		edu.UserID = userID
		if err := p.store.CreateEducation(ctx, edu); err != nil {
			return summary, fmt.Errorf("failed to persist education: %w", err)
		}
		summary.Educations++
	}

	for i, c := range result.Skills {
		skill, reason := SkillFromCandidate(c)
		if skill == nil {
			log.Debug("skipping skill candidate", zap.Int("index", i), zap.String("reason", reason))
			continue
		}
		if !seen.add(skillKey(skill)) {
			log.Debug("skipping duplicate skill", zap.Int("index", i))
			continue
		}
		skill.UserID = userID
		if err := p.store.CreateSkill(ctx, skill); err != nil {
			return summary, fmt.Errorf("failed to persist skill: %w", err)
		}
		summary.Skills++
	}

	for i, c := range result.Projects {
		project, reason := ProjectFromCandidate(c)
		if project == nil {
			log.Debug("skipping project candidate", zap.Int("index", i), zap.String("reason", reason))
			continue
		}
		if !seen.add(projectKey(project)) {
			log.Debug("skipping duplicate project", zap.Int("index", i))
			continue
		}
		project.UserID = userID
		if err := p.store.CreateProject(ctx, project); err != nil {
			return summary, fmt.Errorf("failed to persist project: %w", err)
		}
		summary.Projects++
	}

	for i, c := range result.Certifications {
		cert, reason := CertificationFromCandidate(c)
		if cert == nil {
			log.Debug("skipping certification candidate", zap.Int("index", i), zap.String("reason", reason))
			continue
		}
		if !seen.add(certificationKey(cert)) {
			log.Debug("skipping duplicate certification", zap.Int("index", i))
			continue
		}
		cert.UserID = userID
		if err := p.store.CreateCertification(ctx, cert); err != nil {
			return summary, fmt.Errorf("failed to persist certification: %w", err)
		}
		summary.Certifications++
	}

	log.Info("extraction persisted",
		zap.Int("experiences", summary.Experiences),
		zap.Int("educations", summary.Educations),
		zap.Int("skills", summary.Skills),
		zap.Int("projects", summary.Projects),
		zap.Int("certifications", summary.Certifications))
	return summary, nil
}

// keySet tracks identity keys under the skip policy; under allow it accepts everything
type keySet map[string]struct{}

func (k keySet) add(key string) bool {
	if k == nil {
		return true
	}
	if _, dup := k[key]; dup {
		return false
	}
	k[key] = struct{}{}
	return true
}

func (p *Persister) existing(ctx context.Context, userID uuid.UUID) (keySet, error) {
	if p.policy != DuplicatesSkip {
		return nil, nil
	}
	profile, err := p.store.LoadProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing profile: %w", err)
	}
	keys := keySet{}
	for i := range profile.Experiences {
		keys.add(experienceKey(&profile.Experiences[i]))
	}
	for i := range profile.Education {
		keys.add(educationKey(&profile.Education[i]))
	}
	for i := range profile.Skills {
		keys.add(skillKey(&profile.Skills[i]))
	}
	for i := range profile.Projects {
		keys.add(projectKey(&profile.Projects[i]))
	}
	for i := range profile.Certifications {
		keys.add(certificationKey(&profile.Certifications[i]))
	}
	return keys, nil
}

func norm(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func experienceKey(e *types.Experience) string {
	return "experience|" + norm(e.Company) + "|" + norm(e.Role) + "|" + e.StartDate.String()
}

func educationKey(e *types.Education) string {
	return fmt.Sprintf("education|%s|%s|%d", norm(e.Degree), norm(e.Institution), e.StartYear)
}

func skillKey(s *types.Skill) string {
	return "skill|" + norm(s.Name)
}

func projectKey(p *types.Project) string {
	return "project|" + norm(p.Title)
}

func certificationKey(c *types.Certification) string {
	return "certification|" + norm(c.Title) + "|" + norm(c.Issuer)
}

// ExperienceFromCandidate converts a candidate, returning nil and a reason when it is unusable
func ExperienceFromCandidate(c types.ExperienceCandidate) (*types.Experience, string) {
	start, ok := ParseRequiredDate(c.StartDate.String())
	if !ok {
		return nil, "startDate missing or unparseable"
	}
	end, ok := ParseEndDate(c.EndDate.String())
	if !ok {
		return nil, "endDate unparseable"
	}
	exp := &types.Experience{
		Company:      c.Company.String(),
		Role:         c.Role.String(),
		StartDate:    start,
		EndDate:      end,
		Description:  c.Description.String(),
		Technologies: nonNil(c.Technologies),
	}
	if err := exp.Validate(); err != nil {
		return nil, err.Error()
	}
	return exp, ""
}

// EducationFromCandidate converts a candidate, returning nil and a reason when it is unusable
func EducationFromCandidate(c types.EducationCandidate) (*types.Education, string) {
	start, ok := ParseYear(c.StartYear.String())
	if !ok {
		return nil, "startYear missing or unparseable"
	}
	var end *int
	if raw := c.EndYear.String(); raw != "" && !strings.EqualFold(raw, "present") {
		year, ok := ParseYear(raw)
		if !ok {
			return nil, "endYear unparseable"
		}
		end = &year
	}
	edu := &types.Education{
		Degree:      c.Degree.String(),
		Institution: c.Institution.String(),
		StartYear:   start,
		EndYear:     end,
		Description: c.Description.String(),
	}
	if err := edu.Validate(); err != nil {
		return nil, err.Error()
	}
	return edu, ""
}

// SkillFromCandidate converts a candidate. A missing proficiency defaults to Intermediate;
// an unrecognized one rejects the candidate.
func SkillFromCandidate(c types.SkillCandidate) (*types.Skill, string) {
	proficiency := types.ProficiencyIntermediate
	if raw := c.Proficiency.String(); raw != "" {
		p, ok := types.ParseProficiency(raw)
		if !ok {
			return nil, "unknown proficiency " + raw
		}
		proficiency = p
	}
	skill := &types.Skill{Name: c.Name.String(), Proficiency: proficiency}
	if err := skill.Validate(); err != nil {
		return nil, err.Error()
	}
	return skill, ""
}

// ProjectFromCandidate converts a candidate. Malformed links are dropped, not fatal.
func ProjectFromCandidate(c types.ProjectCandidate) (*types.Project, string) {
	project := &types.Project{
		Title:       c.Title.String(),
		Description: c.Description.String(),
		TechStack:   nonNil(c.TechStack),
		GithubURL:   webURL(c.GithubURL),
		LiveURL:     webURL(c.LiveURL),
	}
	if err := project.Validate(); err != nil {
		return nil, err.Error()
	}
	return project, ""
}

// CertificationFromCandidate converts a candidate, returning nil and a reason when it is unusable
func CertificationFromCandidate(c types.CertificationCandidate) (*types.Certification, string) {
	issued, ok := ParseRequiredDate(c.IssueDate.String())
	if !ok {
		return nil, "issueDate missing or unparseable"
	}
	expiry, ok := ParseEndDate(c.ExpiryDate.String())
	if !ok {
		return nil, "expiryDate unparseable"
	}
	cert := &types.Certification{
		Title:         c.Title.String(),
		Issuer:        c.Issuer.String(),
		IssueDate:     issued,
		ExpiryDate:    expiry,
		CredentialID:  c.CredentialID.Ptr(),
		CredentialURL: webURL(c.CredentialURL),
	}
	if err := cert.Validate(); err != nil {
		return nil, err.Error()
	}
	return cert, ""
}

func nonNil(list types.LooseList) []string {
	if list == nil {
		return []string{}
	}
	return []string(list)
}

// webURL keeps absolute http(s) links only
func webURL(s types.LooseString) *string {
	raw := s.Ptr()
	if raw == nil {
		return nil
	}
	u, err := url.Parse(*raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil
	}
	return raw
}
