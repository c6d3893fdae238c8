package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/rezoom/internal/db/memory"
	"github.com/jonathan/rezoom/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResult(t *testing.T, raw string) *types.ExtractionResult {
	t.Helper()
	var result types.ExtractionResult
	require.NoError(t, json.Unmarshal([]byte(raw), &result))
	return &result
}

func newStoreWithUser(t *testing.T) (*memory.Store, uuid.UUID) {
	t.Helper()
	store := memory.New()
	userID, err := store.CreateUser(context.Background(), "Jane", "jane@example.com", "")
	require.NoError(t, err)
	return store, userID
}

func TestPersist_PresentEndDateIsOngoing(t *testing.T) {
	store, userID := newStoreWithUser(t)
	p := NewPersister(store, DuplicatesAllow, nil)

	result := decodeResult(t, `{"experiences": [{"company": "Acme", "role": "Engineer", "startDate": "2020-05", "endDate": "Present"}]}`)
	summary, err := p.Persist(context.Background(), userID, result)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Experiences)

	exps, err := store.ListExperiences(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Nil(t, exps[0].EndDate)
	assert.Equal(t, "2020-05-01", exps[0].StartDate.String())
}

func TestPersist_SkipsInvalidCandidatesSilently(t *testing.T) {
	store, userID := newStoreWithUser(t)
	p := NewPersister(store, DuplicatesAllow, nil)

	result := decodeResult(t, `{
		"experiences": [
			{"company": "Acme", "role": "Engineer", "startDate": "2019"},
			{"company": "NoStart", "role": "Engineer"},
			{"role": "Missing company", "startDate": "2019"},
			{"company": "Backwards", "role": "Engineer", "startDate": "2020", "endDate": "2018"}
		],
		"education": [
			{"degree": "BSc", "institution": "MIT", "startYear": "Sept 2012", "endYear": "2016"},
			{"degree": "MSc", "institution": "MIT", "startYear": "unknown"},
			{"degree": "PhD", "institution": "MIT", "startYear": 2017, "endYear": "someday"}
		],
		"skills": [
			{"name": "Go", "proficiency": "Expert"},
			{"name": "Rust"},
			{"name": "Haskell", "proficiency": "Guru"},
			{"proficiency": "Advanced"}
		],
		"projects": [
			{"title": "rezoom", "techStack": "Go, Postgres", "githubUrl": "not a url", "liveUrl": "https://rezoom.dev"},
			{"description": "no title"}
		],
		"certifications": [
			{"title": "CKA", "issuer": "CNCF", "issueDate": "2022-05-01", "expiryDate": null},
			{"title": "No date", "issuer": "CNCF"}
		]
	}`)

	summary, err := p.Persist(context.Background(), userID, result)
	require.NoError(t, err)
	assert.Equal(t, types.ExtractionSummary{Experiences: 1, Educations: 1, Skills: 2, Projects: 1, Certifications: 1}, summary)

	profile, err := store.LoadProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2012, profile.Education[0].StartYear)
	assert.Equal(t, 2016, *profile.Education[0].EndYear)

	var rust *types.Skill
	for i := range profile.Skills {
		if profile.Skills[i].Name == "Rust" {
			rust = &profile.Skills[i]
		}
	}
	require.NotNil(t, rust)
	assert.Equal(t, types.ProficiencyIntermediate, rust.Proficiency)

	require.Len(t, profile.Projects, 1)
	assert.Nil(t, profile.Projects[0].GithubURL)
	require.NotNil(t, profile.Projects[0].LiveURL)
	assert.Equal(t, []string{"Go", "Postgres"}, profile.Projects[0].TechStack)
}

func TestPersist_PartialEndDatesCoverTheirPeriod(t *testing.T) {
	store, userID := newStoreWithUser(t)
	p := NewPersister(store, DuplicatesAllow, nil)

	result := decodeResult(t, `{
		"experiences": [
			{"company": "Acme", "role": "Intern", "startDate": "Jun 2021", "endDate": "Fall 2021"},
			{"company": "Globex", "role": "Engineer", "startDate": "2022-03-15", "endDate": "Mar 2022"}
		],
		"certifications": [
			{"title": "CKA", "issuer": "CNCF", "issueDate": "March 2022", "expiryDate": "2022"}
		]
	}`)
	summary, err := p.Persist(context.Background(), userID, result)
	require.NoError(t, err)
	assert.Equal(t, types.ExtractionSummary{Experiences: 2, Certifications: 1}, summary)

	profile, err := store.LoadProfile(context.Background(), userID)
	require.NoError(t, err)
	ends := map[string]string{}
	for _, e := range profile.Experiences {
		require.NotNil(t, e.EndDate)
		ends[e.Company] = e.EndDate.String()
	}
	assert.Equal(t, map[string]string{"Acme": "2021-12-31", "Globex": "2022-03-31"}, ends)

	require.Len(t, profile.Certifications, 1)
	require.NotNil(t, profile.Certifications[0].ExpiryDate)
	assert.Equal(t, "2022-12-31", profile.Certifications[0].ExpiryDate.String())
}

func TestPersist_EmptyResult(t *testing.T) {
	store, userID := newStoreWithUser(t)
	p := NewPersister(store, DuplicatesAllow, nil)

	summary, err := p.Persist(context.Background(), userID, &types.ExtractionResult{})
	require.NoError(t, err)
	assert.Zero(t, summary.Total())

	summary, err = p.Persist(context.Background(), userID, nil)
	require.NoError(t, err)
	assert.Zero(t, summary.Total())
}

func TestPersist_DuplicatePolicies(t *testing.T) {
	raw := `{"skills": [{"name": "Go", "proficiency": "Expert"}, {"name": " go ", "proficiency": "Beginner"}]}`

	t.Run("allow keeps repeats", func(t *testing.T) {
		store, userID := newStoreWithUser(t)
		p := NewPersister(store, DuplicatesAllow, nil)

		first, err := p.Persist(context.Background(), userID, decodeResult(t, raw))
		require.NoError(t, err)
		second, err := p.Persist(context.Background(), userID, decodeResult(t, raw))
		require.NoError(t, err)
		assert.Equal(t, 2, first.Skills)
		assert.Equal(t, 2, second.Skills)

		skills, _ := store.ListSkills(context.Background(), userID)
		assert.Len(t, skills, 4)
	})

	t.Run("skip drops repeats", func(t *testing.T) {
		store, userID := newStoreWithUser(t)
		p := NewPersister(store, DuplicatesSkip, nil)

		first, err := p.Persist(context.Background(), userID, decodeResult(t, raw))
		require.NoError(t, err)
		second, err := p.Persist(context.Background(), userID, decodeResult(t, raw))
		require.NoError(t, err)
		assert.Equal(t, 1, first.Skills)
		assert.Equal(t, 0, second.Skills)

		skills, _ := store.ListSkills(context.Background(), userID)
		assert.Len(t, skills, 1)
	})
}

type failingStore struct {
	*memory.Store
}

func (f failingStore) CreateSkill(context.Context, *types.Skill) error {
	return errors.New("connection refused")
}

func TestPersist_StoreFailureAborts(t *testing.T) {
	store, userID := newStoreWithUser(t)
	p := NewPersister(failingStore{store}, DuplicatesAllow, nil)

	result := decodeResult(t, `{
		"experiences": [{"company": "Acme", "role": "Engineer", "startDate": "2019"}],
		"skills": [{"name": "Go", "proficiency": "Expert"}]
	}`)
	summary, err := p.Persist(context.Background(), userID, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist skill")
	assert.Equal(t, 1, summary.Experiences)
}

func TestParseDuplicatePolicy(t *testing.T) {
	p, err := ParseDuplicatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DuplicatesAllow, p)

	p, err = ParseDuplicatePolicy("SKIP")
	require.NoError(t, err)
	assert.Equal(t, DuplicatesSkip, p)

	_, err = ParseDuplicatePolicy("merge")
	assert.Error(t, err)
}
