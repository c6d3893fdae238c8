package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rezoom/internal/db/memory"
	"github.com/jonathan/rezoom/internal/llm"
	"github.com/jonathan/rezoom/internal/types"
)

func newSessionStore(t *testing.T) (*Toolset, *memory.Store, *Session) {
	t.Helper()
	store := memory.New()
	userID, err := store.CreateUser(context.Background(), "Jane", "jane@example.com", "")
	require.NoError(t, err)
	return NewToolset(store), store, NewSession(userID, types.ConversationState{CurrentStep: types.StepIdle})
}

func exec(t *testing.T, ts *Toolset, s *Session, name string, args map[string]any) (any, error) {
	t.Helper()
	return ts.Execute(context.Background(), s, llm.FunctionCall{Name: name, Args: args})
}

func TestToolset_ClosedSet(t *testing.T) {
	ts := NewToolset(memory.New())
	assert.Equal(t, []string{
		"list_profile",
		"create_experience", "update_experience", "delete_experience",
		"create_education", "update_education", "delete_education",
		"create_skill", "update_skill", "delete_skill",
		"create_project", "update_project", "delete_project",
		"create_certification", "update_certification", "delete_certification",
		"update_user_profile", "create_resume", "regenerate_resume",
	}, ts.Names())
}

func TestToolset_SchemasHaveNoIdentityParameter(t *testing.T) {
	for _, decl := range NewToolset(memory.New()).Declarations() {
		t.Run(decl.Name, func(t *testing.T) {
			assert.Equal(t, "object", decl.Parameters["type"])
			assert.Equal(t, false, decl.Parameters["additionalProperties"])
			props, ok := decl.Parameters["properties"].(map[string]any)
			require.True(t, ok)
			for name := range props {
				assert.NotContains(t, strings.ToLower(name), "user", "tool %s exposes %s", decl.Name, name)
			}
		})
	}
}

func TestExperienceTools_CreateUpdateDelete(t *testing.T) {
	ts, store, s := newSessionStore(t)
	ctx := context.Background()

	out, err := exec(t, ts, s, "create_experience", map[string]any{
		"company":      "Acme",
		"role":         "Engineer",
		"startDate":    "2020-01-15",
		"endDate":      "2022-06-30",
		"technologies": []any{"Go", "Postgres"},
	})
	require.NoError(t, err)
	exp := out.(*types.Experience)
	assert.Equal(t, s.UserID, exp.UserID)
	assert.Equal(t, []string{"Go", "Postgres"}, exp.Technologies)

	_, err = exec(t, ts, s, "update_experience", map[string]any{
		"id":      exp.ID.String(),
		"role":    "Senior Engineer",
		"endDate": nil,
	})
	require.NoError(t, err)

	got, err := store.GetExperience(ctx, s.UserID, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", got.Role)
	assert.Equal(t, "Acme", got.Company)
	assert.Nil(t, got.EndDate)
	assert.Equal(t, []string{"Go", "Postgres"}, got.Technologies)

	_, err = exec(t, ts, s, "delete_experience", map[string]any{"id": exp.ID.String()})
	require.NoError(t, err)
	_, err = store.GetExperience(ctx, s.UserID, exp.ID)
	assert.Error(t, err)
	assert.Equal(t, types.StepSaving, *s.Update().CurrentStep)
}

func TestExperienceTools_Validation(t *testing.T) {
	ts, store, s := newSessionStore(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "missing role", args: map[string]any{"company": "Acme", "startDate": "2020-01-01"}},
		{name: "bad date", args: map[string]any{"company": "Acme", "role": "Dev", "startDate": "January 2020"}},
		{name: "impossible date", args: map[string]any{"company": "Acme", "role": "Dev", "startDate": "2020-13-45"}},
		{name: "end before start", args: map[string]any{"company": "Acme", "role": "Dev", "startDate": "2020-01-01", "endDate": "2019-01-01"}},
		{name: "wrong type", args: map[string]any{"company": 42, "role": "Dev", "startDate": "2020-01-01"}},
		{name: "blank company", args: map[string]any{"company": "", "role": "Dev", "startDate": "2020-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := exec(t, ts, s, "create_experience", tt.args)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}

	exps, err := store.ListExperiences(context.Background(), s.UserID)
	require.NoError(t, err)
	assert.Empty(t, exps)
	assert.Nil(t, s.Update().CurrentStep)
}

func TestTools_OtherUsersRecordsAreNotFound(t *testing.T) {
	ts, store, s := newSessionStore(t)
	ctx := context.Background()

	otherID, err := store.CreateUser(ctx, "Mallory", "m@example.com", "")
	require.NoError(t, err)
	skill := &types.Skill{UserID: otherID, Name: "Go", Proficiency: types.ProficiencyExpert}
	require.NoError(t, store.CreateSkill(ctx, skill))

	_, err = exec(t, ts, s, "update_skill", map[string]any{"id": skill.ID.String(), "proficiency": "Beginner"})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	_, err = exec(t, ts, s, "delete_skill", map[string]any{"id": skill.ID.String()})
	require.ErrorAs(t, err, &notFound)

	got, err := store.GetSkill(ctx, otherID, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ProficiencyExpert, got.Proficiency)
}

func TestEducationTools(t *testing.T) {
	ts, _, s := newSessionStore(t)

	out, err := exec(t, ts, s, "create_education", map[string]any{
		"degree": "BSc", "institution": "MIT", "startYear": float64(2012), "endYear": float64(2016),
	})
	require.NoError(t, err)
	edu := out.(*types.Education)
	require.NotNil(t, edu.EndYear)
	assert.Equal(t, 2016, *edu.EndYear)

	_, err = exec(t, ts, s, "create_education", map[string]any{
		"degree": "BSc", "institution": "MIT", "startYear": 2012.5,
	})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = exec(t, ts, s, "update_education", map[string]any{"id": edu.ID.String(), "endYear": float64(2010)})
	assert.ErrorAs(t, err, &validationErr)
}

func TestProjectTools_URLValidation(t *testing.T) {
	ts, _, s := newSessionStore(t)

	_, err := exec(t, ts, s, "create_project", map[string]any{"title": "rezoom", "githubUrl": "not a url"})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "githubUrl")

	out, err := exec(t, ts, s, "create_project", map[string]any{
		"title": "rezoom", "githubUrl": "https://github.com/x/rezoom", "liveUrl": nil,
	})
	require.NoError(t, err)
	project := out.(*types.Project)
	require.NotNil(t, project.GithubURL)
	assert.Nil(t, project.LiveURL)
}

func TestCertificationTools(t *testing.T) {
	ts, store, s := newSessionStore(t)

	out, err := exec(t, ts, s, "create_certification", map[string]any{
		"title": "CKA", "issuer": "CNCF", "issueDate": "2021-06-01", "credentialId": "ABC-1",
	})
	require.NoError(t, err)
	cert := out.(*types.Certification)

	_, err = exec(t, ts, s, "update_certification", map[string]any{"id": cert.ID.String(), "credentialId": nil})
	require.NoError(t, err)
	got, err := store.GetCertification(context.Background(), s.UserID, cert.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CredentialID)
}

func TestUpdateUserProfileTool(t *testing.T) {
	ts, store, s := newSessionStore(t)

	_, err := exec(t, ts, s, "update_user_profile", map[string]any{})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = exec(t, ts, s, "update_user_profile", map[string]any{"email": "evil@example.com"})
	require.ErrorAs(t, err, &validationErr)

	_, err = exec(t, ts, s, "update_user_profile", map[string]any{"location": "Berlin", "headline": "Backend engineer"})
	require.NoError(t, err)

	user, err := store.GetUser(context.Background(), s.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", user.Location)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestListProfileTool(t *testing.T) {
	ts, _, s := newSessionStore(t)
	_, err := exec(t, ts, s, "create_skill", map[string]any{"name": "Go", "proficiency": "Expert"})
	require.NoError(t, err)

	out, err := exec(t, ts, s, "list_profile", nil)
	require.NoError(t, err)
	profile := out.(*types.Profile)
	assert.Len(t, profile.Skills, 1)

	_, err = exec(t, ts, s, "list_profile", map[string]any{"userId": uuid.NewString()})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreateResumeTool_UnknownTemplate(t *testing.T) {
	ts, _, s := newSessionStore(t)
	_, err := exec(t, ts, s, "create_resume", map[string]any{"template": "fancy"})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Nil(t, s.ResumeID())
}

func TestResumeTools_BlankTitleKeepsFallback(t *testing.T) {
	ts, store, s := newSessionStore(t)

	out, err := exec(t, ts, s, "create_resume", map[string]any{"title": "   "})
	require.NoError(t, err)
	assert.Equal(t, "Jane Resume", out.(map[string]any)["title"])

	_, err = exec(t, ts, s, "regenerate_resume", map[string]any{"title": "  Backend  "})
	require.NoError(t, err)
	out, err = exec(t, ts, s, "regenerate_resume", map[string]any{"title": "\t"})
	require.NoError(t, err)
	assert.Equal(t, "Backend", out.(map[string]any)["title"])

	resume, err := store.GetResume(context.Background(), s.UserID, *s.ResumeID())
	require.NoError(t, err)
	assert.Equal(t, "Backend", resume.Title)
}

func TestTitleOr(t *testing.T) {
	blank, padded := "  ", " Staff "
	assert.Equal(t, "Resume", titleOr(nil, "Resume"))
	assert.Equal(t, "Resume", titleOr(&blank, "Resume"))
	assert.Equal(t, "Staff", titleOr(&padded, "Resume"))
}

func TestObservation(t *testing.T) {
	ok := observation(ToolInvocation{OK: true, Result: &types.Skill{Name: "Go", Proficiency: types.ProficiencyExpert}})
	assert.Equal(t, true, ok["ok"])
	result := ok["result"].(map[string]any)
	assert.Equal(t, "Go", result["name"])

	failed := observation(ToolInvocation{Kind: "not_found", Error: "skill x not found"})
	assert.Equal(t, map[string]any{"ok": false, "error": "not_found", "message": "skill x not found"}, failed)
}
