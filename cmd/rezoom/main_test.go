package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rezoom/internal/config"
	"github.com/jonathan/rezoom/internal/llm"
	"github.com/jonathan/rezoom/internal/rendering"
	"github.com/jonathan/rezoom/internal/server"
	"github.com/jonathan/rezoom/internal/types"
)

// execute runs the root command in-process with fresh flag values
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	renderTemplate, renderFormat, renderOutFile = rendering.DefaultTemplate, "tex", ""
	extractOutDir, extractTextOnly = "", false
	migrateDatabaseURL = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeProfile(t *testing.T) string {
	t.Helper()
	profile := types.Profile{
		User: types.User{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"},
		Experiences: []types.Experience{{
			Company:   "Acme & Sons",
			Role:      "Engineer",
			StartDate: types.NewDate(2021, 3, 1),
		}},
		Skills: []types.Skill{{Name: "Go", Proficiency: types.ProficiencyExpert}},
	}
	data, err := json.Marshal(profile)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestRender_LaTeX(t *testing.T) {
	out, err := execute(t, "render", writeProfile(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `\documentclass`))
	assert.Contains(t, out, `Acme \& Sons`)
	assert.Contains(t, out, "Jane Doe")
}

func TestRender_HTMLToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "resume.html")
	out, err := execute(t, "render", writeProfile(t), "--format", "html", "--template", "compact", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+target)

	html, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Acme &amp; Sons")
}

func TestRender_Errors(t *testing.T) {
	profile := writeProfile(t)
	badJSON := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(badJSON, []byte("{"), 0644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "nope.json")}, "failed to read profile"},
		{"invalid json", []string{"render", badJSON}, "failed to parse profile JSON"},
		{"unknown format", []string{"render", profile, "--format", "docx"}, "unknown format"},
		{"unknown template", []string{"render", profile, "--template", "fancy"}, "fancy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret-at-least-32-bytes-long")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	t.Setenv("JWT_ISSUER", "")
	userID := uuid.New()

	out, err := execute(t, "token", userID.String())
	require.NoError(t, err)

	jwtCfg, err := config.NewJWTConfig()
	require.NoError(t, err)
	claims, err := server.NewJWTService(jwtCfg).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
}

func TestToken_Errors(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret-at-least-32-bytes-long")
	_, err := execute(t, "token", "not-a-uuid")
	assert.ErrorContains(t, err, "invalid user id")

	t.Setenv("JWT_SECRET", "")
	_, err = execute(t, "token", uuid.NewString())
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestExtract_TextOnly(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(src, []byte("Jane Doe\r\n\r\n\r\n\r\nEngineer at Acme\r\n"), 0644))
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "extract", src, "--text-only", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Engineer at Acme")
	assert.NotContains(t, out, "\r")

	assert.FileExists(t, filepath.Join(outDir, "resume.cleaned.txt"))
	assert.FileExists(t, filepath.Join(outDir, "resume.meta.json"))
}

func TestExtract_RequiresAPIKey(t *testing.T) {
	src := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(src, []byte("Jane Doe\nEngineer"), 0644))
	t.Setenv("GEMINI_API_KEY", "")

	_, err := execute(t, "extract", src)
	assert.ErrorContains(t, err, "API key is required")
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := execute(t, "migrate")
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestServe_InvalidConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := execute(t, "serve")
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestModelConfig(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "")
	cfg := modelConfig(0)
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(llm.TierStandard))

	t.Setenv("GEMINI_MODEL", " gemini-2.5-pro ")
	cfg = modelConfig(30 * time.Second)
	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel(llm.TierStandard))
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(llm.TierLite))
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}
