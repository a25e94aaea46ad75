package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-client/internal/domain"
	"quiz-client/internal/infra/memory"
)

func TestLoadConfigPrefersAPIFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://from-file\n"), 0o600))

	t.Setenv("QUIZ_API_URL", "http://from-env")
	cfg, err := loadConfig(&rootFlags{configPath: path})
	require.NoError(t, err)
	assert.Equal(t, "http://from-env", cfg.API.BaseURL)

	cfg, err = loadConfig(&rootFlags{configPath: path, apiURL: "http://from-flag"})
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag", cfg.API.BaseURL)
}

func TestPrintResults(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printResults(&out, nil))
	assert.Equal(t, "no results\n", out.String())

	out.Reset()
	require.NoError(t, printResults(&out, []domain.Result{{
		Course: "go", DisplayName: "Alice", Score: 3, Total: 4, Percentage: "75.00%",
		FinishedAt: time.Date(2026, 10, 16, 9, 30, 0, 0, time.Local),
	}}))
	assert.Contains(t, out.String(), "2026-10-16 09:30")
	assert.Contains(t, out.String(), "3/4")
	assert.Contains(t, out.String(), "75.00%")
}

func TestRootRegistersCommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"play", "serve", "logout", "history", "migrate"})
	assert.NotNil(t, cmd.PersistentFlags().Lookup("api"))
}

func TestBuildDepsWithoutInfrastructure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	store := filepath.Join(t.TempDir(), "creds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  file: "+store+"\nquestions:\n  cache_ttl: 1m\n"), 0o600))

	d, err := buildDeps(context.Background(), &rootFlags{configPath: path}, credentialsInFile)
	require.NoError(t, err)
	defer d.Close()

	_, cached := d.questions.(*memory.QuestionCache)
	assert.True(t, cached)
	_, err = d.credentials.Load(context.Background(), "terminal")
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
}
