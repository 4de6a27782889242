package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codmate/codmate/pkg/paths"
	"github.com/codmate/codmate/pkg/testutil"
)

func TestLoadDefaults(t *testing.T) {
	env := testutil.NewEnv(t)

	s, err := Load(paths.New())
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, filepath.Join(env.DataDir, "rules.json"), s.Store.Path)
	assert.Equal(t, 400, s.Sync.DebounceMs)
	assert.True(t, s.Providers.Claude.Enabled)
	assert.True(t, s.Providers.Gemini.Enabled)
	assert.True(t, s.Providers.Codex.Enabled)
	assert.Equal(t, filepath.Join(env.ClaudeDir, "settings.json"), s.Providers.Claude.File)
	assert.Equal(t, filepath.Join(env.CodexDir, "config.toml"), s.Providers.Codex.File)
}

func TestLoadTOMLFile(t *testing.T) {
	env := testutil.NewEnv(t)
	testutil.WriteFile(t, filepath.Join(env.ConfigDir, "config.toml"), `
[store]
path = "/custom/rules.json"

[sync]
debounce_ms = 50

[providers.codex]
enabled = false
`)

	s, err := Load(paths.New())
	require.NoError(t, err)

	assert.Equal(t, "/custom/rules.json", s.Store.Path)
	assert.Equal(t, 50, s.Sync.DebounceMs)
	assert.False(t, s.Providers.Codex.Enabled)
	assert.True(t, s.Providers.Claude.Enabled, "defaults survive partial files")
}

func TestLoadYAMLFile(t *testing.T) {
	env := testutil.NewEnv(t)
	testutil.WriteFile(t, filepath.Join(env.ConfigDir, "config.yaml"), `
store:
  path: /yaml/rules.json
providers:
  gemini:
    enabled: false
`)

	s, err := Load(paths.New())
	require.NoError(t, err)
	assert.Equal(t, "/yaml/rules.json", s.Store.Path)
	assert.False(t, s.Providers.Gemini.Enabled)
}

func TestEnvOverridesWin(t *testing.T) {
	env := testutil.NewEnv(t)
	testutil.WriteFile(t, filepath.Join(env.ConfigDir, "config.toml"), `
[sync]
debounce_ms = 50
`)
	t.Setenv("CODMATE_SYNC__DEBOUNCE_MS", "125")
	t.Setenv("CODMATE_PROVIDERS__CLAUDE__ENABLED", "false")

	s, err := Load(paths.New())
	require.NoError(t, err)
	assert.Equal(t, 125, s.Sync.DebounceMs)
	assert.False(t, s.Providers.Claude.Enabled)
}

func TestLoadMalformedFile(t *testing.T) {
	env := testutil.NewEnv(t)
	testutil.WriteFile(t, filepath.Join(env.ConfigDir, "config.toml"), "[[[broken")

	_, err := Load(paths.New())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testutil.NewEnv(t)

	s, err := Load(paths.New())
	require.NoError(t, err)

	s.Store.Path = ""
	assert.Error(t, s.Validate())

	s.Store.Path = "/x"
	s.Sync.DebounceMs = -1
	assert.Error(t, s.Validate())
}
