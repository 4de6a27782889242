// Package testutil provides shared helpers for codmate tests:
// isolated filesystem environments and small file assertions.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Env is an isolated test environment rooted in a temp directory, with
// every provider root and codmate directory redirected into it.
type Env struct {
	Home      string
	DataDir   string
	ConfigDir string
	ClaudeDir string
	GeminiDir string
	CodexDir  string
}

// NewEnv builds the environment and points the CODMATE_* and HOME
// variables at it for the duration of the test.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	root := t.TempDir()
	env := &Env{
		Home:      filepath.Join(root, "home"),
		DataDir:   filepath.Join(root, "data"),
		ConfigDir: filepath.Join(root, "config"),
		ClaudeDir: filepath.Join(root, "home", ".claude"),
		GeminiDir: filepath.Join(root, "home", ".gemini"),
		CodexDir:  filepath.Join(root, "home", ".codex"),
	}
	require.NoError(t, os.MkdirAll(env.Home, 0o755))

	t.Setenv("HOME", env.Home)
	t.Setenv("CODMATE_DATA_DIR", env.DataDir)
	t.Setenv("CODMATE_CONFIG_DIR", env.ConfigDir)
	t.Setenv("CODMATE_CLAUDE_DIR", env.ClaudeDir)
	t.Setenv("CODMATE_GEMINI_DIR", env.GeminiDir)
	t.Setenv("CODMATE_CODEX_DIR", env.CodexDir)

	return env
}

// StorePath returns the canonical store location inside the env.
func (e *Env) StorePath() string {
	return filepath.Join(e.DataDir, "rules.json")
}

// WriteFile writes content, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// ReadFile reads the file and fails the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// FileExists reports whether a path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
