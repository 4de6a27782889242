package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvDataDir, "/custom/data")
	t.Setenv(EnvConfigDir, "/custom/config")
	t.Setenv(EnvClaudeDir, "/custom/claude")
	t.Setenv(EnvGeminiDir, "/custom/gemini")
	t.Setenv(EnvCodexDir, "/custom/codex")

	p := New()
	assert.Equal(t, "/custom/data/rules.json", p.StoreFile())
	assert.Equal(t, "/custom/config/config.toml", p.ConfigFile())
	assert.Equal(t, "/custom/claude/settings.json", p.ClaudeSettingsFile())
	assert.Equal(t, "/custom/gemini/settings.json", p.GeminiSettingsFile())
	assert.Equal(t, "/custom/codex/config.toml", p.CodexConfigFile())
}

func TestDefaultsUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvConfigDir, "")
	t.Setenv(EnvClaudeDir, "")
	t.Setenv(EnvGeminiDir, "")
	t.Setenv(EnvCodexDir, "")

	p := New()
	assert.Equal(t, filepath.Join(home, ".claude"), p.ClaudeDir())
	assert.Equal(t, filepath.Join(home, ".gemini"), p.GeminiDir())
	assert.Equal(t, filepath.Join(home, ".codex"), p.CodexDir())
}
