// Package paths provides centralized path handling for codmate.
// It implements XDG Base Directory specification compliance for
// codmate's own files and resolves the well-known roots of each
// provider's native configuration.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for codmate
	EnvDataDir = "CODMATE_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for codmate
	EnvConfigDir = "CODMATE_CONFIG_DIR"

	// EnvClaudeDir overrides the claude provider root (~/.claude)
	EnvClaudeDir = "CODMATE_CLAUDE_DIR"

	// EnvGeminiDir overrides the gemini provider root (~/.gemini)
	EnvGeminiDir = "CODMATE_GEMINI_DIR"

	// EnvCodexDir overrides the codex provider root (~/.codex)
	EnvCodexDir = "CODMATE_CODEX_DIR"
)

// Default directories and files
const (
	// AppDirName is the directory name for codmate-specific files
	AppDirName = "codmate"

	// StoreFileName is the canonical rule store document
	StoreFileName = "rules.json"

	// ConfigFileName is the engine configuration file
	ConfigFileName = "config.toml"

	// SettingsFileName is the native file of the JSON-object providers
	SettingsFileName = "settings.json"

	// CodexConfigFileName is the native file of the codex provider
	CodexConfigFileName = "config.toml"
)

// Paths resolves every file location the engine touches.
type Paths struct {
	dataDir   string
	configDir string
	claudeDir string
	geminiDir string
	codexDir  string
}

// New resolves paths from the environment, falling back to XDG
// defaults and the providers' conventional home-relative roots.
func New() *Paths {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	p := &Paths{
		dataDir:   filepath.Join(xdg.DataHome, AppDirName),
		configDir: filepath.Join(xdg.ConfigHome, AppDirName),
		claudeDir: filepath.Join(home, ".claude"),
		geminiDir: filepath.Join(home, ".gemini"),
		codexDir:  filepath.Join(home, ".codex"),
	}

	if v := os.Getenv(EnvDataDir); v != "" {
		p.dataDir = v
	}
	if v := os.Getenv(EnvConfigDir); v != "" {
		p.configDir = v
	}
	if v := os.Getenv(EnvClaudeDir); v != "" {
		p.claudeDir = v
	}
	if v := os.Getenv(EnvGeminiDir); v != "" {
		p.geminiDir = v
	}
	if v := os.Getenv(EnvCodexDir); v != "" {
		p.codexDir = v
	}

	return p
}

// DataDir returns the codmate data directory.
func (p *Paths) DataDir() string { return p.dataDir }

// ConfigDir returns the codmate config directory.
func (p *Paths) ConfigDir() string { return p.configDir }

// StoreFile returns the canonical rule store path.
func (p *Paths) StoreFile() string {
	return filepath.Join(p.dataDir, StoreFileName)
}

// ConfigFile returns the engine configuration file path.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// ClaudeDir returns the claude provider root.
func (p *Paths) ClaudeDir() string { return p.claudeDir }

// GeminiDir returns the gemini provider root.
func (p *Paths) GeminiDir() string { return p.geminiDir }

// CodexDir returns the codex provider root.
func (p *Paths) CodexDir() string { return p.codexDir }

// ClaudeSettingsFile returns the claude native settings document.
func (p *Paths) ClaudeSettingsFile() string {
	return filepath.Join(p.claudeDir, SettingsFileName)
}

// GeminiSettingsFile returns the gemini native settings document.
func (p *Paths) GeminiSettingsFile() string {
	return filepath.Join(p.geminiDir, SettingsFileName)
}

// CodexConfigFile returns the codex native config document.
func (p *Paths) CodexConfigFile() string {
	return filepath.Join(p.codexDir, CodexConfigFileName)
}
