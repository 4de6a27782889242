// Package config loads engine configuration with koanf: built-in
// defaults, then an optional config file (TOML or YAML, chosen by
// extension), then CODMATE_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ktoml "github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/codmate/codmate/pkg/errors"
	"github.com/codmate/codmate/pkg/paths"
)

// envPrefix is the prefix for environment overrides. Nesting uses a
// double underscore: CODMATE_PROVIDERS__CLAUDE__ENABLED=false.
const envPrefix = "CODMATE_"

// ProviderSettings configures one provider adapter.
type ProviderSettings struct {
	Enabled bool   `koanf:"enabled"`
	File    string `koanf:"file"` // native file override; empty = well-known path
}

// Settings is the fully resolved engine configuration.
type Settings struct {
	Store struct {
		Path string `koanf:"path"`
	} `koanf:"store"`

	Sync struct {
		DebounceMs int `koanf:"debounce_ms"`
	} `koanf:"sync"`

	Providers struct {
		Claude ProviderSettings `koanf:"claude"`
		Gemini ProviderSettings `koanf:"gemini"`
		Codex  ProviderSettings `koanf:"codex"`
	} `koanf:"providers"`
}

// Load resolves settings from defaults, the config file, and the
// environment, in that order of increasing precedence.
func Load(p *paths.Paths) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(p), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	if path, parser := findConfigFile(p); path != "" {
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to load config from %s", path)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal config")
	}
	return &s, nil
}

// defaults maps the resolved paths into the configuration tree.
func defaults(p *paths.Paths) map[string]interface{} {
	return map[string]interface{}{
		"store.path":               p.StoreFile(),
		"sync.debounce_ms":         400,
		"providers.claude.enabled": true,
		"providers.claude.file":    p.ClaudeSettingsFile(),
		"providers.gemini.enabled": true,
		"providers.gemini.file":    p.GeminiSettingsFile(),
		"providers.codex.enabled":  true,
		"providers.codex.file":     p.CodexConfigFile(),
	}
}

// findConfigFile returns the first config file that exists, trying
// config.toml then config.yaml/config.yml, with the matching parser.
func findConfigFile(p *paths.Paths) (string, koanf.Parser) {
	candidates := []string{
		p.ConfigFile(),
		filepath.Join(p.ConfigDir(), "config.yaml"),
		filepath.Join(p.ConfigDir(), "config.yml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, parserFor(path)
		}
	}
	return "", nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return kyaml.Parser()
	default:
		return ktoml.Parser()
	}
}

// Validate rejects settings the engine cannot run with.
func (s *Settings) Validate() error {
	if s.Store.Path == "" {
		return errors.New(errors.ErrConfigParse, "store.path must not be empty")
	}
	if s.Sync.DebounceMs < 0 {
		return errors.Newf(errors.ErrConfigParse,
			"sync.debounce_ms must not be negative, got %d", s.Sync.DebounceMs)
	}
	return nil
}

// String renders a short summary for debug logging.
func (s *Settings) String() string {
	on := func(ps ProviderSettings) string {
		if ps.Enabled {
			return "on"
		}
		return "off"
	}
	return fmt.Sprintf("store=%s claude=%s gemini=%s codex=%s",
		s.Store.Path, on(s.Providers.Claude), on(s.Providers.Gemini),
		on(s.Providers.Codex))
}
