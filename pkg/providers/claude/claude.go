// Package claude adapts the canonical rule set into the Claude CLI's
// settings.json hooks section.
package claude

import (
	"path/filepath"

	"github.com/codmate/codmate/pkg/paths"
	"github.com/codmate/codmate/pkg/providers"
	"github.com/codmate/codmate/pkg/providers/hooksfile"
	"github.com/codmate/codmate/pkg/rules"
)

// localDirName is the project-scoped settings directory.
const localDirName = ".claude"

// Provider reconciles ~/.claude/settings.json.
type Provider struct {
	settingsFile string
}

// New builds the adapter against the resolved global settings path.
func New(p *paths.Paths) *Provider {
	return &Provider{settingsFile: p.ClaudeSettingsFile()}
}

// NewAt builds the adapter against an explicit settings file, used by
// configuration overrides and tests.
func NewAt(settingsFile string) *Provider {
	return &Provider{settingsFile: settingsFile}
}

// Name implements providers.Provider.
func (p *Provider) Name() string {
	return rules.ProviderClaude
}

// Apply implements providers.Provider.
func (p *Provider) Apply(rs []rules.Rule) ([]providers.Warning, error) {
	return hooksfile.Apply(p.Name(), p.settingsFile, rs)
}

// Scan implements providers.Provider.
func (p *Provider) Scan(scope providers.Scope) ([]providers.FoundEntry, error) {
	return hooksfile.Scan(p.Name(), p.scopePath(scope))
}

func (p *Provider) scopePath(scope providers.Scope) string {
	if scope.Kind == providers.ScopeProject {
		return filepath.Join(scope.Dir, localDirName, paths.SettingsFileName)
	}
	return p.settingsFile
}
