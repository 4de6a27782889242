// Package codex adapts the canonical rule set into the Codex CLI's
// config.toml. Codex exposes exactly one hookable trigger: the
// top-level notify key, a single command expressed as an array of
// strings. The managed surface is that one key and nothing else.
//
// Writes are line-oriented patches rather than a parse/re-serialize
// round trip: the TOML writer available cannot guarantee comments and
// key ordering survive, and this file is shared with the Codex tool
// and the user.
package codex

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/codmate/codmate/pkg/errors"
	"github.com/codmate/codmate/pkg/logging"
	"github.com/codmate/codmate/pkg/paths"
	"github.com/codmate/codmate/pkg/providers"
	"github.com/codmate/codmate/pkg/rules"
)

// NotifyEvent is the only event the codex provider can express.
const NotifyEvent = "notify"

// notifyKey is the managed top-level key in config.toml.
const notifyKey = "notify"

const localDirName = ".codex"

// Provider reconciles ~/.codex/config.toml.
type Provider struct {
	configFile string
}

// New builds the adapter against the resolved global config path.
func New(p *paths.Paths) *Provider {
	return &Provider{configFile: p.CodexConfigFile()}
}

// NewAt builds the adapter against an explicit config file, used by
// configuration overrides and tests.
func NewAt(configFile string) *Provider {
	return &Provider{configFile: configFile}
}

// Name implements providers.Provider.
func (p *Provider) Name() string {
	return rules.ProviderCodex
}

// Apply implements providers.Provider. With exactly one eligible rule
// the notify key is overwritten deterministically. With more than one
// the provider refuses to choose a winner: the file is left exactly as
// it was and a single ambiguity warning comes back. With none, any
// pre-existing notify value is left alone.
func (p *Provider) Apply(rs []rules.Rule) ([]providers.Warning, error) {
	log := logging.GetLogger("codex")

	var eligible []rules.Rule
	for _, r := range rs {
		if r.AppliesTo(p.Name()) && r.Event == NotifyEvent {
			eligible = append(eligible, r)
		}
	}

	switch len(eligible) {
	case 0:
		return nil, nil
	case 1:
		// Fall through to the write below.
	default:
		names := make([]string, len(eligible))
		for i, r := range eligible {
			names[i] = fmt.Sprintf("%q", r.Name)
		}
		sort.Strings(names)
		return []providers.Warning{{
			Provider: p.Name(),
			Message: fmt.Sprintf(
				"%d rules want the single notify slot (%s); leaving %s untouched",
				len(eligible), strings.Join(names, ", "), p.configFile),
		}}, nil
	}

	rule := eligible[0]
	var warnings []providers.Warning
	if len(rule.Commands) > 1 {
		warnings = append(warnings, providers.Warning{
			Provider: p.Name(),
			Message: fmt.Sprintf(
				"rule %q has %d commands; notify can express only the first",
				rule.Name, len(rule.Commands)),
		})
	}

	cmd := rule.Commands[0]
	line := notifyLine(cmd)

	changed, err := patchNotify(p.configFile, line)
	if err != nil {
		return warnings, err
	}
	if changed {
		log.Info().Str("path", p.configFile).Str("rule", rule.Name).
			Msg("Notify key reconciled")
	}
	return warnings, nil
}

// Scan implements providers.Provider. Reading goes through a real TOML
// parser; only writes are line-oriented.
func (p *Provider) Scan(scope providers.Scope) ([]providers.FoundEntry, error) {
	path := p.scopePath(scope)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrNativeParse,
			"failed to read %s", path)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrNativeParse,
			"failed to parse %s", path)
	}

	arr, ok := doc[notifyKey].([]any)
	if !ok || len(arr) == 0 {
		return nil, nil
	}

	var parts []string
	for _, v := range arr {
		s, ok := v.(string)
		if !ok {
			// Not a command array we understand.
			return nil, nil
		}
		parts = append(parts, s)
	}

	return []providers.FoundEntry{{
		Event: NotifyEvent,
		Commands: []rules.CommandSpec{{
			Program: parts[0],
			Args:    parts[1:],
		}},
	}}, nil
}

func (p *Provider) scopePath(scope providers.Scope) string {
	if scope.Kind == providers.ScopeProject {
		return filepath.Join(scope.Dir, localDirName, paths.CodexConfigFileName)
	}
	return p.configFile
}

// notifyLine renders the deterministic assignment for a command.
func notifyLine(cmd rules.CommandSpec) string {
	parts := make([]string, 0, len(cmd.Args)+1)
	parts = append(parts, encodeString(cmd.Program))
	for _, a := range cmd.Args {
		parts = append(parts, encodeString(a))
	}
	return fmt.Sprintf("%s = [%s]", notifyKey, strings.Join(parts, ", "))
}
