package rules

import (
	"time"

	"github.com/google/uuid"

	"github.com/codmate/codmate/pkg/errors"
)

// Provider names understood by the current release. The Targets type
// carries one flag per provider; a nil Targets means a rule applies to
// every provider, including ones added in the future.
const (
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
	ProviderCodex  = "codex"
)

// CommandSpec is a single command executed when a rule fires.
type CommandSpec struct {
	Program   string            `json:"program"`
	Args      []string          `json:"args,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
	TimeoutMs int               `json:"timeoutMs,omitempty"`
}

// Targets is an explicit per-provider enablement set. Each flag is
// optional; an absent flag means the rule is not targeted at that
// provider. This is distinct from a rule carrying no Targets at all,
// which means "every current and future provider" — the two
// representations must never be collapsed into each other.
type Targets struct {
	Claude *bool `json:"claude,omitempty"`
	Gemini *bool `json:"gemini,omitempty"`
	Codex  *bool `json:"codex,omitempty"`
}

// Enables reports whether the explicit set enables the named provider.
func (t *Targets) Enables(provider string) bool {
	if t == nil {
		return true
	}
	var flag *bool
	switch provider {
	case ProviderClaude:
		flag = t.Claude
	case ProviderGemini:
		flag = t.Gemini
	case ProviderCodex:
		flag = t.Codex
	default:
		// An explicit set never auto-extends to providers it does
		// not name.
		return false
	}
	return flag != nil && *flag
}

// Rule is the canonical automation record.
type Rule struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Event       string        `json:"event"`
	Matcher     string        `json:"matcher,omitempty"`
	Commands    []CommandSpec `json:"commands"`
	Enabled     bool          `json:"enabled"`
	Targets     *Targets      `json:"targets,omitempty"`
	Source      string        `json:"source,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// New creates a rule with a freshly minted id and timestamps.
func New(name, event string, commands []CommandSpec) Rule {
	now := time.Now().UTC()
	return Rule{
		ID:        uuid.NewString(),
		Name:      name,
		Event:     event,
		Commands:  commands,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppliesTo reports whether the rule should be materialized into the
// named provider's native store: it must be enabled and either carry no
// explicit target set (all providers) or name the provider.
func (r Rule) AppliesTo(provider string) bool {
	if !r.Enabled {
		return false
	}
	return r.Targets.Enables(provider)
}

// Clone returns a deep copy so that store snapshots cannot alias
// caller-held slices or maps.
func (r Rule) Clone() Rule {
	out := r
	out.Commands = make([]CommandSpec, len(r.Commands))
	for i, c := range r.Commands {
		cc := c
		cc.Args = append([]string(nil), c.Args...)
		if c.Env != nil {
			cc.Env = make(map[string]string, len(c.Env))
			for k, v := range c.Env {
				cc.Env[k] = v
			}
		}
		out.Commands[i] = cc
	}
	if r.Targets != nil {
		t := *r.Targets
		out.Targets = &t
	}
	return out
}

// Validate checks the structural invariants required at creation time.
func (r Rule) Validate() error {
	if r.ID == "" {
		return errors.New(errors.ErrRuleInvalid, "rule id must not be empty")
	}
	if r.Name == "" {
		return errors.Newf(errors.ErrRuleInvalid, "rule %s has no name", r.ID)
	}
	if r.Event == "" {
		return errors.Newf(errors.ErrRuleInvalid, "rule %q has no event", r.Name)
	}
	if len(r.Commands) == 0 {
		return errors.Newf(errors.ErrRuleInvalid, "rule %q has no commands", r.Name)
	}
	for i, c := range r.Commands {
		if c.Program == "" {
			return errors.Newf(errors.ErrRuleInvalid,
				"rule %q command %d has no program", r.Name, i)
		}
		if c.TimeoutMs < 0 {
			return errors.Newf(errors.ErrRuleInvalid,
				"rule %q command %d has a negative timeout", r.Name, i)
		}
	}
	return nil
}
