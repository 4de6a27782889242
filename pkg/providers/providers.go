// Package providers defines the adapter contract between the canonical
// rule store and each external tool's native configuration file, plus
// the types shared by every adapter implementation.
package providers

import "github.com/codmate/codmate/pkg/rules"

// ManagedTag prefixes the name of every native entry this engine owns.
// Ownership is recognized by this prefix, never by content equality, so
// an edited rule still maps onto the same managed slot.
const ManagedTag = "codmate-hook:"

// ManagedName returns the deterministic managed-entry name for a rule.
func ManagedName(ruleID string) string {
	return ManagedTag + ruleID
}

// Warning is a non-fatal, per-provider diagnostic. Warnings are
// accumulated and returned; they never abort a sync or scan pass.
type Warning struct {
	Provider string `json:"provider"`
	Message  string `json:"message"`
}

// ScopeKind selects which native store a scan targets.
type ScopeKind int

const (
	// ScopeGlobal is the provider's well-known root (e.g. ~/.claude).
	ScopeGlobal ScopeKind = iota

	// ScopeProject is a caller-supplied project directory holding a
	// local native store (e.g. <project>/.claude).
	ScopeProject
)

// Scope names the native store to scan.
type Scope struct {
	Kind ScopeKind
	Dir  string // project directory, only for ScopeProject
}

// GlobalScope returns the well-known-root scope.
func GlobalScope() Scope {
	return Scope{Kind: ScopeGlobal}
}

// ProjectScope returns a scope rooted at the given project directory.
func ProjectScope(dir string) Scope {
	return Scope{Kind: ScopeProject, Dir: dir}
}

// FoundEntry is a native entry parsed into an approximate rule shape
// during an import scan.
type FoundEntry struct {
	Event    string
	Matcher  string
	Commands []rules.CommandSpec

	// Managed is true when the entry carries this engine's tag and is
	// therefore already under canonical management.
	Managed bool
}

// Provider adapts the canonical rule set into one external tool's
// native configuration file.
type Provider interface {
	// Name identifies the provider in warnings, logs and rule targets.
	Name() string

	// Apply reconciles the native file against the given rule set. It
	// filters to rules enabled and targeted at this provider, is
	// idempotent, and never disturbs content it does not own.
	// Non-fatal conditions come back as warnings; an error means the
	// pass could not run at all.
	Apply(rs []rules.Rule) ([]Warning, error)

	// Scan parses the native store in the given scope into approximate
	// rule shapes for the import service.
	Scan(scope Scope) ([]FoundEntry, error)
}
