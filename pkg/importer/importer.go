// Package importer scans provider native stores for hook entries not
// yet under canonical management and merges selected ones back into
// the canonical store, with skip/overwrite/rename conflict resolution.
package importer

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/codmate/codmate/pkg/logging"
	"github.com/codmate/codmate/pkg/providers"
	"github.com/codmate/codmate/pkg/rules"
	"github.com/codmate/codmate/pkg/store"
	"github.com/codmate/codmate/pkg/syncer"
)

// Resolution decides what happens to a selected candidate.
type Resolution int

const (
	// ResolutionSkip leaves the canonical store untouched.
	ResolutionSkip Resolution = iota

	// ResolutionOverwrite replaces the colliding rule's content while
	// reusing its id and creation time.
	ResolutionOverwrite

	// ResolutionRename imports the candidate as a brand-new rule under
	// a user-supplied display name.
	ResolutionRename

	// ResolutionImport adopts a non-conflicting candidate as a new
	// rule under its derived name.
	ResolutionImport
)

// State tracks a candidate through the import flow.
type State int

const (
	// StateScanned is the initial state after a scan.
	StateScanned State = iota

	// StateImported is terminal: the candidate became a canonical rule.
	StateImported

	// StateSkippedFinal is terminal: the candidate was discarded.
	StateSkippedFinal
)

// Candidate is a prospective rule discovered in a native store.
type Candidate struct {
	ID       string
	Provider string
	Name     string // derived display name
	Event    string
	Matcher  string
	Commands []rules.CommandSpec

	Signature rules.Signature

	// HasConflict is set when a canonical rule shares the display name
	// but has different content. Conflicting candidates default to
	// skip.
	HasConflict    bool
	ConflictRuleID string

	Selected   bool
	Resolution Resolution
	RenameTo   string // required for ResolutionRename

	State State
}

// Service implements the import flow over the canonical store and the
// sync orchestrator.
type Service struct {
	store *store.Store
	orch  *syncer.Orchestrator
}

// NewService wires the import flow.
func NewService(st *store.Store, orch *syncer.Orchestrator) *Service {
	return &Service{store: st, orch: orch}
}

// Scan walks every provider's native store in the given scope and
// returns the entries not yet under canonical management. One
// provider's scan failure becomes a warning and never aborts the
// others.
func (s *Service) Scan(scope providers.Scope) ([]Candidate, []providers.Warning) {
	log := logging.GetLogger("importer")

	existing := s.store.List()
	bySignature := make(map[rules.Signature]rules.Rule, len(existing))
	byName := make(map[string]rules.Rule, len(existing))
	for _, r := range existing {
		bySignature[rules.SignatureOf(r)] = r
		byName[r.Name] = r
	}

	var (
		candidates []Candidate
		warnings   []providers.Warning
	)

	for _, p := range s.orch.Providers() {
		entries, err := p.Scan(scope)
		if err != nil {
			log.Warn().Err(err).Str("provider", p.Name()).
				Msg("Scan failed, continuing with remaining providers")
			warnings = append(warnings, providers.Warning{
				Provider: p.Name(),
				Message:  fmt.Sprintf("scan failed: %v", err),
			})
			continue
		}

		for _, entry := range entries {
			// Tagged entries are already under canonical management.
			if entry.Managed {
				continue
			}

			sig := rules.SignatureOfEntry(entry.Event, entry.Matcher, entry.Commands)
			if _, ok := bySignature[sig]; ok {
				// Content already canonical, nothing to import.
				continue
			}

			cand := Candidate{
				ID:        uuid.NewString(),
				Provider:  p.Name(),
				Name:      deriveName(entry),
				Event:     entry.Event,
				Matcher:   entry.Matcher,
				Commands:  entry.Commands,
				Signature: sig,
				State:     StateScanned,
			}

			if collide, ok := byName[cand.Name]; ok {
				cand.HasConflict = true
				cand.ConflictRuleID = collide.ID
				cand.Resolution = ResolutionSkip
			} else {
				cand.Selected = true
				cand.Resolution = ResolutionImport
			}

			candidates = append(candidates, cand)
		}
	}

	log.Debug().Int("candidates", len(candidates)).
		Msg("Scan completed")
	return candidates, warnings
}

// ImportSelected commits the selected candidates into the canonical
// store and re-invokes the orchestrator so native files re-tag the
// freshly adopted rules as managed. Persistence failures propagate to
// the caller; the returned candidates reflect everything processed up
// to that point.
func (s *Service) ImportSelected(cands []Candidate) ([]Candidate, []providers.Warning, error) {
	log := logging.GetLogger("importer")

	out := make([]Candidate, len(cands))
	copy(out, cands)

	var warnings []providers.Warning
	imported := 0

	for i := range out {
		cand := &out[i]

		if !cand.Selected || cand.Resolution == ResolutionSkip {
			cand.State = StateSkippedFinal
			continue
		}

		rule, warn, ok := s.resolve(cand)
		if warn != nil {
			warnings = append(warnings, *warn)
		}
		if !ok {
			cand.State = StateSkippedFinal
			continue
		}

		if err := s.store.Upsert(rule); err != nil {
			return out, warnings, err
		}
		cand.State = StateImported
		imported++
	}

	if imported > 0 {
		warnings = append(warnings, s.orch.SyncGlobal(s.store.List())...)
	}

	log.Info().Int("imported", imported).Int("total", len(cands)).
		Msg("Import committed")
	return out, warnings, nil
}

// resolve turns a selected candidate into the rule to upsert.
func (s *Service) resolve(cand *Candidate) (rules.Rule, *providers.Warning, bool) {
	switch cand.Resolution {
	case ResolutionOverwrite:
		prev, ok := s.store.Get(cand.ConflictRuleID)
		if !ok {
			return rules.Rule{}, &providers.Warning{
				Provider: cand.Provider,
				Message: fmt.Sprintf(
					"cannot overwrite %q: colliding rule no longer exists", cand.Name),
			}, false
		}
		rule := candidateRule(cand, cand.Name)
		rule.ID = prev.ID
		rule.CreatedAt = prev.CreatedAt
		return rule, nil, true

	case ResolutionRename:
		if cand.RenameTo == "" {
			return rules.Rule{}, &providers.Warning{
				Provider: cand.Provider,
				Message: fmt.Sprintf(
					"cannot rename %q: no new name supplied", cand.Name),
			}, false
		}
		return candidateRule(cand, cand.RenameTo), nil, true

	case ResolutionImport:
		return candidateRule(cand, cand.Name), nil, true
	}

	return rules.Rule{}, nil, false
}

// candidateRule mints the canonical rule for a candidate. The imported
// rule is targeted only at the provider it came from; broadening it is
// an explicit user decision afterwards.
func candidateRule(cand *Candidate, name string) rules.Rule {
	r := rules.New(name, cand.Event, cand.Commands)
	r.Matcher = cand.Matcher
	r.Source = "import:" + cand.Provider
	enabled := true
	t := &rules.Targets{}
	switch cand.Provider {
	case rules.ProviderClaude:
		t.Claude = &enabled
	case rules.ProviderGemini:
		t.Gemini = &enabled
	case rules.ProviderCodex:
		t.Codex = &enabled
	}
	r.Targets = t
	return r
}

// deriveName builds a stable display name for a scanned entry from its
// first program and event.
func deriveName(entry providers.FoundEntry) string {
	program := ""
	if len(entry.Commands) > 0 {
		program = filepath.Base(entry.Commands[0].Program)
	}
	if program == "" || program == "." {
		return entry.Event + " hook"
	}
	return fmt.Sprintf("%s on %s", program, entry.Event)
}
