package hooksfile

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/codmate/codmate/pkg/logging"
	"github.com/codmate/codmate/pkg/providers"
	"github.com/codmate/codmate/pkg/rules"
)

// Apply reconciles the settings document at path against the full rule
// set, on behalf of the named provider. It rebuilds the managed
// bindings from scratch, leaves foreign bindings untouched, and skips
// the write entirely when the document already reflects the rule set.
func Apply(provider, path string, rs []rules.Rule) ([]providers.Warning, error) {
	log := logging.GetLogger("hooksfile")

	doc, err := loadDocument(path)
	if err != nil {
		// Never overwrite content we cannot parse. Report and move on.
		log.Warn().Err(err).Str("provider", provider).Str("path", path).
			Msg("Native file unreadable, leaving it untouched")
		return []providers.Warning{{
			Provider: provider,
			Message:  fmt.Sprintf("cannot update %s: %v", path, err),
		}}, nil
	}

	// Policy check runs before any mutation.
	if doc.lockedDown() {
		return []providers.Warning{{
			Provider: provider,
			Message: fmt.Sprintf("%s sets %s; managed hooks are disabled",
				path, PolicyKey),
		}}, nil
	}

	eligible := make([]rules.Rule, 0, len(rs))
	for _, r := range rs {
		if r.AppliesTo(provider) {
			eligible = append(eligible, r)
		}
	}

	changed, blocked := reconcile(doc, eligible)

	var warnings []providers.Warning
	for _, event := range blocked {
		warnings = append(warnings, providers.Warning{
			Provider: provider,
			Message: fmt.Sprintf(
				"%s holds an unrecognized value under hooks.%s; leaving it alone",
				path, event),
		})
	}

	if !changed {
		log.Debug().Str("provider", provider).Str("path", path).
			Msg("Native file already up to date")
		return warnings, nil
	}

	if err := doc.save(path); err != nil {
		return warnings, err
	}

	log.Info().Str("provider", provider).Str("path", path).
		Int("rules", len(eligible)).
		Msg("Native hooks reconciled")
	return warnings, nil
}

// Scan parses every binding in the document into an approximate rule
// shape for the import service.
func Scan(provider, path string) ([]providers.FoundEntry, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}

	events := make([]string, 0, len(doc.events))
	for event := range doc.events {
		events = append(events, event)
	}
	sort.Strings(events)

	var found []providers.FoundEntry
	for _, event := range events {
		for _, binding := range doc.events[event] {
			if entry, ok := parseEntry(event, binding); ok {
				found = append(found, entry)
			}
		}
	}
	return found, nil
}

// reconcile recomputes the managed bindings under every affected event
// key and reports whether the document changed, plus the sorted events
// it could not claim because a foreign non-array value occupies the
// key. Under each key, foreign bindings keep their relative order and
// managed bindings are appended after them, ordered by matcher then
// rule id. An absent matcher and a literal "*" are distinct groups.
func reconcile(doc *document, eligible []rules.Rule) (bool, []string) {
	byEvent := make(map[string][]rules.Rule)
	for _, r := range eligible {
		byEvent[r.Event] = append(byEvent[r.Event], r)
	}

	// Affected keys: every event holding managed bindings plus every
	// event an eligible rule wants.
	affected := make(map[string]bool)
	for event, bindings := range doc.events {
		for _, b := range bindings {
			if isManaged(b) {
				affected[event] = true
				break
			}
		}
	}
	for event := range byEvent {
		affected[event] = true
	}

	// Foreign bindings whose content matches an eligible rule are being
	// adopted: the managed binding replaces them, so the native file
	// ends up tagged instead of duplicated.
	adopted := make(map[rules.Signature]bool, len(eligible))
	for _, r := range eligible {
		adopted[rules.SignatureOf(r)] = true
	}

	changed := false
	var blocked []string
	for event := range affected {
		if _, ok := doc.opaque[event]; ok {
			if len(byEvent[event]) > 0 {
				blocked = append(blocked, event)
			}
			continue
		}
		var next []any
		for _, b := range doc.events[event] {
			if isManaged(b) {
				continue
			}
			if entry, ok := parseEntry(event, b); ok &&
				adopted[rules.SignatureOfEntry(entry.Event, entry.Matcher, entry.Commands)] {
				continue
			}
			next = append(next, b)
		}

		want := append([]rules.Rule(nil), byEvent[event]...)
		sort.Slice(want, func(i, j int) bool {
			if want[i].Matcher != want[j].Matcher {
				return want[i].Matcher < want[j].Matcher
			}
			return want[i].ID < want[j].ID
		})
		for _, r := range want {
			next = append(next, managedBinding(r))
		}

		if !reflect.DeepEqual(doc.events[event], next) {
			changed = true
		}
		if len(next) == 0 {
			delete(doc.events, event)
		} else {
			doc.events[event] = next
		}
	}

	sort.Strings(blocked)
	return changed, blocked
}

// managedBinding builds the raw binding value for a rule. Values use
// the same dynamic types JSON decoding produces (float64 numbers, []any
// slices) so a rebuilt binding compares equal to its reloaded form.
func managedBinding(r rules.Rule) map[string]any {
	hooks := make([]any, 0, len(r.Commands))
	for _, c := range r.Commands {
		h := map[string]any{
			"type":    "command",
			"command": c.Program,
			"name":    providers.ManagedName(r.ID),
		}
		if len(c.Args) > 0 {
			args := make([]any, len(c.Args))
			for i, a := range c.Args {
				args[i] = a
			}
			h["args"] = args
		}
		if c.TimeoutMs > 0 {
			h["timeoutMs"] = float64(c.TimeoutMs)
		}
		hooks = append(hooks, h)
	}
	return map[string]any{
		"matcher": r.Matcher,
		hooksKey:  hooks,
	}
}
