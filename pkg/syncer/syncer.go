// Package syncer drives every provider adapter over the current rule
// set. Providers touch disjoint files and run concurrently; repeated
// triggers against the same provider are serialized so one native file
// never sees interleaved partial writes. One provider's failure never
// blocks another's.
package syncer

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/codmate/codmate/pkg/logging"
	"github.com/codmate/codmate/pkg/providers"
	"github.com/codmate/codmate/pkg/rules"
)

// Orchestrator fans the rule set out to a fixed, static provider list.
type Orchestrator struct {
	prov []providers.Provider

	// one lock per provider, keyed by name
	locks map[string]*sync.Mutex
}

// New builds an orchestrator over the given providers. The list is
// fixed for the orchestrator's lifetime.
func New(prov ...providers.Provider) *Orchestrator {
	locks := make(map[string]*sync.Mutex, len(prov))
	for _, p := range prov {
		locks[p.Name()] = &sync.Mutex{}
	}
	return &Orchestrator{prov: prov, locks: locks}
}

// Providers returns the fixed provider list.
func (o *Orchestrator) Providers() []providers.Provider {
	return o.prov
}

// SyncGlobal invokes every adapter with the full rule set and returns
// the union of all warnings. Adapter errors are converted into
// warnings tagged with the provider's identity so the caller always
// gets a complete pass.
func (o *Orchestrator) SyncGlobal(rs []rules.Rule) []providers.Warning {
	log := logging.GetLogger("syncer")

	var (
		mu       sync.Mutex
		warnings []providers.Warning
	)

	var g errgroup.Group
	for _, p := range o.prov {
		p := p
		g.Go(func() error {
			lock := o.locks[p.Name()]
			lock.Lock()
			defer lock.Unlock()

			ws, err := p.Apply(rs)
			if err != nil {
				log.Warn().Err(err).Str("provider", p.Name()).
					Msg("Provider sync failed")
				ws = append(ws, providers.Warning{
					Provider: p.Name(),
					Message:  fmt.Sprintf("sync failed: %v", err),
				})
			}

			if len(ws) > 0 {
				mu.Lock()
				warnings = append(warnings, ws...)
				mu.Unlock()
			}
			return nil
		})
	}
	// Goroutines never return errors; warnings carry the diagnostics.
	_ = g.Wait()

	log.Debug().Int("rules", len(rs)).Int("warnings", len(warnings)).
		Msg("Sync pass completed")
	return warnings
}
