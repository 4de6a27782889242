package cli

import (
	"github.com/codmate/codmate/pkg/config"
	"github.com/codmate/codmate/pkg/importer"
	"github.com/codmate/codmate/pkg/paths"
	"github.com/codmate/codmate/pkg/providers"
	"github.com/codmate/codmate/pkg/providers/claude"
	"github.com/codmate/codmate/pkg/providers/codex"
	"github.com/codmate/codmate/pkg/providers/gemini"
	"github.com/codmate/codmate/pkg/store"
	"github.com/codmate/codmate/pkg/syncer"
)

// engine is the composition root: every store and service is built
// here and injected into the commands. No package-level singletons.
type engine struct {
	settings *config.Settings
	store    *store.Store
	orch     *syncer.Orchestrator
	importer *importer.Service
}

// buildEngine wires the engine from resolved paths and configuration.
func buildEngine() (*engine, error) {
	p := paths.New()

	settings, err := config.Load(p)
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	st, err := store.Open(settings.Store.Path)
	if err != nil {
		return nil, err
	}

	var prov []providers.Provider
	if settings.Providers.Claude.Enabled {
		prov = append(prov, claude.NewAt(settings.Providers.Claude.File))
	}
	if settings.Providers.Gemini.Enabled {
		prov = append(prov, gemini.NewAt(settings.Providers.Gemini.File))
	}
	if settings.Providers.Codex.Enabled {
		prov = append(prov, codex.NewAt(settings.Providers.Codex.File))
	}

	orch := syncer.New(prov...)

	return &engine{
		settings: settings,
		store:    st,
		orch:     orch,
		importer: importer.NewService(st, orch),
	}, nil
}

// sync runs a full orchestrator pass over the current rule set.
func (e *engine) sync() []providers.Warning {
	return e.orch.SyncGlobal(e.store.List())
}
