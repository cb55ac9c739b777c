// Package api provides the HTTP API for the application
package api

import (
	"missionsync/internal/platform/config"
	phttp "missionsync/internal/platform/net/http"
	"missionsync/internal/platform/store"

	"missionsync/internal/modkit"
	"missionsync/internal/modkit/httpkit"
	"missionsync/internal/modkit/swaggerkit"

	metamod "missionsync/internal/services/api/meta/module"
	archivemod "missionsync/internal/services/archive/module"
	journalmod "missionsync/internal/services/journal/module"
	missionsmod "missionsync/internal/services/missions/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	EnableSwagger  bool
	EnableProfiler bool
}

// Deps builds the shared module deps from an opened store; backends left nil stay nil
func Deps(cfg config.Conf, st *store.Store) modkit.Deps {
	if st == nil {
		return modkit.Deps{Cfg: cfg}
	}
	return modkit.Deps{Log: st.Log, Cfg: cfg, PG: st.PG, Archive: st.Archive, CH: st.CH}
}

// Modules builds every API module with its cross wiring
// journal feeds missions and archive; archive reads missions and hangs its sync route off /missions
func Modules(deps modkit.Deps) []modkit.Module {
	journal := journalmod.New(deps)

	var archive *archivemod.Module
	missions := missionsmod.New(deps,
		modkit.WithPorts(missionsmod.Needs{Journal: journal.Writer()}),
		modkit.WithRegister(func(r httpkit.Router) { archive.RegisterSync(r) }),
	)
	archive = archivemod.New(deps,
		modkit.WithPorts(archivemod.Needs{
			Missions: modkit.MustPortsOf[missionsmod.Ports](missions).Query,
			Journal:  journal.Writer(),
		}),
	)

	return []modkit.Module{
		metamod.New(deps),
		journal,
		missions,
		archive,
	}
}

// Mount mounts the API service onto the given router
// Docs and the profiler live outside /api/v1 and skip its middleware
func Mount(r phttp.Router, opt Options) {
	mods := Modules(Deps(opt.Config, opt.Store))

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Config.Prefix("CORE_API_")), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}
