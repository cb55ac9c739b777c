// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"missionsync/internal/core/version"
	modkit "missionsync/internal/modkit"
	"missionsync/internal/modkit/httpkit"
	"missionsync/internal/platform/store"

	metahttp "missionsync/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Built

	deps      modkit.Deps
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	return &Module{Built: modkit.Build("meta", "/meta", opts...), deps: deps, startedAt: time.Now()}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: version.Service,
			StartedAt:   m.startedAt,
			Backends: []metahttp.Backend{
				{Name: "pg", Required: true, Ping: pinger(m.deps.PG)},
				{Name: "archive", Ping: pinger(m.deps.Archive)},
				{Name: "ch", Ping: pinger(m.deps.CH)},
			},
		})
	})
}

// pinger is nil for unconfigured backends and seams without Ping
func pinger(v any) store.Pinger {
	p, _ := v.(store.Pinger)
	return p
}

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
