// Package module wires missions into the API using modkit
package module

import (
	modkit "missionsync/internal/modkit"
	"missionsync/internal/modkit/httpkit"
	jdom "missionsync/internal/services/journal/domain"
	mdom "missionsync/internal/services/missions/domain"
	mhttp "missionsync/internal/services/missions/http"
	mrepo "missionsync/internal/services/missions/repo"
	msvc "missionsync/internal/services/missions/service"
)

// Ports exported by the missions module
type Ports struct {
	Merger mdom.MergePort
	Query  mdom.QueryPort
}

// Needs declares the optional ports injected with modkit.WithPorts
type Needs struct {
	Journal jdom.WriterPort
}

// Module implements the missions module
type Module struct {
	modkit.Built

	ports Ports
	svc   *msvc.Service
}

// New constructs the missions module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build("missions", "/missions", opts...)
	needs, _ := b.Needs().(Needs)

	cfg := FromConfig(deps.Cfg)
	svc := msvc.New(deps.PG, mrepo.NewPG(), needs.Journal, msvc.Config{
		Partition:        cfg.Partition,
		StatementTimeout: cfg.StatementTimeout,
	})
	return &Module{Built: b, svc: svc, ports: Ports{Merger: svc, Query: svc}}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) { mhttp.Register(rr, m.svc) })
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Service exposes the concrete service for CLIs that run a merge without HTTP
func (m *Module) Service() *msvc.Service { return m.svc }
