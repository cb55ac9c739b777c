// Package module wires the archive sync into the API using modkit
package module

import (
	modkit "missionsync/internal/modkit"
	"missionsync/internal/modkit/httpkit"
	"missionsync/internal/platform/config"
	adom "missionsync/internal/services/archive/domain"
	ahttp "missionsync/internal/services/archive/http"
	arepo "missionsync/internal/services/archive/repo"
	asvc "missionsync/internal/services/archive/service"
	jdom "missionsync/internal/services/journal/domain"
	mdom "missionsync/internal/services/missions/domain"
)

// Ports exported by the archive module
type Ports struct {
	Syncer adom.SyncPort
}

// Needs declares the ports injected with modkit.WithPorts; Missions is required for syncing
type Needs struct {
	Missions mdom.QueryPort
	Journal  jdom.WriterPort
}

// Module implements the archive module
type Module struct {
	modkit.Built

	ports Ports
	svc   *asvc.Service
}

// FromConfig reads sync options
// CORE_ARCHIVE_CHUNK_SIZE (default 1000) bounds each archive write
// CORE_ARCHIVE_UPLOADER is stamped on rows when a request names no uploader
func FromConfig(cfg config.Conf) asvc.Config {
	n := cfg.Prefix("CORE_ARCHIVE_")
	return asvc.Config{
		ChunkSize: n.MayInt("CHUNK_SIZE", 1000),
		Uploader:  n.MayString("UPLOADER", ""),
	}
}

// New constructs the archive module
// Without an archive pool or a missions port the sync service stays nil and sync answers 503
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build("archive", "/archive", opts...)
	needs, _ := b.Needs().(Needs)

	m := &Module{Built: b}
	if deps.Archive != nil && needs.Missions != nil {
		m.svc = asvc.New(deps.Archive, arepo.NewPG(), needs.Missions, needs.Journal, FromConfig(deps.Cfg))
		m.ports.Syncer = m.svc
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) { m.Mount(r, ahttp.Register) }

// RegisterSync attaches POST /{id}/sync to a mission router owned by another module
func (m *Module) RegisterSync(r httpkit.Router) {
	ahttp.RegisterSync(r, m.ports.Syncer)
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Service exposes the concrete service for the sync CLI; nil when the archive is not configured
func (m *Module) Service() *asvc.Service { return m.svc }
