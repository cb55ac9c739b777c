// Package module wires the run journal into the API using modkit
package module

import (
	modkit "missionsync/internal/modkit"
	"missionsync/internal/modkit/httpkit"
	"missionsync/internal/platform/config"
	dom "missionsync/internal/services/journal/domain"
	jhttp "missionsync/internal/services/journal/http"
	jrepo "missionsync/internal/services/journal/repo"
	jsvc "missionsync/internal/services/journal/service"
)

// Ports exported by the journal module
type Ports struct {
	Writer dom.WriterPort
	Query  dom.QueryPort
}

// Module implements the journal module
type Module struct {
	modkit.Built

	ports Ports
	svc   *jsvc.Service
}

// FromConfig reads journal options
// CORE_JOURNAL_DEFAULT_LIMIT (default 20) is the page size when none is asked for
// CORE_JOURNAL_HARD_LIMIT (default 100) caps any requested page size
func FromConfig(cfg config.Conf) jsvc.Config {
	n := cfg.Prefix("CORE_JOURNAL_")
	return jsvc.Config{
		DefaultLimit: n.MayInt("DEFAULT_LIMIT", 20),
		HardLimit:    n.MayInt("HARD_LIMIT", 100),
	}
}

// New constructs the journal module; a nil deps.CH leaves journaling disabled
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	var storage jrepo.Storage
	if deps.CH != nil {
		storage = jrepo.NewCH(deps.CH)
	}
	svc := jsvc.New(storage, FromConfig(deps.Cfg))
	return &Module{
		Built: modkit.Build("journal", "/runs", opts...),
		svc:   svc,
		ports: Ports{Writer: svc, Query: svc},
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) { jhttp.Register(rr, m.svc) })
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Writer is a typed shortcut for wiring other modules
func (m *Module) Writer() dom.WriterPort { return m.ports.Writer }
