// Package modkit is the module wiring shared by the api composition root and
// the CLIs: the dependencies every module gets, the options a module is built
// with, and typed port lookups between modules.
package modkit

import (
	"reflect"

	"missionsync/internal/modkit/httpkit"
	"missionsync/internal/modkit/repokit"
	"missionsync/internal/platform/config"
	"missionsync/internal/platform/logger"
	"missionsync/internal/platform/store"
	str "missionsync/internal/platform/strings"
)

// Module is a unit that mounts its routes and exports ports for other modules
type Module interface {
	Name() string
	Ports() any
	MountRoutes(r httpkit.Router)
}

// Deps are the backends handed to every module. Archive and CH are nil when
// their DSNs are not configured; modules degrade instead of failing.
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	Archive repokit.TxRunner
	CH      store.Clickhouse
}

// Option adjusts how a module is built
type Option func(*Built)

// WithName overrides the module name
func WithName(name string) Option { return func(b *Built) { b.name = name } }

// WithPrefix overrides the route prefix
func WithPrefix(prefix string) Option { return func(b *Built) { b.prefix = prefix } }

// WithPorts hands a module the ports it needs from other modules. T is the
// receiving module's Needs type.
func WithPorts[T any](needs T) Option { return func(b *Built) { b.needs = needs } }

// WithRegister adds routes owned by another module below this module's prefix
func WithRegister(fn func(httpkit.Router)) Option {
	return func(b *Built) { b.extra = append(b.extra, fn) }
}

// Built is the resolved option set. Modules embed it for Name, Prefix and Mount.
type Built struct {
	name   string
	prefix string
	needs  any
	extra  []func(httpkit.Router)
}

// Build applies defaults then opts
func Build(name, prefix string, opts ...Option) Built {
	b := Built{name: name, prefix: prefix}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Name is the module name; it panics when empty
func (b Built) Name() string { return str.MustString(b.name, "module name") }

// Prefix is the route prefix, normalized to start with "/"
func (b Built) Prefix() string { return str.MustPrefix(b.prefix) }

// Needs returns what was passed to WithPorts, nil when nothing was
func (b Built) Needs() any { return b.needs }

// Mount registers own and then any WithRegister routes under Prefix
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	httpkit.MountUnder(r, b.Prefix(), nil, func(sub httpkit.Router) {
		own(sub)
		for _, fn := range b.extra {
			fn(sub)
		}
	})
}

// PortsOf finds a T in m.Ports(), either the value itself or one of its
// exported struct fields
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := 0; i < rv.NumField(); i++ {
		if f := rv.Field(i); f.CanInterface() {
			if v, ok := f.Interface().(T); ok {
				return v, true
			}
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring code; it panics naming the module
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic("modkit: module " + m.Name() + " does not export the requested port")
	}
	return v
}
