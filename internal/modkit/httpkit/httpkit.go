// Package httpkit is what module http packages import to register routes.
// It keeps them off the platform transport package.
package httpkit

import (
	"net/http"

	"missionsync/internal/platform/config"
	phttp "missionsync/internal/platform/net/http"
	"missionsync/internal/platform/net/middleware"
)

type (
	// Router is the route registration seam
	Router = phttp.Router

	// Envelope is the body every handler answers with
	Envelope = phttp.Envelope
)

// Get registers a handler that takes no body; its result becomes Envelope.Data
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.Handle(func(req *http.Request) phttp.Response {
		out, err := h(req)
		if err != nil {
			return phttp.Error(err)
		}
		return phttp.OK(out)
	}))
}

// PostJSON registers a handler whose body is bound and validated into T first
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// URLInt64 parses a positive integer route parameter
func URLInt64(r *http.Request, name string) (int64, error) { return phttp.URLInt64(r, name) }

// QueryInt reads an integer query parameter with a default
func QueryInt(r *http.Request, name string, def int) int { return phttp.QueryInt(r, name, def) }

// CommonStack is the middleware the versioned API runs behind, tuned from cfg
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	return middleware.Stack(middleware.FromConfig(cfg))
}

// MountUnder registers mount's routes below prefix behind mw
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}

// MountAPIV1 scopes mount under /api/v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountUnder(r, "/api/v1", mw, mount)
}
