// Package http serves the meta endpoints: liveness, readiness against the
// three backends, build info and uptime
package http

import (
	"context"
	"net/http"
	"time"

	"missionsync/internal/core/version"
	"missionsync/internal/modkit/httpkit"
	"missionsync/internal/platform/store"
)

// readyTimeout bounds all backend pings of one /ready call
const readyTimeout = 2 * time.Second

// Backend is one dependency /ready pings. Ping is nil when the backend is not configured.
type Backend struct {
	Name     string
	Required bool
	Ping     store.Pinger
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Backends    []Backend
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	httpkit.Get(r, "/health", d.health)
	httpkit.Get(r, "/ready", d.ready)
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
	httpkit.Get(r, "/service", d.service)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"missionsync-api"`
	Started string `json:"started" example:"2026-10-01T13:00:00Z"`
	Now     string `json:"now"     example:"2026-10-01T13:05:00Z"`
}

// ReadyCheck is the outcome of one backend ping: ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name"            example:"archive"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty" example:"dial tcp 10.0.0.7:5432: connect: connection refused"`
}

// ReadyResponse is ok, degraded when an optional backend is missing or down,
// and fail when a required one is
type ReadyResponse struct {
	Status string       `json:"status" example:"degraded"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-01T13:05:00Z"`
}

// ServiceResponse is the uptime payload; Uptime is in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"missionsync-api"`
	Started string `json:"started" example:"2026-10-01T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (d Deps) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: d.ServiceName, Started: stamp(d.StartedAt), Now: stamp(time.Now())}, nil
}

// @Summary Readiness of the mission store, archive and run journal
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (d Deps) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	out := ReadyResponse{Status: "ok", Checks: make([]ReadyCheck, 0, len(d.Backends))}
	for _, b := range d.Backends {
		c := ReadyCheck{Name: b.Name, Status: "ok"}
		if b.Ping == nil {
			c.Status = "skipped"
		} else if err := b.Ping.Ping(ctx); err != nil {
			c.Status, c.Error = "fail", err.Error()
		}
		if c.Status != "ok" {
			if b.Required {
				out.Status = "fail"
			} else if out.Status == "ok" {
				out.Status = "degraded"
			}
		}
		out.Checks = append(out.Checks, c)
	}
	out.Now = stamp(time.Now())
	return out, nil
}

// @Summary Service name and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (d Deps) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    d.ServiceName,
		Started: stamp(d.StartedAt),
		Uptime:  int64(time.Since(d.StartedAt) / time.Second),
	}, nil
}
