// Package middleware assembles the http middleware every module router runs behind
package middleware

import (
	"compress/flate"
	"net/http"
	"strings"
	"time"

	"missionsync/internal/platform/config"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Options tunes Stack; zero values pick the defaults
type Options struct {
	// Origins allowed by CORS, all when empty
	Origins []string
	// Slow promotes access log lines to warn at or above this duration
	Slow time.Duration
	// Timeout bounds each request; merges of large missions need minutes
	Timeout time.Duration
}

// FromConfig reads CORS_ORIGINS (comma separated), SLOW_REQUEST and REQUEST_TIMEOUT under cfg
func FromConfig(cfg config.Conf) Options {
	var o Options
	for _, origin := range strings.Split(cfg.MayString("CORS_ORIGINS", ""), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			o.Origins = append(o.Origins, origin)
		}
	}
	o.Slow = cfg.MayDuration("SLOW_REQUEST", 0)
	o.Timeout = cfg.MayDuration("REQUEST_TIMEOUT", 0)
	return o
}

// Stack returns the middleware chain in mount order
func Stack(o Options) []func(http.Handler) http.Handler {
	if len(o.Origins) == 0 {
		o.Origins = []string{"*"}
	}
	if o.Slow <= 0 {
		o.Slow = 2 * time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Minute
	}
	return []func(http.Handler) http.Handler{
		chimw.RequestID,
		chimw.RealIP,
		RecoverJSON,
		AccessLog(o.Slow),
		chimw.NoCache,
		chicors.Handler(chicors.Options{
			AllowedOrigins: o.Origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
		}),
		chimw.Compress(flate.BestSpeed),
		chimw.StripSlashes,
		chimw.Timeout(o.Timeout),
	}
}
