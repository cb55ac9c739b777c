// Package logger owns the process zerolog logger and the context fields
// (request id, run id, mission) every line of a merge or sync carries.
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is zerolog's logger
type Logger = zerolog.Logger

// Options configures Init
type Options struct {
	Level       string
	Format      string // "console" or "json"
	Service     string
	WithCaller  bool
	SampleEvery int
	Writer      io.Writer
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_CALLER and LOG_SAMPLE_EVERY.
// It reads the environment directly because config logs through this package.
func FromEnv() Options {
	env := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv("LOG_" + k)); v != "" {
			return v
		}
		return def
	}
	caller, _ := strconv.ParseBool(env("CALLER", "false"))
	every, _ := strconv.Atoi(env("SAMPLE_EVERY", "0"))
	return Options{
		Level:       strings.ToLower(env("LEVEL", "info")),
		Format:      strings.ToLower(env("FORMAT", "console")),
		Service:     env("SERVICE", ""),
		WithCaller:  caller,
		SampleEvery: every,
	}
}

var (
	once sync.Once
	root atomic.Pointer[Logger]
)

// Init builds the root logger. Only the first call has any effect.
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		w := opt.Writer
		if w == nil {
			w = os.Stdout
		}
		if opt.Format == "console" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}
		lvl, err := zerolog.ParseLevel(strings.TrimSpace(opt.Level))
		if err != nil || lvl == zerolog.NoLevel {
			lvl = zerolog.InfoLevel
		}

		c := zerolog.New(w).Level(lvl).With().Timestamp()
		if bi, ok := debug.ReadBuildInfo(); ok {
			c = c.Str("go_version", bi.GoVersion)
		}
		if opt.Service != "" {
			c = c.Str("service", opt.Service)
		}
		if opt.WithCaller {
			c = c.Caller()
		}
		l := c.Logger()
		if opt.SampleEvery > 1 {
			l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
		}
		root.Store(&l)
	})
}

// Get returns the root logger, initializing it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Named returns a root child tagged with component
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyRunID
	keyMission
)

// WithRequest stores the http request id on ctx; empty ids are ignored
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRequestID, reqID)
}

// WithRun stores a merge or sync run id and the mission it targets.
// Empty ids and missions <= 0 are ignored.
func WithRun(ctx context.Context, runID string, mission int64) context.Context {
	if runID != "" {
		ctx = context.WithValue(ctx, keyRunID, runID)
	}
	if mission > 0 {
		ctx = context.WithValue(ctx, keyMission, mission)
	}
	return ctx
}

// C is the root logger with the fields stored on ctx
func C(ctx context.Context) *Logger { return From(ctx, *Get()) }

// From adds the fields stored on ctx to base
func From(ctx context.Context, base Logger) *Logger {
	c := base.With()
	if v, ok := ctx.Value(keyRequestID).(string); ok {
		c = c.Str("request_id", v)
	}
	if v, ok := ctx.Value(keyRunID).(string); ok {
		c = c.Str("run_id", v)
	}
	if v, ok := ctx.Value(keyMission).(int64); ok {
		c = c.Int64("mission", v)
	}
	l := c.Logger()
	return &l
}
