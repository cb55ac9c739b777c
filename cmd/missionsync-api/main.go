// @title         Missionsync API
// @version       0.1.0
// @description   Mission merge, archive sync and run journal endpoints

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"missionsync/internal/core/version"
	"missionsync/internal/platform/config"
	"missionsync/internal/platform/logger"
	phttp "missionsync/internal/platform/net/http"
	"missionsync/internal/platform/store"

	"missionsync/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// open the platform store (local pg, optional archive pg, optional CH journal)
	st, err := store.Open(
		ctx,
		store.Env(root, version.Service, "api"),
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := st.Guard(ctx); err != nil {
		l.Panic().Err(err).Msg("store backends unreachable")
	}
	if st.Archive == nil {
		l.Warn().Msg("SERVICE_ARCHIVE_DBURL not set: archive sync disabled")
	}
	if st.CH == nil {
		l.Warn().Msg("SERVICE_CLICKHOUSE_DBURL not set: run journal disabled")
	}

	// http server (reads CORE_API_ADDR / CORE_API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(apiCfg)

	// mount our API; modules read their own CORE_* keys from the root config
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	// run until SIGINT/SIGTERM
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
