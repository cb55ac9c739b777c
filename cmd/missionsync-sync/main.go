package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"missionsync/internal/core/progress"
	"missionsync/internal/modkit"
	"missionsync/internal/platform/config"
	perr "missionsync/internal/platform/errors"
	"missionsync/internal/platform/logger"
	"missionsync/internal/platform/store"

	archivemod "missionsync/internal/services/archive/module"
	journalmod "missionsync/internal/services/journal/module"
	missionsmod "missionsync/internal/services/missions/module"
)

func main() {
	var (
		fMission  = flag.Int64("mission", 0, "mission id to write into the archive")
		fUploader = flag.String("uploader", "", "name stamped on written rows (default CORE_ARCHIVE_UPLOADER)")
	)
	flag.Parse()

	root := config.New()
	l := logger.Get()
	if *fMission <= 0 {
		l.Fatal().Int64("mission", *fMission).Msg("must provide a positive -mission")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Env(root, "missionsync-sync", "sync"), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := st.Guard(ctx); err != nil {
		stop()
		l.Fatal().Err(err).Msg("store backends unreachable")
	}
	if st.Archive == nil {
		stop()
		l.Fatal().Msg("SERVICE_ARCHIVE_DBURL is required for a sync")
	}

	deps := modkit.Deps{Log: *l, Cfg: root, PG: st.PG, Archive: st.Archive, CH: st.CH}
	journal := journalmod.New(deps)
	missions := missionsmod.New(deps, modkit.WithPorts(missionsmod.Needs{Journal: journal.Writer()}))
	archive := archivemod.New(deps, modkit.WithPorts(archivemod.Needs{
		Missions: modkit.MustPortsOf[missionsmod.Ports](missions).Query,
		Journal:  journal.Writer(),
	}))

	rep, err := archive.Service().Sync(ctx, *fMission, *fUploader, progress.Func(func(msg string, cur, max int) {
		evt := l.Info()
		if max > 0 {
			evt = evt.Int("current", cur).Int("max", max)
		}
		evt.Msg(msg)
	}))
	if err != nil {
		stop()
		l.Fatal().Err(err).Str("code", perr.CodeOf(err).String()).Str("run_id", rep.RunID).Msg("sync failed")
	}
	for _, tr := range rep.Tables {
		l.Info().
			Str("table", tr.Table).
			Int("objects", tr.Objects).
			Int("created", tr.Result.Created).
			Int("updated", tr.Result.Updated).
			Strs("fields", tr.Fields).
			Msg("table synced")
	}
	tot := rep.Totals()
	l.Info().Str("run_id", rep.RunID).Str("descriptor", rep.Descriptor).
		Int("created", tot.Created).Int("updated", tot.Updated).Int("chunks", tot.Chunks).
		Msg("sync complete")
}
