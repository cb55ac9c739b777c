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

	journalmod "missionsync/internal/services/journal/module"
	missionsmod "missionsync/internal/services/missions/module"
)

func main() {
	var (
		fDest = flag.Int64("dest", 0, "authoritative mission id (A) that receives the merge")
		fSrc  = flag.Int64("src", 0, "mission id (B) folded into -dest")
	)
	flag.Parse()

	root := config.New()
	l := logger.Get()
	if *fDest <= 0 || *fSrc <= 0 {
		l.Fatal().Int64("dest", *fDest).Int64("src", *fSrc).Msg("must provide positive -dest and -src")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Env(root, "missionsync-merge", "merge"), store.WithLogger(*l))
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

	deps := modkit.Deps{Log: *l, Cfg: root, PG: st.PG, Archive: st.Archive, CH: st.CH}
	journal := journalmod.New(deps)
	missions := missionsmod.New(deps, modkit.WithPorts(missionsmod.Needs{Journal: journal.Writer()}))

	res, err := missions.Service().Merge(ctx, *fDest, *fSrc, progress.Func(func(msg string, cur, max int) {
		evt := l.Info()
		if max > 0 {
			evt = evt.Int("current", cur).Int("max", max)
		}
		evt.Msg(msg)
	}))
	if err != nil {
		stop()
		l.Fatal().Err(err).Str("code", perr.CodeOf(err).String()).Str("run_id", res.RunID).Msg("merge failed")
	}
	l.Info().
		Str("run_id", res.RunID).
		Str("descriptor", res.Descriptor).
		Int("merged", res.EventsMerged).
		Int("reparented", res.EventsReparented).
		Int("records", res.Records).
		Msg("merge complete")
}
