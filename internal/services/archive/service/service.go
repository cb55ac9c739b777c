// Package service runs the archive sync: local mission records reconciled and
// written in chunks against the external archive tables
package service

import (
	"context"
	"strings"
	"time"

	"missionsync/internal/core/archive"
	"missionsync/internal/core/progress"
	"missionsync/internal/modkit/repokit"
	perr "missionsync/internal/platform/errors"
	"missionsync/internal/platform/logger"
	adom "missionsync/internal/services/archive/domain"
	arepo "missionsync/internal/services/archive/repo"
	jdom "missionsync/internal/services/journal/domain"
	mdom "missionsync/internal/services/missions/domain"

	"github.com/google/uuid"
)

// Config for the archive sync
type Config struct {
	// ChunkSize bounds each archive write
	ChunkSize int
	// Uploader is stamped on written rows when a request names none
	Uploader string
}

// Service syncs one mission at a time into the archive
// Archive writes are not transactional across chunks; each chunk commits on its own
type Service struct {
	Archive  repokit.Queryer
	Binder   repokit.Binder[arepo.Storage]
	Missions mdom.QueryPort
	Journal  jdom.WriterPort
	Cfg      Config

	now   func() time.Time
	newID func() string
}

// New constructs the sync service; journal may be nil
func New(archiveDB repokit.Queryer, binder repokit.Binder[arepo.Storage], missions mdom.QueryPort, journal jdom.WriterPort, cfg Config) *Service {
	if archiveDB == nil {
		panic("archive.Service requires a non nil archive Queryer")
	}
	if binder == nil {
		panic("archive.Service requires a non nil Repo binder")
	}
	if missions == nil {
		panic("archive.Service requires a missions QueryPort")
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = archive.DefaultChunkSize
	}
	return &Service{
		Archive:  archiveDB,
		Binder:   binder,
		Missions: missions,
		Journal:  journal,
		Cfg:      cfg,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Sync writes mission missionID into the archive tables and journals the run
// Tables are synced in order and a failure stops the run; tables already written stay written
func (s *Service) Sync(ctx context.Context, missionID int64, uploader string, ls ...progress.Listener) (adom.SyncReport, error) {
	rep := adom.SyncReport{RunID: s.newID(), Mission: missionID, StartedAt: s.now().UTC()}
	if missionID <= 0 {
		return rep, perr.WithField(perr.InvalidArgf("mission id must be positive"), "id")
	}
	if rep.Uploader = strings.TrimSpace(uploader); rep.Uploader == "" {
		rep.Uploader = s.Cfg.Uploader
	}
	if rep.Uploader == "" {
		return rep, perr.WithField(perr.InvalidArgf("an uploader is required"), "uploader")
	}

	ctx = logger.WithRun(ctx, rep.RunID, missionID)
	l := logger.C(ctx).With().Str("mod", "archive").Str("uploader", rep.Uploader).Logger()
	status := progress.NewReporter(ls...)
	status.Register(progress.Logged(&l))

	err := s.run(ctx, &rep, status)
	rep.FinishedAt = s.now().UTC()

	s.journal(ctx, rep, err)
	if err != nil {
		l.Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("archive: sync failed")
		return rep, err
	}
	tot := rep.Totals()
	l.Info().
		Int("created", tot.Created).
		Int("updated", tot.Updated).
		Int("chunks", tot.Chunks).
		Dur("took", rep.FinishedAt.Sub(rep.StartedAt)).
		Msg("archive: sync done")
	return rep, nil
}

func (s *Service) run(ctx context.Context, rep *adom.SyncReport, status *progress.Reporter) error {
	m, err := s.Missions.Load(ctx, rep.Mission)
	if err != nil {
		return err
	}
	rep.Descriptor = m.Descriptor
	status.Report("Syncing mission " + m.Descriptor)

	st := s.Binder.Bind(s.Archive)

	discrete, err := syncFamily(ctx, st, s.Cfg.ChunkSize, rep, status,
		adom.Discrete, adom.FlattenDiscrete(m), adom.DiscreteObject.Key, adom.FillDiscrete, adom.DiscreteKeyOf)
	rep.Tables = append(rep.Tables, discrete)
	if err != nil {
		return err
	}

	plankton, err := syncFamily(ctx, st, s.Cfg.ChunkSize, rep, status,
		adom.Plankton, adom.FlattenPlankton(m), adom.PlanktonObject.Key, adom.FillPlankton, adom.PlanktonKeyOf)
	rep.Tables = append(rep.Tables, plankton)
	return err
}

// syncFamily reconciles one row family against what the archive already holds and writes the plan
// Rows whose key cannot be rebuilt are ignored; the first row read wins on duplicate keys
func syncFamily[T any, K comparable](
	ctx context.Context,
	st arepo.Storage,
	chunk int,
	rep *adom.SyncReport,
	status *progress.Reporter,
	t *archive.Table,
	objs []T,
	key func(T) K,
	fill func(T, *archive.Tracker),
	keyOf func(*archive.Row) (K, bool),
) (adom.TableReport, error) {
	tr := adom.TableReport{Table: t.Name, Objects: len(objs), Fields: []string{}}
	if len(objs) == 0 {
		return tr, nil
	}

	rows, err := st.LoadExisting(ctx, t, rep.Descriptor)
	if err != nil {
		return tr, err
	}
	existing := make(map[K]*archive.Row, len(rows))
	for _, r := range rows {
		k, ok := keyOf(r)
		if !ok {
			continue
		}
		if _, dup := existing[k]; !dup {
			existing[k] = r
		}
	}

	rc := archive.Reconciler[T, K]{
		Table:         t,
		Uploader:      rep.Uploader,
		UploaderField: adom.ColCreatedBy,
		Key:           key,
		Fill:          fill,
		Listener:      status,
	}
	plan, err := rc.Reconcile(objs, existing)
	if err != nil {
		return tr, err
	}
	tr.Creates, tr.Updates, tr.Fields = len(plan.Creates), len(plan.Updates), plan.Fields

	tr.Result, err = archive.WriteBatches(ctx, st, t, chunk, plan, status)
	return tr, err
}

// journal records the run; a failed write is logged and never fails the sync
func (s *Service) journal(ctx context.Context, rep adom.SyncReport, err error) {
	if s.Journal == nil {
		return
	}
	tot := rep.Totals()
	run := jdom.Run{
		RunID:      rep.RunID,
		Op:         jdom.OpSync,
		Mission:    rep.Mission,
		Descriptor: rep.Descriptor,
		Created:    tot.Created,
		Updated:    tot.Updated,
		Chunks:     tot.Chunks,
		StartedAt:  rep.StartedAt,
	}
	run.Finish(rep.FinishedAt, err)
	_ = s.Journal.Record(ctx, run)
}

var _ adom.SyncPort = (*Service)(nil)
