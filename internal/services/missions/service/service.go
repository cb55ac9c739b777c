// Package service provides the mission merge and query service
package service

import (
	"context"
	"time"

	"missionsync/internal/core/progress"
	"missionsync/internal/modkit/repokit"
	perr "missionsync/internal/platform/errors"
	"missionsync/internal/platform/logger"
	jdom "missionsync/internal/services/journal/domain"
	dom "missionsync/internal/services/missions/domain"

	"github.com/google/uuid"
)

// Config for the missions service
type Config struct {
	// Partition is the data-center code merges are allowed to touch
	Partition int
	// StatementTimeout caps each statement of a merge or load; 0 keeps the server default
	StatementTimeout time.Duration
}

// Service wires TxRunner + Binder into the merge and query operations
type Service struct {
	DB      repokit.TxRunner
	Binder  repokit.Binder[dom.StorageRepo]
	Journal jdom.WriterPort
	Cfg     Config

	hooks []repokit.BeginHook
	now   func() time.Time
	newID func() string
}

// New constructs the missions service; journal may be nil
func New(db repokit.TxRunner, binder repokit.Binder[dom.StorageRepo], journal jdom.WriterPort, cfg Config) *Service {
	if db == nil {
		panic("missions.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("missions.Service requires a non nil Repo binder")
	}
	if cfg.Partition == 0 {
		cfg.Partition = DefaultPartition
	}
	return &Service{
		DB:      db,
		Binder:  binder,
		Journal: journal,
		Cfg:     cfg,
		hooks:   []repokit.BeginHook{repokit.StatementTimeout(cfg.StatementTimeout)},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Merge folds mission srcID into destID inside one local transaction and journals the run
func (s *Service) Merge(ctx context.Context, destID, srcID int64, ls ...progress.Listener) (dom.MergeResult, error) {
	res := dom.MergeResult{RunID: s.newID(), DestID: destID, SourceID: srcID, StartedAt: s.now().UTC()}
	if destID <= 0 || srcID <= 0 {
		return res, perr.InvalidArgf("mission ids must be positive")
	}
	if destID == srcID {
		return res, perr.WithField(perr.InvalidArgf("cannot merge mission %d into itself", destID), "source_id")
	}

	ctx = logger.WithRun(ctx, res.RunID, destID)
	l := logger.C(ctx).With().Str("mod", "missions").Int64("source", srcID).Logger()
	l.Info().Msg("missions: merge start")

	err := repokit.InTx(ctx, s.DB, s.Binder, s.hooks, func(st dom.StorageRepo) error {
		dest, err := st.LoadAggregate(ctx, destID)
		if err != nil {
			return err
		}
		src, err := st.LoadAggregate(ctx, srcID)
		if err != nil {
			return err
		}
		res.Descriptor = dest.Descriptor

		c := NewMergeCoordinator(dest, src, st, s.Cfg.Partition, ls...)
		c.RegisterListener(progress.Logged(&l))
		stats, err := c.MergeMission(ctx)
		res.MergeStats = stats
		return err
	})
	res.FinishedAt = s.now().UTC()

	s.journal(ctx, res, err)
	if err != nil {
		l.Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("missions: merge failed")
		return res, err
	}
	l.Info().
		Int("merged", res.EventsMerged).
		Int("reparented", res.EventsReparented).
		Int("records", res.Records).
		Dur("took", res.FinishedAt.Sub(res.StartedAt)).
		Msg("missions: merge done")
	return res, nil
}

// journal records the run; a failed write is logged and never fails the merge
func (s *Service) journal(ctx context.Context, res dom.MergeResult, err error) {
	if s.Journal == nil {
		return
	}
	run := jdom.Run{
		RunID:      res.RunID,
		Op:         jdom.OpMerge,
		Mission:    res.DestID,
		Source:     res.SourceID,
		Descriptor: res.Descriptor,
		Updated:    res.Records,
		StartedAt:  res.StartedAt,
	}
	run.Finish(res.FinishedAt, err)
	_ = s.Journal.Record(ctx, run)
}

// Load reads one mission aggregate
func (s *Service) Load(ctx context.Context, id int64) (*dom.Mission, error) {
	if id <= 0 {
		return nil, perr.WithField(perr.InvalidArgf("mission id must be positive"), "id")
	}
	var m *dom.Mission
	err := repokit.InTx(ctx, s.DB, s.Binder, s.hooks, func(st dom.StorageRepo) error {
		var err error
		m, err = st.LoadAggregate(ctx, id)
		return err
	})
	return m, err
}

// Summary counts the records of one mission
func (s *Service) Summary(ctx context.Context, id int64) (dom.Summary, error) {
	m, err := s.Load(ctx, id)
	if err != nil {
		return dom.Summary{}, err
	}
	return m.Summarize(), nil
}

var (
	_ dom.MergePort = (*Service)(nil)
	_ dom.QueryPort = (*Service)(nil)
)
