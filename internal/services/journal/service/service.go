// Package service provides the journal service implementation
package service

import (
	"context"

	perr "missionsync/internal/platform/errors"
	"missionsync/internal/platform/logger"
	dom "missionsync/internal/services/journal/domain"
	"missionsync/internal/services/journal/repo"
)

// Config for the journal service
type Config struct {
	DefaultLimit int
	HardLimit    int
}

// Service implements domain.WriterPort and domain.QueryPort
// a nil Storage disables journaling: writes are dropped and reads report unavailable
type Service struct {
	Storage repo.Storage
	Cfg     Config
}

// New constructs a journal service; storage may be nil
func New(storage repo.Storage, cfg Config) *Service {
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 100
	}
	if cfg.DefaultLimit <= 0 || cfg.DefaultLimit > cfg.HardLimit {
		cfg.DefaultLimit = 20
	}
	return &Service{Storage: storage, Cfg: cfg}
}

// Enabled reports whether runs are persisted
func (s *Service) Enabled() bool { return s != nil && s.Storage != nil }

// Record implements domain.WriterPort
func (s *Service) Record(ctx context.Context, r dom.Run) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.Storage.Insert(ctx, r); err != nil {
		logger.C(ctx).Warn().Err(err).Str("op", string(r.Op)).Msg("journal: record failed")
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "journal write failed")
	}
	return nil
}

// Recent implements domain.QueryPort
func (s *Service) Recent(ctx context.Context, mission int64, limit int) ([]dom.Run, error) {
	if !s.Enabled() {
		return nil, perr.Unavailablef("journal is disabled")
	}
	if mission <= 0 {
		return nil, perr.WithField(perr.InvalidArgf("mission must be positive"), "mission")
	}
	if limit <= 0 {
		limit = s.Cfg.DefaultLimit
	}
	if limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}
	runs, err := s.Storage.Recent(ctx, mission, limit)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "journal read failed")
	}
	if runs == nil {
		runs = []dom.Run{}
	}
	return runs, nil
}

var (
	_ dom.WriterPort = (*Service)(nil)
	_ dom.QueryPort  = (*Service)(nil)
)
