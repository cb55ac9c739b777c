package domain

import (
	"context"
	"time"

	"missionsync/internal/core/changeset"
	"missionsync/internal/core/progress"
)

// StorageRepo is the target-store handle a merge runs against
// BulkUpdate writes one shared field list across every record of a kind
type StorageRepo interface {
	// LoadAggregate reads a mission and its full record tree
	LoadAggregate(ctx context.Context, id int64) (*Mission, error)

	// SaveMission writes the mission root row
	SaveMission(ctx context.Context, m *Mission) error

	changeset.Flusher
}

// MergePort is the public merge entrypoint exposed by the module
type MergePort interface {
	Merge(ctx context.Context, destID, srcID int64, ls ...progress.Listener) (MergeResult, error)
}

// QueryPort exposes read access to mission aggregates for other modules
type QueryPort interface {
	Load(ctx context.Context, id int64) (*Mission, error)
	Summary(ctx context.Context, id int64) (Summary, error)
}

// MergeStats counts what a merge touched
type MergeStats struct {
	EventsMerged     int            `json:"events_merged"`
	EventsReparented int            `json:"events_reparented"`
	Records          int            `json:"records"`
	Kinds            map[string]int `json:"kinds,omitempty"`
}

// MergeResult describes one completed merge run
type MergeResult struct {
	RunID      string    `json:"run_id"`
	DestID     int64     `json:"dest_id"`
	SourceID   int64     `json:"source_id"`
	Descriptor string    `json:"descriptor"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	MergeStats
}
