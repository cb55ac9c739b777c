package domain

import (
	"context"

	"missionsync/internal/core/progress"
)

// SyncPort is the public sync entrypoint exposed by the module
type SyncPort interface {
	Sync(ctx context.Context, missionID int64, uploader string, ls ...progress.Listener) (SyncReport, error)
}

// SyncInput is the body of a sync request; an empty uploader falls back to the configured one
type SyncInput struct {
	Uploader string `json:"uploader" validate:"omitempty,max=30"`
}

// SyncReply carries the report and the milestones recorded while it ran
type SyncReply struct {
	Report   SyncReport       `json:"report"`
	Progress []progress.Event `json:"progress"`
}
