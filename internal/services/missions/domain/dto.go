package domain

import "missionsync/internal/core/progress"

// MergeInput is the body of a merge request; the path id is the destination
type MergeInput struct {
	SourceID int64 `json:"source_id" validate:"required,gt=0" example:"1024"`
}

// MergeReply is the merge result plus the milestones reported while it ran
type MergeReply struct {
	Result   MergeResult      `json:"result"`
	Progress []progress.Event `json:"progress"`
}
