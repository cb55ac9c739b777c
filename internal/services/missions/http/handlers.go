// Package http provides http transport for missions
package http

import (
	stdhttp "net/http"

	"missionsync/internal/core/progress"
	"missionsync/internal/modkit/httpkit"
	"missionsync/internal/services/missions/domain"
)

// Service is the part of the missions service the handlers call
type Service interface {
	domain.MergePort
	domain.QueryPort
}

// Register mounts mission endpoints on the given router
func Register(r httpkit.Router, s Service) {
	h := &handlers{svc: s}

	// summary of one mission aggregate
	httpkit.Get(r, "/{id}", h.summary)

	// fold source_id into the mission in the path
	httpkit.PostJSON[domain.MergeInput](r, "/{id}/merge", h.merge)
}

type handlers struct{ svc Service }

// @Summary Mission summary
// @Tags Missions
// @Produce json
// @Param id path int true "Mission id"
// @Success 200 {object} domain.Summary "ok"
// @Router /missions/{id} [get]
func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	id, err := httpkit.URLInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.Summary(r.Context(), id)
}

// @Summary Merge a source mission into this one
// @Tags Missions
// @Accept json
// @Produce json
// @Param id path int true "Destination mission id"
// @Param payload body domain.MergeInput true "Source"
// @Success 200 {object} domain.MergeReply "ok"
// @Failure 409 {object} httpkit.Envelope "descriptor mismatch"
// @Failure 403 {object} httpkit.Envelope "unsupported partition"
// @Router /missions/{id}/merge [post]
func (h *handlers) merge(r *stdhttp.Request, in domain.MergeInput) (any, error) {
	id, err := httpkit.URLInt64(r, "id")
	if err != nil {
		return nil, err
	}
	rec := &progress.Recorder{}
	res, err := h.svc.Merge(r.Context(), id, in.SourceID, rec)
	if err != nil {
		return nil, err
	}
	return domain.MergeReply{Result: res, Progress: rec.Snapshot()}, nil
}
