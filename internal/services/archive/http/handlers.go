// Package http provides http transport for the archive sync
package http

import (
	stdhttp "net/http"

	"missionsync/internal/core/progress"
	"missionsync/internal/modkit/httpkit"
	perr "missionsync/internal/platform/errors"
	"missionsync/internal/services/archive/domain"
)

// Register mounts the archive catalogue endpoints
func Register(r httpkit.Router) {
	// declared archive tables and the columns a sync writes
	httpkit.Get(r, "/tables", tables)
}

// RegisterSync mounts the sync endpoint on a mission router; a nil SyncPort answers 503
func RegisterSync(r httpkit.Router, s domain.SyncPort) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.SyncInput](r, "/{id}/sync", h.sync)
}

type handlers struct{ svc domain.SyncPort }

// @Summary Archive tables
// @Tags Archive
// @Produce json
// @Success 200 {array} domain.TableInfo "ok"
// @Router /archive/tables [get]
func tables(*stdhttp.Request) (any, error) { return domain.Describe(), nil }

// @Summary Sync a mission into the archive
// @Tags Archive
// @Accept json
// @Produce json
// @Param id path int true "Mission id"
// @Param payload body domain.SyncInput false "Uploader"
// @Success 200 {object} domain.SyncReply "ok"
// @Failure 502 {object} httpkit.Envelope "archive write failed"
// @Failure 503 {object} httpkit.Envelope "archive not configured"
// @Router /missions/{id}/sync [post]
func (h *handlers) sync(r *stdhttp.Request, in domain.SyncInput) (any, error) {
	id, err := httpkit.URLInt64(r, "id")
	if err != nil {
		return nil, err
	}
	if h.svc == nil {
		return nil, perr.Unavailablef("archive is not configured")
	}
	rec := &progress.Recorder{}
	rep, err := h.svc.Sync(r.Context(), id, in.Uploader, rec)
	if err != nil {
		return nil, err
	}
	return domain.SyncReply{Report: rep, Progress: rec.Snapshot()}, nil
}
