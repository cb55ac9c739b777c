// Package http provides http transport for the run journal
package http

import (
	stdhttp "net/http"

	"missionsync/internal/modkit/httpkit"
	dom "missionsync/internal/services/journal/domain"
)

// Register mounts journal endpoints on the given router
func Register(r httpkit.Router, q dom.QueryPort) {
	h := &handlers{q: q}

	// recent runs touching a mission, as destination or source
	httpkit.Get(r, "/{mission}", h.recent)
}

type handlers struct{ q dom.QueryPort }

// @Summary Recent merge and sync runs for a mission
// @Tags Journal
// @Produce json
// @Param mission path int true "Mission id"
// @Param limit query int false "Max runs"
// @Success 200 {array} domain.Run "ok"
// @Router /runs/{mission} [get]
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	id, err := httpkit.URLInt64(r, "mission")
	if err != nil {
		return nil, err
	}
	return h.q.Recent(r.Context(), id, httpkit.QueryInt(r, "limit", 0))
}
