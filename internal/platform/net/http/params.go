package http

import (
	"net/http"
	"strconv"
	"strings"

	perr "missionsync/internal/platform/errors"

	"github.com/go-chi/chi/v5"
)

// URLInt64 parses a positive integer route parameter
func URLInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, perr.WithField(perr.InvalidArgf("%s must be a positive integer", name), name)
	}
	return n, nil
}

// QueryInt reads an integer query parameter, returning def when it is missing or malformed
func QueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
