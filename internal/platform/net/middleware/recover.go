package middleware

import (
	"net/http"
	"runtime/debug"

	perr "missionsync/internal/platform/errors"
	"missionsync/internal/platform/logger"
	phttp "missionsync/internal/platform/net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RecoverJSON turns a handler panic into a 500 envelope and logs the stack
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil || v == http.ErrAbortHandler {
				if v != nil {
					panic(v)
				}
				return
			}
			ctx := logger.WithRequest(r.Context(), chimw.GetReqID(r.Context()))
			logger.C(ctx).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			phttp.Handle(func(*http.Request) phttp.Response {
				return phttp.Error(perr.PanicErrf("panic recovered"))
			})(w, r)
		}()
		next.ServeHTTP(w, r)
	})
}
