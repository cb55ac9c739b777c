// Package http carries the JSON transport shared by every module: the chi
// router seam, the response envelope, request binding and the server.
package http

import (
	"encoding/json"
	"net/http"

	perr "missionsync/internal/platform/errors"
	"missionsync/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Envelope wraps every JSON response body
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Response is returned by handlers written with Handle
type Response struct {
	Status int
	Body   any
}

// OK is a 200 with data
func OK(data any) Response { return Response{Status: http.StatusOK, Body: data} }

// Error lets the error decide status and code
func Error(err error) Response { return Response{Body: err} }

// Handle adapts a Response returning func to a Handler. The request id set by
// chi's RequestID middleware is echoed in the envelope and added to the log context.
func Handle(h func(r *http.Request) Response) Handler {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := chimw.GetReqID(r.Context())
		r = r.WithContext(logger.WithRequest(r.Context(), reqID))
		resp := h(r)

		env := Envelope{StatusCode: resp.Status, RequestID: reqID, Data: resp.Body}
		if err, ok := resp.Body.(error); ok {
			wire := perr.WireFrom(err)
			env.StatusCode = perr.HTTPStatus(err)
			env.Code, env.Error, env.Field, env.Data = wire.Code, wire.Message, wire.Field, nil
			if env.StatusCode >= http.StatusInternalServerError {
				logger.C(r.Context()).Error().Err(err).Int("status", env.StatusCode).Msg("request failed")
			}
		}
		if env.StatusCode == 0 {
			env.StatusCode = http.StatusOK
		}
		env.Status = http.StatusText(env.StatusCode)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(env.StatusCode)
		if err := json.NewEncoder(w).Encode(env); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("write response")
		}
	}
}
