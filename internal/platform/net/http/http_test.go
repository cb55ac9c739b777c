package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"missionsync/internal/platform/config"
	perr "missionsync/internal/platform/errors"
	phttp "missionsync/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type syncReq struct {
	Uploader string `json:"uploader" validate:"omitempty,max=5"`
	Mission  int64  `json:"mission" validate:"required,gt=0"`
}

func serve(t *testing.T, r phttp.Router, method, path, body string) (int, phttp.Envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v (%q)", method, path, err, rec.Body.String())
	}
	if env.StatusCode != rec.Code {
		t.Fatalf("envelope status %d != %d", env.StatusCode, rec.Code)
	}
	return rec.Code, env
}

func newRouter() phttp.Router {
	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	r := phttp.AdaptChi(mux)
	r.Route("/missions", func(r phttp.Router) {
		r.Get("/{id}", phttp.Handle(func(req *http.Request) phttp.Response {
			id, err := phttp.URLInt64(req, "id")
			if err != nil {
				return phttp.Error(err)
			}
			return phttp.OK(map[string]int64{"id": id, "limit": int64(phttp.QueryInt(req, "limit", 20))})
		}))
		r.Post("/sync", phttp.JSONHandler(func(_ *http.Request, in syncReq) (any, error) {
			if in.Mission == 404 {
				return nil, perr.NotFoundf("mission %d not found", in.Mission)
			}
			return in, nil
		}))
	})
	return r
}

func TestHandle_OKEnvelope(t *testing.T) {
	code, env := serve(t, newRouter(), http.MethodGet, "/missions/7?limit=3", "")
	if code != http.StatusOK || env.Status != "OK" || env.RequestID == "" {
		t.Fatalf("envelope = %+v", env)
	}
	data := env.Data.(map[string]any)
	if data["id"] != float64(7) || data["limit"] != float64(3) {
		t.Fatalf("data = %v", data)
	}
}

func TestHandle_ErrorEnvelope(t *testing.T) {
	cases := []struct {
		name, method, path, body string
		status                   int
		code                     perr.ErrorCode
		field                    string
	}{
		{"bad id", http.MethodGet, "/missions/x", "", 422, perr.ErrorCodeInvalidArgument, "id"},
		{"negative id", http.MethodGet, "/missions/-2", "", 422, perr.ErrorCodeInvalidArgument, "id"},
		{"empty body", http.MethodPost, "/missions/sync", "", 400, perr.ErrorCodeJSON, ""},
		{"unknown field", http.MethodPost, "/missions/sync", `{"mission":1,"extra":true}`, 400, perr.ErrorCodeJSON, ""},
		{"trailing", http.MethodPost, "/missions/sync", `{"mission":1}{}`, 400, perr.ErrorCodeJSON, ""},
		{"required", http.MethodPost, "/missions/sync", `{"uploader":"ab"}`, 400, perr.ErrorCodeValidation, "mission"},
		{"too long", http.MethodPost, "/missions/sync", `{"mission":1,"uploader":"abcdefg"}`, 400, perr.ErrorCodeValidation, "uploader"},
		{"service error", http.MethodPost, "/missions/sync", `{"mission":404}`, 404, perr.ErrorCodeNotFound, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, env := serve(t, newRouter(), c.method, c.path, c.body)
			if code != c.status || env.Code != c.code || env.Field != c.field {
				t.Fatalf("got %d %+v", code, env)
			}
			if env.Error == "" || env.Data != nil {
				t.Fatalf("error envelope = %+v", env)
			}
		})
	}
}

func TestHandle_TooLongMessage(t *testing.T) {
	_, env := serve(t, newRouter(), http.MethodPost, "/missions/sync", `{"mission":1,"uploader":"abcdefg"}`)
	if env.Error != "uploader must be at most 5 characters" {
		t.Fatalf("message = %q", env.Error)
	}
}

func TestQueryInt_Malformed(t *testing.T) {
	_, env := serve(t, newRouter(), http.MethodGet, "/missions/7?limit=lots", "")
	if got := env.Data.(map[string]any)["limit"]; got != float64(20) {
		t.Fatalf("limit = %v, want default", got)
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	t.Setenv("CORE_API_ADDR", "127.0.0.1:0")
	srv := phttp.NewServer(config.New().Prefix("CORE_API_"))
	if srv.Addr() != "127.0.0.1:0" {
		t.Fatalf("addr = %q", srv.Addr())
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMountProfiler(t *testing.T) {
	on := phttp.AdaptChi(chi.NewRouter())
	phttp.MountProfiler(on, "/debug", true)
	rec := httptest.NewRecorder()
	on.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("pprof index = %d", rec.Code)
	}

	off := phttp.AdaptChi(chi.NewRouter())
	phttp.MountProfiler(off, "/debug", false)
	rec = httptest.NewRecorder()
	off.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("disabled profiler = %d", rec.Code)
	}
}
