package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"missionsync/internal/modkit/httpkit"
	phttp "missionsync/internal/platform/net/http"
	"missionsync/internal/platform/store"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

// backends orders pg (required), archive, ch; a nil pinger is unconfigured
func backends(pg, archive, ch store.Pinger) Deps {
	return Deps{Backends: []Backend{
		{Name: "pg", Required: true, Ping: pg},
		{Name: "archive", Ping: archive},
		{Name: "ch", Ping: ch},
	}}
}

func get(t *testing.T, d Deps, path string, data any) int {
	t.Helper()
	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/meta", func(r httpkit.Router) { Register(r, d) })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := stdhttp.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()
	env := httpkit.Envelope{Data: data}
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return res.StatusCode
}

func TestReady(t *testing.T) {
	cases := []struct {
		name string
		deps Deps
		want string
	}{
		{"all up", backends(pinger{}, pinger{}, pinger{}), "ok"},
		{"archive missing", backends(pinger{}, nil, pinger{}), "degraded"},
		{"journal down", backends(pinger{}, pinger{}, pinger{err: errors.New("refused")}), "degraded"},
		{"local store down", backends(pinger{err: errors.New("refused")}, pinger{}, pinger{}), "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got ReadyResponse
			if code := get(t, tc.deps, "/meta/ready", &got); code != stdhttp.StatusOK {
				t.Fatalf("status = %d", code)
			}
			if got.Status != tc.want || len(got.Checks) != 3 || got.Checks[0].Name != "pg" {
				t.Fatalf("ready = %+v, want %s", got, tc.want)
			}
		})
	}
}

func TestReady_FailureCarriesTheError(t *testing.T) {
	var got ReadyResponse
	get(t, backends(pinger{}, pinger{err: errors.New("connection refused")}, nil), "/meta/ready", &got)
	if got.Checks[1].Status != "fail" || got.Checks[1].Error != "connection refused" || got.Checks[2].Status != "skipped" {
		t.Fatalf("checks = %+v", got.Checks)
	}
}

func TestHealthAndService(t *testing.T) {
	d := Deps{ServiceName: "missionsync-api", StartedAt: time.Now().Add(-time.Minute)}

	var h HealthResponse
	if code := get(t, d, "/meta/health", &h); code != stdhttp.StatusOK || !h.OK || h.Service != "missionsync-api" {
		t.Fatalf("health = %d %+v", code, h)
	}
	var s ServiceResponse
	if code := get(t, d, "/meta/service", &s); code != stdhttp.StatusOK || s.Uptime < 59 {
		t.Fatalf("service = %d %+v", code, s)
	}
}
