package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"missionsync/internal/modkit/httpkit"
	perr "missionsync/internal/platform/errors"
	phttp "missionsync/internal/platform/net/http"
	dom "missionsync/internal/services/journal/domain"

	"github.com/go-chi/chi/v5"
)

type fakeQuery struct {
	mission int64
	limit   int
	runs    []dom.Run
	err     error
}

func (f *fakeQuery) Recent(_ context.Context, mission int64, limit int) ([]dom.Run, error) {
	f.mission, f.limit = mission, limit
	return f.runs, f.err
}

func get(t *testing.T, q dom.QueryPort, path string) (*stdhttp.Response, []dom.Run) {
	t.Helper()
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Route("/runs", func(rr httpkit.Router) { Register(rr, q) })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := stdhttp.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()
	var runs []dom.Run
	env := httpkit.Envelope{Data: &runs}
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return res, runs
}

func TestRecent(t *testing.T) {
	q := &fakeQuery{runs: []dom.Run{{RunID: "r2", Op: dom.OpSync, Mission: 7}, {RunID: "r1", Op: dom.OpMerge, Mission: 7}}}
	res, runs := get(t, q, "/runs/7?limit=5")
	if res.StatusCode != stdhttp.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if q.mission != 7 || q.limit != 5 {
		t.Fatalf("query got mission=%d limit=%d", q.mission, q.limit)
	}
	if len(runs) != 2 || runs[0].RunID != "r2" || runs[1].Op != dom.OpMerge {
		t.Fatalf("runs = %+v", runs)
	}
}

func TestRecent_Errors(t *testing.T) {
	cases := []struct {
		name string
		path string
		err  error
		want int
	}{
		{"bad id", "/runs/abc", nil, stdhttp.StatusUnprocessableEntity},
		{"zero id", "/runs/0", nil, stdhttp.StatusUnprocessableEntity},
		{"disabled", "/runs/3", perr.Unavailablef("journal is disabled"), stdhttp.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &fakeQuery{err: tc.err}
			res, _ := get(t, q, tc.path)
			if res.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", res.StatusCode, tc.want)
			}
		})
	}
}
