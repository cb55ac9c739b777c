package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"missionsync/internal/core/progress"
	"missionsync/internal/modkit/httpkit"
	perr "missionsync/internal/platform/errors"
	phttp "missionsync/internal/platform/net/http"
	"missionsync/internal/services/missions/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct {
	dest, src int64
	err       error
}

func (f *fakeSvc) Merge(_ context.Context, dest, src int64, ls ...progress.Listener) (domain.MergeResult, error) {
	f.dest, f.src = dest, src
	if f.err != nil {
		return domain.MergeResult{}, f.err
	}
	for _, l := range ls {
		l.Progress("Merging event 004", 1, 1)
	}
	return domain.MergeResult{RunID: "r1", DestID: dest, SourceID: src}, nil
}

func (f *fakeSvc) Load(context.Context, int64) (*domain.Mission, error) { return nil, nil }

func (f *fakeSvc) Summary(_ context.Context, id int64) (domain.Summary, error) {
	if id == 404 {
		return domain.Summary{}, perr.NotFoundf("mission %d not found", id)
	}
	return domain.Summary{ID: id, Descriptor: "MVP112024", Events: 3}, nil
}

func newServer(s Service) *httptest.Server {
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Route("/missions", func(rr httpkit.Router) { Register(rr, s) })
	return httptest.NewServer(mux)
}

func decode(t *testing.T, res *stdhttp.Response, data any) httpkit.Envelope {
	t.Helper()
	defer res.Body.Close()
	env := httpkit.Envelope{Data: data}
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env
}

func TestMergeEndpoint(t *testing.T) {
	svc := &fakeSvc{}
	srv := newServer(svc)
	defer srv.Close()

	res, err := stdhttp.Post(srv.URL+"/missions/7/merge", "application/json", strings.NewReader(`{"source_id": 9}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	var reply domain.MergeReply
	env := decode(t, res, &reply)
	if res.StatusCode != stdhttp.StatusOK {
		t.Fatalf("status = %d (%s)", res.StatusCode, env.Error)
	}
	if svc.dest != 7 || svc.src != 9 {
		t.Fatalf("service got dest=%d src=%d", svc.dest, svc.src)
	}
	if reply.Result.RunID != "r1" || len(reply.Progress) != 1 || reply.Progress[0].Message != "Merging event 004" {
		t.Fatalf("reply = %+v", reply)
	}
}

func TestMergeEndpoint_Errors(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		body   string
		svcErr error
		want   int
	}{
		{"missing source", "/missions/7/merge", `{}`, nil, stdhttp.StatusBadRequest},
		{"bad id", "/missions/x/merge", `{"source_id": 9}`, nil, stdhttp.StatusUnprocessableEntity},
		{"descriptor mismatch", "/missions/7/merge", `{"source_id": 9}`, perr.DescriptorMismatchf("nope"), stdhttp.StatusConflict},
		{"partition", "/missions/7/merge", `{"source_id": 9}`, perr.UnsupportedPartitionf("nope"), stdhttp.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newServer(&fakeSvc{err: tc.svcErr})
			defer srv.Close()
			res, err := stdhttp.Post(srv.URL+tc.path, "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("post: %v", err)
			}
			env := decode(t, res, nil)
			if res.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d (%s)", res.StatusCode, tc.want, env.Error)
			}
		})
	}
}

func TestSummaryEndpoint(t *testing.T) {
	srv := newServer(&fakeSvc{})
	defer srv.Close()

	res, err := stdhttp.Get(srv.URL + "/missions/5")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var sum domain.Summary
	decode(t, res, &sum)
	if res.StatusCode != stdhttp.StatusOK || sum.ID != 5 || sum.Events != 3 {
		t.Fatalf("status=%d summary=%+v", res.StatusCode, sum)
	}

	res, err = stdhttp.Get(srv.URL + "/missions/404")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	decode(t, res, nil)
	if res.StatusCode != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.StatusCode)
	}
}
