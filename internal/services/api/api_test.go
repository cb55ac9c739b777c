package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"missionsync/internal/modkit"
	"missionsync/internal/platform/config"
	phttp "missionsync/internal/platform/net/http"
	"missionsync/internal/platform/store"
	archivemod "missionsync/internal/services/archive/module"

	"github.com/go-chi/chi/v5"
)

type fakeTx struct{}

func (fakeTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (fakeTx) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (fakeTx) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (f fakeTx) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	return fn(f)
}

func routes(t *testing.T, deps modkit.Deps) (*chi.Mux, []string) {
	t.Helper()
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	mods := Modules(deps)
	r.Route("/api/v1", func(api phttp.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	var out []string
	_ = chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		out = append(out, method+" "+strings.TrimSuffix(route, "/"))
		return nil
	})
	sort.Strings(out)
	return mux, out
}

func TestModules_Routes(t *testing.T) {
	_, got := routes(t, modkit.Deps{Cfg: config.New(), PG: fakeTx{}})
	want := []string{
		"GET /api/v1/archive/tables",
		"GET /api/v1/meta/health",
		"GET /api/v1/meta/ready",
		"GET /api/v1/meta/service",
		"GET /api/v1/meta/version",
		"GET /api/v1/missions/{id}",
		"GET /api/v1/runs/{mission}",
		"POST /api/v1/missions/{id}/merge",
		"POST /api/v1/missions/{id}/sync",
	}
	have := map[string]bool{}
	for _, r := range got {
		have[r] = true
	}
	for _, w := range want {
		if !have[w] {
			t.Fatalf("missing route %q in %v", w, got)
		}
	}
}

func TestModules_SyncWithoutArchiveIsUnavailable(t *testing.T) {
	mux, _ := routes(t, modkit.Deps{Cfg: config.New(), PG: fakeTx{}})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := http.Post(srv.URL+"/api/v1/missions/1/sync", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", res.StatusCode)
	}
}

func TestModules_ArchiveWiredWhenConfigured(t *testing.T) {
	mods := Modules(modkit.Deps{Cfg: config.New(), PG: fakeTx{}, Archive: fakeTx{}})
	p, ok := modkit.PortsOf[archivemod.Ports](mods[3])
	if !ok || p.Syncer == nil {
		t.Fatalf("archive syncer not wired: %+v", p)
	}
}

func TestDeps_FromStore(t *testing.T) {
	d := Deps(config.New(), &store.Store{PG: fakeTx{}})
	if d.PG == nil || d.Archive != nil || d.CH != nil {
		t.Fatalf("deps = %+v", d)
	}
	if z := Deps(config.New(), nil); z.PG != nil {
		t.Fatalf("nil store should leave backends nil")
	}
}
