package modkit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"missionsync/internal/modkit/httpkit"
	phttp "missionsync/internal/platform/net/http"
	kit "missionsync/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

type queryPort interface{ Summary(id int64) string }

type summaries struct{}

func (summaries) Summary(id int64) string { return "mission" }

type needs struct{ Journal string }

type fakeModule struct {
	Built
	ports any
}

func (m fakeModule) Ports() any { return m.ports }
func (m fakeModule) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(sub httpkit.Router) {
		httpkit.Get(sub, "/own", func(*http.Request) (any, error) { return "own", nil })
	})
}

func TestBuild_Options(t *testing.T) {
	b := Build("missions", "missions", WithPorts(needs{Journal: "ch"}))
	if b.Name() != "missions" || b.Prefix() != "/missions" {
		t.Fatalf("built = %q %q", b.Name(), b.Prefix())
	}
	if n, ok := b.Needs().(needs); !ok || n.Journal != "ch" {
		t.Fatalf("needs = %#v", b.Needs())
	}

	b = Build("missions", "/missions", WithName("renamed"), WithPrefix("/m"))
	if b.Name() != "renamed" || b.Prefix() != "/m" || b.Needs() != nil {
		t.Fatalf("overrides not applied: %+v", b)
	}

	kit.MustPanic(t, func() { Build("", "/x").Name() })
}

func TestBuilt_MountRunsRegisteredRoutes(t *testing.T) {
	m := fakeModule{Built: Build("missions", "/missions", WithRegister(func(r httpkit.Router) {
		httpkit.Get(r, "/{id}/sync", func(*http.Request) (any, error) { return "sync", nil })
	}))}
	root := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(root)

	for path, want := range map[string]string{"/missions/own": `"own"`, "/missions/7/sync": `"sync"`} {
		rec := httptest.NewRecorder()
		root.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("%s = %d %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestPortsOf(t *testing.T) {
	type bundle struct {
		Query   queryPort
		private queryPort
	}
	cases := []struct {
		name  string
		ports any
		ok    bool
	}{
		{"nil", nil, false},
		{"direct", summaries{}, true},
		{"field", bundle{Query: summaries{}}, true},
		{"unexported field", bundle{private: summaries{}}, false},
		{"not a struct", 42, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := fakeModule{Built: Build("missions", "/missions"), ports: c.ports}
			if _, ok := PortsOf[queryPort](m); ok != c.ok {
				t.Fatalf("ok = %v, want %v", ok, c.ok)
			}
		})
	}
}

func TestMustPortsOf_PanicNamesModule(t *testing.T) {
	m := fakeModule{Built: Build("archive", "/archive")}
	defer func() {
		msg, _ := recover().(string)
		if !strings.Contains(msg, "archive") {
			t.Fatalf("panic = %q", msg)
		}
	}()
	MustPortsOf[queryPort](m)
}
