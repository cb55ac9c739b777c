// Package swaggerkit serves the API's OpenAPI document and the swagger UI under /api/docs
package swaggerkit

import (
	"encoding/json"
	"net/http"

	"missionsync/internal/platform/config"
	perr "missionsync/internal/platform/errors"
	phttp "missionsync/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

const skeleton = `{"openapi":"3.0.3","info":{"title":"missionsync","version":"0.0.0"},"paths":{}}`

// docReader returns the raw document; builds tagged swag swap in the generated one
var docReader = func() string { return skeleton }

// Mount the Swagger UI and JSON document if enabled
// CORE_API_DOCS_TITLE_SUFFIX is appended to the document title, e.g. "(staging)"
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	suffix := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", "")
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", docHandler(suffix))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}

func docHandler(titleSuffix string) phttp.Handler {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			phttp.Handle(func(*http.Request) phttp.Response {
				return phttp.Error(perr.Wrap(err, perr.ErrorCodeUnknown, "openapi document is not valid json"))
			})(w, r)
			return
		}
		decorate(spec, titleSuffix)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}
