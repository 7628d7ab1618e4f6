package docs

import (
	"net/http"
	"os"

	"github.com/futig/docchat/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const specRoute = "/docs/swagger.yaml"

// uiHandler serves Swagger UI pointed at the bundled OpenAPI document
func uiHandler() http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL(specRoute),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)
}

func specHandler(specFile string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(specFile); err != nil {
			response.Error(w, http.StatusNotFound, "API description is not available")
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		http.ServeFile(w, r, specFile)
	}
}

// RegisterRoutes mounts /docs (UI) and /docs/swagger.yaml read from specFile
func RegisterRoutes(r chi.Router, specFile string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})
	r.Get(specRoute, specHandler(specFile))
	r.Get("/docs/*", uiHandler())
}
