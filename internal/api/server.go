package api

import (
	"net/http"
	"time"

	chatapi "github.com/futig/docchat/internal/api/chat"
	"github.com/futig/docchat/internal/api/docs"
	documentapi "github.com/futig/docchat/internal/api/document"
	"github.com/futig/docchat/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterConfig holds the router-level settings
type RouterConfig struct {
	// RequestTimeout bounds every request and must cover a full chat turn
	RequestTimeout time.Duration
	SwaggerFile    string
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	chatHandler *chatapi.Handler,
	documentHandler *documentapi.Handler,
	cfg RouterConfig,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	docs.RegisterRoutes(r, cfg.SwaggerFile)

	chatapi.RegisterRoutes(r, chatHandler)
	documentapi.RegisterRoutes(r, documentHandler)

	return r
}
