package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inkwell-ai/inkwell/internal/api"
	"github.com/inkwell-ai/inkwell/internal/api/handlers"
	"github.com/inkwell-ai/inkwell/internal/api/middleware"
)

type RouterConfig struct {
	APIKey            string
	RetrievalHandler  *handlers.RetrievalHandler
	GenerationHandler *handlers.GenerationHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.APIKey))

		r.Post("/search", cfg.RetrievalHandler.Search)
		r.Get("/stats", cfg.RetrievalHandler.Stats)
		r.Post("/reindex", cfg.RetrievalHandler.Reindex)
		r.Post("/generate", cfg.GenerationHandler.Generate)
	})

	return r
}
