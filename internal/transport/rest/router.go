package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/yomitan-backend/internal/config"
	"github.com/heartmarshall/yomitan-backend/internal/transport/middleware"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Health     *HealthHandler
	Lookup     *LookupHandler
	Dictionary *DictionaryHandler
}

// NewRouter builds the HTTP handler behind middleware.Stack. Dictionary
// writes are additionally rate limited per client host.
func NewRouter(h Handlers, limiter *middleware.RateLimiter, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/live", h.Health.Live)
	r.Get("/ready", h.Health.Ready)
	r.Get("/health", h.Health.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/lookup", h.Lookup.Lookup)
		r.Get("/deinflect", h.Lookup.Deinflect)
		r.Get("/languages", h.Lookup.Languages)

		r.Get("/dictionaries", h.Dictionary.List)
		r.Group(func(r chi.Router) {
			r.Use(limiter.Limit(cfg.Server.WriteRateLimit))
			r.Post("/dictionaries/import", h.Dictionary.Import)
			r.Post("/dictionaries/reset", h.Dictionary.Reset)
		})
	})

	return middleware.Stack(logger, cfg.CORS)(r)
}
