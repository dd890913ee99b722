package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter wires all routes onto a chi router.
func NewRouter(h *Handler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/healthz", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/plans", func(r chi.Router) {
			r.Post("/", h.CreatePlan)
			r.Route("/{planID}", func(r chi.Router) {
				r.Get("/", h.GetPlan)
				r.Delete("/", h.DeletePlan)
				r.Get("/status", h.GetStatus)
				r.Put("/answers/{questionID}", h.SubmitAnswer)
				r.Post("/transition", h.TransitionPlan)
				r.Post("/generate", h.GenerateAll)
				r.Post("/sections/{section}/generate", h.RegenerateSection)
				r.Post("/snapshots", h.CreateSnapshot)
				r.Get("/snapshots", h.ListSnapshots)
				r.Get("/snapshots/{version}", h.GetSnapshot)
				r.Post("/shares", h.CreateShare)
			})
		})

		r.Route("/shares/{shareID}", func(r chi.Router) {
			r.Post("/revoke", h.RevokeShare)
			r.Post("/reactivate", h.ReactivateShare)
			r.Put("/permission", h.UpdateSharePermission)
			r.Post("/access", h.RecordShareAccess)
		})

		r.Get("/categories/{category}/sections", h.AvailableSections)
		r.Get("/shared/{token}", h.ResolvePublicToken)
	})

	return r
}

// requestLogger emits one structured log line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
