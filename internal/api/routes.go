package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const readTimeout = 30 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(timeoutMiddleware(readTimeout))
			r.Get("/games", s.handleListGames)
			r.Get("/games/{id}", s.handleGetGame)
			r.Delete("/games/{id}", s.handleDeleteGame)
			r.Get("/games/{id}/report", s.handleGameReport)
			r.Get("/games/{id}/losses.csv", s.handleGameLosses)
			r.Get("/games/{id}/prompt", s.handleGamePrompt)
			r.Get("/summary", s.handleSummary)
			r.Get("/blunders", s.handleBlunders)
			r.Get("/heatmap", s.handleHeatmap)
			r.Get("/runs", s.handleListRuns)
			r.Get("/runs/{id}", s.handleGetRun)
		})

		r.Group(func(r chi.Router) {
			r.Use(bodyLimitMiddleware(s.MaxBodyBytes))
			r.Post("/import", s.handleImport)
			r.Post("/analyze", s.handleAnalyze)
		})
	})
	return r
}
