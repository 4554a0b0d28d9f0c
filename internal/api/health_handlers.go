package api

import (
	"net/http"

	"github.com/vytor/movelens/internal/logger"
)

// handleHealth returns a liveness check and always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady returns a readiness check. Returns 200 if the database answers
// and the engine pool has sessions, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	if s.DB != nil {
		if err := s.DB.Ping(ctx); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Database unavailable"))
			return
		}
	}

	if s.Engines != nil && s.Engines.Size() == 0 {
		log.Warn("readiness check failed - no engine sessions")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Engine unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
