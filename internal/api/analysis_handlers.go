package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/vytor/movelens/internal/errors"
	"github.com/vytor/movelens/internal/lichess"
	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/pgn"
)

// handleImport queues a background import of a user's games or one game.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req lichess.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body: "+err.Error()))
		return
	}

	if err := s.ImportService.QueueImport(r.Context(), req); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("import job queued: %s", req.Source())
	writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "queued", "source": req.Source()})
}

// handleAnalyze evaluates the PGN in the request body and waits for the
// result. A body holding several games is analyzed as one batch run.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("failed to read body: "+err.Error()))
		return
	}
	text := string(body)
	if strings.TrimSpace(text) == "" {
		handleError(w, r, errors.NewValidationError("body", "PGN text required"))
		return
	}

	chunks := pgn.Split(text)
	id := r.URL.Query().Get("id")
	log.Info("analyzing %d submitted games", len(chunks))

	if len(chunks) == 1 {
		result, err := s.AnalysisService.AnalyzeGame(r.Context(), models.RawGame{ID: id, PGN: chunks[0]})
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, result)
		return
	}

	raws := make([]models.RawGame, len(chunks))
	for i, c := range chunks {
		raws[i] = models.RawGame{PGN: c}
	}
	source := r.URL.Query().Get("source")
	if source == "" {
		source = "api:upload"
	}

	batch, err := s.AnalysisService.AnalyzeBatch(r.Context(), source, raws)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, batch)
}
