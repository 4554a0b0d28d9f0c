package api

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/report"
)

const defaultPromptMoves = 5

type gameListResponse struct {
	Games      []models.GameResult `json:"games"`
	TotalCount int                 `json:"total_count"`
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	TotalPages int                 `json:"total_pages"`
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	filter, err := parseResultFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("listing games: player=%s, limit=%d, offset=%d", filter.Player, filter.Limit, filter.Offset)

	games, total, err := s.ResultService.ListResults(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if games == nil {
		games = []models.GameResult{}
	}

	totalPages := total / filter.Limit
	if total%filter.Limit != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}

	writeJSON(w, r, http.StatusOK, gameListResponse{
		Games:      games,
		TotalCount: total,
		Page:       filter.Offset/filter.Limit + 1,
		PerPage:    filter.Limit,
		TotalPages: totalPages,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := s.ResultService.GetResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, game)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.ResultService.DeleteResult(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGameReport(w http.ResponseWriter, r *http.Request) {
	game, err := s.ResultService.GetResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteGame(&buf, *game); err != nil {
		handleError(w, r, err)
		return
	}
	writeText(w, r, buf.String())
}

func (s *Server) handleGameLosses(w http.ResponseWriter, r *http.Request) {
	game, err := s.ResultService.GetResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteLossSeries(&buf, *game); err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Write(buf.Bytes())
}

// handleGamePrompt returns the explanation prompt for the game's worst moves.
func (s *Server) handleGamePrompt(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", defaultPromptMoves)
	if err != nil {
		handleError(w, r, err)
		return
	}

	worst, err := s.ResultService.WorstPlies(r.Context(), chi.URLParam(r, "id"), n)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeText(w, r, report.ExplainPrompt(worst))
}
