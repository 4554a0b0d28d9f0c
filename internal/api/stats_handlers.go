package api

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/movelens/internal/errors"
	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/report"
)

// aggregateFilter is parseResultFilter without pagination; aggregates always
// cover every matching game.
func aggregateFilter(r *http.Request) (models.ResultFilter, error) {
	f, err := parseResultFilter(r)
	f.Limit, f.Offset = 0, 0
	return f, err
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := aggregateFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	topN, err := intParam(r, "top", s.TopN)
	if err != nil {
		handleError(w, r, err)
		return
	}

	summary, err := s.ResultService.Summary(r.Context(), filter, topN)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		var buf bytes.Buffer
		_ = report.WriteSummary(&buf, summary)
		buf.WriteString("\n")
		_ = report.WriteTopBlunders(&buf, summary.TopBlunders)
		writeText(w, r, buf.String())
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleBlunders(w http.ResponseWriter, r *http.Request) {
	filter, err := aggregateFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	topN, err := intParam(r, "top", s.TopN)
	if err != nil {
		handleError(w, r, err)
		return
	}

	minSeverity := models.SeverityBlunder
	if raw := r.URL.Query().Get("min"); raw != "" {
		if minSeverity, err = models.ParseSeverity(raw); err != nil {
			handleError(w, r, errors.NewValidationError("min", err.Error()))
			return
		}
	}

	ranked, err := s.ResultService.TopBlunders(r.Context(), filter, topN, minSeverity)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if ranked == nil {
		ranked = []models.RankedPly{}
	}

	if r.URL.Query().Get("format") == "text" {
		var buf bytes.Buffer
		_ = report.WriteTopBlunders(&buf, ranked)
		writeText(w, r, buf.String())
		return
	}
	writeJSON(w, r, http.StatusOK, ranked)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	filter, err := aggregateFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	grid, err := s.ResultService.Heatmap(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		var buf bytes.Buffer
		_ = report.WriteHeatmaps(&buf, grid)
		writeText(w, r, buf.String())
		return
	}
	writeJSON(w, r, http.StatusOK, grid)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 20)
	if err != nil {
		handleError(w, r, err)
		return
	}
	runs, err := s.ResultService.ListRuns(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if runs == nil {
		runs = []models.Run{}
	}
	writeJSON(w, r, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.ResultService.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, run)
}
