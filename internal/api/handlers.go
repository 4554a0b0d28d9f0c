package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/services"
)

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EngineStatus exposes engine pool occupancy. engine.Pool satisfies it.
type EngineStatus interface {
	Available() int
	Size() int
}

type Server struct {
	AnalysisService services.AnalysisService
	ResultService   services.ResultService
	ImportService   services.ImportService
	DB              Pinger
	Engines         EngineStatus
	TopN            int
	MaxBodyBytes    int64
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func writeText(w http.ResponseWriter, r *http.Request, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(body)); err != nil {
		logger.FromContext(r.Context()).Error("failed to write response: %v", err)
	}
}
