package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/EpicMandM/travel-planner/internal/logger"
	"github.com/EpicMandM/travel-planner/internal/models"
	"github.com/EpicMandM/travel-planner/internal/orchestrator"
	"github.com/EpicMandM/travel-planner/internal/service"
)

// Planner is the part of the orchestrator the web layer needs.
type Planner interface {
	UpcomingEvents(ctx context.Context, timeRange string) (orchestrator.Listing, error)
	EventDetail(ctx context.Context, id, origin string) (models.EnrichedEvent, error)
	Pipeline(ctx context.Context, events []models.DisplayEvent, origin string) ([]models.EnrichedEvent, error)
	Origin(override string) string
}

// NewRouter registers every route on a fresh mux and wraps it with the
// request-id and access-log middleware.
func NewRouter(planner Planner, log *logger.Logger) (http.Handler, error) {
	if log == nil {
		log = logger.Discard()
	}
	pages, err := NewPageHandler(planner, log)
	if err != nil {
		return nil, err
	}
	api := NewAPIHandler(planner, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /{$}", pages.Index)
	mux.HandleFunc("POST /{$}", pages.Index)
	mux.HandleFunc("GET /event/{id}", pages.Event)
	mux.HandleFunc("GET /api/events", api.ListEvents)
	mux.HandleFunc("GET /api/events/{id}", api.EventDetail)

	return WithRequestID(log, mux), nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// detailStatus maps an EventDetail error to an HTTP status.
func detailStatus(err error) int {
	if errors.Is(err, service.ErrEventNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, log *logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write JSON response", logger.Error(err))
	}
}

func writeError(w http.ResponseWriter, log *logger.Logger, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, log, status, errResp{Error: msg})
}
