package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/EpicMandM/travel-planner/internal/logger"
	"github.com/EpicMandM/travel-planner/internal/models"
	"github.com/EpicMandM/travel-planner/internal/orchestrator"
)

// APIHandler serves the JSON variants of the event list and detail views.
type APIHandler struct {
	planner Planner
	logger  *logger.Logger
}

func NewAPIHandler(planner Planner, log *logger.Logger) *APIHandler {
	return &APIHandler{
		planner: planner,
		logger:  log,
	}
}

type eventsResponse struct {
	orchestrator.Listing
	Origin   string                 `json:"origin,omitempty"`
	Enriched []models.EnrichedEvent `json:"enriched,omitempty"`
	Warning  string                 `json:"warning,omitempty"`
}

// ListEvents handles GET /api/events?time_range=&origin=&enrich=
func (h *APIHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	listing, err := h.planner.UpcomingEvents(ctx, q.Get("time_range"))
	if err != nil {
		if errors.Is(err, orchestrator.ErrInvalidTimeRange) {
			writeError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to list events", logger.RequestID(requestIDFrom(ctx)), logger.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, "failed to list events")
		return
	}

	resp := eventsResponse{Listing: listing}
	if enrich, _ := strconv.ParseBool(q.Get("enrich")); enrich {
		resp.Origin = h.planner.Origin(q.Get("origin"))
		enriched, err := h.planner.Pipeline(ctx, listing.Events, resp.Origin)
		resp.Enriched = enriched
		if err != nil {
			h.logger.Error("Failed to enrich events", logger.RequestID(requestIDFrom(ctx)), logger.Error(err))
			resp.Warning = err.Error()
		}
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// EventDetail handles GET /api/events/{id}?origin=
func (h *APIHandler) EventDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	detail, err := h.planner.EventDetail(ctx, id, r.URL.Query().Get("origin"))
	if err != nil {
		status := detailStatus(err)
		h.logger.Error("Failed to build event detail",
			logger.RequestID(requestIDFrom(ctx)),
			logger.Event(id),
			logger.Status(strconv.Itoa(status)),
			logger.Error(err))
		writeError(w, h.logger, status, err.Error())
		return
	}

	writeJSON(w, h.logger, http.StatusOK, detail)
}
