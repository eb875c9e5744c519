package handler

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/EpicMandM/travel-planner/internal/logger"
	"github.com/EpicMandM/travel-planner/internal/models"
	"github.com/EpicMandM/travel-planner/internal/orchestrator"
)

//go:embed templates/*.html
var templateFS embed.FS

var timeRanges = []string{orchestrator.RangeWeek, orchestrator.RangeMonth, orchestrator.RangeYear}

// PageHandler renders the HTML event list and event detail pages.
type PageHandler struct {
	planner Planner
	logger  *logger.Logger
	index   *template.Template
	event   *template.Template
}

// NewPageHandler parses the embedded templates.
func NewPageHandler(planner Planner, log *logger.Logger) (*PageHandler, error) {
	index, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}
	event, err := template.ParseFS(templateFS, "templates/event.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse event template: %w", err)
	}
	return &PageHandler{planner: planner, logger: log, index: index, event: event}, nil
}

type indexPage struct {
	Ranges     []string
	TimeRange  string
	Events     []models.DisplayEvent
	Diagnostic string
	Error      string
}

type eventPage struct {
	Event     models.DisplayEvent
	Origin    string
	Estimates []models.ModeEstimate
}

// Index handles GET and POST /. The time range comes from the time_range
// form field and defaults to month.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	timeRange := r.Form.Get("time_range")

	listing, err := h.planner.UpcomingEvents(r.Context(), timeRange)
	if err != nil {
		if errors.Is(err, orchestrator.ErrInvalidTimeRange) {
			h.render(w, h.index, http.StatusBadRequest, indexPage{
				Ranges:    timeRanges,
				TimeRange: orchestrator.RangeMonth,
				Error:     err.Error(),
			})
			return
		}
		h.logger.Error("Failed to list events", logger.RequestID(requestIDFrom(r.Context())), logger.Error(err))
		http.Error(w, "Failed to list events", http.StatusInternalServerError)
		return
	}

	h.render(w, h.index, http.StatusOK, indexPage{
		Ranges:     timeRanges,
		TimeRange:  listing.TimeRange,
		Events:     listing.Events,
		Diagnostic: listing.Diagnostic,
	})
}

// Event handles GET /event/{id}?origin=
func (h *PageHandler) Event(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	detail, err := h.planner.EventDetail(r.Context(), id, r.URL.Query().Get("origin"))
	if err != nil {
		status := detailStatus(err)
		h.logger.Error("Failed to build event detail",
			logger.RequestID(requestIDFrom(r.Context())),
			logger.Event(id),
			logger.Status(strconv.Itoa(status)),
			logger.Error(err))
		http.Error(w, http.StatusText(status), status)
		return
	}

	h.render(w, h.event, http.StatusOK, eventPage{
		Event:     detail.Event,
		Origin:    detail.Origin,
		Estimates: detail.Estimates,
	})
}

// render executes into a buffer first so a template error still yields a 500.
func (h *PageHandler) render(w http.ResponseWriter, tmpl *template.Template, status int, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		h.logger.Error("Failed to render template", logger.F("TEMPLATE", tmpl.Name()), logger.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
