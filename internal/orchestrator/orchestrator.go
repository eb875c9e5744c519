package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EpicMandM/travel-planner/internal/display"
	"github.com/EpicMandM/travel-planner/internal/logger"
	"github.com/EpicMandM/travel-planner/internal/models"
	"github.com/EpicMandM/travel-planner/internal/service"
	"github.com/EpicMandM/travel-planner/internal/travel"
)

// Time ranges accepted by UpcomingEvents.
const (
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"
)

// ErrInvalidTimeRange is returned for a time range other than week, month or year.
var ErrInvalidTimeRange = errors.New("invalid time range")

// calendarUnavailable is shown instead of events when the calendar source fails.
const calendarUnavailable = "Calendar is currently unavailable. Please try again later."

// Listing is the result of UpcomingEvents. When the calendar source fails,
// Events is empty and Diagnostic explains why.
type Listing struct {
	TimeRange  string                `json:"time_range"`
	Events     []models.DisplayEvent `json:"events"`
	Diagnostic string                `json:"diagnostic,omitempty"`
}

// Orchestrator coordinates the event-enrichment pipeline: fetch events for
// a window, format them for display and attach per-mode travel estimates.
type Orchestrator struct {
	Logger     *logger.Logger
	Calendar   service.CalendarClient
	Enricher   *travel.Enricher
	FeatureCfg *service.FeatureConfig
}

// NormalizeTimeRange lowercases timeRange and falls back to the configured
// default (or month) when it is empty.
func (o *Orchestrator) NormalizeTimeRange(timeRange string) string {
	timeRange = strings.ToLower(strings.TrimSpace(timeRange))
	if timeRange != "" {
		return timeRange
	}
	if o.FeatureCfg != nil && o.FeatureCfg.Calendar.DefaultTimeRange != "" {
		return o.FeatureCfg.Calendar.DefaultTimeRange
	}
	return RangeMonth
}

// Window returns the [now, end) interval for timeRange.
func Window(timeRange string, now time.Time) (time.Time, time.Time, error) {
	switch timeRange {
	case RangeWeek:
		return now, now.AddDate(0, 0, 7), nil
	case RangeMonth:
		return now, addMonths(now, 1), nil
	case RangeYear:
		return now, addMonths(now, 12), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q (must be week, month or year)", ErrInvalidTimeRange, timeRange)
	}
}

// addMonths moves t forward by n calendar months, clamping the day to the
// last day of the target month (31 January + 1 month is 29 February).
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(t.Day(), lastDay)-1)
}

// UpcomingEvents lists the display events starting from now within timeRange.
func (o *Orchestrator) UpcomingEvents(ctx context.Context, timeRange string) (Listing, error) {
	return o.UpcomingEventsAt(ctx, timeRange, time.Now())
}

// UpcomingEventsAt is UpcomingEvents with an explicit clock. Only an invalid
// time range is returned as an error; a calendar failure is reported in
// Listing.Diagnostic.
func (o *Orchestrator) UpcomingEventsAt(ctx context.Context, timeRange string, now time.Time) (Listing, error) {
	timeRange = o.NormalizeTimeRange(timeRange)
	timeMin, timeMax, err := Window(timeRange, now)
	if err != nil {
		return Listing{}, err
	}

	o.Logger.Info("Fetching calendar events", logger.Action("calendar"), logger.Status("fetching_events"), logger.TimeRange(timeRange))

	raw, err := o.Calendar.ListEvents(ctx, timeMin, timeMax)
	if err != nil {
		o.Logger.Error("Failed to fetch calendar events", logger.Error(err), logger.TimeRange(timeRange))
		return Listing{TimeRange: timeRange, Events: []models.DisplayEvent{}, Diagnostic: calendarUnavailable}, nil
	}

	events := o.BuildEvents(raw)
	o.Logger.Info("Calendar events fetched", logger.Action("calendar"), logger.Status("events_fetched"), logger.Events(len(events)))
	return Listing{TimeRange: timeRange, Events: events}, nil
}

// BuildEvents formats raw events in order. Events whose start or end cannot
// be resolved are skipped with a warning.
func (o *Orchestrator) BuildEvents(raw []models.RawEvent) []models.DisplayEvent {
	events := make([]models.DisplayEvent, 0, len(raw))
	for _, r := range raw {
		ev, err := display.FormatEvent(r)
		if err != nil {
			o.Logger.Warn("Skipping unformattable event", logger.Event(r.ID), logger.Error(err))
			continue
		}
		events = append(events, ev)
	}
	return events
}

// Origin returns override when set, otherwise the configured default origin.
func (o *Orchestrator) Origin(override string) string {
	if origin := strings.TrimSpace(override); origin != "" {
		return origin
	}
	if o.FeatureCfg != nil {
		return strings.TrimSpace(o.FeatureCfg.Travel.DefaultOrigin)
	}
	return ""
}

func (o *Orchestrator) modes() []models.TravelMode {
	if o.FeatureCfg == nil {
		return append([]models.TravelMode(nil), models.AllModes...)
	}
	return o.FeatureCfg.Travel.TravelModes()
}

// Enrich attaches one estimate per configured travel mode to event. An empty
// origin yields the event without estimates. A travel.ParseError is
// returned alongside the fully populated result.
func (o *Orchestrator) Enrich(ctx context.Context, event models.DisplayEvent, origin string) (models.EnrichedEvent, error) {
	enriched := models.EnrichedEvent{Event: event, Origin: origin}
	if origin == "" {
		o.Logger.Debug("No origin set, skipping travel estimates", logger.Event(event.EventID))
		return enriched, nil
	}

	estimates, err := o.Enricher.EnrichAll(ctx, origin, event, o.modes())
	enriched.Estimates = estimates
	if err != nil {
		o.Logger.Error("Failed to parse travel estimate", logger.Event(event.EventID), logger.Origin(origin), logger.Error(err))
		return enriched, fmt.Errorf("failed to enrich event %s: %w", event.EventID, err)
	}
	return enriched, nil
}

// EventDetail fetches one event by id and enriches it from origin (or the
// configured default origin).
func (o *Orchestrator) EventDetail(ctx context.Context, id, origin string) (models.EnrichedEvent, error) {
	raw, err := o.Calendar.GetEvent(ctx, id)
	if err != nil {
		o.Logger.Error("Failed to fetch event", logger.Event(id), logger.Error(err))
		return models.EnrichedEvent{}, err
	}

	event, err := display.FormatEvent(raw)
	if err != nil {
		o.Logger.Warn("Event cannot be displayed", logger.Event(id), logger.Error(err))
		return models.EnrichedEvent{}, err
	}

	return o.Enrich(ctx, event, o.Origin(origin))
}

// Pipeline enriches every event from the same origin. The origin never
// advances to a previous event's location. Parse errors are joined and the
// remaining events are still enriched.
func (o *Orchestrator) Pipeline(ctx context.Context, events []models.DisplayEvent, origin string) ([]models.EnrichedEvent, error) {
	origin = o.Origin(origin)
	o.Logger.Info("Enriching events", logger.Action("travel"), logger.Origin(origin), logger.Events(len(events)))

	out := make([]models.EnrichedEvent, 0, len(events))
	var errs []error
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		enriched, err := o.Enrich(ctx, ev, origin)
		if err != nil {
			errs = append(errs, err)
		}
		out = append(out, enriched)
	}
	return out, errors.Join(errs...)
}
