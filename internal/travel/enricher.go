package travel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/EpicMandM/travel-planner/internal/logger"
	"github.com/EpicMandM/travel-planner/internal/models"
)

// DepartureLayout formats departure instants the same way events are shown.
const DepartureLayout = "Monday 02 January 2006 03:04 PM"

// RouteSource answers distance/duration queries for one travel mode.
type RouteSource interface {
	Query(ctx context.Context, origin, destination string, mode models.TravelMode) (models.Route, error)
}

// Enricher computes per-mode estimates for an event. It holds no state
// between calls and re-queries the source every time.
type Enricher struct {
	source RouteSource
	logger *logger.Logger
}

// NewEnricher creates an Enricher backed by source.
func NewEnricher(source RouteSource, log *logger.Logger) *Enricher {
	if log == nil {
		log = logger.Discard()
	}
	return &Enricher{source: source, logger: log}
}

// Enrich computes the estimate for one mode. A failed query leaves every
// field at models.NotAvailable and returns a nil error. A malformed
// duration text returns a *ParseError alongside the partially filled
// estimate.
func (e *Enricher) Enrich(ctx context.Context, origin string, event models.DisplayEvent, mode models.TravelMode) (models.ModeEstimate, error) {
	est := models.UnavailableEstimate(mode)

	destination := strings.TrimSpace(event.Location)
	if destination == "" || destination == models.NoLocation {
		e.logger.Debug("Skipping travel query", logger.Event(event.EventID), logger.Mode(string(mode)), logger.Reason("no_location"))
		return est, nil
	}

	route, err := e.source.Query(ctx, origin, destination, mode)
	if err != nil {
		e.logger.Warn("Travel estimate unavailable",
			logger.Event(event.EventID),
			logger.Mode(string(mode)),
			logger.Origin(origin),
			logger.Error(err))
		return est, nil
	}

	if route.DistanceText != "" {
		est.DistanceText = route.DistanceText
		est.DistanceValue = ParseDistance(route.DistanceText)
		if price, ok := EstimatePrice(mode, est.DistanceValue); ok {
			est.Price = fmt.Sprintf("%.2f", price)
		}
		if grams, ok := EstimateEmissions(mode, est.DistanceValue); ok {
			est.Emissions = fmt.Sprintf("%.2f g CO2", grams)
		}
	}

	if route.DurationText != "" {
		est.DurationText = route.DurationText
		d, err := ParseDuration(route.DurationText)
		if err != nil {
			return est, err
		}
		est.Departure = event.StartsAt.Add(-d).Format(DepartureLayout)
	}

	return est, nil
}

// EnrichAll runs Enrich for every mode concurrently. Results keep the order
// of modes. Parse errors from individual modes are joined; the other modes
// are still returned in full.
func (e *Enricher) EnrichAll(ctx context.Context, origin string, event models.DisplayEvent, modes []models.TravelMode) ([]models.ModeEstimate, error) {
	results := make([]models.ModeEstimate, len(modes))
	errs := make([]error, len(modes))

	var g errgroup.Group
	for i, mode := range modes {
		g.Go(func() error {
			results[i], errs[i] = e.Enrich(ctx, origin, event, mode)
			return nil
		})
	}
	_ = g.Wait()

	available := 0
	for _, est := range results {
		if est.DistanceText != models.NotAvailable {
			available++
		}
	}
	e.logger.Info("Travel estimates computed",
		logger.Action("travel"),
		logger.Event(event.EventID),
		logger.Origin(origin),
		logger.F("MODES", len(modes)),
		logger.Count(available))

	return results, errors.Join(errs...)
}
