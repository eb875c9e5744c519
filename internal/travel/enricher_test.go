package travel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EpicMandM/travel-planner/internal/logger"
	"github.com/EpicMandM/travel-planner/internal/models"
)

// --- mocks ---

type queryCall struct {
	origin, destination string
	mode                models.TravelMode
}

type mockRouteSource struct {
	mu      sync.Mutex
	calls   []queryCall
	queryFn func(origin, destination string, mode models.TravelMode) (models.Route, error)
}

func (m *mockRouteSource) Query(_ context.Context, origin, destination string, mode models.TravelMode) (models.Route, error) {
	m.mu.Lock()
	m.calls = append(m.calls, queryCall{origin: origin, destination: destination, mode: mode})
	m.mu.Unlock()
	if m.queryFn != nil {
		return m.queryFn(origin, destination, mode)
	}
	return models.Route{DistanceText: "10 km", DurationText: "30 mins"}, nil
}

// --- helper ---

func testEvent() models.DisplayEvent {
	return models.DisplayEvent{
		EventID:  "evt-1",
		Name:     "Dentist",
		DateTime: "Friday 01 March 2024 09:00 AM -> 10:30 AM",
		Location: "1 High Street",
		StartsAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestEnrich_Driving(t *testing.T) {
	src := &mockRouteSource{}
	e := NewEnricher(src, nil)

	est, err := e.Enrich(context.Background(), "Home", testEvent(), models.ModeDriving)
	require.NoError(t, err)

	assert.Equal(t, models.ModeDriving, est.Mode)
	assert.Equal(t, "10 km", est.DistanceText)
	assert.Equal(t, 10.0, est.DistanceValue)
	assert.Equal(t, "30 mins", est.DurationText)
	assert.Equal(t, "Friday 01 March 2024 08:30 AM", est.Departure)
	assert.Equal(t, "12.50", est.Price)
	assert.Equal(t, "1200.00 g CO2", est.Emissions)

	require.Len(t, src.calls, 1)
	assert.Equal(t, queryCall{origin: "Home", destination: "1 High Street", mode: models.ModeDriving}, src.calls[0])
}

func TestEnrich_Transit(t *testing.T) {
	e := NewEnricher(&mockRouteSource{}, nil)

	est, err := e.Enrich(context.Background(), "Home", testEvent(), models.ModeTransit)
	require.NoError(t, err)
	assert.Equal(t, "1.00", est.Price)
	assert.Equal(t, "400.00 g CO2", est.Emissions)
}

func TestEnrich_UnmodeledModesGetSentinels(t *testing.T) {
	e := NewEnricher(&mockRouteSource{}, nil)

	for _, mode := range []models.TravelMode{models.ModeBicycling, models.ModeWalking} {
		est, err := e.Enrich(context.Background(), "Home", testEvent(), mode)
		require.NoError(t, err)
		assert.Equal(t, "10 km", est.DistanceText)
		assert.Equal(t, "Friday 01 March 2024 08:30 AM", est.Departure)
		assert.Equal(t, models.NotAvailable, est.Price)
		assert.Equal(t, models.NotAvailable, est.Emissions)
	}
}

func TestEnrich_SourceFailureIsNotPropagated(t *testing.T) {
	var buf bytes.Buffer
	src := &mockRouteSource{
		queryFn: func(string, string, models.TravelMode) (models.Route, error) {
			return models.Route{}, fmt.Errorf("quota exceeded")
		},
	}
	e := NewEnricher(src, logger.NewWithWriter(&buf))

	est, err := e.Enrich(context.Background(), "Home", testEvent(), models.ModeDriving)
	require.NoError(t, err)
	assert.Equal(t, models.UnavailableEstimate(models.ModeDriving), est)
	assert.Contains(t, buf.String(), "LEVEL=WARNING")
	assert.Contains(t, buf.String(), "MODE=driving")
	assert.Contains(t, buf.String(), "quota exceeded")
}

func TestEnrich_MissingDurationKeepsDistance(t *testing.T) {
	src := &mockRouteSource{
		queryFn: func(string, string, models.TravelMode) (models.Route, error) {
			return models.Route{DistanceText: "4 km"}, nil
		},
	}
	e := NewEnricher(src, nil)

	est, err := e.Enrich(context.Background(), "Home", testEvent(), models.ModeDriving)
	require.NoError(t, err)
	assert.Equal(t, "4 km", est.DistanceText)
	assert.Equal(t, "5.00", est.Price)
	assert.Equal(t, models.NotAvailable, est.DurationText)
	assert.Equal(t, models.NotAvailable, est.Departure)
}

func TestEnrich_UnparseableDistanceDegradesToZero(t *testing.T) {
	src := &mockRouteSource{
		queryFn: func(string, string, models.TravelMode) (models.Route, error) {
			return models.Route{DistanceText: "850 m", DurationText: "5 mins"}, nil
		},
	}
	e := NewEnricher(src, nil)

	est, err := e.Enrich(context.Background(), "Home", testEvent(), models.ModeDriving)
	require.NoError(t, err)
	assert.Equal(t, "850 m", est.DistanceText)
	assert.Zero(t, est.DistanceValue)
	assert.Equal(t, "0.00", est.Price)
	assert.Equal(t, "0.00 g CO2", est.Emissions)
}

func TestEnrich_MalformedDurationPropagates(t *testing.T) {
	src := &mockRouteSource{
		queryFn: func(string, string, models.TravelMode) (models.Route, error) {
			return models.Route{DistanceText: "10 km", DurationText: "1 hour 30"}, nil
		},
	}
	e := NewEnricher(src, nil)

	est, err := e.Enrich(context.Background(), "Home", testEvent(), models.ModeDriving)
	require.Error(t, err)

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, "1 hour 30", est.DurationText)
	assert.Equal(t, models.NotAvailable, est.Departure)
	assert.Equal(t, "12.50", est.Price)
}

func TestEnrich_NoLocationSkipsQuery(t *testing.T) {
	src := &mockRouteSource{}
	e := NewEnricher(src, nil)

	event := testEvent()
	event.Location = models.NoLocation

	est, err := e.Enrich(context.Background(), "Home", event, models.ModeDriving)
	require.NoError(t, err)
	assert.Equal(t, models.UnavailableEstimate(models.ModeDriving), est)
	assert.Empty(t, src.calls)
}

func TestEnrich_DepartureKeepsEventOffset(t *testing.T) {
	e := NewEnricher(&mockRouteSource{
		queryFn: func(string, string, models.TravelMode) (models.Route, error) {
			return models.Route{DistanceText: "80 km", DurationText: "1 hour 15 mins"}, nil
		},
	}, nil)

	event := testEvent()
	event.StartsAt = time.Date(2024, 3, 2, 0, 30, 0, 0, time.FixedZone("", 2*3600))

	est, err := e.Enrich(context.Background(), "Home", event, models.ModeDriving)
	require.NoError(t, err)
	assert.Equal(t, "Friday 01 March 2024 11:15 PM", est.Departure)
}

func TestEnrichAll_FailureIsolatedPerMode(t *testing.T) {
	src := &mockRouteSource{
		queryFn: func(_, _ string, mode models.TravelMode) (models.Route, error) {
			if mode == models.ModeWalking {
				return models.Route{}, fmt.Errorf("network error")
			}
			return models.Route{DistanceText: "10 km", DurationText: "20 mins"}, nil
		},
	}
	e := NewEnricher(src, nil)

	results, err := e.EnrichAll(context.Background(), "Home", testEvent(), models.AllModes)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, mode := range models.AllModes {
		assert.Equal(t, mode, results[i].Mode)
	}

	assert.Equal(t, "10 km", results[0].DistanceText)
	assert.Equal(t, "12.50", results[0].Price)
	assert.Equal(t, "10 km", results[1].DistanceText)
	assert.Equal(t, "10 km", results[2].DistanceText)
	assert.Equal(t, models.UnavailableEstimate(models.ModeWalking), results[3])
	assert.Len(t, src.calls, 4)
}

func TestEnrichAll_JoinsParseErrors(t *testing.T) {
	src := &mockRouteSource{
		queryFn: func(_, _ string, mode models.TravelMode) (models.Route, error) {
			if mode == models.ModeTransit {
				return models.Route{DistanceText: "3 km", DurationText: "soon"}, nil
			}
			return models.Route{DistanceText: "3 km", DurationText: "9 mins"}, nil
		},
	}
	e := NewEnricher(src, nil)

	results, err := e.EnrichAll(context.Background(), "Home", testEvent(), models.AllModes)
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "soon", perr.Input)
	assert.Equal(t, "Friday 01 March 2024 08:51 AM", results[0].Departure)
	assert.Equal(t, models.NotAvailable, results[1].Departure)
}

func TestEnrichAll_NoModes(t *testing.T) {
	e := NewEnricher(&mockRouteSource{}, nil)
	results, err := e.EnrichAll(context.Background(), "Home", testEvent(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEnrichAll_LogsAvailableCount(t *testing.T) {
	src := &mockRouteSource{
		queryFn: func(_, _ string, mode models.TravelMode) (models.Route, error) {
			if mode == models.ModeTransit {
				return models.Route{}, fmt.Errorf("ZERO_RESULTS")
			}
			return models.Route{DistanceText: "10 km", DurationText: "20 mins"}, nil
		},
	}
	var buf bytes.Buffer
	e := NewEnricher(src, logger.NewWithWriter(&buf))

	_, err := e.EnrichAll(context.Background(), "Home", testEvent(), models.AllModes)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "MESSAGE=Travel estimates computed")
	assert.Contains(t, buf.String(), "EVENT=evt-1")
	assert.Contains(t, buf.String(), "MODES=4")
	assert.Contains(t, buf.String(), "COUNT=3")
}

func TestEnrich_ThousandsSeparatorDistanceDegradesToZero(t *testing.T) {
	src := &mockRouteSource{
		queryFn: func(_, _ string, _ models.TravelMode) (models.Route, error) {
			return models.Route{DistanceText: "1,234 km", DurationText: "12 hours 40 mins"}, nil
		},
	}
	e := NewEnricher(src, nil)

	est, err := e.Enrich(context.Background(), "Home", testEvent(), models.ModeDriving)
	require.NoError(t, err)
	assert.Equal(t, "1,234 km", est.DistanceText)
	assert.Zero(t, est.DistanceValue)
	assert.Equal(t, "0.00", est.Price)
	assert.Equal(t, "0.00 g CO2", est.Emissions)
	assert.Equal(t, "Thursday 29 February 2024 08:20 PM", est.Departure)
}
