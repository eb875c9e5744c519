package integration

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EpicMandM/travel-planner/internal/app"
	"github.com/EpicMandM/travel-planner/internal/config"
	"github.com/EpicMandM/travel-planner/internal/logger"
	"github.com/EpicMandM/travel-planner/internal/models"
	"github.com/EpicMandM/travel-planner/internal/service"
)

// TestApp_FullFlow tests the complete application flow.
// This requires a cached Google token and a Maps API key, so it's skipped by default.
func TestApp_FullFlow(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	// Load real config from environment
	cfg, err := config.Load()
	require.NoError(t, err)

	featureCfg, err := service.LoadFeatureConfig(cfg.ConfigPath)
	require.NoError(t, err)

	application := app.New(cfg, featureCfg, logger.New())

	ctx := context.Background()
	require.NoError(t, application.Initialize(ctx))
	require.NoError(t, application.Authorize())

	orch := application.Orchestrator()
	listing, err := orch.UpcomingEvents(ctx, "week")
	require.NoError(t, err)
	require.Empty(t, listing.Diagnostic)

	origin := orch.Origin(os.Getenv("INTEGRATION_ORIGIN"))
	if origin == "" || len(listing.Events) == 0 {
		t.Skip("No origin configured or no events in the coming week")
	}

	enriched, err := orch.Pipeline(ctx, listing.Events[:1], origin)
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	for _, est := range enriched[0].Estimates {
		assert.NotEmpty(t, est.DistanceText)
		assert.NotEqual(t, "", string(est.Mode))
		if est.DistanceText != models.NotAvailable {
			assert.GreaterOrEqual(t, est.DistanceValue, 0.0)
		}
	}
}
