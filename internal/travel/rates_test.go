package travel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EpicMandM/travel-planner/internal/models"
)

func TestEstimatePrice(t *testing.T) {
	got, ok := EstimatePrice(models.ModeDriving, 10.0)
	assert.True(t, ok)
	assert.Equal(t, 12.5, got)

	got, ok = EstimatePrice(models.ModeTransit, 10.0)
	assert.True(t, ok)
	assert.Equal(t, 1.0, got)
}

func TestEstimateEmissions(t *testing.T) {
	got, ok := EstimateEmissions(models.ModeDriving, 10.0)
	assert.True(t, ok)
	assert.Equal(t, 1200.0, got)

	got, ok = EstimateEmissions(models.ModeTransit, 10.0)
	assert.True(t, ok)
	assert.Equal(t, 400.0, got)
}

func TestEstimates_NotModeled(t *testing.T) {
	for _, mode := range []models.TravelMode{models.ModeBicycling, models.ModeWalking} {
		_, ok := EstimatePrice(mode, 10)
		assert.False(t, ok, mode)
		_, ok = EstimateEmissions(mode, 10)
		assert.False(t, ok, mode)
	}
}

func TestEstimates_RoundToTwoDecimals(t *testing.T) {
	got, _ := EstimatePrice(models.ModeDriving, 3.333)
	assert.Equal(t, 4.17, got)

	got, _ = EstimatePrice(models.ModeTransit, 12.345)
	assert.Equal(t, 1.23, got)
}

func TestEstimates_ZeroDistance(t *testing.T) {
	got, ok := EstimatePrice(models.ModeDriving, 0)
	assert.True(t, ok)
	assert.Zero(t, got)
}
