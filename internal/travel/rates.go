package travel

import (
	"math"

	"github.com/EpicMandM/travel-planner/internal/models"
)

// Currency per unit distance.
var priceRates = map[models.TravelMode]float64{
	models.ModeDriving: 1.25,
	models.ModeTransit: 0.10,
}

// Grams of CO2 per unit distance.
var emissionFactors = map[models.TravelMode]float64{
	models.ModeDriving: 120,
	models.ModeTransit: 40,
}

// EstimatePrice returns the trip cost for mode over distance. ok is false
// for modes without a price rate (bicycling, walking).
func EstimatePrice(mode models.TravelMode, distance float64) (float64, bool) {
	rate, ok := priceRates[mode]
	if !ok {
		return 0, false
	}
	return round2(rate * distance), true
}

// EstimateEmissions returns grams of CO2 for mode over distance. ok is
// false for modes without an emission factor.
func EstimateEmissions(mode models.TravelMode, distance float64) (float64, bool) {
	factor, ok := emissionFactors[mode]
	if !ok {
		return 0, false
	}
	return round2(factor * distance), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
