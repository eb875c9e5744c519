package travel

import (
	"math"
	"strconv"
	"strings"
)

// ParseDistance returns the magnitude of "12.3 km" or "7 mi". The unit is
// not converted, so "12 km" and "12 mi" both give 12. Anything else yields
// 0 so downstream estimates degrade to zero instead of failing.
func ParseDistance(text string) float64 {
	tokens := strings.Fields(text)
	if len(tokens) != 2 {
		return 0
	}
	if tokens[1] != "km" && tokens[1] != "mi" {
		return 0
	}
	v, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
