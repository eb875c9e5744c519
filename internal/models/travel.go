package models

import "fmt"

// NotAvailable replaces any estimate field that could not be computed.
const NotAvailable = "Not available"

// TravelMode is one of the modes understood by the mapping provider.
type TravelMode string

const (
	ModeDriving   TravelMode = "driving"
	ModeTransit   TravelMode = "transit"
	ModeBicycling TravelMode = "bicycling"
	ModeWalking   TravelMode = "walking"
)

// AllModes lists every travel mode in display order.
var AllModes = []TravelMode{ModeDriving, ModeTransit, ModeBicycling, ModeWalking}

// ParseTravelMode validates a mode name.
func ParseTravelMode(s string) (TravelMode, error) {
	for _, m := range AllModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown travel mode %q", s)
}

// ModeEstimate holds the derived travel figures for one mode. Every text
// field is either a real value or NotAvailable.
type ModeEstimate struct {
	Mode          TravelMode `json:"mode"`
	DistanceText  string     `json:"distance_text"`
	DistanceValue float64    `json:"distance_value"`
	DurationText  string     `json:"duration_text"`
	Departure     string     `json:"departure"`
	Price         string     `json:"price"`
	Emissions     string     `json:"emissions"`
}

// UnavailableEstimate returns an estimate with every field set to its sentinel.
func UnavailableEstimate(mode TravelMode) ModeEstimate {
	return ModeEstimate{
		Mode:         mode,
		DistanceText: NotAvailable,
		DurationText: NotAvailable,
		Departure:    NotAvailable,
		Price:        NotAvailable,
		Emissions:    NotAvailable,
	}
}

// Route is the raw distance/duration pair returned by the mapping provider
// for one origin, destination and mode.
type Route struct {
	DistanceText string `json:"distance_text"`
	DurationText string `json:"duration_text"`
}
