package models

import "time"

const (
	// NoLocation is shown when an event carries no location.
	NoLocation = "No location provided"
	// UntitledEvent is shown when an event carries no summary.
	UntitledEvent = "Untitled event"
)

// EventTime is either a timestamp with offset (DateTime, RFC 3339) or a
// calendar date (Date, YYYY-MM-DD). DateTime wins when both are set.
type EventTime struct {
	DateTime string `json:"date_time,omitempty"`
	Date     string `json:"date,omitempty"`
}

// RawEvent is a calendar entry as handed over by the calendar source.
type RawEvent struct {
	ID       string    `json:"id"`
	Summary  string    `json:"summary,omitempty"`
	Start    EventTime `json:"start"`
	End      EventTime `json:"end"`
	Location string    `json:"location,omitempty"`
}

// DisplayEvent is the display-ready form of a RawEvent. It is rebuilt on
// every request and never persisted.
type DisplayEvent struct {
	EventID  string    `json:"event_id"`
	Name     string    `json:"name"`
	DateTime string    `json:"datetime"`
	Location string    `json:"location"`
	StartsAt time.Time `json:"starts_at"`
}

// EnrichedEvent pairs a DisplayEvent with one estimate per travel mode.
type EnrichedEvent struct {
	Event     DisplayEvent   `json:"event"`
	Origin    string         `json:"origin"`
	Estimates []ModeEstimate `json:"estimates"`
}
