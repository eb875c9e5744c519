// Package display turns raw calendar events into display strings.
package display

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EpicMandM/travel-planner/internal/models"
)

const (
	dayLayout  = "Monday"
	dateLayout = "02 January 2006"
	timeLayout = "03:04 PM"
	dateOnly   = "2006-01-02"
)

var errNoTime = errors.New("neither date_time nor date is set")

// ResolveTime converts an EventTime into an instant. Timestamps keep their
// own UTC offset; date-only values resolve to midnight UTC.
func ResolveTime(et models.EventTime) (time.Time, error) {
	if et.DateTime != "" {
		t, err := time.Parse(time.RFC3339, et.DateTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse date_time %q: %w", et.DateTime, err)
		}
		return t, nil
	}
	if et.Date != "" {
		t, err := time.Parse(dateOnly, et.Date)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse date %q: %w", et.Date, err)
		}
		return t, nil
	}
	return time.Time{}, errNoTime
}

// FormatEvent builds the DisplayEvent for raw. When start and end fall on
// the same formatted date the end day and date are dropped.
func FormatEvent(raw models.RawEvent) (models.DisplayEvent, error) {
	start, err := ResolveTime(raw.Start)
	if err != nil {
		return models.DisplayEvent{}, fmt.Errorf("event %s start: %w", raw.ID, err)
	}
	end, err := ResolveTime(raw.End)
	if err != nil {
		return models.DisplayEvent{}, fmt.Errorf("event %s end: %w", raw.ID, err)
	}

	return models.DisplayEvent{
		EventID:  raw.ID,
		Name:     nameOf(raw),
		DateTime: FormatRange(start, end),
		Location: locationOf(raw),
		StartsAt: start,
	}, nil
}

// FormatRange renders "{day} {date} {time} -> {time}" for same-day ranges
// and the full "{day} {date} {time} -> {day} {date} {time}" otherwise.
func FormatRange(start, end time.Time) string {
	startDate := start.Format(dateLayout)
	endDate := end.Format(dateLayout)
	if startDate == endDate {
		return fmt.Sprintf("%s %s %s -> %s",
			start.Format(dayLayout), startDate, start.Format(timeLayout), end.Format(timeLayout))
	}
	return fmt.Sprintf("%s %s %s -> %s %s %s",
		start.Format(dayLayout), startDate, start.Format(timeLayout),
		end.Format(dayLayout), endDate, end.Format(timeLayout))
}

func nameOf(raw models.RawEvent) string {
	if name := strings.TrimSpace(raw.Summary); name != "" {
		return name
	}
	return models.UntitledEvent
}

func locationOf(raw models.RawEvent) string {
	if loc := strings.TrimSpace(raw.Location); loc != "" {
		return loc
	}
	return models.NoLocation
}
