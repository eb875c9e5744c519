package service

import (
	"context"
	"time"

	"github.com/EpicMandM/travel-planner/internal/models"
)

// CalendarClient abstracts Google Calendar operations for testability.
type CalendarClient interface {
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]models.RawEvent, error)
	GetEvent(ctx context.Context, id string) (models.RawEvent, error)
}

// DistanceClient abstracts the mapping provider for testability.
type DistanceClient interface {
	Query(ctx context.Context, origin, destination string, mode models.TravelMode) (models.Route, error)
}
