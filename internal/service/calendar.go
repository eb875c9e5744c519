package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/EpicMandM/travel-planner/internal/models"
)

// ErrEventNotFound is returned by GetEvent for unknown ids.
var ErrEventNotFound = errors.New("event not found")

type CalendarService struct {
	srv    *calendar.Service
	config CalendarConfig
}

// NewCalendarService builds the Calendar API client. Authentication comes
// from opts, normally option.WithTokenSource.
func NewCalendarService(ctx context.Context, config CalendarConfig, opts ...option.ClientOption) (*CalendarService, error) {
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &CalendarService{srv: srv, config: config}, nil
}

// ListEvents returns single (expanded) events between timeMin and timeMax,
// ordered by start time.
func (s *CalendarService) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]models.RawEvent, error) {
	var out []models.RawEvent
	err := s.srv.Events.List(s.config.CalendarID).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		OrderBy("startTime").
		Pages(ctx, func(page *calendar.Events) error {
			for _, item := range page.Items {
				out = append(out, toRawEvent(item))
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list events for calendar %s: %w", s.config.CalendarID, err)
	}
	return out, nil
}

// GetEvent fetches a single event by id.
func (s *CalendarService) GetEvent(ctx context.Context, id string) (models.RawEvent, error) {
	item, err := s.srv.Events.Get(s.config.CalendarID, id).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone) {
			return models.RawEvent{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
		}
		return models.RawEvent{}, fmt.Errorf("failed to get event %s: %w", id, err)
	}
	return toRawEvent(item), nil
}

func toRawEvent(item *calendar.Event) models.RawEvent {
	raw := models.RawEvent{
		ID:       item.Id,
		Summary:  item.Summary,
		Location: item.Location,
	}
	if item.Start != nil {
		raw.Start = models.EventTime{DateTime: item.Start.DateTime, Date: item.Start.Date}
	}
	if item.End != nil {
		raw.End = models.EventTime{DateTime: item.End.DateTime, Date: item.End.Date}
	}
	return raw
}
