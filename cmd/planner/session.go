package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/EpicMandM/travel-planner/internal/logger"
	"github.com/EpicMandM/travel-planner/internal/models"
	"github.com/EpicMandM/travel-planner/internal/orchestrator"
)

type eventPlanner interface {
	UpcomingEvents(ctx context.Context, timeRange string) (orchestrator.Listing, error)
	Enrich(ctx context.Context, event models.DisplayEvent, origin string) (models.EnrichedEvent, error)
	Origin(override string) string
}

// session is the interactive planning loop.
type session struct {
	planner eventPlanner
	in      *bufio.Reader
	out     io.Writer
	logger  *logger.Logger

	timeRange string
	origin    string
	once      bool
	interval  time.Duration
}

// run repeats rounds until stdin is exhausted, the context ends or once is set.
func (s *session) run(ctx context.Context) error {
	for {
		err := s.round(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if s.once {
			return nil
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (s *session) round(ctx context.Context) error {
	timeRange := s.timeRange
	if timeRange == "" {
		answer, err := s.ask("How far forward would you like to plan? (week/month/year) ")
		if err != nil {
			return err
		}
		timeRange = answer
	}

	origin := s.origin
	if origin == "" {
		answer, err := s.ask("Where is home? ")
		if err != nil {
			return err
		}
		origin = s.planner.Origin(answer)
	}

	listing, err := s.planner.UpcomingEvents(ctx, timeRange)
	if errors.Is(err, orchestrator.ErrInvalidTimeRange) {
		s.printf("%v\n", err)
		return nil
	}
	if err != nil {
		return err
	}

	s.printf("Getting the upcoming events for the next %s\n", listing.TimeRange)
	if listing.Diagnostic != "" {
		s.printf("%s\n", listing.Diagnostic)
		return nil
	}
	if len(listing.Events) == 0 {
		s.printf("No upcoming events found.\n")
		return nil
	}

	for _, ev := range listing.Events {
		s.printf("%s %s Location: %s\n", ev.DateTime, ev.Name, ev.Location)

		answer, err := s.ask("Enabled? ")
		if err != nil {
			return err
		}
		switch {
		case enabled(answer):
			s.printEstimates(ctx, ev, origin)
		case declined(answer):
			s.printf("Not enabled\n")
		}
	}
	return nil
}

func (s *session) printEstimates(ctx context.Context, ev models.DisplayEvent, origin string) {
	if origin == "" {
		s.printf("No home address set, skipping travel estimates\n")
		return
	}

	enriched, err := s.planner.Enrich(ctx, ev, origin)
	for _, est := range enriched.Estimates {
		s.printf("Travel by %s: %s, %s, leave at %s, price %s, emissions %s\n",
			est.Mode, est.DistanceText, est.DurationText, est.Departure, est.Price, est.Emissions)
	}
	if err != nil {
		s.logger.Debug("Estimate failed", logger.Event(ev.EventID), logger.Error(err))
		s.printf("An error occurred: %v\n", err)
	}
}

// ask prints prompt and returns the trimmed answer. io.EOF is returned only
// when nothing was read.
func (s *session) ask(prompt string) (string, error) {
	s.printf("%s", prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// Any answer other than yes or no skips the event silently.
func enabled(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func declined(answer string) bool {
	switch strings.ToLower(answer) {
	case "n", "no":
		return true
	default:
		return false
	}
}
