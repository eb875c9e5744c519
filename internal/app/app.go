package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/option"

	"github.com/EpicMandM/travel-planner/internal/config"
	"github.com/EpicMandM/travel-planner/internal/logger"
	"github.com/EpicMandM/travel-planner/internal/orchestrator"
	"github.com/EpicMandM/travel-planner/internal/service"
	"github.com/EpicMandM/travel-planner/internal/travel"
)

// App is the composition root shared by the web server and the CLI. It
// builds the token provider, the calendar and maps clients once and wires
// them into an Orchestrator.
type App struct {
	config     *config.Config
	featureCfg *service.FeatureConfig
	logger     *logger.Logger

	promptIn  io.Reader
	promptOut io.Writer

	auth         *service.TokenFileAuth
	orchestrator *orchestrator.Orchestrator
}

func New(cfg *config.Config, featureCfg *service.FeatureConfig, log *logger.Logger) *App {
	if log == nil {
		log = logger.Discard()
	}
	if featureCfg == nil {
		featureCfg = service.DefaultFeatureConfig()
	}
	return &App{
		config:     cfg,
		featureCfg: featureCfg,
		logger:     log,
	}
}

// WithPrompt enables the interactive OAuth grant when no token file exists.
func (a *App) WithPrompt(in io.Reader, out io.Writer) *App {
	a.promptIn = in
	a.promptOut = out
	return a
}

// Initialize builds the real Google clients from configuration.
func (a *App) Initialize(ctx context.Context) error {
	auth, err := service.NewTokenFileAuth(a.config.CredentialsPath, a.config.TokenPath, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize calendar auth: %w", err)
	}
	if a.promptIn != nil && a.promptOut != nil {
		auth.WithPrompt(a.promptIn, a.promptOut)
	}
	a.auth = auth

	calendarSvc, err := service.NewCalendarService(ctx, a.featureCfg.Calendar, option.WithTokenSource(auth))
	if err != nil {
		return err
	}

	mapsSvc, err := service.NewMapsService(a.config.MapsAPIKey, service.MapsOptions{
		BaseURL: a.config.MapsBaseURL,
		Units:   a.featureCfg.Travel.Units,
		HTTPClient: &http.Client{
			Transport: service.NewRetryTransport(nil),
			Timeout:   a.config.HTTPTimeout,
		},
	})
	if err != nil {
		return err
	}

	a.Wire(calendarSvc, mapsSvc)
	a.logger.Info("Services initialized",
		logger.Action("startup"),
		logger.Status("ready"),
		logger.F("CALENDAR", a.featureCfg.Calendar.CalendarID),
		logger.F("UNITS", a.featureCfg.Travel.Units))
	return nil
}

// Wire builds the Orchestrator from explicit collaborators.
func (a *App) Wire(calendar service.CalendarClient, distance service.DistanceClient) {
	a.orchestrator = &orchestrator.Orchestrator{
		Logger:     a.logger,
		Calendar:   calendar,
		Enricher:   travel.NewEnricher(distance, a.logger),
		FeatureCfg: a.featureCfg,
	}
}

// Authorize makes sure a usable calendar token exists, running the
// interactive grant if needed.
func (a *App) Authorize() error {
	if a.auth == nil {
		return fmt.Errorf("service not initialized")
	}
	if _, err := a.auth.Token(); err != nil {
		return fmt.Errorf("calendar authorization failed: %w", err)
	}
	return nil
}

// Orchestrator returns the wired pipeline, or nil before Initialize/Wire.
func (a *App) Orchestrator() *orchestrator.Orchestrator {
	return a.orchestrator
}

// FeatureConfig returns the feature configuration in use.
func (a *App) FeatureConfig() *service.FeatureConfig {
	return a.featureCfg
}
