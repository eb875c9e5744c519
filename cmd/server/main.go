package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EpicMandM/travel-planner/internal/app"
	"github.com/EpicMandM/travel-planner/internal/config"
	"github.com/EpicMandM/travel-planner/internal/handler"
	"github.com/EpicMandM/travel-planner/internal/logger"
	"github.com/EpicMandM/travel-planner/internal/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	ctx     context.Context
	logger  *logger.Logger
	infra   *config.Config
	planner *app.App
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &App{
		ctx:    ctx,
		logger: logger.New(),
	}

	if err := a.run(); err != nil {
		a.logger.Error("Application error", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func (a *App) run() error {
	if err := a.initialize(); err != nil {
		return err
	}

	router, err := handler.NewRouter(a.planner.Orchestrator(), a.logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.infra.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", logger.Action("startup"), logger.Status("listening"), logger.F("ADDR", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-a.ctx.Done():
	}

	a.logger.Info("Shutting down", logger.Action("shutdown"), logger.Status("draining"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *App) initialize() error {
	envPath := getEnvOrDefault("ENV_FILE", ".env")
	infraCfg, err := config.LoadWithFile(envPath)
	if err != nil {
		a.logger.Error("Failed to load infrastructure config", logger.Error(err), logger.Path(envPath))
		return err
	}
	a.infra = infraCfg
	a.logger.SetDebug(infraCfg.Debug)

	featureCfg, err := service.LoadFeatureConfig(infraCfg.ConfigPath)
	if err != nil {
		a.logger.Error("Failed to load feature config", logger.Error(err), logger.Path(infraCfg.ConfigPath))
		return err
	}

	a.planner = app.New(infraCfg, featureCfg, a.logger).WithPrompt(os.Stdin, os.Stdout)
	if err := a.planner.Initialize(a.ctx); err != nil {
		a.logger.Error("Failed to initialize services", logger.Error(err))
		return err
	}

	// Run the first-time grant before serving so it never blocks a request.
	if err := a.planner.Authorize(); err != nil {
		a.logger.Error("Failed to authorize calendar access", logger.Error(err))
		return err
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
