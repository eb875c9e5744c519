package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/EpicMandM/travel-planner/internal/app"
	"github.com/EpicMandM/travel-planner/internal/config"
	"github.com/EpicMandM/travel-planner/internal/logger"
	"github.com/EpicMandM/travel-planner/internal/service"
)

type rootFlags struct {
	TimeRange string
	Origin    string
	Once      bool
	Interval  time.Duration
	EnvFile   string
	Config    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	flags := rootFlags{Interval: 2 * time.Second}

	root := &cobra.Command{
		Use:           "planner",
		Short:         "List upcoming calendar events with travel estimates",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Example: strings.TrimSpace(`
  # Interactive loop, asks for the range and home address each round
  planner

  # One round for the coming week from a fixed address
  planner --once --range week --origin "1 Main Street"
`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := logger.NewWithWriter(errOut)

			infraCfg, err := config.LoadWithFile(flags.EnvFile)
			if err != nil {
				return err
			}
			log.SetDebug(infraCfg.Debug)

			configPath := infraCfg.ConfigPath
			if cmd.Flags().Changed("config") {
				configPath = flags.Config
			}
			featureCfg, err := service.LoadFeatureConfig(configPath)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(in)
			planner := app.New(infraCfg, featureCfg, log).WithPrompt(reader, out)
			if err := planner.Initialize(ctx); err != nil {
				return err
			}
			if err := planner.Authorize(); err != nil {
				return err
			}

			s := &session{
				planner:   planner.Orchestrator(),
				in:        reader,
				out:       out,
				logger:    log,
				timeRange: flags.TimeRange,
				origin:    flags.Origin,
				once:      flags.Once,
				interval:  flags.Interval,
			}
			return s.run(ctx)
		},
	}

	root.Flags().StringVar(&flags.TimeRange, "range", "", "time range to plan for: week, month or year (prompted when empty)")
	root.Flags().StringVar(&flags.Origin, "origin", "", "home address used as the origin of every trip (prompted when empty)")
	root.Flags().BoolVar(&flags.Once, "once", false, "run a single round and exit")
	root.Flags().DurationVar(&flags.Interval, "interval", flags.Interval, "pause between rounds")
	root.Flags().StringVar(&flags.EnvFile, "env-file", ".env", "optional .env file with secrets")
	root.Flags().StringVar(&flags.Config, "config", "", "feature config TOML file (defaults to CONFIG_PATH)")

	return root
}
