package service

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/EpicMandM/travel-planner/internal/models"
)

const (
	defaultCalendarID = "primary"
	defaultTimeRange  = "month"
	defaultUnits      = "metric"
)

// CalendarConfig holds configuration for Google Calendar integration
type CalendarConfig struct {
	CalendarID       string `toml:"calendar_id"`
	DefaultTimeRange string `toml:"default_time_range"`
}

// TravelConfig controls the travel estimates shown on event details.
type TravelConfig struct {
	DefaultOrigin string   `toml:"default_origin"`
	Modes         []string `toml:"modes"`  // Optional: defaults to every mode
	Units         string   `toml:"units"` // metric or imperial
}

// FeatureConfig holds user-facing feature configurations.
// These are non-sensitive settings that customize application behavior.
// Users can modify these without redeployment.
// Source: TOML configuration file
type FeatureConfig struct {
	Calendar CalendarConfig `toml:"calendar"`
	Travel   TravelConfig   `toml:"travel"`
}

// DefaultFeatureConfig is used when no configuration file exists.
func DefaultFeatureConfig() *FeatureConfig {
	cfg := &FeatureConfig{}
	cfg.applyDefaults()
	return cfg
}

// LoadFeatureConfig loads feature configuration from a TOML file. A missing
// file yields the defaults.
func LoadFeatureConfig(path string) (*FeatureConfig, error) {
	var cfg FeatureConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultFeatureConfig(), nil
		}
		return nil, fmt.Errorf("failed to load feature config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *FeatureConfig) applyDefaults() {
	if c.Calendar.CalendarID == "" {
		c.Calendar.CalendarID = defaultCalendarID
	}
	c.Calendar.DefaultTimeRange = strings.ToLower(strings.TrimSpace(c.Calendar.DefaultTimeRange))
	if c.Calendar.DefaultTimeRange == "" {
		c.Calendar.DefaultTimeRange = defaultTimeRange
	}
	if c.Travel.Units == "" {
		c.Travel.Units = defaultUnits
	}
}

// Validate checks the default time range, mode names and units.
func (c *FeatureConfig) Validate() error {
	switch c.Calendar.DefaultTimeRange {
	case "week", "month", "year":
	default:
		return fmt.Errorf("invalid calendar.default_time_range %q (must be week, month or year)", c.Calendar.DefaultTimeRange)
	}
	for _, m := range c.Travel.Modes {
		if _, err := models.ParseTravelMode(m); err != nil {
			return fmt.Errorf("invalid travel.modes: %w", err)
		}
	}
	if c.Travel.Units != "metric" && c.Travel.Units != "imperial" {
		return fmt.Errorf("invalid travel.units %q (must be metric or imperial)", c.Travel.Units)
	}
	return nil
}

// TravelModes returns the configured modes, or every mode when none are set.
func (c *TravelConfig) TravelModes() []models.TravelMode {
	if len(c.Modes) == 0 {
		return append([]models.TravelMode(nil), models.AllModes...)
	}
	modes := make([]models.TravelMode, 0, len(c.Modes))
	for _, m := range c.Modes {
		if mode, err := models.ParseTravelMode(m); err == nil {
			modes = append(modes, mode)
		}
	}
	return modes
}
