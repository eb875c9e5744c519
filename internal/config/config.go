package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultCredentialsPath = "credentials.json"
	defaultTokenPath       = "token.json"
	defaultListenAddr      = "127.0.0.1:5000"
	defaultConfigPath      = "./data/user_config.toml"
	defaultHTTPTimeout     = 30 * time.Second
)

// Config holds infrastructure settings and secrets. User-facing behaviour
// lives in service.FeatureConfig.
type Config struct {
	MapsAPIKey      string
	MapsBaseURL     string
	CredentialsPath string
	TokenPath       string
	ListenAddr      string
	ConfigPath      string
	HTTPTimeout     time.Duration
	Debug           bool
}

// Load loads configuration from environment variables only.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile loads configuration from an optional .env file and environment variables.
func LoadWithFile(envFile string) (*Config, error) {
	// Attempt to load .env file if provided, but don't fail if it doesn't exist.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	timeout, err := parseTimeout(os.Getenv("HTTP_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MapsAPIKey:      os.Getenv("MAPS_API_KEY"),
		MapsBaseURL:     os.Getenv("MAPS_BASE_URL"),
		CredentialsPath: getEnvOrDefault("GOOGLE_CREDENTIALS_PATH", defaultCredentialsPath),
		TokenPath:       getEnvOrDefault("GOOGLE_TOKEN_PATH", defaultTokenPath),
		ListenAddr:      getEnvOrDefault("LISTEN_ADDR", defaultListenAddr),
		ConfigPath:      getEnvOrDefault("CONFIG_PATH", defaultConfigPath),
		HTTPTimeout:     timeout,
		Debug:           parseBool(os.Getenv("LOG_DEBUG")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required fields are set.
func (c *Config) Validate() error {
	if c.MapsAPIKey == "" {
		return fmt.Errorf("MAPS_API_KEY is required")
	}
	if c.CredentialsPath == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS_PATH is required")
	}
	if c.TokenPath == "" {
		return fmt.Errorf("GOOGLE_TOKEN_PATH is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// parseTimeout reads a Go duration such as "30s", defaulting when empty.
func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return defaultHTTPTimeout, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", s, err)
	}
	return d, nil
}

// parseBool converts a string to a boolean, defaulting to false.
func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
