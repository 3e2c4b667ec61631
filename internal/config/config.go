package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// OpenWeatherAPIKey is the server-side default key; the dashboard may
	// override it per request.
	OpenWeatherAPIKey string

	// GeocoderAPIKey enables the coordinate fallback when set.
	GeocoderAPIKey string

	// HTTPTimeout bounds outbound provider calls.
	HTTPTimeout time.Duration

	// Uploaded-dataset retention.
	DatasetMaxCount int           // max number of datasets kept (0 = unlimited)
	DatasetMaxAge   time.Duration // max age of a dataset (0 = unlimited)

	// SweepInterval controls how often expired datasets are evicted.
	SweepInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	// Retention: a handful of uploads per analyst session is plenty.
	cfg.DatasetMaxCount = getenvInt("DATASET_MAX_COUNT", 16)

	maxAge, err := getenvDuration("DATASET_MAX_AGE", "24h")
	if err != nil {
		return nil, err
	}
	cfg.DatasetMaxAge = maxAge

	sweep, err := getenvDuration("SWEEP_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	cfg.SweepInterval = sweep

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
