package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultAPIURL is the Users API base used when API_URL is not set.
const DefaultAPIURL = "http://localhost:5000/api"

// APIConfig holds settings for the external Users API client.
type APIConfig struct {
	BaseURL string
	// Timeout bounds a single request. Zero means no client-side timeout.
	Timeout time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables once at startup.
type AppConfig struct {
	AppHost      string
	Port         string
	LogTimezone  string
	FetchOnStart bool
	API          APIConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:      getEnv("APP_HOST", "localhost:3000"),
		Port:         getEnv("PORT", "3000"),
		LogTimezone:  getEnv("LOG_TIMEZONE", "UTC"),
		FetchOnStart: getEnvBool("FETCH_ON_START", true),
		API: APIConfig{
			BaseURL: getEnv("API_URL", DefaultAPIURL),
			Timeout: getEnvDuration("API_TIMEOUT", 0),
		},
	}
}

// Location resolves LogTimezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.LogTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration accepts Go duration strings ("2s") or a plain number of seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs := getEnvInt(key, -1); secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return def
}
