package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingAPIKey is returned when GOOGLE_API_KEY is not set. It is the only
// configuration problem that prevents a collection run from starting.
var ErrMissingAPIKey = errors.New("GOOGLE_API_KEY must be set")

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// SearchConfig describes the area and category a collection run targets.
type SearchConfig struct {
	Query          string
	Lat            float64
	Lng            float64
	Radius         int
	PlaceType      string
	SocialLocality string
}

// LogConfig selects the zap logger flavour.
type LogConfig struct {
	Level  string
	Format string
}

// Config aggregates application-wide configuration values. It is built once at
// process entry and passed to every component that needs it.
type Config struct {
	GoogleAPIKey            string
	SearchEngineID          string
	PlacesBaseURL           string
	Search                  SearchConfig
	RestrictSocialPlatforms bool
	SettleInterval          time.Duration
	PlacesRateLimit         RateLimitConfig
	HTTPTimeout             time.Duration
	OutputPath              string
	PhoneRegion             string

	Port              string
	JWTSecret         string
	TokenTTL          time.Duration
	AdminEmail        string
	AdminPasswordHash string
	RateLimitCollect  RateLimitConfig

	Log LogConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		GoogleAPIKey:   strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
		SearchEngineID: strings.TrimSpace(os.Getenv("CUSTOM_SEARCH_ENGINE_ID")),
		PlacesBaseURL:  getEnv("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		Search: SearchConfig{
			Query:          getEnv("SEARCH_QUERY", "restaurantes em Santos SP"),
			PlaceType:      getEnv("SEARCH_TYPE", "restaurant"),
			SocialLocality: getEnv("SOCIAL_LOCALITY", "Santos SP"),
		},
		SettleInterval:    parseDuration(getEnv("PAGE_SETTLE_INTERVAL", "2s"), 2*time.Second),
		HTTPTimeout:       parseDuration(getEnv("HTTP_TIMEOUT", "15s"), 15*time.Second),
		OutputPath:        getEnv("OUTPUT_PATH", "restaurantes_santos_sp.json"),
		PhoneRegion:       strings.ToUpper(getEnv("PHONE_REGION", "BR")),
		Port:              getEnv("PORT", "8080"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:          parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		AdminEmail:        strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPasswordHash: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH")),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.GoogleAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	lat, lng, err := parseLocation(getEnv("SEARCH_LOCATION", "-23.9608,-46.3336"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_LOCATION value: %w", err)
	}
	cfg.Search.Lat, cfg.Search.Lng = lat, lng

	radius, err := strconv.Atoi(getEnv("SEARCH_RADIUS", "10000"))
	if err != nil || radius <= 0 {
		return nil, fmt.Errorf("invalid SEARCH_RADIUS value: %q", os.Getenv("SEARCH_RADIUS"))
	}
	cfg.Search.Radius = radius

	restrict, err := strconv.ParseBool(getEnv("SOCIAL_RESTRICT_PLATFORMS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SOCIAL_RESTRICT_PLATFORMS value: %w", err)
	}
	cfg.RestrictSocialPlatforms = restrict

	rl, err := parseRateLimit(getEnv("PLACES_RATE_LIMIT", "10/sec"))
	if err != nil {
		return nil, fmt.Errorf("invalid PLACES_RATE_LIMIT value: %w", err)
	}
	cfg.PlacesRateLimit = rl

	rl, err = parseRateLimit(getEnv("RATE_LIMIT_COLLECT", "2/hour"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_COLLECT value: %w", err)
	}
	cfg.RateLimitCollect = rl

	return cfg, nil
}

// SocialSearchEnabled reports whether the secondary search is configured.
func (c *Config) SocialSearchEnabled() bool {
	return c.SearchEngineID != ""
}

// LoginEnabled reports whether admin credentials were provided.
func (c *Config) LoginEnabled() bool {
	return c.AdminEmail != "" && c.AdminPasswordHash != ""
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func parseLocation(value string) (float64, float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected format <lat>,<lng>, got %q", value)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("invalid latitude: %s", parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("invalid longitude: %s", parts[1])
	}
	return lat, lng, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
