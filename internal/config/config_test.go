package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "places-key")
	t.Setenv("CUSTOM_SEARCH_ENGINE_ID", "cx-1")
	t.Setenv("SEARCH_QUERY", "padarias em Santos SP")
	t.Setenv("SEARCH_LOCATION", "-23.95, -46.33")
	t.Setenv("SEARCH_RADIUS", "5000")
	t.Setenv("PAGE_SETTLE_INTERVAL", "3s")
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("PLACES_RATE_LIMIT", "5/sec")
	t.Setenv("RATE_LIMIT_COLLECT", "10/min")
	t.Setenv("PHONE_REGION", "br")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GoogleAPIKey != "places-key" || cfg.SearchEngineID != "cx-1" {
		t.Fatalf("unexpected credentials: %+v", cfg)
	}
	if !cfg.SocialSearchEnabled() {
		t.Fatalf("expected social search enabled")
	}
	if cfg.Search.Query != "padarias em Santos SP" || cfg.Search.Radius != 5000 {
		t.Fatalf("unexpected search config: %+v", cfg.Search)
	}
	if cfg.Search.Lat != -23.95 || cfg.Search.Lng != -46.33 {
		t.Fatalf("unexpected location: %v,%v", cfg.Search.Lat, cfg.Search.Lng)
	}
	if cfg.Search.PlaceType != "restaurant" || cfg.Search.SocialLocality != "Santos SP" {
		t.Fatalf("expected defaults for type and locality, got %+v", cfg.Search)
	}
	if cfg.SettleInterval != 3*time.Second {
		t.Fatalf("expected settle interval 3s, got %s", cfg.SettleInterval)
	}
	if cfg.Port != "9000" || cfg.TokenTTL != 2*time.Hour {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
	if cfg.PlacesRateLimit.Requests != 5 || cfg.PlacesRateLimit.Interval != time.Second {
		t.Fatalf("unexpected places rate limit: %+v", cfg.PlacesRateLimit)
	}
	if cfg.RateLimitCollect.Requests != 10 || cfg.RateLimitCollect.Interval != time.Minute {
		t.Fatalf("unexpected collect rate limit: %+v", cfg.RateLimitCollect)
	}
	if cfg.PhoneRegion != "BR" {
		t.Fatalf("expected upper-cased region, got %s", cfg.PhoneRegion)
	}
	if cfg.LoginEnabled() {
		t.Fatalf("login should be disabled without admin credentials")
	}

	// invalid rate limit should error
	os.Unsetenv("PLACES_RATE_LIMIT")
	t.Setenv("PLACES_RATE_LIMIT", "xyz")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid rate limit")
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("CUSTOM_SEARCH_ENGINE_ID", "")

	if _, err := Load(); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestLoad_SearchEngineOptional(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "places-key")
	t.Setenv("CUSTOM_SEARCH_ENGINE_ID", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SocialSearchEnabled() {
		t.Fatalf("social search must be disabled without an engine id")
	}
	if cfg.SettleInterval != 2*time.Second {
		t.Fatalf("expected default settle interval, got %s", cfg.SettleInterval)
	}
}

func TestLoad_InvalidSearchSettings(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "places-key")

	t.Setenv("SEARCH_LOCATION", "somewhere")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed location")
	}

	t.Setenv("SEARCH_LOCATION", "-23.9,-46.3")
	t.Setenv("SEARCH_RADIUS", "-1")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative radius")
	}

	t.Setenv("SEARCH_RADIUS", "100")
	t.Setenv("SOCIAL_RESTRICT_PLATFORMS", "maybe")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid bool")
	}
}

func TestParseRateLimit(t *testing.T) {
	cfg, err := parseRateLimit("5/sec")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Requests != 5 || cfg.Interval != time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if _, err := parseRateLimit("bad-format"); err == nil {
		t.Fatalf("expected error for malformed value")
	}
	if _, err := parseRateLimit("0/min"); err == nil {
		t.Fatalf("expected error for zero requests")
	}
	if _, err := parseRateLimit("5/day"); err == nil {
		t.Fatalf("expected error for unsupported unit")
	}
}

func TestParseLocation(t *testing.T) {
	lat, lng, err := parseLocation("-23.9608,-46.3336")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lat != -23.9608 || lng != -46.3336 {
		t.Fatalf("unexpected coordinates %v,%v", lat, lng)
	}
	if _, _, err := parseLocation("91,0"); err == nil {
		t.Fatalf("expected error for out of range latitude")
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("FOO")
	if val := getEnv("FOO", "fallback"); val != "fallback" {
		t.Fatalf("expected fallback, got %s", val)
	}
	t.Setenv("FOO", "value")
	if val := getEnv("FOO", "fallback"); val != "value" {
		t.Fatalf("expected env value, got %s", val)
	}
}

func TestParseDuration(t *testing.T) {
	if parseDuration("3h", time.Minute) != 3*time.Hour {
		t.Fatalf("expected 3h duration")
	}
	if parseDuration("invalid", time.Minute) != time.Minute {
		t.Fatalf("expected fallback duration")
	}
}

func TestInitLogger(t *testing.T) {
	if err := InitLogger(LogConfig{Level: "debug", Format: "console"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := InitLogger(LogConfig{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
