package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Endpoint  EndpointConfig
	Storage   StorageConfig
	Tracker   TrackerConfig
	Browser   BrowserConfig
	Server    ServerConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// EndpointConfig identifies the logging endpoint records are delivered to.
type EndpointConfig struct {
	// URL is the single fixed collector URL.
	URL string // default: "https://16personalities-tracker-backend.vercel.app/api/log-answers"

	// Timeout is the deadline for one awaited delivery.
	Timeout time.Duration // default: 10s
}

// StorageConfig controls the durable key-value store.
type StorageConfig struct {
	// Path is the SQLite database file path.
	Path string // default: "mindtrace.db"
}

// TrackerConfig controls page observation behavior.
type TrackerConfig struct {
	// PollInterval is the delay between readiness probes on the results page.
	PollInterval time.Duration // default: 500ms

	// MaxPollAttempts bounds the readiness poll; on exhaustion the attempt
	// is abandoned and the stored session is kept for a later retry.
	MaxPollAttempts int // default: 60

	// Source selects the page source: "browser" (live rod session) or
	// "http" (one-shot snapshot fetch, results page only).
	Source string // default: "browser"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// Stealth injects an automation-masking script before navigation.
	Stealth bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is an optional proxy URL for page fetches.
	Proxy string
}

// ServerConfig controls the ingest HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// RateLimitConfig controls per-IP rate limiting on the ingest endpoint.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per client.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Endpoint: EndpointConfig{
			URL:     envOr("MINDTRACE_ENDPOINT", "https://16personalities-tracker-backend.vercel.app/api/log-answers"),
			Timeout: envDurationOr("MINDTRACE_SEND_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Path: envOr("MINDTRACE_DB", "mindtrace.db"),
		},
		Tracker: TrackerConfig{
			PollInterval:    envDurationOr("MINDTRACE_POLL_INTERVAL", 500*time.Millisecond),
			MaxPollAttempts: envIntOr("MINDTRACE_MAX_POLL_ATTEMPTS", 60),
			Source:          envOr("MINDTRACE_SOURCE", "browser"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("MINDTRACE_HEADLESS", true),
			NoSandbox:  envBoolOr("MINDTRACE_NO_SANDBOX", false),
			Stealth:    envBoolOr("MINDTRACE_STEALTH", true),
			BrowserBin: os.Getenv("MINDTRACE_BROWSER_BIN"),
			Proxy:      os.Getenv("MINDTRACE_PROXY"),
		},
		Server: ServerConfig{
			Host: envOr("MINDTRACE_HOST", "0.0.0.0"),
			Port: envIntOr("MINDTRACE_PORT", 8080),
			Mode: envOr("MINDTRACE_MODE", "release"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("MINDTRACE_RATE_RPS", 5.0),
			Burst:             envIntOr("MINDTRACE_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("MINDTRACE_LOG_LEVEL", "info"),
			Format: envOr("MINDTRACE_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
