package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Route pattern, e.g. /resumes/{id...}
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused bucket is kept
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig reads RATE_LIMIT_* settings through getenv.
func LoadConfig(getenv func(string) string) *Config {
	e := env(getenv)
	if !e.bool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    e.int("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   e.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: e.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         time.Hour,
		Whitelist:       parseIPList(e.string("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(e.string("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model-backed operations
		{Path: "/chat", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/chat/upload-resume", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},

		// Credential endpoints
		{Path: "/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/register", Method: "POST", Limit: 5, Window: time.Minute, Burst: 3},
		{Path: "/me/password", Method: "PUT", Limit: 5, Window: time.Minute, Burst: 3},

		// Document generation
		{Path: "/resumes", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/resumes/{id...}", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/resumes/{id}", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

type env func(string) string

func (e env) string(key, def string) string {
	if v := strings.TrimSpace(e(key)); v != "" {
		return v
	}
	return def
}

func (e env) int(key string, def int) int {
	if v, err := strconv.Atoi(e.string(key, "")); err == nil {
		return v
	}
	return def
}

func (e env) bool(key string, def bool) bool {
	if v, err := strconv.ParseBool(e.string(key, "")); err == nil {
		return v
	}
	return def
}

func (e env) duration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(e.string(key, "")); err == nil {
		return v
	}
	return def
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
