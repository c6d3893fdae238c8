// Package config loads service settings from defaults, an optional JSON file and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store backends
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config is the service configuration. Environment variables override file values,
// which override defaults. Secrets are only read from the environment.
type Config struct {
	Addr                 string   `json:"addr,omitempty"`
	Store                string   `json:"store,omitempty"`
	DatabaseURL          string   `json:"database_url,omitempty"`
	ModelTimeoutSeconds  int      `json:"model_timeout_seconds,omitempty"`
	ChatMaxSteps         int      `json:"chat_max_steps,omitempty"`
	PDFServiceURL        string   `json:"pdf_service_url,omitempty"`
	PDFTimeoutSeconds    int      `json:"pdf_service_timeout_seconds,omitempty"`
	ExtractionDuplicates string   `json:"extraction_duplicates,omitempty"`
	LogFile              string   `json:"log_file,omitempty"`
	LogLevel             string   `json:"log_level,omitempty"`
	AllowedOrigins       []string `json:"allowed_origins,omitempty"`

	GeminiAPIKey string          `json:"-"`
	JWT          *JWTConfig      `json:"-"`
	Password     *PasswordConfig `json:"-"`
}

// Defaults returns the built-in settings
func Defaults() Config {
	return Config{
		Addr:                 ":8080",
		Store:                StorePostgres,
		ModelTimeoutSeconds:  60,
		ChatMaxSteps:         6,
		PDFTimeoutSeconds:    30,
		ExtractionDuplicates: "allow",
		LogLevel:             "info",
	}
}

// ModelTimeout is the per-call model timeout
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.ModelTimeoutSeconds) * time.Second
}

// PDFTimeout is the per-request PDF service timeout
func (c *Config) PDFTimeout() time.Duration {
	return time.Duration(c.PDFTimeoutSeconds) * time.Second
}

// Load builds the configuration. path may be empty; getenv is usually os.Getenv.
func Load(path string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Defaults()
	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = file.MergeWithDefaults(cfg)
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	jwtCfg, err := jwtConfigFrom(getenv)
	if err != nil {
		return nil, err
	}
	cfg.JWT = jwtCfg

	pwCfg, err := passwordConfigFrom(getenv)
	if err != nil {
		return nil, err
	}
	cfg.Password = pwCfg

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// MergeWithDefaults returns a copy with every unset field taken from defaults
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	str := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	num := func(dst *int, def int) {
		if *dst == 0 {
			*dst = def
		}
	}

	str(&result.Addr, defaults.Addr)
	str(&result.Store, defaults.Store)
	str(&result.DatabaseURL, defaults.DatabaseURL)
	str(&result.PDFServiceURL, defaults.PDFServiceURL)
	str(&result.ExtractionDuplicates, defaults.ExtractionDuplicates)
	str(&result.LogFile, defaults.LogFile)
	str(&result.LogLevel, defaults.LogLevel)
	num(&result.ModelTimeoutSeconds, defaults.ModelTimeoutSeconds)
	num(&result.ChatMaxSteps, defaults.ChatMaxSteps)
	num(&result.PDFTimeoutSeconds, defaults.PDFTimeoutSeconds)
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}

	return result
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Store, "STORE")
	set(&c.DatabaseURL, "DATABASE_URL")
	set(&c.GeminiAPIKey, "GEMINI_API_KEY")
	set(&c.PDFServiceURL, "PDF_SERVICE_URL")
	set(&c.ExtractionDuplicates, "EXTRACTION_DUPLICATES")
	set(&c.LogFile, "LOG_FILE")
	set(&c.LogLevel, "LOG_LEVEL")

	if port := strings.TrimSpace(getenv("PORT")); port != "" {
		c.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if origins := strings.TrimSpace(getenv("CORS_ORIGINS")); origins != "" {
		c.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}

	for key, dst := range map[string]*int{
		"MODEL_TIMEOUT":       &c.ModelTimeoutSeconds,
		"PDF_SERVICE_TIMEOUT": &c.PDFTimeoutSeconds,
	} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			seconds, err := parseSeconds(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = seconds
		}
	}
	if v := strings.TrimSpace(getenv("CHAT_MAX_STEPS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CHAT_MAX_STEPS: %w", err)
		}
		c.ChatMaxSteps = n
	}
	return nil
}

// parseSeconds accepts a bare number of seconds or a Go duration such as 90s or 2m
func parseSeconds(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	return int(d / time.Second), nil
}

// Validate checks that the configuration has usable values
func (c *Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: DATABASE_URL is required for the postgres store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("config error: store must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store)
	}

	if c.ChatMaxSteps < 1 || c.ChatMaxSteps > 20 {
		return fmt.Errorf("config error: CHAT_MAX_STEPS must be between 1 and 20, got %d", c.ChatMaxSteps)
	}
	if c.ModelTimeoutSeconds < 1 {
		return fmt.Errorf("config error: MODEL_TIMEOUT must be at least one second")
	}
	if c.PDFTimeoutSeconds < 1 {
		return fmt.Errorf("config error: PDF_SERVICE_TIMEOUT must be at least one second")
	}
	switch c.ExtractionDuplicates {
	case "allow", "skip":
	default:
		return fmt.Errorf("config error: EXTRACTION_DUPLICATES must be allow or skip, got %q", c.ExtractionDuplicates)
	}
	if c.PDFServiceURL != "" {
		u, err := url.Parse(c.PDFServiceURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: PDF_SERVICE_URL is not a valid URL: %q", c.PDFServiceURL)
		}
	}
	if c.JWT != nil {
		if err := c.JWT.normalize(); err != nil {
			return err
		}
	}
	return nil
}
