package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  string `yaml:"api_port"`
	LogLevel string `yaml:"log_level"`

	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIModel   string `yaml:"openai_model"`

	MaxParallelDocs int   `yaml:"max_parallel_docs"`
	MaxUploadBytes  int64 `yaml:"max_upload_bytes"`
	CalendarDates   bool  `yaml:"calendar_dates"`

	CallTimeoutSeconds   int     `yaml:"call_timeout_seconds"`
	RatePerSecond        float64 `yaml:"rate_per_second"`
	RateBurst            int     `yaml:"rate_burst"`
	BreakerEnabled       bool    `yaml:"breaker_enabled"`
	BreakerMinRequests   int     `yaml:"breaker_min_requests"`
	BreakerFailureRatio  float64 `yaml:"breaker_failure_ratio"`
	BreakerOpenSeconds   int     `yaml:"breaker_open_seconds"`
	BreakerHalfOpenCalls int     `yaml:"breaker_half_open_calls"`

	NATSEnabled bool   `yaml:"nats_enabled"`
	NATSURL     string `yaml:"nats_url"`
	NATSSubject string `yaml:"nats_subject"`
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variable overrides, in that order.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		APIPort:  "8080",
		LogLevel: "info",

		OpenAIBaseURL: "https://api.openai.com/v1",
		OpenAIModel:   "gpt-4o-mini",

		MaxParallelDocs: 4,
		MaxUploadBytes:  32 << 20,
		CalendarDates:   false,

		CallTimeoutSeconds:   30,
		RatePerSecond:        5,
		RateBurst:            5,
		BreakerEnabled:       true,
		BreakerMinRequests:   10,
		BreakerFailureRatio:  0.5,
		BreakerOpenSeconds:   30,
		BreakerHalfOpenCalls: 2,

		NATSEnabled: false,
		NATSURL:     "nats://localhost:4222",
		NATSSubject: "claims.decided",
	}
}

func applyEnv(cfg *Config) {
	cfg.APIPort = envString("API_PORT", cfg.APIPort)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)

	cfg.OpenAIBaseURL = envString("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.OpenAIAPIKey = envString("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = envString("OPENAI_MODEL", cfg.OpenAIModel)

	cfg.MaxParallelDocs = envInt("MAX_PARALLEL_DOCS", cfg.MaxParallelDocs)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.CalendarDates = envBool("CALENDAR_DATES", cfg.CalendarDates)

	cfg.CallTimeoutSeconds = envInt("LLM_CALL_TIMEOUT_SECONDS", cfg.CallTimeoutSeconds)
	cfg.RatePerSecond = envFloat("LLM_RATE_PER_SECOND", cfg.RatePerSecond)
	cfg.RateBurst = envInt("LLM_RATE_BURST", cfg.RateBurst)
	cfg.BreakerEnabled = envBool("LLM_BREAKER_ENABLED", cfg.BreakerEnabled)
	cfg.BreakerMinRequests = envInt("LLM_BREAKER_MIN_REQUESTS", cfg.BreakerMinRequests)
	cfg.BreakerFailureRatio = envFloat("LLM_BREAKER_FAILURE_RATIO", cfg.BreakerFailureRatio)
	cfg.BreakerOpenSeconds = envInt("LLM_BREAKER_OPEN_SECONDS", cfg.BreakerOpenSeconds)
	cfg.BreakerHalfOpenCalls = envInt("LLM_BREAKER_HALF_OPEN_CALLS", cfg.BreakerHalfOpenCalls)

	cfg.NATSEnabled = envBool("NATS_ENABLED", cfg.NATSEnabled)
	cfg.NATSURL = envString("NATS_URL", cfg.NATSURL)
	cfg.NATSSubject = envString("NATS_SUBJECT", cfg.NATSSubject)
}

func (c Config) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}

func (c Config) BreakerOpenTimeout() time.Duration {
	return time.Duration(c.BreakerOpenSeconds) * time.Second
}

func envString(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
