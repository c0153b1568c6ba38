package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_PORT", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("MAX_PARALLEL_DOCS", "")
	t.Setenv("NATS_ENABLED", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIPort != "8080" {
		t.Fatalf("expected default api port 8080, got %q", cfg.APIPort)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("expected default model gpt-4o-mini, got %q", cfg.OpenAIModel)
	}
	if cfg.MaxParallelDocs != 4 {
		t.Fatalf("expected default parallelism 4, got %d", cfg.MaxParallelDocs)
	}
	if cfg.NATSEnabled {
		t.Fatal("expected nats disabled by default")
	}
	if !cfg.BreakerEnabled {
		t.Fatal("expected breaker enabled by default")
	}
}

func TestLoadParsesEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_PORT", "9191")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:1234/v1")
	t.Setenv("MAX_PARALLEL_DOCS", "8")
	t.Setenv("CALENDAR_DATES", "true")
	t.Setenv("LLM_BREAKER_FAILURE_RATIO", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIPort != "9191" {
		t.Fatalf("expected api port override, got %q", cfg.APIPort)
	}
	if cfg.OpenAIBaseURL != "http://localhost:1234/v1" {
		t.Fatalf("expected base url override, got %q", cfg.OpenAIBaseURL)
	}
	if cfg.MaxParallelDocs != 8 {
		t.Fatalf("expected parallelism 8, got %d", cfg.MaxParallelDocs)
	}
	if !cfg.CalendarDates {
		t.Fatal("expected calendar dates enabled")
	}
	if cfg.BreakerFailureRatio != 0.75 {
		t.Fatalf("expected failure ratio 0.75, got %v", cfg.BreakerFailureRatio)
	}
}

func TestLoadReadsYAMLFileWithEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "api_port: \"7070\"\nopenai_model: gpt-4o\nnats_enabled: true\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_PORT", "6060")
	t.Setenv("OPENAI_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenAIModel != "gpt-4o" {
		t.Fatalf("expected model from file, got %q", cfg.OpenAIModel)
	}
	if !cfg.NATSEnabled {
		t.Fatal("expected nats enabled from file")
	}
	if cfg.APIPort != "6060" {
		t.Fatalf("expected env to win over file, got %q", cfg.APIPort)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("api_port: [not, a, string"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}
