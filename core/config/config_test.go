package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"EMA_API_KEY", "OPENAI_API_KEY", "EMA_BASE_URL"} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
api_key: sk-file
base_url: https://llm.example.com/
reasoning_model: gpt-4.1
thinking_temperature: 0.5
thinking_window: 4s
max_thinking_cues: 3
furhat_host: 192.168.1.20
`)

	cfg, err := Load(path, WithAPIKeyFile(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Default()
	want.APIKey = "sk-file"
	want.BaseURL = "https://llm.example.com"
	want.ReasoningModel = "gpt-4.1"
	want.ThinkingTemperature = 0.5
	want.ThinkingWindow = 4 * time.Second
	want.MaxThinkingCues = 3
	want.FurhatHost = "192.168.1.20"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadAcceptsJSON(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{"api_key": "sk-json", "controller_model": "gpt-4o-mini"}`)

	cfg, err := Load(path, WithAPIKeyFile(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "sk-json" || cfg.ControllerModel != "gpt-4o-mini" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMA_API_KEY", "sk-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), WithAPIKeyFile(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != defaultBaseURL || cfg.ThinkingPause != 500*time.Millisecond {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("EMA_API_KEY", "sk-ema")
	t.Setenv("EMA_BASE_URL", "http://localhost:8080")
	path := writeFile(t, "config.yaml", "api_key: sk-file\n")

	cfg, err := Load(path, WithAPIKeyFile(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "sk-ema" || cfg.BaseURL != "http://localhost:8080" {
		t.Fatalf("expected environment to win, got %+v", cfg)
	}
}

func TestAPIKeyFileFallback(t *testing.T) {
	clearEnv(t)
	keyPath := writeFile(t, "api_key.txt", "# paste your key below\n\n  sk-from-file  \nsk-ignored\n")

	cfg, err := Load("", WithAPIKeyFile(keyPath))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "sk-from-file" {
		t.Fatalf("expected key from file, got %q", cfg.APIKey)
	}
}

func TestLoadWithoutKeyFails(t *testing.T) {
	clearEnv(t)

	_, err := Load("", WithAPIKeyFile(filepath.Join(t.TempDir(), "api_key.txt")))
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	var configErr *Error
	if !errors.As(err, &configErr) || configErr.Field != "api_key" {
		t.Fatalf("expected api_key configuration error, got %v", err)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "api_key: [unterminated\n")

	_, err := Load(path, WithAPIKeyFile(""))
	var configErr *Error
	if !errors.As(err, &configErr) || configErr.Field != "file" {
		t.Fatalf("expected file configuration error, got %v", err)
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "sk"
	cfg.BaseURL = "ftp://example.com"
	cfg.ReasoningTemperature = 3
	cfg.MaxThinkingCues = 0
	cfg.ReadTimeout = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}

	fields := map[string]bool{}
	for _, joined := range err.(interface{ Unwrap() []error }).Unwrap() {
		var configErr *Error
		if errors.As(joined, &configErr) {
			fields[configErr.Field] = true
		}
	}
	want := map[string]bool{
		"base_url":              true,
		"reasoning_temperature": true,
		"max_thinking_cues":     true,
		"read_timeout":          true,
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("unexpected invalid fields (-want +got):\n%s", diff)
	}
}
