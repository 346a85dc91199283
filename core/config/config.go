// Package config loads the settings of the visible-thinking pipeline.
//
// Settings come from a YAML file (JSON files parse as well), then from the
// environment. The API key may also be read from a plain text key file.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath       = "config.yaml"
	DefaultAPIKeyPath = "api_key.txt"

	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4.1-mini"
)

// Config is built once at startup and passed by value afterwards.
type Config struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`

	ControllerModel       string  `yaml:"controller_model"`
	ControllerTemperature float64 `yaml:"controller_temperature"`
	ReasoningModel        string  `yaml:"reasoning_model"`
	ReasoningTemperature  float64 `yaml:"reasoning_temperature"`
	ThinkingModel         string  `yaml:"thinking_model"`
	ThinkingTemperature   float64 `yaml:"thinking_temperature"`

	ThinkingWindow  time.Duration `yaml:"thinking_window"`
	MaxThinkingCues int           `yaml:"max_thinking_cues"`
	ThinkingPause   time.Duration `yaml:"thinking_pause"`

	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	DecisionTimeout time.Duration `yaml:"decision_timeout"`

	// FurhatHost is the address of a Furhat robot. Empty means no robot.
	FurhatHost string `yaml:"furhat_host"`
}

func Default() Config {
	return Config{
		BaseURL: defaultBaseURL,

		ControllerModel:       defaultModel,
		ControllerTemperature: 0.2,
		ReasoningModel:        defaultModel,
		ReasoningTemperature:  0.4,
		ThinkingModel:         defaultModel,
		ThinkingTemperature:   0.2,

		ThinkingWindow:  10 * time.Second,
		MaxThinkingCues: 12,
		ThinkingPause:   500 * time.Millisecond,

		ConnectTimeout:  10 * time.Second,
		ReadTimeout:     90 * time.Second,
		DecisionTimeout: 60 * time.Second,
	}
}

type loadOptions struct {
	apiKeyPath string
}

type LoadOption func(*loadOptions)

// WithAPIKeyFile changes where the key file is looked up. An empty path
// disables the key file.
func WithAPIKeyFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.apiKeyPath = path
	}
}

// Load reads path on top of the defaults and applies EMA_API_KEY,
// OPENAI_API_KEY and EMA_BASE_URL. A missing file is not an error. When no
// key is configured by then, the first non-comment line of the key file is
// used. The result is validated.
func Load(path string, opts ...LoadOption) (Config, error) {
	options := loadOptions{apiKeyPath: DefaultAPIKeyPath}
	for _, opt := range opts {
		opt(&options)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, &Error{Field: "file", Err: fmt.Errorf("failed to read %s: %w", path, err)}
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, &Error{Field: "file", Err: fmt.Errorf("failed to parse %s: %w", path, err)}
			}
		}
	}

	cfg.applyEnvOverrides()

	if strings.TrimSpace(cfg.APIKey) == "" && options.apiKeyPath != "" {
		key, err := readAPIKeyFile(options.apiKeyPath)
		if err != nil {
			return Config{}, &Error{Field: "api_key", Err: err}
		}
		cfg.APIKey = key
	}

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	// EMA_API_KEY wins over the generic OpenAI variable.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.APIKey = key
	}
	if key := os.Getenv("EMA_API_KEY"); key != "" {
		c.APIKey = key
	}
	if baseURL := os.Getenv("EMA_BASE_URL"); baseURL != "" {
		c.BaseURL = baseURL
	}
}

func readAPIKeyFile(path string) (string, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return "", nil
}

// Validate reports every invalid setting, joined.
func (c Config) Validate() error {
	var errs []error
	invalid := func(field, format string, args ...any) {
		errs = append(errs, &Error{Field: field, Err: fmt.Errorf(format, args...)})
	}

	if c.APIKey == "" {
		errs = append(errs, &Error{Field: "api_key", Err: ErrMissingAPIKey})
	}
	if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		invalid("base_url", "expected an http(s) URL, got %q", c.BaseURL)
	}

	for _, role := range []struct {
		name        string
		model       string
		temperature float64
	}{
		{"controller", c.ControllerModel, c.ControllerTemperature},
		{"reasoning", c.ReasoningModel, c.ReasoningTemperature},
		{"thinking", c.ThinkingModel, c.ThinkingTemperature},
	} {
		if strings.TrimSpace(role.model) == "" {
			invalid(role.name+"_model", "must not be empty")
		}
		if role.temperature < 0 || role.temperature > 2 {
			invalid(role.name+"_temperature", "must be between 0 and 2, got %v", role.temperature)
		}
	}

	if c.ThinkingWindow <= 0 {
		invalid("thinking_window", "must be positive, got %s", c.ThinkingWindow)
	}
	if c.MaxThinkingCues <= 0 {
		invalid("max_thinking_cues", "must be positive, got %d", c.MaxThinkingCues)
	}
	if c.ThinkingPause < 0 {
		invalid("thinking_pause", "must not be negative, got %s", c.ThinkingPause)
	}
	for field, timeout := range map[string]time.Duration{
		"connect_timeout":  c.ConnectTimeout,
		"read_timeout":     c.ReadTimeout,
		"decision_timeout": c.DecisionTimeout,
	} {
		if timeout <= 0 {
			invalid(field, "must be positive, got %s", timeout)
		}
	}

	return errors.Join(errs...)
}
