// Package config holds the validated description of one LLM backend plus
// general tool settings, and their YAML persistence. Secrets are never part
// of the persisted config; they live behind the credentials package.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Provider identifiers. The set is closed; anything else is rejected at
// dispatch time.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGrok      = "grok"
	ProviderCustom    = "custom"
)

// Auth schemes a provider endpoint may expect.
const (
	AuthNone        = "none"
	AuthAPIKey      = "api_key"
	AuthBearerToken = "bearer_token"
)

const (
	// DefaultTimeout is the LLM request timeout in seconds.
	DefaultTimeout = 30
	// DefaultCommandTimeout bounds local command execution in seconds.
	DefaultCommandTimeout = 30

	configFile = "config.yaml"
)

// ProviderDefaults describes a predefined provider: its endpoint, default
// model, and the auth scheme its API expects.
type ProviderDefaults struct {
	Name         string
	BaseURL      string
	DefaultModel string
	AuthType     string
	Description  string
}

// PredefinedProviders maps known provider identifiers to their baked-in
// defaults. Custom providers have no entry and must be fully explicit.
var PredefinedProviders = map[string]ProviderDefaults{
	ProviderOpenAI: {
		Name:         "OpenAI",
		BaseURL:      "https://api.openai.com/v1",
		DefaultModel: "gpt-4",
		AuthType:     AuthAPIKey,
		Description:  "OpenAI GPT models",
	},
	ProviderAnthropic: {
		Name:         "Anthropic Claude",
		BaseURL:      "https://api.anthropic.com/v1",
		DefaultModel: "claude-3-sonnet-20240229",
		AuthType:     AuthAPIKey,
		Description:  "Anthropic Claude models",
	},
	ProviderGrok: {
		Name:         "Grok (xAI)",
		BaseURL:      "https://api.x.ai/v1",
		DefaultModel: "grok-beta",
		AuthType:     AuthAPIKey,
		Description:  "xAI Grok models",
	},
}

// Config is the full tool configuration. Provider fields describe the active
// LLM backend; the remaining fields are general settings. The zero value of
// every field is "unset"; Load merges defaults underneath.
type Config struct {
	Provider string `yaml:"llm_provider,omitempty"`
	Model    string `yaml:"llm_model,omitempty"`
	BaseURL  string `yaml:"llm_base_url,omitempty"`
	AuthType string `yaml:"llm_auth_type,omitempty"`
	Timeout  int    `yaml:"llm_timeout,omitempty"` // seconds

	LogDirectory      string `yaml:"log_directory,omitempty"`
	Verbose           bool   `yaml:"verbose,omitempty"`
	DisableFixScripts bool   `yaml:"disable_fix_scripts,omitempty"`
	CommandTimeout    int    `yaml:"command_timeout,omitempty"` // seconds
	MaxRetries        int    `yaml:"max_retries,omitempty"`
}

// Error is a configuration validation error. It never wraps a network
// failure; validation happens strictly before any request is attempted.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
	}
	return "configuration error: " + e.Message
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		Provider:       ProviderOpenAI,
		Model:          PredefinedProviders[ProviderOpenAI].DefaultModel,
		BaseURL:        PredefinedProviders[ProviderOpenAI].BaseURL,
		AuthType:       AuthAPIKey,
		Timeout:        DefaultTimeout,
		LogDirectory:   "~/cmdrx_logs",
		CommandTimeout: DefaultCommandTimeout,
	}
}

// Dir returns the per-user configuration directory for cmdrx.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("cannot determine config directory: %v", err)}
	}
	return filepath.Join(base, "cmdrx"), nil
}

// Load reads the config file under dir, merging defaults underneath so every
// field has a value. A missing file yields the defaults.
func Load(dir string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, &Error{Message: fmt.Sprintf("cannot read config file: %v", err)}
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return cfg, &Error{Message: fmt.Sprintf("cannot parse config file: %v", err)}
	}

	// Loaded values take precedence, defaults fill the gaps.
	if err := mergo.Merge(&loaded, cfg); err != nil {
		return cfg, &Error{Message: fmt.Sprintf("cannot merge config defaults: %v", err)}
	}
	return loaded, nil
}

// Save writes the configuration to dir, creating the directory if needed.
// Credentials are never part of Config, so nothing sensitive is written here.
func (c Config) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return &Error{Message: fmt.Sprintf("cannot create config directory: %v", err)}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return &Error{Message: fmt.Sprintf("cannot encode config: %v", err)}
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), data, 0o600); err != nil {
		return &Error{Message: fmt.Sprintf("cannot write config file: %v", err)}
	}
	return nil
}

// CredentialKey returns the resolver key the active provider's auth scheme
// requires, and whether one is required at all. The mapping is total:
// predefined providers always key their API key by provider name; custom
// providers key by scheme; the none scheme requires nothing.
func (c Config) CredentialKey() (string, bool) {
	if _, ok := PredefinedProviders[c.Provider]; ok {
		return c.Provider + "_api_key", true
	}
	if c.Provider == ProviderCustom {
		switch c.AuthType {
		case AuthAPIKey:
			return "custom_api_key", true
		case AuthBearerToken:
			return "custom_bearer_token", true
		}
	}
	return "", false
}

// Validate checks the configuration against the resolved credential set.
// creds is keyed by credential kind ("api_key", "bearer_token"). Validation
// failures block any network attempt.
func Validate(c Config, creds map[string]string) error {
	if c.Provider == "" {
		return &Error{Field: "llm_provider", Message: "no LLM provider configured"}
	}
	if c.Model == "" {
		return &Error{Field: "llm_model", Message: "no LLM model configured"}
	}

	if _, ok := PredefinedProviders[c.Provider]; ok {
		if creds[AuthAPIKey] == "" {
			return &Error{Field: "credentials", Message: fmt.Sprintf("API key required for %s", c.Provider)}
		}
		return nil
	}

	if c.Provider == ProviderCustom {
		if c.BaseURL == "" {
			return &Error{Field: "llm_base_url", Message: "base URL required for custom provider"}
		}
		switch c.AuthType {
		case AuthAPIKey:
			if creds[AuthAPIKey] == "" {
				return &Error{Field: "credentials", Message: "API key required for custom provider"}
			}
		case AuthBearerToken:
			if creds[AuthBearerToken] == "" {
				return &Error{Field: "credentials", Message: "bearer token required for custom provider"}
			}
		}
	}

	return nil
}
