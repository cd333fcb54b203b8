package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsOpenAI(t *testing.T) {
	cfg := Default()
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderOpenAI)
	}
	if cfg.Model != "gpt-4" {
		t.Errorf("Model = %q, want gpt-4", cfg.Model)
	}
	if cfg.Timeout != DefaultTimeout || cfg.CommandTimeout != DefaultCommandTimeout {
		t.Errorf("timeouts = (%d, %d), want defaults", cfg.Timeout, cfg.CommandTimeout)
	}
	if cfg.DisableFixScripts {
		t.Error("fix scripts should be enabled by default")
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadMergesDefaultsUnderneath(t *testing.T) {
	dir := t.TempDir()
	contents := "llm_provider: anthropic\nllm_model: claude-3-opus-20240229\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderAnthropic || cfg.Model != "claude-3-opus-20240229" {
		t.Errorf("explicit fields not honored: %+v", cfg)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %d, want default %d", cfg.Timeout, DefaultTimeout)
	}
	if cfg.LogDirectory != "~/cmdrx_logs" {
		t.Errorf("LogDirectory = %q, want default", cfg.LogDirectory)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(":\t not yaml ["), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	var cfgErr *Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want *config.Error", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Provider:          ProviderCustom,
		Model:             "llama3",
		BaseURL:           "http://localhost:11434/v1",
		AuthType:          AuthNone,
		Timeout:           90,
		LogDirectory:      "/tmp/cmdrx",
		Verbose:           true,
		DisableFixScripts: true,
		CommandTimeout:    45,
		MaxRetries:        2,
	}
	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != cfg {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", loaded, cfg)
	}

	info, err := os.Stat(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}
}

func TestCredentialKey(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantKey  string
		wantNeed bool
	}{
		{"openai", Config{Provider: ProviderOpenAI}, "openai_api_key", true},
		{"anthropic", Config{Provider: ProviderAnthropic}, "anthropic_api_key", true},
		{"grok", Config{Provider: ProviderGrok}, "grok_api_key", true},
		{"custom api key", Config{Provider: ProviderCustom, AuthType: AuthAPIKey}, "custom_api_key", true},
		{"custom bearer", Config{Provider: ProviderCustom, AuthType: AuthBearerToken}, "custom_bearer_token", true},
		{"custom none", Config{Provider: ProviderCustom, AuthType: AuthNone}, "", false},
		{"unknown provider", Config{Provider: "foo"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, need := tt.cfg.CredentialKey()
			if key != tt.wantKey || need != tt.wantNeed {
				t.Errorf("CredentialKey() = (%q, %t), want (%q, %t)", key, need, tt.wantKey, tt.wantNeed)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		creds     map[string]string
		wantField string // empty means valid
	}{
		{
			name:      "empty provider",
			cfg:       Config{Model: "gpt-4"},
			wantField: "llm_provider",
		},
		{
			name:      "empty model",
			cfg:       Config{Provider: ProviderOpenAI},
			wantField: "llm_model",
		},
		{
			name:      "predefined without credentials",
			cfg:       Config{Provider: ProviderOpenAI, Model: "gpt-4"},
			creds:     map[string]string{},
			wantField: "credentials",
		},
		{
			name:  "predefined with credentials",
			cfg:   Config{Provider: ProviderOpenAI, Model: "gpt-4"},
			creds: map[string]string{AuthAPIKey: "sk-test"},
		},
		{
			name:      "custom without base URL",
			cfg:       Config{Provider: ProviderCustom, Model: "llama3", AuthType: AuthNone},
			wantField: "llm_base_url",
		},
		{
			name: "custom none auth needs nothing",
			cfg:  Config{Provider: ProviderCustom, Model: "llama3", BaseURL: "http://localhost:11434/v1", AuthType: AuthNone},
		},
		{
			name:      "custom api key missing",
			cfg:       Config{Provider: ProviderCustom, Model: "llama3", BaseURL: "https://llm.internal/v1", AuthType: AuthAPIKey},
			creds:     map[string]string{AuthBearerToken: "tok"},
			wantField: "credentials",
		},
		{
			name:      "custom bearer missing",
			cfg:       Config{Provider: ProviderCustom, Model: "llama3", BaseURL: "https://llm.internal/v1", AuthType: AuthBearerToken},
			creds:     map[string]string{AuthAPIKey: "sk-test"},
			wantField: "credentials",
		},
		{
			name:  "custom bearer present",
			cfg:   Config{Provider: ProviderCustom, Model: "llama3", BaseURL: "https://llm.internal/v1", AuthType: AuthBearerToken},
			creds: map[string]string{AuthBearerToken: "tok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg, tt.creds)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate: %v, want nil", err)
				}
				return
			}
			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err = %v, want *config.Error", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}
