package config

import (
	"testing"
	"time"

	"github.com/hemantobora/ec2-estimator/internal/ai"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("EC2_ESTIMATOR_PROVIDER", "")
	t.Setenv("EC2_ESTIMATOR_ADDR", "")

	cfg := New()

	if cfg.Provider != "gemini" {
		t.Errorf("Expected default provider gemini, got %s", cfg.Provider)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Expected default addr :8080, got %s", cfg.Addr)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Expected timeout 60s, got %v", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestNewFromEnvironment(t *testing.T) {
	t.Setenv("EC2_ESTIMATOR_PROVIDER", "openai")
	t.Setenv("EC2_ESTIMATOR_ADDR", "127.0.0.1:9000")
	t.Setenv("AWS_PROFILE", "dev")

	cfg := New()

	if cfg.Provider != "openai" {
		t.Errorf("Expected provider from env, got %s", cfg.Provider)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Errorf("Expected addr from env, got %s", cfg.Addr)
	}
	if cfg.AWSProfile != "dev" {
		t.Errorf("Expected profile from env, got %s", cfg.AWSProfile)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"unknown provider", func(c *Config) { c.Provider = "template" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "yaml" }, true},
		{"empty addr", func(c *Config) { c.Addr = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.Provider = "gemini"
			cfg.Addr = ":8080"
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAIProviderAppliesModel(t *testing.T) {
	cfg := New()
	cfg.Provider = "anthropic"
	cfg.Model = "claude-haiku-4-5"

	p, err := cfg.AIProvider()
	if err != nil {
		t.Fatalf("AIProvider: %v", err)
	}
	if p.Name() != "anthropic" {
		t.Errorf("Expected anthropic, got %s", p.Name())
	}
	if got := p.(*ai.AnthropicProvider).Model(); got != "claude-haiku-4-5" {
		t.Errorf("Expected model override, got %s", got)
	}
}
