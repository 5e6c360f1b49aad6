package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_valid(t *testing.T) {
	cfg, err := Load("testdata/valid.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Models.Directories) != 2 {
		t.Errorf("Models.Directories = %v, want 2 entries", cfg.Models.Directories)
	}
	if cfg.Output.Directory != "build/gen" {
		t.Errorf("Output.Directory = %q, want %q", cfg.Output.Directory, "build/gen")
	}
	if cfg.Output.Pretty {
		t.Error("Output.Pretty = true, want false")
	}
	if cfg.Runtime.Mode != "http" {
		t.Errorf("Runtime.Mode = %q, want %q", cfg.Runtime.Mode, "http")
	}
	if cfg.Runtime.BaseURL != "https://runtime.example.com" {
		t.Errorf("Runtime.BaseURL = %q", cfg.Runtime.BaseURL)
	}
	if cfg.Runtime.Timeout != 15*time.Second {
		t.Errorf("Runtime.Timeout = %v, want 15s", cfg.Runtime.Timeout)
	}
	if cfg.Runtime.Auth.Issuer != "formgraph" {
		t.Errorf("Runtime.Auth.Issuer = %q", cfg.Runtime.Auth.Issuer)
	}
	if cfg.Runtime.Breaker.FailureThreshold != 3 {
		t.Errorf("Runtime.Breaker.FailureThreshold = %d, want 3", cfg.Runtime.Breaker.FailureThreshold)
	}
	if len(cfg.Heuristics.CalcTokens) != 2 {
		t.Errorf("Heuristics.CalcTokens = %v, want 2 entries", cfg.Heuristics.CalcTokens)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("Observability.LogLevel = %q, want debug", cfg.Observability.LogLevel)
	}
}

func TestLoad_missingFile(t *testing.T) {
	_, err := Load("testdata/nonexistent.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_invalidMode(t *testing.T) {
	_, err := Load("testdata/invalid_mode.yaml")
	if err == nil {
		t.Fatal("expected validation error for bad runtime mode")
	}
}

func TestLoad_httpModeRequiresBaseURL(t *testing.T) {
	_, err := Load("testdata/http_no_base_url.yaml")
	if err == nil {
		t.Fatal("expected validation error for http mode without base_url")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Runtime.Mode != "dry-run" {
		t.Errorf("default Runtime.Mode = %q, want dry-run", cfg.Runtime.Mode)
	}
	if !cfg.Output.Pretty {
		t.Error("default Output.Pretty = false, want true")
	}
	if cfg.Runtime.Auth.SecretEnv != "FORMGRAPH_RUNTIME_SECRET" {
		t.Errorf("default Runtime.Auth.SecretEnv = %q", cfg.Runtime.Auth.SecretEnv)
	}
	if len(cfg.Heuristics.CalcTokens) == 0 {
		t.Error("default heuristics vocabulary should not be empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults() should validate cleanly: %v", err)
	}
}

func TestLoad_envOverrides(t *testing.T) {
	os.Setenv("FORMGRAPH_OUTPUT_DIR", "/tmp/override")
	os.Setenv("FORMGRAPH_OBSERVABILITY_LOG_LEVEL", "warn")
	defer os.Unsetenv("FORMGRAPH_OUTPUT_DIR")
	defer os.Unsetenv("FORMGRAPH_OBSERVABILITY_LOG_LEVEL")

	cfg, err := Load("testdata/valid.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Directory != "/tmp/override" {
		t.Errorf("Output.Directory = %q, want env override", cfg.Output.Directory)
	}
	if cfg.Observability.LogLevel != "warn" {
		t.Errorf("Observability.LogLevel = %q, want env override", cfg.Observability.LogLevel)
	}
}
