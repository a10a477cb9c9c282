package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func parse(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Default().AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(parse(t))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Provider != "deepseek" || cfg.UTCPSearchLimit != 50 || cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("defaults must validate, got %v", errs)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planagent.yaml")
	yaml := "provider: ollama\nmodel: llama3.1\nlog-level: debug\nhttp-timeout: 30s\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PLANAGENT_MODEL", "qwen2.5")
	cfg, err := Load(parse(t, "--config", path, "--log-level", "error"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Provider != "ollama" {
		t.Fatalf("file value lost: provider=%q", cfg.Provider)
	}
	if cfg.Model != "qwen2.5" {
		t.Fatalf("env must override file: model=%q", cfg.Model)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("flag must override file: log-level=%q", cfg.LogLevel)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("duration not decoded: %s", cfg.HTTPTimeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(parse(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Provider: "skynet", LogLevel: "loud", UTCPSearchLimit: 0, HTTPTimeout: 0}
	if errs := cfg.Validate(); len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(errs), errs)
	}
	cfg = Default()
	cfg.Provider = "Claude"
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("provider names are case-insensitive, got %v", errs)
	}
}
