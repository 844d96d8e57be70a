package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Paths.StagingDir != "" || cfg.Paths.OutputDir != "" {
		t.Fatal("staging and output must default to empty so the catalog resolves them")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("logging defaults = %+v", cfg.Logging)
	}
	if !cfg.History.Enabled || cfg.History.Path == "" {
		t.Fatalf("history defaults = %+v", cfg.History)
	}
	if !cfg.Extract.DeleteStaging {
		t.Fatal("delete_staging should default to true")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("exists should be false for a missing file")
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
staging_dir = "` + filepath.Join(dir, "scratch") + `"
log_dir = ""

[logging]
format = "JSON"
level = "Debug"

[history]
enabled = false

[extract]
delete_staging = false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if cfg.Paths.StagingDir != filepath.Join(dir, "scratch") {
		t.Fatalf("staging = %q", cfg.Paths.StagingDir)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("blank log_dir should stay blank, got %q", cfg.Paths.LogDir)
	}
	if cfg.History.Enabled {
		t.Fatal("history should be disabled")
	}
	if cfg.Extract.DeleteStaging {
		t.Fatal("delete_staging should be false")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"history without path", func(c *Config) { c.History.Enabled = true; c.History.Path = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	expanded, err := expandPath("~/data/history.db")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if !strings.HasPrefix(expanded, home) {
		t.Fatalf("expanded = %q, want prefix %q", expanded, home)
	}
}

func TestSampleParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.toml")
	if err := os.WriteFile(path, []byte(Sample()), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}
