package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"image distance too large", func(c *Config) { c.Thresholds.ImageDistance = 65 }},
		{"negative video distance", func(c *Config) { c.Thresholds.VideoFrameDistance = -1 }},
		{"inverted confirm band", func(c *Config) { c.Thresholds.ConfirmBandLower = 7; c.Thresholds.ConfirmBandUpper = 6 }},
		{"ceiling below distance", func(c *Config) { c.Thresholds.HashScoreCeiling = 5 }},
		{"dup threshold above one", func(c *Config) { c.Thresholds.DupThreshold = 1.5 }},
		{"zero size tolerance", func(c *Config) { c.Thresholds.SizeTolerancePct = 0 }},
		{"zero point inside window", func(c *Config) { c.Thresholds.CaptureZeroSeconds = 100 }},
		{"weight above one", func(c *Config) { c.Weights.Hash = 1.2 }},
		{"positive penalty", func(c *Config) { c.Weights.HashMissingPenalty = 0.1 }},
		{"unknown group rule", func(c *Config) { c.Keeper.GroupConfidence = "median" }},
		{"negative workers", func(c *Config) { c.Engine.Workers = -2 }},
		{"zero bucket ceiling", func(c *Config) { c.Engine.BucketCeiling = 0 }},
		{"zero pair batch size", func(c *Config) { c.Engine.PairBatchSize = 0 }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = " JSON "
	cfg.Logging.Level = ""
	cfg.Keeper.GroupConfidence = " MAX "
	cfg.Keeper.FormatPreference = []string{".PNG", " jpg ", ""}
	cfg.Engine.BucketCeiling = 0

	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("format = %q", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("empty level not defaulted: %q", cfg.Logging.Level)
	}
	if cfg.Keeper.GroupConfidence != "max" {
		t.Errorf("group rule = %q", cfg.Keeper.GroupConfidence)
	}
	if len(cfg.Keeper.FormatPreference) != 2 || cfg.Keeper.FormatPreference[0] != "png" {
		t.Errorf("format preference = %v", cfg.Keeper.FormatPreference)
	}
	if cfg.Engine.BucketCeiling != defaultBucketCeiling {
		t.Errorf("bucket ceiling not defaulted: %d", cfg.Engine.BucketCeiling)
	}
}

func TestLoadMissingDefaultPathYieldsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, _, existed, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if existed {
		t.Fatal("reported reading a file that does not exist")
	}
	if cfg.Thresholds.ImageDistance != defaultImageDistance {
		t.Errorf("image distance = %d, want default", cfg.Thresholds.ImageDistance)
	}
}

func TestLoadExplicitMissingPathFails(t *testing.T) {
	if _, _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for explicit missing path")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[thresholds]
image_distance = 8

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, existed, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !existed || resolved != path {
		t.Fatalf("existed=%v resolved=%q", existed, resolved)
	}
	if cfg.Thresholds.ImageDistance != 8 {
		t.Errorf("override lost: image distance = %d", cfg.Thresholds.ImageDistance)
	}
	// Untouched sections keep defaults.
	if cfg.Thresholds.HashScoreCeiling != defaultHashScoreCeiling {
		t.Errorf("unset field = %d, want default", cfg.Thresholds.HashScoreCeiling)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[thresholds]\nimage_distance = 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for out-of-range threshold")
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	written, err := WriteSample(path)
	if err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	raw, err := os.ReadFile(written)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "[thresholds]") {
		t.Error("sample config missing thresholds section")
	}

	// The sample itself must parse and validate.
	if _, _, _, err := Load(written); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}

	if _, err := WriteSample(path); err == nil {
		t.Fatal("WriteSample overwrote an existing file")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := expandPath("~/data/report.db")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "data", "report.db") {
		t.Errorf("expandPath = %q", got)
	}
}
