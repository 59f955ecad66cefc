package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/foodent/foodscan/pkg/types"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max edge", func(c *Config) { c.Ingest.MaxEdge = 0 }},
		{"negative stddev", func(c *Config) { c.Ingest.MinStdDev = -1 }},
		{"inverted mean bounds", func(c *Config) { c.Ingest.MinMean = 240; c.Ingest.MaxMean = 30 }},
		{"dark max out of range", func(c *Config) { c.Profile.DarkMax = 300 }},
		{"zero dominance margin", func(c *Config) { c.Profile.DominanceMargin = 0 }},
		{"threshold above 100", func(c *Config) { c.Classify.DominanceThreshold = 120 }},
		{"unknown backend", func(c *Config) { c.Remote.Backend = "carrier-pigeon" }},
		{"zero timeout", func(c *Config) { c.Remote.TimeoutSeconds = 0 }},
		{"zero session cap", func(c *Config) { c.Session.MaxEntries = 0 }},
	}

	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Classify.DominanceThreshold = 15.0
	cfg.Ingest.MaxEdge = 1200
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Classify.DominanceThreshold != 15.0 {
		t.Errorf("threshold not preserved: %.1f", loaded.Classify.DominanceThreshold)
	}
	if loaded.Ingest.MaxEdge != 1200 {
		t.Errorf("max edge not preserved: %d", loaded.Ingest.MaxEdge)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	partial := Default()
	partial.Session.MaxEntries = 5
	if err := partial.SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Session.MaxEntries != 5 {
		t.Errorf("expected overridden cap 5, got %d", loaded.Session.MaxEntries)
	}
	if loaded.Ingest.MaxEdge != Default().Ingest.MaxEdge {
		t.Errorf("untouched fields should keep defaults")
	}
}

func TestLoadCredential(t *testing.T) {
	t.Setenv("FOODSCAN_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	_, err := LoadCredential()
	if err == nil {
		t.Fatal("expected error with no credential configured")
	}
	if !errors.Is(err, types.ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}

	t.Setenv("FOODSCAN_API_KEY", "test-key")
	key, err := LoadCredential()
	if err != nil {
		t.Fatalf("LoadCredential failed: %v", err)
	}
	if key != "test-key" {
		t.Errorf("unexpected key: %s", key)
	}
}
