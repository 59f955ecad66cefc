package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/foodent/foodscan/pkg/types"
)

// Config holds the application configuration.
type Config struct {
	Ingest   IngestConfig   `json:"ingest"`
	Profile  ProfileConfig  `json:"profile"`
	Classify ClassifyConfig `json:"classify"`
	Remote   RemoteConfig   `json:"remote"`
	Session  SessionConfig  `json:"session"`
}

// IngestConfig holds configuration for image ingestion.
type IngestConfig struct {
	MaxEdge   int     `json:"max_edge"`
	MinStdDev float64 `json:"min_stddev"`
	MinMean   float64 `json:"min_mean"`
	MaxMean   float64 `json:"max_mean"`
}

// ProfileConfig holds color bucket thresholds.
type ProfileConfig struct {
	DarkMax         int `json:"dark_max"`
	LightMin        int `json:"light_min"`
	DominanceMargin int `json:"dominance_margin"`
	BrownGap        int `json:"brown_gap"`
	BrownRedMax     int `json:"brown_red_max"`
	YellowMin       int `json:"yellow_min"`
}

// ClassifyConfig holds classifier configuration.
type ClassifyConfig struct {
	DominanceThreshold float64 `json:"dominance_threshold"`
}

// RemoteConfig holds configuration for the remote vision path.
type RemoteConfig struct {
	Backend        string `json:"backend"`
	Model          string `json:"model"`
	URL            string `json:"url"`
	ProjectID      string `json:"project_id"`
	Location       string `json:"location"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SessionConfig holds history settings.
type SessionConfig struct {
	MaxEntries int `json:"max_entries"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Ingest: IngestConfig{
			MaxEdge:   800,
			MinStdDev: 20,
			MinMean:   30,
			MaxMean:   225,
		},
		Profile: ProfileConfig{
			DarkMax:         50,
			LightMin:        205,
			DominanceMargin: 40,
			BrownGap:        50,
			BrownRedMax:     180,
			YellowMin:       150,
		},
		Classify: ClassifyConfig{
			DominanceThreshold: 20.0,
		},
		Remote: RemoteConfig{
			Backend:        "gemini",
			Model:          "gemini-1.5-flash",
			Location:       "us-central1",
			TimeoutSeconds: 30,
		},
		Session: SessionConfig{
			MaxEntries: 50,
		},
	}
}

// LoadFromFile loads configuration from a JSON file.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file.
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Ingest.MaxEdge < 1 {
		return fmt.Errorf("ingest.max_edge must be positive")
	}

	if c.Ingest.MinStdDev < 0 {
		return fmt.Errorf("ingest.min_stddev must not be negative")
	}

	if c.Ingest.MinMean < 0 || c.Ingest.MaxMean > 255 || c.Ingest.MinMean >= c.Ingest.MaxMean {
		return fmt.Errorf("ingest mean bounds must satisfy 0 <= min < max <= 255")
	}

	if c.Profile.DarkMax < 0 || c.Profile.DarkMax > 255 {
		return fmt.Errorf("profile.dark_max must be between 0 and 255")
	}

	if c.Profile.LightMin < 0 || c.Profile.LightMin > 255 {
		return fmt.Errorf("profile.light_min must be between 0 and 255")
	}

	if c.Profile.DominanceMargin < 1 {
		return fmt.Errorf("profile.dominance_margin must be positive")
	}

	if c.Classify.DominanceThreshold < 0 || c.Classify.DominanceThreshold > 100 {
		return fmt.Errorf("classify.dominance_threshold must be between 0 and 100")
	}

	if c.Remote.Backend != "gemini" && c.Remote.Backend != "ollama" {
		return fmt.Errorf("remote.backend must be gemini or ollama")
	}

	if c.Remote.TimeoutSeconds < 1 {
		return fmt.Errorf("remote.timeout_seconds must be positive")
	}

	if c.Session.MaxEntries < 1 {
		return fmt.Errorf("session.max_entries must be positive")
	}

	return nil
}

// LoadCredential reads the remote vision API key from the environment,
// loading a .env file first when one is present. A missing key is a
// configuration error for the remote path, not a crash.
func LoadCredential() (string, error) {
	// Ignore a missing .env; real environment variables still apply.
	_ = godotenv.Load()

	for _, name := range []string{"FOODSCAN_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: set FOODSCAN_API_KEY or GOOGLE_API_KEY", types.ErrMissingCredential)
}

// GetConfigPath returns the default configuration file path.
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "foodscan", "config.json")
}
