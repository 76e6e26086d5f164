// Package config defines the Sprout configuration, loaded with viper from
// a config file and SPROUT_* environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// StateDirName is the project-local state directory.
const StateDirName = ".sprout"

// Config represents the complete Sprout configuration.
type Config struct {
	Model    ModelConfig    `mapstructure:"model"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Tracker  TrackerConfig  `mapstructure:"tracker"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Scaffold ScaffoldConfig `mapstructure:"scaffold"`
}

// ModelConfig controls the Anthropic Messages API client.
type ModelConfig struct {
	// Name is the Claude model used for all persona calls.
	Name string `mapstructure:"name"`
	// MaxTokens caps the response size per chat call.
	MaxTokens int `mapstructure:"max_tokens"`
	// TimeoutSeconds is the HTTP timeout per chat call. 0 means no timeout;
	// a hung model call then blocks the process, which is the documented
	// behavior of this tool.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LoggingConfig controls the debug log.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// MaxSizeMB rotates debug.log beyond this size. 0 disables rotation.
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is how many rotated logs to keep.
	MaxBackups int `mapstructure:"max_backups"`
}

// TrackerConfig controls the optional external issue-tracker integration.
type TrackerConfig struct {
	// Enabled turns the integration on. Availability of the binary is still
	// probed before any use.
	Enabled bool `mapstructure:"enabled"`
	// Binary is the tracker command name looked up on PATH.
	Binary string `mapstructure:"binary"`
}

// PipelineConfig controls the curriculum orchestration pipeline.
type PipelineConfig struct {
	// Debug enables fine-grained debug events (prompts, responses, tool
	// payloads, handoffs).
	Debug bool `mapstructure:"debug"`
}

// ScaffoldConfig controls `sprout seed` defaults.
type ScaffoldConfig struct {
	// DefaultTemplate is used when --template is not given.
	DefaultTemplate string `mapstructure:"default_template"`
}

// SetDefaults registers default values with viper. Called before any config
// file is read so defaults apply even without one.
func SetDefaults() {
	viper.SetDefault("model.name", "claude-sonnet-4-20250514")
	viper.SetDefault("model.max_tokens", 8192)
	viper.SetDefault("model.timeout_seconds", 0)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.max_size_mb", 5)
	viper.SetDefault("logging.max_backups", 2)

	viper.SetDefault("tracker.enabled", true)
	viper.SetDefault("tracker.binary", "trellis")

	viper.SetDefault("pipeline.debug", false)

	viper.SetDefault("scaffold.default_template", "default")
}

// Load unmarshals the current viper state into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigDir returns the user-level configuration directory.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "sprout")
	}
	return filepath.Join(home, ".config", "sprout")
}

// StateDir returns the project-local state directory under root.
func StateDir(root string) string {
	return filepath.Join(root, StateDirName)
}

// SessionsDir returns the closed-session directory under the state dir.
func SessionsDir(root string) string {
	return filepath.Join(StateDir(root), "sessions")
}

// JournalDir returns the journal directory under the state dir.
func JournalDir(root string) string {
	return filepath.Join(StateDir(root), "journal")
}

// CurriculumPath returns the path of the active curriculum document.
func CurriculumPath(root string) string {
	return filepath.Join(StateDir(root), "curriculum.json")
}

// ActiveSessionMarkerPath returns the path of the active-session marker file.
func ActiveSessionMarkerPath(root string) string {
	return filepath.Join(StateDir(root), "active-session")
}

// APIKey returns the Anthropic API key from the environment.
// An empty string means the key is not configured.
func APIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}
