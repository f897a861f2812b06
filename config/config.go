// Package config loads and saves calorie-cli settings.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// AppName names the per-user config directory.
const AppName = "calorie-cli"

// Config is the root application configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Gemini  GeminiConfig  `toml:"gemini"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// GeneralConfig holds the daily goal and calendar settings.
type GeneralConfig struct {
	GoalCalories int    `toml:"goal_calories,omitempty" env:"CALORIE_CLI_GOAL"      env-default:"2000"`
	Timezone     string `toml:"timezone,omitempty"      env:"CALORIE_CLI_TIMEZONE"`
	Nutrition    bool   `toml:"nutrition,omitempty"     env:"CALORIE_CLI_NUTRITION"`
}

// GeminiConfig holds the remote estimator settings.
type GeminiConfig struct {
	BaseURL string        `toml:"base_url,omitempty" env:"CALORIE_CLI_GEMINI_URL"     env-default:"https://generativelanguage.googleapis.com/v1beta"`
	Model   string        `toml:"model,omitempty"    env:"CALORIE_CLI_GEMINI_MODEL"   env-default:"gemini-1.5-flash-latest"`
	Timeout time.Duration `toml:"timeout,omitempty"  env:"CALORIE_CLI_GEMINI_TIMEOUT" env-default:"20s"`
}

// StorageConfig holds local file locations.
type StorageConfig struct {
	KeyFile string `toml:"key_file,omitempty" env:"CALORIE_CLI_KEY_FILE"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level,omitempty"  env:"CALORIE_CLI_LOG_LEVEL"  env-default:"warn"`
	Format string `toml:"format,omitempty" env:"CALORIE_CLI_LOG_FORMAT" env-default:"text"`
}

// Dir returns the per-user config directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// KeyPath returns the device key location, falling back to the config
// directory.
func (c *Config) KeyPath() string {
	if c.Storage.KeyFile != "" {
		return c.Storage.KeyFile
	}
	return filepath.Join(Dir(), "device.key")
}

// Location resolves the configured timezone. Empty means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.General.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.General.Timezone)
}
