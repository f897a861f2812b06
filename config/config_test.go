package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.General.GoalCalories)
	assert.Empty(t, cfg.General.Timezone)
	assert.False(t, cfg.General.Nutrition)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.Gemini.BaseURL)
	assert.Equal(t, "gemini-1.5-flash-latest", cfg.Gemini.Model)
	assert.Equal(t, 20*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_File(t *testing.T) {
	path := writeTOML(t, `
[general]
goal_calories = 1800
timezone = "America/New_York"
nutrition = true

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1800, cfg.General.GoalCalories)
	assert.Equal(t, "America/New_York", cfg.General.Timezone)
	assert.True(t, cfg.General.Nutrition)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "gemini-1.5-flash-latest", cfg.Gemini.Model)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeTOML(t, "[general]\ngoal_calories = 1800\n")
	t.Setenv("CALORIE_CLI_GOAL", "2500")
	t.Setenv("CALORIE_CLI_GEMINI_TIMEOUT", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2500, cfg.General.GoalCalories)
	assert.Equal(t, 5*time.Second, cfg.Gemini.Timeout)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeTOML(t, "not valid [[[toml")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"goal too low", "[general]\ngoal_calories = -5\n"},
		{"goal too high", "[general]\ngoal_calories = 50000\n"},
		{"unknown timezone", "[general]\ntimezone = \"Mars/Olympus\"\n"},
		{"unknown level", "[log]\nlevel = \"loud\"\n"},
		{"unknown format", "[log]\nformat = \"xml\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTOML(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			General: GeneralConfig{GoalCalories: 2000},
			Gemini:  GeminiConfig{Timeout: 20 * time.Second},
			Log:     LogConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"uppercase level", func(c *Config) { c.Log.Level = "DEBUG" }, false},
		{"zero goal", func(c *Config) { c.General.GoalCalories = 0 }, true},
		{"zero timeout", func(c *Config) { c.Gemini.Timeout = 0 }, true},
		{"timeout too long", func(c *Config) { c.Gemini.Timeout = 3 * time.Minute }, true},
		{"bad timezone", func(c *Config) { c.General.Timezone = "Nowhere/City" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.General.GoalCalories = 1650
	cfg.General.Timezone = "Europe/Berlin"
	cfg.Gemini.Model = "gemini-test"

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1650, loaded.General.GoalCalories)
	assert.Equal(t, "Europe/Berlin", loaded.General.Timezone)
	assert.Equal(t, "gemini-test", loaded.Gemini.Model)
	assert.Equal(t, "warn", loaded.Log.Level)
}

func TestSave_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := &Config{General: GeneralConfig{GoalCalories: 0}}

	assert.Error(t, Save(cfg, path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSave_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLocation(t *testing.T) {
	cfg := &Config{}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.General.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestKeyPath(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "device.key", filepath.Base(cfg.KeyPath()))

	cfg.Storage.KeyFile = "/tmp/custom.key"
	assert.Equal(t, "/tmp/custom.key", cfg.KeyPath())
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	assert.NoError(t, LoadDotEnv())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CALORIE_CLI_GOAL=1750\n"), 0600))
	chdir(t, dir)
	t.Setenv("CALORIE_CLI_GOAL", "")
	os.Unsetenv("CALORIE_CLI_GOAL")

	require.NoError(t, LoadDotEnv())

	cfg, err := Load(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, 1750, cfg.General.GoalCalories)
}

func TestUpdateFile_KeepsEnvironmentOutOfFile(t *testing.T) {
	path := writeTOML(t, "[general]\ntimezone = \"Europe/Berlin\"\n")
	t.Setenv("CALORIE_CLI_LOG_LEVEL", "debug")
	t.Setenv("CALORIE_CLI_GEMINI_URL", "http://localhost:9999")

	require.NoError(t, UpdateFile(path, func(cfg *Config) { cfg.General.GoalCalories = 1800 }))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "goal_calories = 1800")
	assert.Contains(t, string(raw), "Europe/Berlin")
	assert.NotContains(t, string(raw), "debug")
	assert.NotContains(t, string(raw), "localhost:9999")
	assert.NotContains(t, string(raw), "gemini-1.5-flash-latest")

	t.Setenv("CALORIE_CLI_LOG_LEVEL", "")
	os.Unsetenv("CALORIE_CLI_LOG_LEVEL")
	t.Setenv("CALORIE_CLI_GEMINI_URL", "")
	os.Unsetenv("CALORIE_CLI_GEMINI_URL")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1800, cfg.General.GoalCalories)
	assert.Equal(t, "Europe/Berlin", cfg.General.Timezone)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.Gemini.BaseURL)
}

func TestUpdateFile_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, UpdateFile(path, func(cfg *Config) { cfg.General.GoalCalories = 1500 }))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1500, cfg.General.GoalCalories)
}

func TestUpdateFile_InvalidTOML(t *testing.T) {
	path := writeTOML(t, "not valid [[[toml")

	err := UpdateFile(path, func(cfg *Config) {})
	assert.Error(t, err)

	raw, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "not valid [[[toml", string(raw))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
