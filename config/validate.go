package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	maxGoalCalories = 20000
	maxTimeout      = 2 * time.Minute
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.General.GoalCalories < 1 || c.General.GoalCalories > maxGoalCalories {
		return fmt.Errorf("general.goal_calories must be between 1 and %d (got %d)", maxGoalCalories, c.General.GoalCalories)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("general.timezone: %w", err)
	}

	if c.Gemini.Timeout <= 0 || c.Gemini.Timeout > maxTimeout {
		return fmt.Errorf("gemini.timeout must be in (0, %s] (got %s)", maxTimeout, c.Gemini.Timeout)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}

	return nil
}
