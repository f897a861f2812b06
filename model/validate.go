package model

import (
	"strconv"
	"strings"
)

// Accepted domain ranges for a single food item.
const (
	MinCalories = 1
	MaxCalories = 2000
	MinProtein  = 0
	MaxProtein  = 200
)

// ValidateCalories rejects values outside [MinCalories, MaxCalories].
func ValidateCalories(n int) error {
	if n < MinCalories {
		return NewValidationError("calories", "Calories must be at least 1")
	}
	if n > MaxCalories {
		return NewValidationError("calories", "Calories seem too high (max 2000)")
	}
	return nil
}

// ValidateProtein rejects values outside [MinProtein, MaxProtein].
func ValidateProtein(n int) error {
	if n < MinProtein {
		return NewValidationError("protein", "Protein cannot be negative")
	}
	if n > MaxProtein {
		return NewValidationError("protein", "Protein seems too high (max 200g)")
	}
	return nil
}

// ParseCalorieInput parses a manually typed calorie value and validates it.
func ParseCalorieInput(s string) (int, error) {
	n, ok := leadingInt(s)
	if !ok {
		return 0, NewValidationError("calories", "Please enter a valid number")
	}
	if err := ValidateCalories(n); err != nil {
		return 0, err
	}
	return n, nil
}

// ParseProteinInput parses a manually typed protein value and validates it.
func ParseProteinInput(s string) (int, error) {
	n, ok := leadingInt(s)
	if !ok {
		return 0, NewValidationError("protein", "Please enter a valid number")
	}
	if err := ValidateProtein(n); err != nil {
		return 0, err
	}
	return n, nil
}

// leadingInt reads an optionally signed integer at the start of the trimmed
// input and ignores whatever follows it, so "150 kcal" reads as 150.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
