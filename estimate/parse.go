package estimate

import (
	"regexp"
	"strconv"

	"github.com/robertmeta/calorie-cli/model"
)

var (
	// numberPattern matches the first run of digits, e.g. "340" in "approximately 340 kcal".
	numberPattern = regexp.MustCompile(`\d+`)
	// pairPattern matches the first "calories,protein" pair, e.g. "150,12".
	pairPattern = regexp.MustCompile(`(\d+),(\d+)`)
)

// ParseCalories extracts a calorie value from free text. The first run of
// digits is taken and everything else is ignored.
func ParseCalories(text string) (int, error) {
	match := numberPattern.FindString(text)
	if match == "" {
		return 0, newError(KindMalformedResponse, "no number in response %q", text)
	}

	calories, err := strconv.Atoi(match)
	if err != nil {
		return 0, newError(KindOutOfRange, "calories %s: %w", match, err)
	}
	if err := model.ValidateCalories(calories); err != nil {
		return 0, &EstimationError{Kind: KindOutOfRange, Err: err}
	}

	return calories, nil
}

// ParseNutrition extracts a calories,protein pair from free text. The first
// "digits,digits" occurrence is taken and everything else is ignored.
func ParseNutrition(text string) (calories, protein int, err error) {
	matches := pairPattern.FindStringSubmatch(text)
	if matches == nil {
		return 0, 0, newError(KindMalformedResponse, "no calories,protein pair in response %q", text)
	}

	calories, err = strconv.Atoi(matches[1])
	if err != nil {
		return 0, 0, newError(KindOutOfRange, "calories %s: %w", matches[1], err)
	}
	protein, err = strconv.Atoi(matches[2])
	if err != nil {
		return 0, 0, newError(KindOutOfRange, "protein %s: %w", matches[2], err)
	}

	if err := model.ValidateCalories(calories); err != nil {
		return 0, 0, &EstimationError{Kind: KindOutOfRange, Err: err}
	}
	if err := model.ValidateProtein(protein); err != nil {
		return 0, 0, &EstimationError{Kind: KindOutOfRange, Err: err}
	}

	return calories, protein, nil
}
