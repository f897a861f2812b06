package estimate

import (
	"errors"

	"github.com/robertmeta/calorie-cli/model"
)

// UserMessage turns an estimation or validation failure into the text shown
// to the user before asking for a manual value.
func UserMessage(err error) string {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	switch KindOf(err) {
	case KindCredentialMissing:
		return "Please configure your Gemini API key in settings first."
	case KindNetwork:
		return "Connection failed. Please check your internet and try again."
	case KindMalformedResponse:
		return "Could not understand the food item. Please try rephrasing."
	case KindOutOfRange:
		return "Calorie estimate seems too high/low. Please enter manually."
	}
	return "Something went wrong. Please try again or enter calories manually."
}
