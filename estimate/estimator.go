// Package estimate produces calorie and protein estimates for free-text food
// descriptions, from an offline table of common foods or from a remote
// text-generation model.
package estimate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/robertmeta/calorie-cli/model"
)

// Mode selects whether protein is requested from the remote model.
type Mode int

const (
	ModeCalories Mode = iota
	ModeNutrition
)

// Source tells where an estimate came from.
type Source string

const (
	SourceOffline Source = "offline"
	SourceRemote  Source = "remote"
)

// credentialProbe is the fixed input used to check that a key works.
const credentialProbe = "apple"

// CredentialSource supplies the API key. A missing key reports false.
type CredentialSource interface {
	Get(ctx context.Context) (string, bool)
}

// Generator sends a prompt to a text-generation model.
type Generator interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// Estimate is a nutrition guess for one food item.
type Estimate struct {
	Calories int    `json:"calories"`
	Protein  *int   `json:"protein,omitempty"`
	Source   Source `json:"source"`
	Match    string `json:"match,omitempty"`
}

// Estimator tries the offline table first and then the remote model.
type Estimator struct {
	creds     CredentialSource
	generator Generator
	mode      Mode
	log       *slog.Logger
}

// NewEstimator creates an Estimator.
func NewEstimator(creds CredentialSource, generator Generator, mode Mode, logger *slog.Logger) *Estimator {
	return &Estimator{
		creds:     creds,
		generator: generator,
		mode:      mode,
		log:       logger.With("component", "estimator"),
	}
}

// Estimate returns a nutrition estimate for description. When it fails with
// an *EstimationError the caller is expected to ask the user for a value.
func (e *Estimator) Estimate(ctx context.Context, description string) (Estimate, error) {
	if strings.TrimSpace(description) == "" {
		return Estimate{}, model.NewValidationError("food", "Please enter a food item")
	}

	if food, ok := LookupOffline(description); ok {
		// Rows outside the accepted range, such as water, count as a miss.
		if err := model.ValidateCalories(food.Calories); err == nil {
			e.log.DebugContext(ctx, "offline match",
				slog.String("food", description), slog.String("match", food.Name))
			return Estimate{Calories: food.Calories, Source: SourceOffline, Match: food.Name}, nil
		}
		e.log.DebugContext(ctx, "offline match out of range, asking remote",
			slog.String("food", description), slog.String("match", food.Name))
	}

	apiKey, ok := e.creds.Get(ctx)
	if !ok || strings.TrimSpace(apiKey) == "" {
		return Estimate{}, &EstimationError{Kind: KindCredentialMissing, Err: errors.New("API key not configured")}
	}

	return e.remote(ctx, apiKey, description)
}

// TestCredential checks the stored key with a remote estimate of a fixed
// input. Nothing is written anywhere.
func (e *Estimator) TestCredential(ctx context.Context) bool {
	apiKey, ok := e.creds.Get(ctx)
	if !ok || strings.TrimSpace(apiKey) == "" {
		return false
	}
	return e.TestKey(ctx, apiKey)
}

// TestKey checks a key that has not been stored yet.
func (e *Estimator) TestKey(ctx context.Context, apiKey string) bool {
	if strings.TrimSpace(apiKey) == "" {
		return false
	}
	if _, err := e.remote(ctx, apiKey, credentialProbe); err != nil {
		e.log.InfoContext(ctx, "credential check failed", slog.String("error", err.Error()))
		return false
	}
	return true
}

func (e *Estimator) remote(ctx context.Context, apiKey, description string) (Estimate, error) {
	text, err := e.generator.Generate(ctx, apiKey, e.prompt(description))
	if err != nil {
		if KindOf(err) == "" {
			err = &EstimationError{Kind: KindNetwork, Err: err}
		}
		return Estimate{}, err
	}

	est := Estimate{Source: SourceRemote}
	if e.mode == ModeNutrition {
		calories, protein, err := ParseNutrition(text)
		if err != nil {
			return Estimate{}, err
		}
		est.Calories = calories
		est.Protein = model.IntPtr(protein)
	} else {
		calories, err := ParseCalories(text)
		if err != nil {
			return Estimate{}, err
		}
		est.Calories = calories
	}

	e.log.DebugContext(ctx, "remote estimate",
		slog.String("food", description), slog.Int("calories", est.Calories))
	return est, nil
}

func (e *Estimator) prompt(description string) string {
	if e.mode == ModeNutrition {
		return fmt.Sprintf(`Estimate calories and protein for: %s. Respond with only two numbers separated by a comma: calories,protein (e.g., "150,12" for 150 calories and 12g protein).`, description)
	}
	return fmt.Sprintf("Estimate the calories for: %s. If quantity is not specified, assume a reasonable serving size. Respond with only a number representing total calories.", description)
}
