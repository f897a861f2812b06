package main

import (
	"errors"
	"strconv"
	"strings"

	"github.com/robertmeta/calorie-cli/config"
	"github.com/robertmeta/calorie-cli/estimate"
	"github.com/robertmeta/calorie-cli/model"
	"github.com/urfave/cli/v2"
)

// entryView is a FoodEntry with its local time of day.
type entryView struct {
	model.FoodEntry
	Time string `json:"time"`
}

func (a *app) views(entries []model.FoodEntry) []entryView {
	out := make([]entryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryView{FoodEntry: e, Time: a.window.FormatTime(e.Timestamp)})
	}
	return out
}

func foodArg(c *cli.Context) string {
	return strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
}

func addEntry(c *cli.Context, a *app) error {
	name := foodArg(c)
	if name == "" {
		return cli.Exit("Usage: calorie-cli add <food...> [--calories N] [--protein N]", ExitUsageError)
	}
	ctx := c.Context

	var protein *int
	if c.IsSet("protein") {
		p, err := model.ParseProteinInput(c.String("protein"))
		if err != nil {
			return exitError(err)
		}
		protein = &p
	}

	var calories int
	source := "manual"
	if c.IsSet("calories") {
		n, err := model.ParseCalorieInput(c.String("calories"))
		if err != nil {
			return exitError(err)
		}
		calories = n
	} else {
		est, err := a.estimator.Estimate(ctx, name)
		if err != nil {
			if errors.Is(err, estimate.ErrEstimation) {
				return cli.Exit(estimate.UserMessage(err)+" Retry with --calories to enter a value.", ExitDataError)
			}
			return exitError(err)
		}
		calories = est.Calories
		source = string(est.Source)
		if protein == nil {
			protein = est.Protein
		}
	}

	entry, err := a.entries.Add(ctx, name, calories, protein)
	if err != nil {
		return exitError(err)
	}

	total, err := a.entries.TotalCalories(ctx)
	if err != nil {
		return exitError(err)
	}

	return outputJSON(c, map[string]interface{}{
		"success":  true,
		"source":   source,
		"entry":    entryView{FoodEntry: entry, Time: a.window.FormatTime(entry.Timestamp)},
		"progress": model.Progress(total, a.cfg.General.GoalCalories),
	})
}

func estimateFood(c *cli.Context, a *app) error {
	name := foodArg(c)
	if name == "" {
		return cli.Exit("Usage: calorie-cli estimate <food...>", ExitUsageError)
	}

	est, err := a.estimator.Estimate(c.Context, name)
	if err != nil {
		return exitError(err)
	}
	return outputJSON(c, est)
}

func listToday(c *cli.Context, a *app) error {
	entries, err := a.entries.ListToday(c.Context)
	if err != nil {
		return exitError(err)
	}
	return outputDay(c, a, a.window.Today(), entries)
}

func listYesterday(c *cli.Context, a *app) error {
	entries, err := a.entries.ListYesterday(c.Context)
	if err != nil {
		return exitError(err)
	}
	return outputDay(c, a, a.window.Yesterday(), entries)
}

func outputDay(c *cli.Context, a *app, key string, entries []model.FoodEntry) error {
	calories, protein := model.Sum(entries)
	return outputJSON(c, map[string]interface{}{
		"day":            key,
		"count":          len(entries),
		"total_calories": calories,
		"total_protein":  protein,
		"entries":        a.views(entries),
	})
}

func showTotal(c *cli.Context, a *app) error {
	calories, err := a.entries.TotalCalories(c.Context)
	if err != nil {
		return exitError(err)
	}
	protein, err := a.entries.TotalProtein(c.Context)
	if err != nil {
		return exitError(err)
	}
	return outputJSON(c, map[string]interface{}{
		"day":            a.window.Today(),
		"total_calories": calories,
		"total_protein":  protein,
	})
}

func showSummary(c *cli.Context, a *app) error {
	entries, err := a.entries.ListToday(c.Context)
	if err != nil {
		return exitError(err)
	}
	calories, protein := model.Sum(entries)
	progress := model.Progress(calories, a.cfg.General.GoalCalories)

	return outputJSON(c, map[string]interface{}{
		"day":           a.window.Today(),
		"count":         len(entries),
		"total_protein": protein,
		"progress":      progress,
		"over_goal":     progress.IsOverGoal(),
	})
}

// findToday reports whether id is in today's bucket.
func findToday(c *cli.Context, a *app, id string) (bool, error) {
	entries, err := a.entries.ListToday(c.Context)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func editEntry(c *cli.Context, a *app) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("Usage: calorie-cli edit <entry-id> [--name S] [--calories N] [--protein N]", ExitUsageError)
	}

	var u model.EntryUpdate
	if c.IsSet("name") {
		name := strings.TrimSpace(c.String("name"))
		if name == "" {
			return exitError(model.NewValidationError("name", "Please enter a food item"))
		}
		u.Name = &name
	}
	if c.IsSet("calories") {
		n, err := model.ParseCalorieInput(c.String("calories"))
		if err != nil {
			return exitError(err)
		}
		u.Calories = &n
	}
	if c.IsSet("protein") {
		p, err := model.ParseProteinInput(c.String("protein"))
		if err != nil {
			return exitError(err)
		}
		u.Protein = &p
	}
	if u.IsEmpty() {
		return cli.Exit("Nothing to change: pass --name, --calories or --protein", ExitUsageError)
	}

	found, err := findToday(c, a, id)
	if err != nil {
		return exitError(err)
	}
	if !found {
		return cli.Exit("Entry "+id+" is not in today's log", ExitDataError)
	}

	if err := a.entries.Update(c.Context, id, u); err != nil {
		return exitError(err)
	}
	return outputJSON(c, map[string]interface{}{
		"success": true,
		"id":      id,
	})
}

func deleteEntry(c *cli.Context, a *app) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("Usage: calorie-cli delete <entry-id>", ExitUsageError)
	}

	found, err := findToday(c, a, id)
	if err != nil {
		return exitError(err)
	}
	if !found {
		return cli.Exit("Entry "+id+" is not in today's log", ExitDataError)
	}

	if err := a.entries.Delete(c.Context, id); err != nil {
		return exitError(err)
	}
	return outputJSON(c, map[string]interface{}{
		"success": true,
		"id":      id,
	})
}

func clearLog(c *cli.Context, a *app) error {
	if !c.Bool("yes") {
		return cli.Exit("Refusing to delete the food log without --yes", ExitUsageError)
	}
	if err := a.entries.ClearAll(c.Context); err != nil {
		return exitError(err)
	}
	return outputJSON(c, map[string]interface{}{
		"success": true,
	})
}

func cleanup(c *cli.Context, a *app) error {
	removed, err := a.entries.RunStartupRetention(c.Context)
	if err != nil {
		return exitError(err)
	}
	if removed == nil {
		removed = []string{}
	}
	return outputJSON(c, map[string]interface{}{
		"success": true,
		"removed": removed,
	})
}

func listFoods(c *cli.Context) error {
	foods := estimate.Foods()
	return outputJSON(c, map[string]interface{}{
		"count": len(foods),
		"foods": foods,
	})
}

func goal(c *cli.Context) error {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	if c.NArg() == 0 {
		return outputJSON(c, map[string]interface{}{
			"goal": cfg.General.GoalCalories,
		})
	}

	n, err := strconv.Atoi(strings.TrimSpace(c.Args().First()))
	if err != nil {
		return cli.Exit("Please enter a valid number", ExitUsageError)
	}
	cfg.General.GoalCalories = n
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	if err := config.UpdateFile(path, func(f *config.Config) { f.General.GoalCalories = n }); err != nil {
		return cli.Exit(err.Error(), ExitGeneralError)
	}

	return outputJSON(c, map[string]interface{}{
		"success": true,
		"goal":    n,
	})
}

func setKey(c *cli.Context, a *app) error {
	key := strings.TrimSpace(c.Args().First())
	if key == "" {
		return cli.Exit("Usage: calorie-cli key set <api-key> [--no-verify]", ExitUsageError)
	}

	verified := false
	if !c.Bool("no-verify") {
		if !a.estimator.TestKey(c.Context, key) {
			return cli.Exit("API key test failed. Please check your key.", ExitDataError)
		}
		verified = true
	}

	if err := a.creds.Set(c.Context, key); err != nil {
		return exitError(err)
	}
	return outputJSON(c, map[string]interface{}{
		"success":  true,
		"verified": verified,
	})
}

func keyStatus(c *cli.Context, a *app) error {
	return outputJSON(c, map[string]interface{}{
		"configured": a.creds.Has(c.Context),
	})
}

func removeKey(c *cli.Context, a *app) error {
	if err := a.creds.Remove(c.Context); err != nil {
		return exitError(err)
	}
	return outputJSON(c, map[string]interface{}{
		"success": true,
	})
}

func testKey(c *cli.Context, a *app) error {
	if !a.creds.Has(c.Context) {
		return exitError(&estimate.EstimationError{Kind: estimate.KindCredentialMissing})
	}
	valid := a.estimator.TestCredential(c.Context)
	if err := outputJSON(c, map[string]interface{}{
		"valid": valid,
	}); err != nil {
		return err
	}
	if !valid {
		return cli.Exit("API key test failed. Please check your key.", ExitDataError)
	}
	return nil
}
