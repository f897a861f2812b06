package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/robertmeta/calorie-cli/config"
	"github.com/robertmeta/calorie-cli/estimate"
	"github.com/robertmeta/calorie-cli/model"
	"github.com/urfave/cli/v2"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
	ExitStorageError = 4
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := newCLI(stdout, stderr).RunContext(ctx, args)
	if err == nil {
		return ExitSuccess
	}

	if msg := err.Error(); msg != "" {
		fmt.Fprintf(stderr, "Error: %s\n", msg)
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return ExitGeneralError
}

func newCLI(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "calorie-cli",
		Usage:     "A scriptable daily calorie and protein tracker",
		Version:   "0.1.0",
		Writer:    stdout,
		ErrWriter: stderr,
		// Exit codes are applied by run.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Value:   getDefaultDBPath(),
				Usage:   "Database file path",
				EnvVars: []string{"CALORIE_CLI_DB"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultPath(),
				Usage:   "Config file path",
				EnvVars: []string{"CALORIE_CLI_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Log a food item, estimating calories unless given",
				ArgsUsage: "<food...>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "calories", Usage: "Calories, skips estimation"},
					&cli.StringFlag{Name: "protein", Usage: "Protein in grams"},
				},
				Action: withApp(addEntry),
			},
			{
				Name:      "estimate",
				Usage:     "Estimate a food item without logging it",
				ArgsUsage: "<food...>",
				Action:    withApp(estimateFood),
			},
			{
				Name:   "list",
				Usage:  "List today's entries",
				Action: withApp(listToday),
			},
			{
				Name:   "yesterday",
				Usage:  "List yesterday's entries",
				Action: withApp(listYesterday),
			},
			{
				Name:   "total",
				Usage:  "Show today's calorie and protein totals",
				Action: withApp(showTotal),
			},
			{
				Name:   "summary",
				Usage:  "Show today's progress against the calorie goal",
				Action: withApp(showSummary),
			},
			{
				Name:      "edit",
				Usage:     "Edit one of today's entries",
				ArgsUsage: "<entry-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "New food name"},
					&cli.StringFlag{Name: "calories", Usage: "New calories"},
					&cli.StringFlag{Name: "protein", Usage: "New protein in grams"},
				},
				Action: withApp(editEntry),
			},
			{
				Name:      "delete",
				Usage:     "Delete one of today's entries",
				ArgsUsage: "<entry-id>",
				Action:    withApp(deleteEntry),
			},
			{
				Name:  "clear",
				Usage: "Delete the whole food log",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm deletion"},
				},
				Action: withApp(clearLog),
			},
			{
				Name:   "cleanup",
				Usage:  "Drop every day older than yesterday",
				Action: withAppNoRetention(cleanup),
			},
			{
				Name:   "foods",
				Usage:  "List the offline food table",
				Action: listFoods,
			},
			{
				Name:      "goal",
				Usage:     "Show or set the daily calorie goal",
				ArgsUsage: "[calories]",
				Action:    goal,
			},
			{
				Name:  "key",
				Usage: "Manage the Gemini API key",
				Subcommands: []*cli.Command{
					{
						Name:      "set",
						Usage:     "Store the API key after checking it",
						ArgsUsage: "<api-key>",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "no-verify", Usage: "Store without a test request"},
						},
						Action: withApp(setKey),
					},
					{
						Name:   "status",
						Usage:  "Report whether a key is stored",
						Action: withApp(keyStatus),
					},
					{
						Name:   "remove",
						Usage:  "Remove the stored key",
						Action: withApp(removeKey),
					},
					{
						Name:   "test",
						Usage:  "Check the stored key with a test request",
						Action: withApp(testKey),
					},
				},
			},
		},
	}
}

func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "calorie-cli.db"
	}
	return filepath.Join(home, ".config", config.AppName, "calorie-cli.db")
}

func outputJSON(c *cli.Context, v interface{}) error {
	encoder := json.NewEncoder(c.App.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// exitError maps a domain error onto a CLI exit code. Validation and
// estimation failures carry the message meant for the user.
func exitError(err error) error {
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, estimate.ErrEstimation):
		return cli.Exit(estimate.UserMessage(err), ExitDataError)
	case errors.Is(err, model.ErrStorage):
		return cli.Exit(err.Error(), ExitStorageError)
	default:
		return cli.Exit(err.Error(), ExitGeneralError)
	}
}
