package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robertmeta/calorie-cli/config"
	"github.com/robertmeta/calorie-cli/day"
	"github.com/robertmeta/calorie-cli/estimate"
	"github.com/robertmeta/calorie-cli/store"
	"github.com/urfave/cli/v2"
)

// app holds the services for one invocation.
type app struct {
	cfg       *config.Config
	window    day.Window
	store     *store.Store
	entries   *store.Entries
	creds     *store.Credentials
	estimator *estimate.Estimator
	log       *slog.Logger
}

func newApp(c *cli.Context) (*app, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, cli.Exit(err.Error(), ExitUsageError)
	}
	logger := newLogger(cfg.Log, c.App.ErrWriter)

	loc, err := cfg.Location()
	if err != nil {
		return nil, cli.Exit(err.Error(), ExitUsageError)
	}
	window := day.Window{Clock: time.Now, Location: loc}

	s, err := openStore(c.String("db"))
	if err != nil {
		return nil, cli.Exit(err.Error(), ExitStorageError)
	}

	key, err := store.LoadOrCreateKey(cfg.KeyPath())
	if err != nil {
		s.Close()
		return nil, cli.Exit(err.Error(), ExitStorageError)
	}
	creds, err := store.NewCredentials(s, key, logger)
	if err != nil {
		s.Close()
		return nil, cli.Exit(err.Error(), ExitStorageError)
	}

	mode := estimate.ModeCalories
	if cfg.General.Nutrition {
		mode = estimate.ModeNutrition
	}
	client := estimate.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.Gemini.Timeout, logger)

	return &app{
		cfg:       cfg,
		window:    window,
		store:     s,
		entries:   store.NewEntries(s, window, logger),
		creds:     creds,
		estimator: estimate.NewEstimator(creds, client, mode, logger),
		log:       logger,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func openStore(dbPath string) (*store.Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return s, nil
}

type appAction func(c *cli.Context, a *app) error

// withApp opens the services, drops days outside the retention window and
// then runs fn.
func withApp(fn appAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := newApp(c)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.entries.RunStartupRetention(c.Context); err != nil {
			a.log.WarnContext(c.Context, "startup retention failed", slog.String("error", err.Error()))
		}
		return fn(c, a)
	}
}

// withAppNoRetention opens the services and runs fn.
func withAppNoRetention(fn appAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := newApp(c)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(c, a)
	}
}
