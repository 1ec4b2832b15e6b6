package main

import (
	"context"
	"log/slog"
	"os"

	"minibadge/config"
	"minibadge/internal/app"
)

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, config.NewLogger(cfg, os.Stderr), nil
}

// withApp opens the database, builds the application and runs fn with it.
func withApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, fn func(*app.App) error) error {
	db, err := app.OpenDB(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	a, err := app.New(cfg, logger, db)
	if err != nil {
		db.Close()
		return err
	}
	defer a.Close()
	return fn(a)
}
