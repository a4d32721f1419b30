package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcards/internal/app"
	"github.com/abhisek/flashcards/internal/config"
	"github.com/abhisek/flashcards/internal/logging"
	"github.com/abhisek/flashcards/internal/screen"
	"github.com/abhisek/flashcards/internal/session"
)

// runApp opens the store, builds dependencies, and launches the TUI.
// The terminal belongs to the UI, so logs go to cfg.Log.File.
func runApp(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()

	logFile, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	e, err := openEnv(cfg, logFile)
	if err != nil {
		logFile.Close()
		return err
	}
	e.addCloser(logFile)
	defer e.Close()

	grader, pinger, err := e.grader(ctx)
	if err != nil {
		return err
	}
	lib, err := e.library(ctx)
	if err != nil {
		return err
	}

	svc := &screen.Services{
		Session: session.NewController(ctx, grader, e.records, e.logger),
		Library: lib,
		Grader:  grader,
		Logger:  e.logger,
	}
	e.logger.Info("starting", "version", version, "decks", lib.Len(), "resume", svc.Session.Active())
	return app.Run(svc, pinger)
}
