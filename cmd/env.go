package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/abhisek/flashcards/internal/config"
	"github.com/abhisek/flashcards/internal/grading"
	"github.com/abhisek/flashcards/internal/library"
	"github.com/abhisek/flashcards/internal/llm"
	"github.com/abhisek/flashcards/internal/logging"
	"github.com/abhisek/flashcards/internal/persistence"
	"github.com/abhisek/flashcards/internal/store"
)

// env holds the collaborators opened for one command run.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	records *persistence.Adapter
	closers []io.Closer
}

// openEnv opens the record store named by cfg and a logger writing to
// logOut. With cfg.Ephemeral nothing touches the disk.
func openEnv(cfg *config.Config, logOut io.Writer) (*env, error) {
	logger := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)
	e := &env{cfg: cfg, logger: logger}

	var kv store.KV
	if cfg.Ephemeral {
		kv = store.NewMemory()
	} else {
		if err := store.EnsureDir(cfg.DB); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		st, err := store.Open(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		e.closers = append(e.closers, st)
		kv = st

		if names, err := st.Names(context.Background()); err == nil {
			logger.Debug("store opened", "db", cfg.DB, "records", names)
		}
	}

	e.records = persistence.New(kv, logger)
	return e, nil
}

func (e *env) library(ctx context.Context) (*library.Library, error) {
	lib, err := library.Open(ctx, e.records)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	return lib, nil
}

// grader builds the configured grading backend. The pinger is nil when
// grading runs in-process.
func (e *env) grader(ctx context.Context) (grading.Grader, grading.Pinger, error) {
	if e.cfg.Grader == config.GraderLLM {
		provider, err := llm.NewProvider(ctx, e.cfg.LLM, e.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("llm grader: %w", err)
		}
		e.logger.Info("grading with llm provider", "provider", e.cfg.LLM.Provider, "model", provider.ModelID())
		return grading.NewLLMGrader(provider), nil, nil
	}

	client := grading.NewClient(e.cfg.API.URL,
		grading.WithTimeout(e.cfg.API.Timeout),
		grading.WithLogger(e.logger))
	e.logger.Info("grading with remote backend", "url", client.BaseURL())
	return client, client, nil
}

func (e *env) addCloser(c io.Closer) {
	e.closers = append(e.closers, c)
}

// Close releases everything opened by openEnv, most recent first.
func (e *env) Close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
