package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/itsmostafa/codeslots/internal/config"
	"github.com/itsmostafa/codeslots/internal/logging"
	"github.com/itsmostafa/codeslots/internal/runner"
	"github.com/itsmostafa/codeslots/internal/slots"
	"github.com/itsmostafa/codeslots/internal/store"
	"github.com/itsmostafa/codeslots/internal/version"
)

// app bundles the components every command needs
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	store   *store.File
	manager *slots.Manager
	engine  runner.Engine
}

// openApp loads configuration and wires logger, store, slot manager and
// engine. When mirror is non-nil and the level is DEBUG, log records are
// also written there as text.
func openApp(mirror io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	opts := logging.Options{
		Enabled:    cfg.Logging.Enabled,
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}
	if mirror != nil && strings.EqualFold(cfg.Logging.Level, logging.LevelDebug) {
		opts.Mirror = mirror
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, err
	}
	logger.Logger = logger.With("version", version.Version)

	engine, err := runner.New(runner.Config{
		Language:       runner.Language(cfg.Runner.Language),
		Timeout:        cfg.Runner.Timeout(),
		MaxSteps:       cfg.Runner.MaxSteps,
		MaxAllocs:      cfg.Runner.MaxAllocs,
		MaxOutputChars: cfg.Runner.MaxOutputChars,
	}, logger.Logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	st := store.New(cfg.Store.Path, logger.Logger)
	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		manager: slots.New(st),
		engine:  engine,
	}, nil
}

// Close flushes and closes the log file
func (a *app) Close() error {
	return a.logger.Close()
}

// slotArg parses a slot argument; the CLI rejects what the editor ignores
func slotArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return slots.MinSlot, nil
	}
	return slots.ParseSlot(args[i])
}
