package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/roach88/tapcard/internal/broadcast"
	"github.com/roach88/tapcard/internal/card"
	"github.com/roach88/tapcard/internal/config"
	"github.com/roach88/tapcard/internal/prefs"
	"github.com/roach88/tapcard/internal/selection"
	"github.com/roach88/tapcard/internal/store"
)

// app is the set of components one command invocation works with.
type app struct {
	logger   *slog.Logger
	store    *store.Store
	prefs    *prefs.File
	selector *selection.Selector

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// newLogger builds the stderr text logger. --verbose forces debug.
func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	level, err := config.ParseLevel(opts.config.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(opts.errWriter(cmd), &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// openApp opens the registry and the selection cell described by opts.
func openApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	logger := newLogger(opts, cmd)
	cfg := opts.config
	if opts.configFile != "" {
		logger.Debug("configuration loaded", "file", opts.configFile)
	}

	logger.Debug("opening database", "path", cfg.Database)
	if err := ensureDir(cfg.Database); err != nil {
		return nil, card.StorageFault("open database", err)
	}
	s, err := store.Open(cfg.Database)
	if err != nil {
		return nil, card.StorageFault("open database", err)
	}

	p, err := prefs.Open(cfg.Prefs)
	if err != nil {
		if closeErr := s.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
		return nil, card.StorageFault("open preferences", err)
	}

	logger.Debug("preferences ready", "path", p.Path())

	var bc selection.Broadcaster = broadcast.Log{Logger: logger}
	if len(cfg.Broadcast.Command) > 0 {
		c, err := broadcast.NewCommand(cfg.Broadcast.Command, cfg.Broadcast.Timeout, logger)
		if err != nil {
			logger.Warn("broadcast command ignored", "error", err)
		} else {
			bc = c
		}
	}

	a := &app{
		logger:   logger,
		store:    s,
		prefs:    p,
		selector: selection.NewSelector(p, s, bc, logger),
	}
	a.watch(cmd.Context())
	return a, nil
}

// watch logs registry changes made during this invocation.
func (a *app) watch(parent context.Context) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	a.cancel = cancel
	events := a.store.Subscribe(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for ev := range events {
			a.logger.Debug("registry changed",
				"event", ev.Type, "card_id", ev.Payload.ID, "identifier", ev.Payload.Identifier)
		}
	}()
}

// Close releases everything openApp acquired.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
	a.cancel()
	a.wg.Wait()
}

// ensureDir creates the parent directory of a database file.
func ensureDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o750)
}

// parseID parses a card id argument.
func parseID(s string) (card.ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &card.Error{Code: card.CodeValidation, Op: "parse card id", Err: fmt.Errorf("%q is not a number", s)}
	}
	return card.ID(n), nil
}
