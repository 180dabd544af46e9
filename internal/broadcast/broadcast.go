// Package broadcast applies the selected card's identifier to whatever
// programs the emulated tag.
package broadcast

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/roach88/tapcard/internal/card"
)

// DefaultTimeout bounds a Command run when none is configured.
const DefaultTimeout = 5 * time.Second

// Log only records the identifier. It is used when no command is configured.
type Log struct {
	Logger *slog.Logger
}

// ApplyIdentifier implements selection.Broadcaster.
func (l Log) ApplyIdentifier(ctx context.Context, identifier card.Identifier) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "apply identifier", "identifier", identifier)
	return nil
}

// Command runs an external program with the upper-case hex identifier
// appended as its last argument.
type Command struct {
	Args    []string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewCommand validates args and returns a Command.
func NewCommand(args []string, timeout time.Duration, logger *slog.Logger) (*Command, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return nil, errors.New("broadcast command: no program given")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Command{Args: append([]string(nil), args...), Timeout: timeout, Logger: logger}, nil
}

// ApplyIdentifier implements selection.Broadcaster.
func (c *Command) ApplyIdentifier(ctx context.Context, identifier card.Identifier) error {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	argv := append(append([]string(nil), c.Args[1:]...), identifier.String())
	cmd := exec.CommandContext(ctx, c.Args[0], argv...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// Children holding stderr open must not outlive the timeout.
	cmd.WaitDelay = 500 * time.Millisecond

	start := time.Now()
	err := cmd.Run()
	c.Logger.Debug("broadcast command finished",
		"program", c.Args[0], "identifier", identifier, "duration", time.Since(start), "error", err)

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("broadcast command %s: timed out after %s", c.Args[0], c.Timeout)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("broadcast command %s: %w: %s", c.Args[0], err, msg)
		}
		return fmt.Errorf("broadcast command %s: %w", c.Args[0], err)
	}
	return nil
}
