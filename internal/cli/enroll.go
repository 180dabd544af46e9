package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tapcard/internal/capture"
	"github.com/roach88/tapcard/internal/card"
	"github.com/roach88/tapcard/internal/reader"
)

// EnrollOptions holds flags for the enroll command.
type EnrollOptions struct {
	Name    string
	Color   string
	Texture string
	Timeout time.Duration
}

// NewEnrollCommand creates the enroll command.
func NewEnrollCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EnrollOptions{}

	cmd := &cobra.Command{
		Use:   "enroll --name <name>",
		Short: "Enroll a card from the reader",
		Long: `Capture one card identifier and add it to the registry.

Identifiers are read from stdin, one hex value per line, so a reader utility
can be piped in:

  nfc-poll-uid | tapcard enroll --name "Office Badge" --color blue

Only the first identifier is kept. The name is checked before listening starts.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnroll(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "display name (required)")
	cmd.Flags().StringVar(&opts.Color, "color", "blue", "palette name or #RRGGBB / #AARRGGBB")
	cmd.Flags().StringVar(&opts.Texture, "texture", "", "file with texture image bytes")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "give up if no card is read in time (0 waits forever)")

	return cmd
}

func runEnroll(rootOpts *RootOptions, opts *EnrollOptions, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	name := card.NormalizeName(opts.Name)
	if name == "" {
		return formatter.Fail("enroll", card.ErrEmptyName)
	}
	color, err := card.ParseColor(opts.Color)
	if err != nil {
		return formatter.Fail("enroll", err)
	}
	texture, err := readTexture(opts.Texture)
	if err != nil {
		return formatter.Fail("enroll", err)
	}

	a, err := openApp(rootOpts, cmd)
	if err != nil {
		return formatter.Fail("open registry", err)
	}
	defer a.Close()

	ctx := cmd.Context()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	lines := reader.NewLines(cmd.InOrStdin(), a.logger)
	session := capture.New(lines, a.store, capture.WithLogger(a.logger))
	if err := session.Start(); err != nil {
		return formatter.Fail("enroll", err)
	}

	formatter.Progress("Waiting for a card identifier (one hex value per line)...")
	ident, err := waitForIdentifier(ctx, session, lines)
	if err != nil {
		_ = session.Abandon()
		return formatter.Fail("enroll", err)
	}
	formatter.Progress("Captured %s", ident)

	id, err := session.Commit(ctx, name, color, texture)
	if err != nil {
		_ = session.Abandon()
		return formatter.Fail("enroll", err)
	}

	c, err := a.store.Get(ctx, id)
	if err != nil {
		return formatter.Fail("enroll", err)
	}
	return formatter.Success(newCardView(c, false))
}

// waitForIdentifier blocks until the session captures an identifier, the
// input ends or ctx is done.
func waitForIdentifier(ctx context.Context, s *capture.Session, lines *reader.Lines) (card.Identifier, error) {
	select {
	case <-s.Captured():
	case <-lines.Done():
		// Delivery happens before Done closes, so a capture from the last
		// line is already visible here.
		select {
		case <-s.Captured():
		default:
			if err := lines.Err(); err != nil {
				return nil, fmt.Errorf("%w: reader failed: %v", capture.ErrInvalidState, err)
			}
			return nil, fmt.Errorf("%w: input ended before a card was read", capture.ErrInvalidState)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: no card read: %v", capture.ErrInvalidState, ctx.Err())
	}

	ident, ok := s.Identifier()
	if !ok {
		return nil, fmt.Errorf("%w: identifier discarded", capture.ErrInvalidState)
	}
	return ident, nil
}

// readTexture loads texture bytes from path. An empty path means no texture.
func readTexture(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &card.Error{Code: card.CodeValidation, Op: "read texture", Err: err}
	}
	return data, nil
}
