package cli

import (
	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show <id>",
		Short:         "Show one card",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runShow(opts *RootOptions, arg string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	id, err := parseID(arg)
	if err != nil {
		return formatter.Fail("show card", err)
	}

	a, err := openApp(opts, cmd)
	if err != nil {
		return formatter.Fail("open registry", err)
	}
	defer a.Close()

	ctx := cmd.Context()
	c, err := a.store.Get(ctx, id)
	if err != nil {
		return formatter.Fail("show card", err)
	}

	selected, ok, err := a.selector.GetSelected(ctx)
	if err != nil {
		return formatter.Fail("read selection", err)
	}

	return formatter.Success(newCardView(c, ok && selected == c.ID))
}
