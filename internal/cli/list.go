package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/tapcard/internal/selection"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List enrolled cards",
		Long: `List every enrolled card in enrollment order.

The active card is shown on its own; all other cards are listed as available.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}

	return cmd
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	a, err := openApp(opts, cmd)
	if err != nil {
		return formatter.Fail("open registry", err)
	}
	defer a.Close()

	ctx := cmd.Context()
	cards, err := a.store.ListAll(ctx)
	if err != nil {
		return formatter.Fail("list cards", err)
	}

	selected, ok, err := a.selector.GetSelected(ctx)
	if err != nil {
		return formatter.Fail("read selection", err)
	}

	active, available := selection.Group(cards, selected, ok)
	return formatter.Success(newListView(active, available))
}
