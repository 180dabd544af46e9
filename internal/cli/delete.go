package cli

import (
	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Long: `Permanently remove a card from the registry.

Deleting an id that does not exist succeeds. If the card was active the
selection is cleared.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDelete(opts *RootOptions, arg string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	id, err := parseID(arg)
	if err != nil {
		return formatter.Fail("delete card", err)
	}

	a, err := openApp(opts, cmd)
	if err != nil {
		return formatter.Fail("open registry", err)
	}
	defer a.Close()

	selected, wasSelected, err := a.prefs.ReadSelectedID()
	if err != nil {
		return formatter.Fail("read selection", err)
	}

	if err := a.store.Delete(cmd.Context(), id); err != nil {
		return formatter.Fail("delete card", err)
	}

	view := deletedView{ID: int64(id)}
	if wasSelected && selected == id {
		if err := a.selector.Clear(); err != nil {
			return formatter.Fail("clear selection", err)
		}
		view.SelectionCleared = true
	}
	return formatter.Success(view)
}
