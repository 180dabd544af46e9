package cli

import (
	"github.com/spf13/cobra"
)

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select <id>",
		Short: "Make a card the active one",
		Long: `Make a card active and apply its identifier to the emulated tag.

The identifier is handed to the configured broadcast command. If that
command fails the selection still stands and a warning is logged.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runSelect(opts *RootOptions, arg string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	id, err := parseID(arg)
	if err != nil {
		return formatter.Fail("select card", err)
	}

	a, err := openApp(opts, cmd)
	if err != nil {
		return formatter.Fail("open registry", err)
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.selector.Select(ctx, id); err != nil {
		return formatter.Fail("select card", err)
	}

	c, err := a.store.Get(ctx, id)
	if err != nil {
		return formatter.Fail("select card", err)
	}
	return formatter.Success(newCardView(c, true))
}

// NewActiveCommand creates the active command.
func NewActiveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "active",
		Short:         "Show the active card",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActive(rootOpts, cmd)
		},
	}

	return cmd
}

func runActive(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	a, err := openApp(opts, cmd)
	if err != nil {
		return formatter.Fail("open registry", err)
	}
	defer a.Close()

	c, ok, err := a.selector.Selected(cmd.Context())
	if err != nil {
		return formatter.Fail("read selection", err)
	}

	var view activeView
	if ok {
		v := newCardView(c, true)
		view.Active = &v
	}
	return formatter.Success(view)
}
