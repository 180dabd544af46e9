package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/tapcard/internal/card"
)

// EditOptions holds flags for the edit command.
type EditOptions struct {
	Name         string
	Color        string
	Texture      string
	ClearTexture bool
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename, recolor or retexture a card",
		Long: `Change the name, color or texture of an enrolled card.

Fields whose flags are not given keep their current values. The identifier
cannot be changed; enroll the card again instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "new display name")
	cmd.Flags().StringVar(&opts.Color, "color", "", "new color (palette name or #RRGGBB / #AARRGGBB)")
	cmd.Flags().StringVar(&opts.Texture, "texture", "", "file with new texture image bytes")
	cmd.Flags().BoolVar(&opts.ClearTexture, "clear-texture", false, "remove the texture")
	cmd.MarkFlagsMutuallyExclusive("texture", "clear-texture")

	return cmd
}

func runEdit(rootOpts *RootOptions, opts *EditOptions, arg string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)
	flags := cmd.Flags()

	id, err := parseID(arg)
	if err != nil {
		return formatter.Fail("edit card", err)
	}

	var name string
	if flags.Changed("name") {
		name = card.NormalizeName(opts.Name)
		if name == "" {
			return formatter.Fail("edit card", card.ErrEmptyName)
		}
	}
	var color card.Color
	if flags.Changed("color") {
		if color, err = card.ParseColor(opts.Color); err != nil {
			return formatter.Fail("edit card", err)
		}
	}
	var texture []byte
	if flags.Changed("texture") {
		if texture, err = readTexture(opts.Texture); err != nil {
			return formatter.Fail("edit card", err)
		}
	}

	a, err := openApp(rootOpts, cmd)
	if err != nil {
		return formatter.Fail("open registry", err)
	}
	defer a.Close()

	ctx := cmd.Context()
	current, err := a.store.Get(ctx, id)
	if err != nil {
		return formatter.Fail("edit card", err)
	}

	if !flags.Changed("name") {
		name = current.Name
	}
	if !flags.Changed("color") {
		color = current.Color
	}
	switch {
	case opts.ClearTexture:
		texture = nil
	case !flags.Changed("texture"):
		texture = current.Texture
	}

	if err := a.store.Update(ctx, id, name, color, texture); err != nil {
		return formatter.Fail("edit card", err)
	}

	updated, err := a.store.Get(ctx, id)
	if err != nil {
		return formatter.Fail("edit card", err)
	}
	selected, ok, err := a.selector.GetSelected(ctx)
	if err != nil {
		return formatter.Fail("read selection", err)
	}
	return formatter.Success(newCardView(updated, ok && selected == id))
}
