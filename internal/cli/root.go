package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/tapcard/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	Database   string // overrides the configured database path

	config     config.Config
	configFile string    // file actually loaded, "" if none
	stderr     io.Writer // shared by the formatter and the logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tapcard CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tapcard",
		Short: "tapcard - proximity card registry",
		Long: `Keep a registry of enrolled proximity cards and choose which one the
emulated tag presents.

Cards are enrolled by reading their identifier from a reader, stored in a
local SQLite database, and activated with "tapcard select".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				opts.Format = "text"
				_ = opts.formatter(cmd).Error(ErrCodeValidation, msg, nil)
				return NewExitError(ExitCommandError, msg)
			}

			cfg, used, err := config.Load(opts.ConfigFile)
			if err != nil {
				_ = opts.formatter(cmd).Error(ErrCodeValidation, err.Error(), nil)
				return WrapExitError(ExitCommandError, ErrCodeValidation+": load configuration", err)
			}
			if opts.Database != "" {
				cfg.Database = opts.Database
			}
			opts.config = cfg
			opts.configFile = used
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file (default: ./.tapcard/config.yaml or ~/.config/tapcard/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "card database path (overrides config)")

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewEnrollCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewSelectCommand(opts))
	cmd.AddCommand(NewActiveCommand(opts))

	return cmd
}

// SetVersion sets the version reported by --version.
func SetVersion(cmd *cobra.Command, v string) {
	cmd.Version = v
}

// formatter builds the OutputFormatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: o.errWriter(cmd), // Diagnostics go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// errWriter returns cmd's stderr wrapped so concurrent writers do not
// interleave.
func (o *RootOptions) errWriter(cmd *cobra.Command) io.Writer {
	if o.stderr == nil {
		o.stderr = &lockedWriter{w: cmd.ErrOrStderr()}
	}
	return o.stderr
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
