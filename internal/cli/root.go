package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/farkas/internal/engine"
)

// RootOptions holds global flags for all commands.
//
// Values are resolved by viper after flag parsing: an explicit flag wins
// over FARKAS_* environment variables, which win over the config file.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DB      string // certificate log path, empty for no log
	Workers int
	Config  string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// EnvPrefix is the prefix of environment variables read by the CLI.
const EnvPrefix = "FARKAS"

// NewRootCommand creates the root command for the farkas CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "farkas",
		Short: "farkas - Farkas certificate checker",
		Long: `Check arithmetic refutation certificates.

Extracts Farkas multipliers from "farkas" and "assign-bounds" proof steps,
sums the weighted inequalities and reports whether the sum is a constant
contradiction. Certificates are CUE files; checked runs can be logged to
SQLite and inspected later.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cmd, opts)
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.DB, "db", "", "SQLite certificate log")
	flags.IntVar(&opts.Workers, "workers", engine.DefaultWorkers, "steps checked in parallel")
	flags.StringVar(&opts.Config, "config", "", "config file (default ./farkas.yaml)")

	// Add subcommands
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewCoeffsCommand(opts))
	cmd.AddCommand(NewSumCommand(opts))
	cmd.AddCommand(NewIdivCommand(opts))
	cmd.AddCommand(NewSimplifyCommand(opts))
	cmd.AddCommand(NewLogCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// loadConfig resolves the global options through viper and validates them.
func loadConfig(v *viper.Viper, cmd *cobra.Command, opts *RootOptions) error {
	for _, name := range []string{"verbose", "format", "db", "workers"} {
		if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.Config != "" {
		v.SetConfigFile(opts.Config)
	} else {
		v.SetConfigName("farkas")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default config is fine; a missing explicit one is not.
		if opts.Config != "" || !errors.As(err, &notFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("reading config: %v", err))
		}
	}

	opts.Verbose = v.GetBool("verbose")
	opts.Format = v.GetString("format")
	opts.DB = v.GetString("db")
	opts.Workers = v.GetInt("workers")

	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}
	if opts.Workers < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid workers %d: must be at least 1", opts.Workers))
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
