package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/toyz/rtgen/internal/cli"
	"github.com/toyz/rtgen/internal/utils"
)

// options holds the flag values shared by every subcommand
type options struct {
	configPath string
	metadata   []string
	output     string
	roots      []string
	dryRun     bool
	verbose    bool
	quiet      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "rtgen",
		Short: "WinRT metadata to Rust binding generator",
		Long: "rtgen reads WinRT metadata snapshots (.rtmd) and generates a single Rust file of\n" +
			"interface, struct, enum, class and parametric instance definitions.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringSliceVarP(&opts.metadata, "metadata", "m", nil, "Metadata snapshot files or directories, 'dir/...' scans recursively")
	rootCmd.PersistentFlags().StringSliceVar(&opts.roots, "root", nil, "Root assemblies to generate (defaults to Windows.Foundation and Windows.Devices)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output and detailed error reporting")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Only show errors and the final summary")

	rootCmd.AddCommand(newGenerateCmd(opts), newCheckCmd(opts))
	return rootCmd
}

// resolveConfig loads the configuration file, if any, and applies flag and argument overrides
func resolveConfig(cmd *cobra.Command, opts *options, args []string) (cli.Config, error) {
	cfg := cli.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := cli.LoadConfig(opts.configPath)
		if err != nil {
			return cli.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("metadata") {
		cfg.Metadata = opts.metadata
	}
	if len(args) > 0 {
		cfg.Metadata = append(cfg.Metadata, args...)
	}
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if flags.Changed("root") {
		cfg.Roots = opts.roots
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed("quiet") {
		cfg.Quiet = opts.quiet
	}
	return cfg, nil
}

// newDiagnostics picks the diagnostic level from the configuration. Output meant for a
// terminal gets colors, anything else is written plain.
func newDiagnostics(cfg cli.Config, w io.Writer) *utils.DiagnosticSystem {
	if w == os.Stdout {
		switch {
		case cfg.Quiet:
			return utils.NewQuietDiagnostics()
		case cfg.Verbose:
			return utils.NewVerboseDiagnostics()
		}
		return utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	return utils.NewBufferedDiagnostics(diagnosticLevel(cfg), w)
}

func diagnosticLevel(cfg cli.Config) utils.DiagnosticLevel {
	switch {
	case cfg.Quiet:
		return utils.DiagnosticError
	case cfg.Verbose:
		return utils.DiagnosticVerbose
	}
	return utils.DiagnosticInfo
}

// report prints err through the detailed reporter and hands it back to cobra
func report(cmd *cobra.Command, verbose bool, err error) error {
	cli.NewDiagnosticReporterTo(verbose, cmd.ErrOrStderr()).ReportError(err)
	return err
}
