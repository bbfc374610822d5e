package main

import (
	"github.com/spf13/cobra"
	"github.com/toyz/rtgen/internal/cli"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [metadata-paths...]",
		Short: "Load and catalog metadata without generating anything",
		Long: "check runs the load, catalog and collect steps and reports unknown references,\n" +
			"unsupported method shapes and duplicate assemblies.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts, args)
			if err != nil {
				return report(cmd, opts.verbose, err)
			}

			diagnostics := newDiagnostics(cfg, cmd.OutOrStdout())
			generator := cli.NewGenerator(diagnostics)
			if err := generator.Check(cfg); err != nil {
				return report(cmd, cfg.Verbose, err)
			}

			summary := generator.GetSummary()
			diagnostics.Success("%d types cataloged from %d snapshots", summary.TypesCataloged, summary.SnapshotsLoaded)
			return nil
		},
	}
}
