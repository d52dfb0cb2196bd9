package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd returns the layergen command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "layergen",
		Short: "Generate layered application code from entity metadata",
		Long: `layergen reads entity metadata and live column definitions from a
database and renders the artifacts of every application layer (policies,
queries, commands, entities, readers, writers, adapters, services,
controllers and clients) from placeholder templates.

Configuration is read from layergen.yaml; LAYERGEN_* environment variables
override it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "configuration file (default layergen.yaml)")

	root.AddCommand(GenerateCmd())
	root.AddCommand(SnapshotCmd())
	root.AddCommand(ListCmd())
	root.AddCommand(MigrationsCmd())
	root.AddCommand(WatchCmd())
	root.AddCommand(ConfigCmd())
	return root
}
