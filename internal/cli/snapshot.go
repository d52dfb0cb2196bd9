package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/layergen"
	"github.com/syssam/layergen/dialect/snapshot"
)

// SnapshotCmd returns the snapshot command.
func SnapshotCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "snapshot <file>",
		Short: "Capture entity metadata and columns to a file",
		Long: `Capture the entity metadata and the columns of every table they are
stored in, so that generate --snapshot can run without a database.

Examples:
  layergen snapshot meta.snap
  layergen generate --snapshot meta.snap`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.log.Sync() //nolint:errcheck

			sess, err := layergen.Open(cmd.Context(), e.cfg, e.log)
			if err != nil {
				return err
			}
			defer sess.Close() //nolint:errcheck

			var opts []snapshot.Option
			if workers > 0 {
				opts = append(opts, snapshot.WithWorkers(workers))
			}
			snap, err := sess.Capture(cmd.Context(), opts...)
			if err != nil {
				return err
			}
			if err := snap.SaveFile(args[0]); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %d entities, %d tables", len(snap.Entities), len(snap.Tables))
			fmt.Fprintf(cmd.OutOrStdout(), " → %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent column reads (default from configuration)")
	return cmd
}
