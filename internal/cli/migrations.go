package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// MigrationsCmd returns the migrations command.
func MigrationsCmd() *cobra.Command {
	var snapPath string

	cmd := &cobra.Command{
		Use:   "migrations <component> <feature>",
		Short: "Suggest storage changes for a feature",
		Long: `Suggest the storage changes that align the tables of a feature with the
naming conventions: tables belong in the schema named after the lower-cased
component, and declared renames replace the current table name.

Examples:
  layergen migrations Billing Invoices`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.log.Sync() //nolint:errcheck

			sess, err := e.open(cmd.Context(), snapPath)
			if err != nil {
				return err
			}
			defer sess.Close() //nolint:errcheck

			idx, err := sess.Index(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			suggestions := idx.MigrationSuggestions(args[0], args[1])
			if len(suggestions) == 0 {
				color.New(color.FgGreen).Fprintf(w, "✓ %s/%s needs no storage changes\n", args[0], args[1])
				return nil
			}
			for _, s := range suggestions {
				color.New(color.FgYellow).Fprint(w, "→ ")
				fmt.Fprintln(w, s)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&snapPath, "snapshot", "", "read metadata from a snapshot file instead of the database")
	return cmd
}
