package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ListCmd returns the list command.
func ListCmd() *cobra.Command {
	var snapPath string

	cmd := &cobra.Command{
		Use:   "list [component [feature]]",
		Short: "List components, features and entities",
		Long: `List the entity metadata as a tree of components, features and entities.

Examples:
  layergen list                    # every component
  layergen list Billing            # features and entities of a component
  layergen list Billing Invoices   # entities of a feature`,
		Args: cobra.MaximumNArgs(2),
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

			components := idx.Components()
			if len(args) > 0 {
				components = []string{args[0]}
			}
			var (
				w        = cmd.OutOrStdout()
				compC    = color.New(color.FgHiBlue, color.Bold)
				featureC = color.New(color.FgCyan)
			)
			for _, c := range components {
				compC.Fprintln(w, c)
				features := idx.Features(c)
				if len(args) > 1 {
					features = []string{args[1]}
				}
				for _, f := range features {
					featureC.Fprintf(w, "  %s\n", f)
					for _, name := range idx.Entities(c, f) {
						ent, _ := idx.TryGet(c, f, name)
						fmt.Fprintf(w, "    %s (%s %s)\n", name, ent.Structure, ent.QualifiedTable())
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&snapPath, "snapshot", "", "read metadata from a snapshot file instead of the database")
	return cmd
}
