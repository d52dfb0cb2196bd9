package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/layergen/compiler/gen"
)

// errFailures is returned when a run completed with failed units.
var errFailures = errors.New("generation finished with failures")

// failuresError reports the failed units of a run. It unwraps to
// errFailures and to the joined unit failures.
type failuresError struct {
	failed, total int
	cause         error
}

func (e *failuresError) Error() string {
	return fmt.Sprintf("%v: %d of %d units failed", errFailures, e.failed, e.total)
}

func (e *failuresError) Unwrap() []error { return []error{errFailures, e.cause} }

// GenerateCmd returns the generate command.
func GenerateCmd() *cobra.Command {
	var (
		kinds     []string
		structure string
		cont      bool
		snapPath  string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render the artifacts of all entities",
		Long: `Render the artifacts of all entities in generation order: policies,
queries, commands, entities and their configuration, the data context,
readers, writers, adapters, services, controllers and clients.

Examples:
  layergen generate                          # all kinds, all entities
  layergen generate --kind reader --kind writer
  layergen generate --structure view         # view-backed entities only
  layergen generate --snapshot meta.snap     # offline, from a snapshot
  layergen generate --dry-run                # render without writing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.log.Sync() //nolint:errcheck

			if cmd.Flags().Changed("continue") {
				e.cfg.ContinueOnError = cont
			}
			if len(kinds) > 0 {
				e.cfg.Kinds = kinds
			}
			selected, err := e.cfg.SelectedKinds()
			if err != nil {
				return err
			}
			filter, err := parseStructures(structure)
			if err != nil {
				return err
			}

			sess, err := e.open(cmd.Context(), snapPath)
			if err != nil {
				return err
			}
			defer sess.Close() //nolint:errcheck

			var out gen.Output = gen.NewDirWriter(e.cfg.Output)
			if dryRun {
				out = gen.NewMemWriter()
			}
			templates := gen.NewTemplateDir(e.cfg.Templates, gen.WithStrict(e.cfg.Strict))
			rep, err := sess.Generate(cmd.Context(), templates, out, selected, filter...)
			if rep == nil {
				return err
			}
			printReport(cmd.OutOrStdout(), rep, out)
			if err != nil {
				return &failuresError{failed: len(rep.Failures), total: len(rep.Failures) + len(rep.Files), cause: err}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil, "artifact kinds to generate (repeatable)")
	cmd.Flags().StringVar(&structure, "structure", "", "comma-separated storage structures to include (table, view, procedure, projection)")
	cmd.Flags().BoolVar(&cont, "continue", false, "keep generating other entities after a failure")
	cmd.Flags().StringVar(&snapPath, "snapshot", "", "read metadata from a snapshot file instead of the database")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render without writing files")
	return cmd
}

func printReport(w io.Writer, rep *gen.Report, out gen.Output) {
	var (
		ok   = color.New(color.FgGreen)
		fail = color.New(color.FgRed)
		dim  = color.New(color.Faint)
	)
	for _, f := range rep.Failures {
		fail.Fprint(w, "✗ ")
		fmt.Fprintln(w, f.Error())
	}
	ok.Fprintf(w, "✓ %d files", len(rep.Files))
	if dw, isDir := out.(*gen.DirWriter); isDir {
		m := dw.Metrics()
		dim.Fprintf(w, " (%d bytes in %s, %s)", m.TotalBytes, time.Duration(m.WriteTime).Round(time.Microsecond), dw.Root())
	}
	fmt.Fprintln(w)
	if len(rep.Failures) > 0 {
		fail.Fprintf(w, "✗ %d failures\n", len(rep.Failures))
	}
	if rep.Skipped > 0 {
		color.New(color.FgYellow).Fprintf(w, "⚠ %d entities skipped\n", rep.Skipped)
	}
	dim.Fprintf(w, "run %s\n", rep.RunID)
}
