package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/layergen/compiler/gen"
)

// WatchCmd returns the watch command.
func WatchCmd() *cobra.Command {
	var (
		snapPath string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever a template changes",
		Long: `Generate once, then watch the template folder and regenerate after
every burst of .tmpl changes. Stop with Ctrl-C.

Examples:
  layergen watch
  layergen watch --snapshot meta.snap --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.log.Sync() //nolint:errcheck
			if cmd.Flags().Changed("debounce") {
				e.cfg.Watch.Debounce = debounce
			}
			kinds, err := e.cfg.SelectedKinds()
			if err != nil {
				return err
			}

			sess, err := e.open(cmd.Context(), snapPath)
			if err != nil {
				return err
			}
			defer sess.Close() //nolint:errcheck

			w, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer w.Close()
			if err := w.Add(e.cfg.Templates); err != nil {
				return fmt.Errorf("watch %s: %w", e.cfg.Templates, err)
			}

			templates := gen.NewTemplateDir(e.cfg.Templates, gen.WithStrict(e.cfg.Strict))
			out := gen.NewDirWriter(e.cfg.Output)
			regenerate := func(ctx context.Context) {
				templates.Invalidate()
				rep, err := sess.Generate(ctx, templates, out, kinds)
				if rep == nil {
					e.log.Error("generation failed", zap.Error(err))
					return
				}
				printReport(cmd.OutOrStdout(), rep, out)
			}

			regenerate(cmd.Context())
			color.New(color.Faint).Fprintf(cmd.OutOrStdout(), "watching %s\n", e.cfg.Templates)
			return watch(cmd.Context(), w, e.cfg.Watch.Debounce, e.log, regenerate)
		},
	}
	cmd.Flags().StringVar(&snapPath, "snapshot", "", "read metadata from a snapshot file instead of the database")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before regenerating (default from configuration)")
	return cmd
}

// watch calls regenerate once per burst of template changes until ctx is
// done. A burst ends after debounce without further events.
func watch(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, log *zap.Logger, regenerate func(context.Context)) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			log.Debug("template changed", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-timer.C:
			regenerate(ctx)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if filepath.Ext(ev.Name) != ".tmpl" {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
