package clicmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sdlcstack/sdlc/internal/cliconfig"
	"github.com/sdlcstack/sdlc/internal/paths"
	"github.com/sdlcstack/sdlc/internal/prepare"
	"github.com/sdlcstack/sdlc/internal/runlog"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var logLevel, logFormat string

	cmd := &cobra.Command{
		Use:   "watch [milestone-slug]",
		Short: "Watch feature files and re-run prepare on every change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			cfg, err := cliconfig.Load("")
			if err != nil {
				return fmt.Errorf("loading cli config: %w", err)
			}

			logger, runID := runlog.New(logLevel, logFormat)
			logger.Info("watch starting", "root", r)

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}
			defer watcher.Close()

			dir := paths.FeaturesDirPath(r)
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watching %s: %w", dir, err)
			}
			// fsnotify is not recursive: watch each feature directory too,
			// so manifest writes inside it are seen.
			if entries, err := os.ReadDir(dir); err == nil {
				for _, e := range entries {
					if e.IsDir() {
						_ = watcher.Add(filepath.Join(dir, e.Name()))
					}
				}
			}

			debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
			if debounce <= 0 {
				debounce = 300 * time.Millisecond
			}

			ctx, cancel := runlog.SignalContext()
			defer cancel()

			var mu sync.Mutex
			pending := map[string]time.Time{}

			rerun := func() {
				var milestoneSlug string
				if len(args) == 1 {
					milestoneSlug = args[0]
				}
				if milestoneSlug == "" {
					phase, err := prepare.CurrentProjectPhase(r)
					if err != nil {
						logger.Error("project phase failed", "run_id", runID, "error", err)
						return
					}
					logger.Info("project phase", "run_id", runID, "phase", phase.Kind, "milestone", phase.Milestone)
					return
				}
				result, err := prepare.Prepare(r, milestoneSlug)
				if err != nil {
					logger.Error("prepare failed", "run_id", runID, "milestone", milestoneSlug, "error", err)
					return
				}
				logger.Info("prepare complete", "run_id", runID, "milestone", milestoneSlug, "waves", len(result.Waves), "gaps", len(result.Gaps))
			}

			rerun()

			ticker := time.NewTicker(debounce)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					logger.Info("watch stopping")
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
						continue
					}
					if event.Op&fsnotify.Create != 0 {
						if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
							_ = watcher.Add(event.Name)
						}
					}
					mu.Lock()
					pending[event.Name] = time.Now()
					mu.Unlock()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Error("watch error", "error", err)
				case <-ticker.C:
					mu.Lock()
					due := false
					now := time.Now()
					for name, t := range pending {
						if now.Sub(t) >= debounce {
							due = true
							delete(pending, name)
						}
					}
					mu.Unlock()
					if due {
						rerun()
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
	return cmd
}
