package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces the bursts of events editors emit for one save.
const watchDebounce = 100 * time.Millisecond

func newWatchCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Check a file of expressions and re-check it on every change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.resolve(cmd)
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			check := func() {
				if _, err := runCheck(cmd, s, path); err != nil {
					FormatError(cmd.ErrOrStderr(), err, s.useColor)
				}
			}
			check()
			return watchFile(cmd.Context(), path, check, s.logger)
		},
	}
}

// watchFile calls onChange after path is written or re-created, until ctx is
// done. The parent directory is watched so that editors which replace the
// file on save keep triggering.
func watchFile(ctx context.Context, path string, onChange func(), logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	logger.Debug("watching", "file", path)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Debug("stopping watcher", "file", path)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logger.Debug("file changed", "file", path, "op", event.Op.String())
				debounce = time.After(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "file", path, "error", err)

		case <-debounce:
			debounce = nil
			onChange()
		}
	}
}
