package auth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchTokenFile calls onChange whenever the token file at path is created or
// rewritten, until ctx is cancelled. The parent directory is watched rather
// than the file so that atomic renames and first-time creation are seen.
func WatchTokenFile(ctx context.Context, path string, logger *zap.Logger, onChange func()) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerms); err != nil {
		return fmt.Errorf("failed to create token directory %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create token watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	logger.Debug("Watching token file", zap.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				logger.Debug("Token file changed", zap.String("path", target), zap.String("op", event.Op.String()))
				onChange()
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Token watcher error", zap.Error(watchErr))
		}
	}
}
