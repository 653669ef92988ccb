package bookmark

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DebounceTime coalesces bursts of writes to the bookmark file.
var DebounceTime = 200 * time.Millisecond

// Watch reloads the store whenever the bookmark file is written by another
// process (or an editor) and calls onChange after each successful reload.
// The parent directory is watched because saves replace the file by rename.
// Watch returns once the watcher is installed; it stops when ctx is done.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	if s.path == "" {
		return fmt.Errorf("bookmark store has no backing file")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bookmark dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	name := filepath.Base(s.path)

	go func() {
		defer watcher.Close()
		var debounceTimer *time.Timer

		for {
			select {
			case <-ctx.Done():
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(DebounceTime, func() {
					if err := s.Reload(); err != nil {
						log.Warn().Err(err).Str("path", s.path).Msg("bookmark reload failed")
						return
					}
					if onChange != nil {
						onChange()
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("bookmark watcher error")
			}
		}
	}()

	return nil
}
