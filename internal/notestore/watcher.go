package notestore

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called after a watcher-driven reload for each note whose
// entry changed. kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, id string)

// Watch starts an fsnotify watcher on the store directory and processes file
// change events until ctx is cancelled. Changes made through this Store are
// already reflected in its snapshot and produce no callbacks; the watcher
// exists to pick up out-of-band edits by other processes.
//
// Reloads are debounced: a burst of events (a note write followed by the
// index rewrite) collapses into one reload.
func (s *Store) Watch(ctx context.Context, dir string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", dir))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			s.reloadAndDiff(logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			scheduleReload()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reloadAndDiff re-reads the index and reports per-id differences against
// the previous snapshot.
func (s *Store) reloadAndDiff(logger *slog.Logger, cb EventCallback) {
	before := s.Entries()

	if err := s.Reload(); err != nil {
		logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
		return
	}
	after := s.Entries()

	for id, e := range after {
		prev, ok := before[id]
		switch {
		case !ok:
			logger.Debug("watcher: note created", slog.String("id", id))
			if cb != nil {
				cb("created", id)
			}
		case !prev.UpdatedAt.Equal(e.UpdatedAt):
			logger.Debug("watcher: note updated", slog.String("id", id))
			if cb != nil {
				cb("updated", id)
			}
		}
	}
	for id := range before {
		if _, ok := after[id]; !ok {
			logger.Debug("watcher: note deleted", slog.String("id", id))
			if cb != nil {
				cb("deleted", id)
			}
		}
	}
}
