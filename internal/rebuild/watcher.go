// Package rebuild watches a syncdb.Store for changes and rebuilds an
// align.Engine's model whenever it does: a periodic change-detection loop
// keyed on a monotonic version counter rather than a timestamp comparison.
package rebuild

import (
	"context"
	"log/slog"
	"time"

	"github.com/star/scopealign/internal/align"
)

// versionedStore is the subset of *syncdb.Store the watcher needs; kept as
// an interface so tests can supply a fake without an import cycle back into
// syncdb.
type versionedStore interface {
	align.Database
	Version() uint64
}

// Watcher rebuilds an align.Engine whenever the sync-point database it
// watches changes version.
type Watcher struct {
	engine   *align.Engine
	store    versionedStore
	interval time.Duration
	logger   *slog.Logger

	lastVersion uint64
}

// NewWatcher returns a Watcher that polls store every interval.
func NewWatcher(engine *align.Engine, store versionedStore, interval time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		engine:   engine,
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// TriggerRebuild runs Initialise immediately, regardless of whether the
// store's version has changed since the last rebuild. Handlers that just
// wrote a new sync point call this so the engine reflects it without
// waiting for the next poll tick.
func (w *Watcher) TriggerRebuild() error {
	err := w.engine.Initialise(w.store)
	w.lastVersion = w.store.Version()
	if err != nil {
		w.logger.Warn("rebuild failed", "error", err)
		return err
	}
	w.logger.Info("rebuild succeeded", "state", w.engine.State().String())
	return nil
}

// Run polls the store every interval and rebuilds the engine whenever its
// version has advanced since the last rebuild. Blocks until ctx is
// cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("rebuild watcher stopped")
			return
		case <-ticker.C:
			if w.store.Version() == w.lastVersion {
				continue
			}
			_ = w.TriggerRebuild()
		}
	}
}
