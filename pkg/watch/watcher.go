// Package watch bridges the store's change feed to volunteer notifications.
// It observes the requests collection and raises one alert per observation
// in which the set of pending requests has grown.
package watch

import (
	"context"
	"time"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
	"nearbyserve/pkg/notify"
	"nearbyserve/storage"
)

type Watcher struct {
	stg      storage.IStorage
	notifier notify.Notifier
	interval time.Duration
	log      logger.ILogger

	// ids of pending requests at the previous observation. Comparing id
	// sets (not counts) makes duplicate and delayed observations
	// harmless: re-seeing the same state raises nothing.
	seen map[string]struct{}
}

func New(stg storage.IStorage, notifier notify.Notifier, interval time.Duration, log logger.ILogger) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Watcher{
		stg:      stg,
		notifier: notifier,
		interval: interval,
		log:      log,
		seen:     make(map[string]struct{}),
	}
}

// Run blocks until ctx is cancelled. Push changes from the store feed
// trigger an immediate observation; the ticker is the polling fallback for
// backends without push support.
func (w *Watcher) Run(ctx context.Context) error {
	changes, err := w.stg.Changes(ctx)
	if err != nil {
		return err
	}

	// Prime the baseline so requests existing at startup are not
	// announced as new.
	if err := w.Observe(ctx, false); err != nil {
		w.log.Warning("initial observation failed", logger.Error(err))
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if change.Collection != storage.CollectionRequests {
				continue
			}
			w.observeLogged(ctx)
		case <-ticker.C:
			w.observeLogged(ctx)
		}
	}
}

func (w *Watcher) observeLogged(ctx context.Context) {
	if err := w.Observe(ctx, true); err != nil {
		// Transient store failures surface in the log and the next
		// tick retries; cached state stays intact.
		w.log.Warning("observation failed", logger.Error(err))
	}
}

// Observe re-reads the pending set and, when alerting is enabled and the
// set gained at least one id, notifies the online volunteers exactly once.
func (w *Watcher) Observe(ctx context.Context, alert bool) error {
	pending, err := w.stg.Request().GetByStatus(ctx, models.StatusPending)
	if err != nil {
		return err
	}

	current := make(map[string]struct{}, len(pending))
	arrived := 0
	for _, req := range pending {
		current[req.ID] = struct{}{}
		if _, ok := w.seen[req.ID]; !ok {
			arrived++
		}
	}
	w.seen = current

	if !alert || arrived == 0 {
		return nil
	}

	online, err := w.stg.Volunteer().GetOnline(ctx)
	if err != nil {
		return err
	}
	if len(online) == 0 {
		return nil
	}

	return w.notifier.NotifyNewRequests(ctx, online, notify.Alert{
		NewRequests:  arrived,
		TotalPending: len(pending),
	})
}
