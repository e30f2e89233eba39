package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"xposter/internal/logging"
	"xposter/internal/queue"
	"xposter/internal/source"
)

// Watcher polls the content source for newly published items and enqueues
// them. The scheduler picks them up on its next drain.
type Watcher struct {
	lister   source.Lister
	store    *queue.Store
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	lastSeen time.Time
	stopCh   chan struct{}
	done     chan struct{}
}

// NewWatcher builds a watcher polling every interval.
func NewWatcher(lister source.Lister, store *queue.Store, interval time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		lister:   lister,
		store:    store,
		interval: interval,
		logger:   logging.NewComponentLogger(logger, "watcher"),
		lastSeen: time.Now().UTC(),
	}
}

// Start launches the poll loop. Items published before Start are never
// picked up automatically; operators queue those by hand.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		return
	}
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	go w.run(ctx, w.stopCh, w.done)
	w.logger.Info("watcher started", logging.Duration("interval", w.interval))
}

// Stop halts the poll loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	stopCh := w.stopCh
	done := w.done
	w.stopCh = nil
	w.done = nil
	w.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done
}

func (w *Watcher) run(ctx context.Context, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// Poll runs one check immediately. Exposed for tests and manual triggering.
func (w *Watcher) Poll(ctx context.Context) {
	w.poll(ctx)
}

func (w *Watcher) poll(ctx context.Context) {
	w.mu.Lock()
	since := w.lastSeen
	w.mu.Unlock()

	items, err := w.lister.ListPublishedSince(ctx, since)
	if err != nil {
		w.logger.Warn("source poll failed", logging.Error(err))
		return
	}
	if len(items) == 0 {
		return
	}

	newest := since
	enqueued := 0
	for _, item := range items {
		created, err := w.store.Enqueue(ctx, item.ID)
		if err != nil {
			w.logger.Error("enqueue new item failed",
				logging.Int64(logging.FieldItemID, item.ID),
				logging.Error(err))
			continue
		}
		if created {
			enqueued++
		}
		if item.PublishedAt.After(newest) {
			newest = item.PublishedAt
		}
	}

	w.mu.Lock()
	if newest.After(w.lastSeen) {
		w.lastSeen = newest
	}
	w.mu.Unlock()

	if enqueued > 0 {
		w.logger.Info("queued new items", logging.Int("count", enqueued))
	}
}
