package testsupport

import (
	"context"
	"testing"

	"xposter/internal/config"
	"xposter/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Enqueue adds an item to the queue for tests using the provided store.
func Enqueue(t testing.TB, store *queue.Store, itemID int64) {
	t.Helper()

	if _, err := store.Enqueue(context.Background(), itemID); err != nil {
		t.Fatalf("store.Enqueue: %v", err)
	}
}
