// Package source fetches content items from the site being republished.
package source

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports that the requested item does not exist upstream.
var ErrNotFound = errors.New("content item not found")

// Item is a publishable content item resolved from the source site.
type Item struct {
	ID          int64
	Title       string
	Excerpt     string
	Link        string
	PublishedAt time.Time

	// MediaPath is the local path of the item's featured media, empty when
	// the item has none or the download failed.
	MediaPath string
}

// Source resolves content items by identifier.
type Source interface {
	// GetItem fetches a single item. Returns ErrNotFound for unknown ids.
	GetItem(ctx context.Context, itemID int64) (*Item, error)
}

// Lister enumerates recently published items, used by the watcher to feed
// the queue.
type Lister interface {
	// ListPublishedSince returns items published strictly after the given
	// time, oldest first.
	ListPublishedSince(ctx context.Context, since time.Time) ([]*Item, error)
}
