// Package api holds the wire types and queue workflows shared by the daemon
// HTTP surface and the CLI.
package api

import (
	"time"

	"xposter/internal/scheduler"
)

// QueueItemView is the queue entry shape exposed over the API.
type QueueItemView struct {
	ItemID       int64      `json:"item_id"`
	Status       string     `json:"status"`
	EnqueuedAt   time.Time  `json:"enqueued_at"`
	SharedAt     *time.Time `json:"shared_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Attempts     int        `json:"attempts"`
}

// QueueListResponse wraps a queue listing.
type QueueListResponse struct {
	Items []QueueItemView `json:"items"`
}

// QueueItemResponse wraps a single queue entry.
type QueueItemResponse struct {
	Item QueueItemView `json:"item"`
}

// EnqueueRequest asks the daemon to queue items for sharing.
type EnqueueRequest struct {
	ItemIDs []int64 `json:"item_ids"`
}

// EnqueueResponse reports how many of the requested items were new.
type EnqueueResponse struct {
	Enqueued int `json:"enqueued"`
	Existing int `json:"existing"`
}

// ShareRequest triggers a manual drain. An empty ItemIDs drains everything
// currently pending.
type ShareRequest struct {
	ItemIDs []int64 `json:"item_ids,omitempty"`
}

// ShareResponse carries the drain report back to the caller.
type ShareResponse struct {
	Report *scheduler.Report `json:"report"`
}

// QueueHealth summarizes queue counts for status output.
type QueueHealth struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Publishing int `json:"publishing"`
	Shared     int `json:"shared"`
}

// DaemonStatus reports daemon runtime information.
type DaemonStatus struct {
	Running        bool        `json:"running"`
	PID            int         `json:"pid"`
	QueueDBPath    string      `json:"queue_db_path"`
	LockFilePath   string      `json:"lock_file_path"`
	PublisherReady bool        `json:"publisher_ready"`
	WatcherEnabled bool        `json:"watcher_enabled"`
	DrainInterval  string      `json:"drain_interval"`
	Queue          QueueHealth `json:"queue"`
}

// ClearResponse reports how many entries a clear operation removed.
type ClearResponse struct {
	Removed int64 `json:"removed"`
}
