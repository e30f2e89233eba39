package queue

import "errors"

// ErrNotFound indicates the requested item has no queue entry.
var ErrNotFound = errors.New("queue entry not found")
