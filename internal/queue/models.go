package queue

import (
	"strings"
	"time"
)

// Status represents the publication lifecycle of a queue entry.
type Status string

const (
	// StatusPending marks an entry waiting to be published.
	StatusPending Status = "pending"
	// StatusPublishing marks an entry claimed by an in-flight publish attempt.
	StatusPublishing Status = "publishing"
	// StatusShared marks an entry that has been published exactly once.
	StatusShared Status = "shared"
)

var allStatuses = []Status{StatusPending, StatusPublishing, StatusShared}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Entry represents one content item's publication lifecycle persisted in SQLite.
type Entry struct {
	ItemID       int64
	Status       Status
	EnqueuedAt   time.Time
	SharedAt     *time.Time
	ErrorMessage string
	Attempts     int
}

// IsShared reports whether the entry has already been published.
func (e Entry) IsShared() bool {
	return e.Status == StatusShared
}

// HealthSummary describes aggregated queue counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Pending    int
	Publishing int
	Shared     int
}
