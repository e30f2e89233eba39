// Package queue persists publication state for content items in SQLite and
// exposes the lifecycle helpers that drive it.
//
// Each item has exactly one entry keyed by item_id. Status moves pending ->
// publishing -> shared and never reverses; the publishing state is a claim
// that gives concurrent drains item-level mutual exclusion. Enqueue and
// MarkShared are idempotent so callers can retry without double-posting.
//
// Treat this package as the single source of truth for queue semantics; when
// statuses or columns change, update schema.sql and bump schemaVersion.
package queue
