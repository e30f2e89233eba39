package api

import (
	"context"
	"fmt"

	"xposter/internal/queue"
)

// QueueService exposes queue operations in API view shapes.
type QueueService struct {
	store *queue.Store
}

// NewQueueService wraps a queue store.
func NewQueueService(store *queue.Store) *QueueService {
	return &QueueService{store: store}
}

// List returns queue entries, optionally filtered by status.
func (s *QueueService) List(ctx context.Context, statuses ...queue.Status) ([]QueueItemView, error) {
	entries, err := s.store.List(ctx, statuses...)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	views := make([]QueueItemView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, viewFromEntry(entry))
	}
	return views, nil
}

// Describe returns a single queue entry, nil when absent.
func (s *QueueService) Describe(ctx context.Context, itemID int64) (*QueueItemView, error) {
	entry, err := s.store.Get(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("describe queue entry: %w", err)
	}
	if entry == nil {
		return nil, nil
	}
	view := viewFromEntry(entry)
	return &view, nil
}

// Enqueue queues the given item ids and reports how many were new.
func (s *QueueService) Enqueue(ctx context.Context, itemIDs []int64) (EnqueueResponse, error) {
	var resp EnqueueResponse
	for _, id := range itemIDs {
		created, err := s.store.Enqueue(ctx, id)
		if err != nil {
			return resp, fmt.Errorf("enqueue item %d: %w", id, err)
		}
		if created {
			resp.Enqueued++
		} else {
			resp.Existing++
		}
	}
	return resp, nil
}

// Remove deletes a queue entry.
func (s *QueueService) Remove(ctx context.Context, itemID int64) (bool, error) {
	return s.store.Remove(ctx, itemID)
}

// Clear removes all entries, or only shared ones when sharedOnly is set.
func (s *QueueService) Clear(ctx context.Context, sharedOnly bool) (int64, error) {
	if sharedOnly {
		return s.store.ClearShared(ctx)
	}
	return s.store.Clear(ctx)
}

// Health reports queue counts.
func (s *QueueService) Health(ctx context.Context) (QueueHealth, error) {
	health, err := s.store.Health(ctx)
	if err != nil {
		return QueueHealth{}, fmt.Errorf("queue health: %w", err)
	}
	return QueueHealth{
		Total:      health.Total,
		Pending:    health.Pending,
		Publishing: health.Publishing,
		Shared:     health.Shared,
	}, nil
}

func viewFromEntry(entry *queue.Entry) QueueItemView {
	return QueueItemView{
		ItemID:       entry.ItemID,
		Status:       string(entry.Status),
		EnqueuedAt:   entry.EnqueuedAt,
		SharedAt:     entry.SharedAt,
		ErrorMessage: entry.ErrorMessage,
		Attempts:     entry.Attempts,
	}
}
