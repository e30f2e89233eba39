// Package scheduler drives queue drains. A cron entry fires the periodic
// drain; manual drains requested over the API run through the same code
// path, so item claims are the only concurrency control either needs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"xposter/internal/logging"
	"xposter/internal/pipeline"
	"xposter/internal/queue"
)

// Trigger identifies what started a drain.
type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)

// OutcomeStatus classifies the result of one item inside a drain.
type OutcomeStatus string

const (
	OutcomeShared  OutcomeStatus = "shared"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome records what happened to a single item during a drain.
type Outcome struct {
	ItemID int64         `json:"item_id"`
	Status OutcomeStatus `json:"status"`
	PostID string        `json:"post_id,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// Report summarizes one drain run.
type Report struct {
	DrainID   string    `json:"drain_id"`
	Trigger   Trigger   `json:"trigger"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Outcomes  []Outcome `json:"outcomes"`
	Shared    int       `json:"shared"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
}

// Scheduler owns the periodic drain and serves manual ones.
type Scheduler struct {
	store    *queue.Store
	pipeline *pipeline.Pipeline
	interval time.Duration
	logger   *slog.Logger

	cron *cron.Cron

	mu      sync.Mutex
	started bool
}

// New builds a scheduler draining every interval. A non-positive interval
// disables the periodic drain; manual drains still work.
func New(store *queue.Store, pipe *pipeline.Pipeline, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scheduler{
		store:    store,
		pipeline: pipe,
		interval: interval,
		logger:   logging.NewComponentLogger(logger, "scheduler"),
	}
}

// Start registers the periodic drain and begins ticking. The context bounds
// every drain the cron entry launches.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("scheduler already started")
	}

	if s.interval <= 0 {
		s.logger.Info("periodic drain disabled")
		s.started = true
		return nil
	}

	s.cron = cron.New()
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.RunScheduledDrain(ctx); err != nil {
			s.logger.Error("scheduled drain failed", logging.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("register drain schedule: %w", err)
	}
	s.cron.Start()
	s.started = true
	s.logger.Info("scheduler started", logging.Duration("interval", s.interval))
	return nil
}

// Stop halts the periodic drain and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.started = false
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

// RunScheduledDrain publishes everything currently pending.
func (s *Scheduler) RunScheduledDrain(ctx context.Context) (*Report, error) {
	pending, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	ids := make([]int64, 0, len(pending))
	for _, entry := range pending {
		ids = append(ids, entry.ItemID)
	}
	return s.drain(ctx, TriggerScheduled, ids), nil
}

// RunManualDrain publishes the requested items now. Ids not yet queued are
// enqueued first, so operators can share an item in one step.
func (s *Scheduler) RunManualDrain(ctx context.Context, ids []int64) (*Report, error) {
	for _, id := range ids {
		if _, err := s.store.Enqueue(ctx, id); err != nil {
			return nil, fmt.Errorf("enqueue item %d: %w", id, err)
		}
	}
	return s.drain(ctx, TriggerManual, ids), nil
}

// drain is the single code path both triggers share. Each item is claimed
// before publishing; losing the claim means another drain owns it and the
// item is skipped here.
func (s *Scheduler) drain(ctx context.Context, trigger Trigger, ids []int64) *Report {
	report := &Report{
		DrainID:   uuid.NewString(),
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
	}
	logger := s.logger.With(
		logging.String(logging.FieldDrainID, report.DrainID),
		logging.String(logging.FieldTrigger, string(trigger)))
	logger.Info("drain started", logging.Int("items", len(ids)))

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		outcome := s.drainOne(ctx, logger, id)
		report.Outcomes = append(report.Outcomes, outcome)
		switch outcome.Status {
		case OutcomeShared:
			report.Shared++
		case OutcomeSkipped:
			report.Skipped++
		case OutcomeFailed:
			report.Failed++
		}
	}

	report.Duration = time.Since(report.StartedAt).Round(time.Millisecond).String()
	logger.Info("drain finished",
		logging.Int("shared", report.Shared),
		logging.Int("skipped", report.Skipped),
		logging.Int("failed", report.Failed))
	return report
}

func (s *Scheduler) drainOne(ctx context.Context, logger *slog.Logger, id int64) Outcome {
	claimed, err := s.store.Claim(ctx, id)
	if err != nil {
		return Outcome{ItemID: id, Status: OutcomeFailed, Error: err.Error()}
	}
	if !claimed {
		// Already shared, or another drain holds the claim.
		logger.Debug("skipping item", logging.Int64(logging.FieldItemID, id))
		return Outcome{ItemID: id, Status: OutcomeSkipped}
	}

	result, err := s.pipeline.Publish(ctx, id)
	if err != nil {
		logger.Warn("publish failed",
			logging.Int64(logging.FieldItemID, id),
			logging.Error(err))
		if releaseErr := s.store.Release(ctx, id, err.Error()); releaseErr != nil {
			logger.Error("release after failure failed",
				logging.Int64(logging.FieldItemID, id),
				logging.Error(releaseErr))
		}
		return Outcome{ItemID: id, Status: OutcomeFailed, Error: err.Error()}
	}

	if err := s.store.MarkShared(ctx, id, time.Now()); err != nil {
		// The post went out; losing the state write must not trigger a
		// retry that would double-post.
		logger.Error("mark shared failed",
			logging.Int64(logging.FieldItemID, id),
			logging.Error(err))
		return Outcome{ItemID: id, Status: OutcomeFailed, PostID: result.PostID, Error: err.Error()}
	}
	return Outcome{ItemID: id, Status: OutcomeShared, PostID: result.PostID}
}
