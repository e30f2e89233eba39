// Package daemon coordinates the long-running services: the drain scheduler,
// the source watcher and the local HTTP API the CLI talks to.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"xposter/internal/config"
	"xposter/internal/logging"
	"xposter/internal/queue"
	"xposter/internal/scheduler"
)

// Daemon enforces single-instance execution and owns service lifecycles.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *queue.Store
	scheduler *scheduler.Scheduler
	watcher   *Watcher

	lockPath string
	lock     *flock.Flock

	apiSrv *apiServer

	publisherReady bool

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running        bool
	PID            int
	QueueDBPath    string
	LockFilePath   string
	PublisherReady bool
	WatcherEnabled bool
	DrainInterval  time.Duration
	Queue          queue.HealthSummary
}

// New constructs a daemon with initialized dependencies. The watcher is
// optional; everything else is required.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, sched *scheduler.Scheduler, watcher *Watcher, publisherReady bool) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil || sched == nil {
		return nil, errors.New("daemon requires config, store, logger, and scheduler")
	}

	lockPath := cfg.LockFilePath()
	d := &Daemon{
		cfg:            cfg,
		logger:         logging.NewComponentLogger(logger, "daemon"),
		store:          store,
		scheduler:      sched,
		watcher:        watcher,
		lockPath:       lockPath,
		lock:           flock.New(lockPath),
		publisherReady: publisherReady,
	}

	apiSrv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.apiSrv = apiSrv
	return d, nil
}

// Start acquires the instance lock, recovers interrupted work and launches
// the services.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another xposterd instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	// Entries stuck in publishing belong to a previous crashed run.
	if reset, err := d.store.ResetStuckPublishing(d.ctx); err != nil {
		d.releaseLock()
		return fmt.Errorf("recover interrupted items: %w", err)
	} else if reset > 0 {
		d.logger.Info("recovered interrupted items", logging.Int64("count", reset))
	}

	if err := d.scheduler.Start(d.ctx); err != nil {
		d.releaseLock()
		return fmt.Errorf("start scheduler: %w", err)
	}
	if d.watcher != nil {
		d.watcher.Start(d.ctx)
	}
	if d.apiSrv != nil {
		if err := d.apiSrv.start(d.ctx); err != nil {
			d.scheduler.Stop()
			d.releaseLock()
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts services and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.apiSrv != nil {
		d.apiSrv.stop()
	}
	if d.watcher != nil {
		d.watcher.Stop()
	}
	d.scheduler.Stop()
	d.releaseLock()
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports current runtime information.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:        d.running.Load(),
		PID:            os.Getpid(),
		QueueDBPath:    d.cfg.QueueDBPath(),
		LockFilePath:   d.lockPath,
		PublisherReady: d.publisherReady,
		WatcherEnabled: d.watcher != nil,
		DrainInterval:  time.Duration(d.cfg.Share.Interval) * time.Second,
	}
	if health, err := d.store.Health(ctx); err == nil {
		status.Queue = health
	}
	return status
}

// APIAddr returns the bound API address, empty until Start succeeds.
func (d *Daemon) APIAddr() string {
	if d.apiSrv == nil {
		return ""
	}
	return d.apiSrv.addr()
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}
