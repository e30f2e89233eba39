package daemon_test

import (
	"context"
	"log/slog"
	"testing"

	"xposter/internal/content"
	"xposter/internal/daemon"
	"xposter/internal/logging"
	"xposter/internal/pipeline"
	"xposter/internal/queue"
	"xposter/internal/scheduler"
	"xposter/internal/source"
	"xposter/internal/testsupport"
)

func newTestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return logging.NewNop()
}

func TestDaemonRejectsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	src := &stubSource{items: map[int64]*source.Item{}}
	formatter := content.NewFormatter(cfg.Share.Template, cfg.Share.ExcerptWords)
	pipe := pipeline.New(src, &stubPublisher{}, formatter, nil)

	first, err := daemon.New(cfg, store, newTestLogger(t), scheduler.New(store, pipe, 0, nil), nil, false)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	t.Cleanup(first.Stop)

	cfg.Paths.APIBind = ""
	second, err := daemon.New(cfg, store, newTestLogger(t), scheduler.New(store, pipe, 0, nil), nil, false)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second instance to fail lock acquisition")
	}
}

func TestDaemonRecoversStuckItemsOnStart(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIBind = ""
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.Enqueue(t, store, 1)
	if claimed, err := store.Claim(ctx, 1); err != nil || !claimed {
		t.Fatalf("Claim failed: claimed=%v err=%v", claimed, err)
	}

	src := &stubSource{items: map[int64]*source.Item{}}
	formatter := content.NewFormatter(cfg.Share.Template, cfg.Share.ExcerptWords)
	pipe := pipeline.New(src, &stubPublisher{}, formatter, nil)

	d, err := daemon.New(cfg, store, newTestLogger(t), scheduler.New(store, pipe, 0, nil), nil, false)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(d.Stop)

	entry, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Status != queue.StatusPending {
		t.Fatalf("expected stuck item reset to pending, got %s", entry.Status)
	}
}
