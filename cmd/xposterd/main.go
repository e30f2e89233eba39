package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"xposter/internal/config"
	"xposter/internal/content"
	"xposter/internal/daemon"
	"xposter/internal/logging"
	"xposter/internal/pipeline"
	"xposter/internal/publisher"
	"xposter/internal/queue"
	"xposter/internal/scheduler"
	"xposter/internal/source"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		os.Exit(1)
	}

	if !cfg.SourceConfigured() {
		logger.Error("source.base_url must be set to run the daemon")
		os.Exit(1)
	}
	wpClient, err := source.NewWordPressClient(cfg)
	if err != nil {
		logger.Error("init content source", logging.Error(err))
		os.Exit(1)
	}

	pub, err := publisher.NewTwitterClient(cfg)
	if err != nil {
		logger.Error("init publisher", logging.Error(err))
		os.Exit(1)
	}

	publisherReady := true
	if err := pub.VerifyCredentials(ctx); err != nil {
		// Keep running so queued items survive; drains will fail until
		// credentials are fixed.
		publisherReady = false
		logger.Warn("publisher credential check failed", logging.Error(err))
	}

	formatter := content.NewFormatter(cfg.Share.Template, cfg.Share.ExcerptWords)
	pipe := pipeline.New(wpClient, pub, formatter, logger)

	drainInterval := time.Duration(cfg.Share.Interval) * time.Second
	sched := scheduler.New(store, pipe, drainInterval, logger)

	var watcher *daemon.Watcher
	if cfg.Source.PollInterval > 0 {
		pollInterval := time.Duration(cfg.Source.PollInterval) * time.Second
		watcher = daemon.NewWatcher(wpClient, store, pollInterval, logger)
	}

	d, err := daemon.New(cfg, store, logger, sched, watcher, publisherReady)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("xposterd shutting down")
}
