// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// SchedulerOptions sets the background timings.
type SchedulerOptions struct {
	// InitialDelay is the wait between start and the first rebuild.
	InitialDelay time.Duration

	// RebuildInterval is the wait between the end of one rebuild and the next.
	RebuildInterval time.Duration

	// RefreshInterval is how often staged writes are published to readers.
	RefreshInterval time.Duration
}

// Scheduler drives rebuilds, refreshes and the optional title feed for an [Index].
type Scheduler struct {
	index   *Index
	source  TitleSource
	feed    *Feed
	options SchedulerOptions
	logger  *slog.Logger
}

// Intervals used when [SchedulerOptions] leaves them unset.
const (
	DefaultRebuildInterval = time.Hour
	DefaultRefreshInterval = 5 * time.Second
)

// NewScheduler builds a Scheduler. feed may be nil when Redis is not configured.
func NewScheduler(index *Index, source TitleSource, feed *Feed, options SchedulerOptions, logger *slog.Logger) *Scheduler {
	if options.RebuildInterval <= 0 {
		options.RebuildInterval = DefaultRebuildInterval
	}
	if options.RefreshInterval <= 0 {
		options.RefreshInterval = DefaultRefreshInterval
	}
	return &Scheduler{index: index, source: source, feed: feed, options: options, logger: logger}
}

// Run blocks until ctx is cancelled. A rebuild in progress at that point is
// abandoned by its store calls failing, not by an explicit cancel.
func (scheduler *Scheduler) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error { return scheduler.rebuildLoop(ctx) })
	group.Go(func() error { return scheduler.refreshLoop(ctx) })

	if scheduler.feed != nil {
		group.Go(func() error {
			if err := scheduler.feed.Subscribe(ctx, scheduler.index.Stage); err != nil {
				scheduler.logger.Error("title_feed_stopped", slog.Any("error", err))
			}
			return nil
		})
	}

	return group.Wait()
}

// Trigger starts a rebuild in the background and returns at once. The rebuild is
// detached from ctx so that it outlives the request that asked for it.
func (scheduler *Scheduler) Trigger(ctx context.Context) {
	go scheduler.rebuild(context.WithoutCancel(ctx))
}

func (scheduler *Scheduler) rebuildLoop(ctx context.Context) error {
	timer := time.NewTimer(scheduler.options.InitialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			scheduler.rebuild(ctx)
			timer.Reset(scheduler.options.RebuildInterval)
		}
	}
}

func (scheduler *Scheduler) refreshLoop(ctx context.Context) error {
	ticker := time.NewTicker(scheduler.options.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			scheduler.index.Refresh()
		}
	}
}

func (scheduler *Scheduler) rebuild(ctx context.Context) {
	scheduler.logger.Info("index_rebuild_started", slog.String("state", scheduler.index.State().String()))
	if err := scheduler.index.RebuildAll(ctx, scheduler.source); err != nil {
		scheduler.logger.Error("index_rebuild_failed", slog.Any("error", err))
	}
}
