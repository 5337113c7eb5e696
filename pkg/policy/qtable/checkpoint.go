package qtable

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Checkpointer persists table snapshots on a cron schedule, so the learned
// table survives restarts without paying a disk write per update.
type Checkpointer struct {
	table     *Table
	storage   Storage
	algorithm string
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger

	observe func(outcome string)

	mu      sync.Mutex
	running bool
}

// CheckpointerOption configures a Checkpointer.
type CheckpointerOption func(*Checkpointer)

// WithCheckpointObserver registers fn to be called with "ok" or "error"
// after every persistence attempt.
func WithCheckpointObserver(fn func(outcome string)) CheckpointerOption {
	return func(c *Checkpointer) { c.observe = fn }
}

// NewCheckpointer creates a checkpointer for table backed by storage.
//
// Common cron expressions:
//   - "*/5 * * * *" - every five minutes
//   - "0 * * * *"   - hourly
func NewCheckpointer(table *Table, storage Storage, algorithm, schedule string, opts ...CheckpointerOption) *Checkpointer {
	c := &Checkpointer{
		table:     table,
		storage:   storage,
		algorithm: algorithm,
		schedule:  schedule,
		cron:      cron.New(),
		logger:    slog.Default().With("component", "qtable.checkpointer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins scheduled checkpointing. An empty schedule is a no-op: the
// caller is expected to persist on shutdown instead.
func (c *Checkpointer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.schedule == "" {
		c.logger.Info("checkpoint schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(c.schedule); err != nil {
		return fmt.Errorf("invalid checkpoint schedule %q: %w", c.schedule, err)
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		c.runCheckpoint(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule checkpoint: %w", err)
	}

	c.cron.Start()
	c.running = true

	c.logger.Info("qtable checkpointer started", "schedule", c.schedule)

	go func() {
		<-ctx.Done()
		c.Stop()
	}()

	return nil
}

// runCheckpoint snapshots the table and persists it.
func (c *Checkpointer) runCheckpoint(ctx context.Context) {
	snapshot := c.table.Snapshot()
	snapshot.Algorithm = c.algorithm

	if err := c.storage.Save(ctx, snapshot); err != nil {
		c.logger.Error("scheduled qtable checkpoint failed", "error", err)
		c.observed("error")
		return
	}

	c.logger.Debug("qtable checkpoint completed", "states", len(snapshot.Values))
	c.observed("ok")
}

// Checkpoint persists the table immediately, outside the schedule.
func (c *Checkpointer) Checkpoint(ctx context.Context) error {
	snapshot := c.table.Snapshot()
	snapshot.Algorithm = c.algorithm
	if err := c.storage.Save(ctx, snapshot); err != nil {
		c.observed("error")
		return err
	}
	c.observed("ok")
	return nil
}

func (c *Checkpointer) observed(outcome string) {
	if c.observe != nil {
		c.observe(outcome)
	}
}

// Stop stops the scheduler and waits for a running checkpoint to finish.
func (c *Checkpointer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cron != nil && c.running {
		stopCtx := c.cron.Stop()
		<-stopCtx.Done()
		c.running = false
		c.logger.Info("qtable checkpointer stopped")
	}
}

// NextRun returns the next scheduled checkpoint time, or nil when idle.
func (c *Checkpointer) NextRun() *time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
