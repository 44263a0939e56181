package ioimport

import (
	"context"
	"log/slog"
	"sync"

	"github.com/revatlas/revatlas/pkg/lifecycle"
	"github.com/robfig/cron/v3"
)

// Scheduler runs imports in the background of a long-lived process.
// Only one import runs at a time; a run that would overlap is skipped.
// Failures are logged and never stop the process.
type Scheduler struct {
	importer lifecycle.Importer
	schedule cron.Schedule
	expr     string
	mu       sync.Mutex
}

// NewScheduler creates a scheduler for a standard five-field cron
// expression or a descriptor such as "@daily". An empty expression gives a
// scheduler that only runs imports on demand.
func NewScheduler(im lifecycle.Importer, expr string) (*Scheduler, error) {
	res := &Scheduler{importer: im, expr: expr}
	if expr == "" {
		return res, nil
	}

	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, ScheduleError(expr, err)
	}
	res.schedule = sched
	return res, nil
}

// RunOnce runs one import unless another one is in progress. It
// reports whether the import ran.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	if !s.mu.TryLock() {
		slog.Warn("Import is already running, skipping")
		return false
	}
	defer s.mu.Unlock()

	res, err := s.importer.ImportAll(ctx)
	switch {
	case err != nil:
		slog.Error("Import failed", "error", err)
	case res.Err != nil:
		slog.Warn("Import stopped early",
			"run_id", res.RunID,
			"imported", res.Imported,
			"error", res.Err,
		)
	}
	return true
}

// Run triggers imports on schedule until ctx is done. Without a
// schedule it just waits for ctx.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.schedule == nil {
		<-ctx.Done()
		return nil
	}

	logger := cron.PrintfLogger(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
	)
	c := cron.New(cron.WithChain(cron.Recover(logger)))
	c.Schedule(s.schedule, cron.FuncJob(func() { s.RunOnce(ctx) }))

	slog.Info("Import schedule started", "schedule", s.expr)
	c.Start()
	<-ctx.Done()

	// Waits for a running import, which sees the same cancelled ctx.
	<-c.Stop().Done()
	slog.Info("Import schedule stopped")
	return nil
}
