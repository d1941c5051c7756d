package probe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/insightsite/internal/logfields"
)

// Scheduler wraps a gocron scheduler running a probe at a fixed interval.
type Scheduler struct {
	scheduler gocron.Scheduler
	probe     *Probe
	ctx       context.Context
	cancel    context.CancelFunc
	jobID     string
}

// NewScheduler creates a scheduler for p. Nothing runs until Start.
func NewScheduler(p *Probe) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, probe: p}, nil
}

// Start schedules the probe every interval, running once immediately.
// Runs never overlap; a run still in progress when the next is due pushes
// it back. Scheduled runs stop when ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("probe interval must be positive, got %s", interval)
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.execute),
		gocron.WithName("content-probe"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		s.cancel()
		return fmt.Errorf("failed to create probe job: %w", err)
	}
	s.jobID = job.ID().String()

	slog.Info("Starting content probe", slog.String("job_id", s.jobID), slog.Duration("interval", interval))
	s.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down, waiting for a running probe to finish.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping content probe")
	if s.cancel != nil {
		s.cancel()
	}
	return s.scheduler.Shutdown()
}

// JobID returns the gocron job ID once started.
func (s *Scheduler) JobID() string { return s.jobID }

func (s *Scheduler) execute() {
	if s.ctx.Err() != nil {
		return
	}
	status := s.probe.Run(s.ctx)
	if status.Degraded() {
		slog.Warn("Content served from degraded tier", logfields.Tier(status.Tier), logfields.Count(status.Documents))
	}
}
