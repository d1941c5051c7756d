// Package probe periodically runs the content waterfall and keeps the last
// outcome for the status endpoint and metrics.
package probe

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/catalog"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
	"git.home.luguber.info/inful/insightsite/internal/metrics"
)

// DefaultTimeout bounds a single probe run.
const DefaultTimeout = time.Minute

// Resolver is the part of the catalog the probe drives.
type Resolver interface {
	Resolve(ctx context.Context) ([]article.Document, catalog.Resolution, error)
}

// Status is the outcome of the most recent probe run.
type Status struct {
	Tier       string                `json:"tier"`
	Documents  int                   `json:"documents"`
	Dropped    int                   `json:"dropped"`
	Collisions []string              `json:"collisions,omitempty"`
	Outcomes   []catalog.TierOutcome `json:"outcomes"`
	Duration   time.Duration         `json:"duration"`
	CheckedAt  time.Time             `json:"checkedAt"`
	Error      string                `json:"error,omitempty"`
	Runs       int                   `json:"runs"`
}

// Degraded reports whether the last run was served by anything other than
// the first tier.
func (s Status) Degraded() bool {
	return s.Error != "" || len(s.Outcomes) == 0 || s.Tier != s.Outcomes[0].Name
}

// Options configures a Probe.
type Options struct {
	Timeout  time.Duration
	Recorder metrics.Recorder
	Logger   *slog.Logger
	Clock    func() time.Time
}

// Probe runs the waterfall on demand or on a schedule. It is safe for
// concurrent use.
type Probe struct {
	resolver Resolver
	timeout  time.Duration
	recorder metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time

	mu   sync.RWMutex
	last Status
	runs int
}

// New creates a probe over resolver.
func New(resolver Resolver, opts Options) *Probe {
	p := &Probe{
		resolver: resolver,
		timeout:  opts.Timeout,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		now:      opts.Clock,
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	if p.recorder == nil {
		p.recorder = metrics.NoopRecorder{}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Run executes one probe and stores its status.
func (p *Probe) Run(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	docs, res, err := p.resolver.Resolve(ctx)
	status := Status{
		Tier:       res.Tier,
		Documents:  len(docs),
		Dropped:    len(res.Dropped),
		Collisions: res.Collisions,
		Outcomes:   res.Outcomes,
		Duration:   time.Since(start),
		CheckedAt:  p.now().UTC(),
	}
	if err != nil {
		status.Error = err.Error()
		p.logger.Warn("Content probe interrupted", logfields.Error(err))
	} else {
		p.recorder.SetProbeStatus(status.Tier, status.Documents, status.Duration)
		p.logger.Info("Content probe completed",
			logfields.Tier(status.Tier),
			logfields.Count(status.Documents),
			logfields.DurationMS(float64(status.Duration.Milliseconds())))
	}

	p.mu.Lock()
	p.runs++
	status.Runs = p.runs
	p.last = status
	p.mu.Unlock()
	return status
}

// Last returns the most recent status; ok is false before the first run.
func (p *Probe) Last() (Status, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.runs == 0 {
		return Status{}, false
	}
	s := p.last
	s.Outcomes = append([]catalog.TierOutcome(nil), s.Outcomes...)
	s.Collisions = append([]string(nil), s.Collisions...)
	return s, true
}
