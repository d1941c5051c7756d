package probe

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/catalog"
	"git.home.luguber.info/inful/insightsite/internal/metrics"
)

type fakeResolver struct {
	mu    sync.Mutex
	calls int
	docs  []article.Document
	res   catalog.Resolution
	err   error
}

func (f *fakeResolver) Resolve(context.Context) ([]article.Document, catalog.Resolution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.docs, f.res, f.err
}

func (f *fakeResolver) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type probeRecorder struct {
	metrics.NoopRecorder
	mu        sync.Mutex
	tier      string
	documents int
}

func (r *probeRecorder) SetProbeStatus(tier string, documents int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tier, r.documents = tier, documents
}

func TestProbe_RunStoresStatus(t *testing.T) {
	checked := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	resolver := &fakeResolver{
		docs: []article.Document{{Slug: "a"}, {Slug: "b"}},
		res: catalog.Resolution{
			Tier:     "filesystem",
			Outcomes: []catalog.TierOutcome{{Name: "bundled"}, {Name: "filesystem", Documents: 2}},
			Dropped:  []catalog.DroppedDocument{{Tier: "filesystem", Slug: "broken"}},
		},
	}
	rec := &probeRecorder{}
	p := New(resolver, Options{Recorder: rec, Clock: func() time.Time { return checked }})

	_, ok := p.Last()
	assert.False(t, ok)

	status := p.Run(context.Background())
	assert.Equal(t, "filesystem", status.Tier)
	assert.Equal(t, 2, status.Documents)
	assert.Equal(t, 1, status.Dropped)
	assert.Equal(t, checked, status.CheckedAt)
	assert.Equal(t, 1, status.Runs)
	assert.True(t, status.Degraded())

	last, ok := p.Last()
	require.True(t, ok)
	assert.Equal(t, status, last)
	assert.Equal(t, "filesystem", rec.tier)
	assert.Equal(t, 2, rec.documents)
}

func TestProbe_FirstTierIsHealthy(t *testing.T) {
	resolver := &fakeResolver{
		docs: []article.Document{{Slug: "a"}},
		res:  catalog.Resolution{Tier: "bundled", Outcomes: []catalog.TierOutcome{{Name: "bundled", Documents: 1}}},
	}
	status := New(resolver, Options{}).Run(context.Background())
	assert.False(t, status.Degraded())
}

func TestProbe_ErrorRecorded(t *testing.T) {
	resolver := &fakeResolver{err: context.DeadlineExceeded}
	rec := &probeRecorder{}
	p := New(resolver, Options{Recorder: rec})

	status := p.Run(context.Background())
	assert.Equal(t, context.DeadlineExceeded.Error(), status.Error)
	assert.True(t, status.Degraded())
	assert.Empty(t, rec.tier)
}

func TestScheduler_RunsImmediately(t *testing.T) {
	resolver := &fakeResolver{res: catalog.Resolution{Tier: catalog.TierFallback}}
	p := New(resolver, Options{})
	s, err := NewScheduler(p)
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background(), time.Hour))
	t.Cleanup(func() { _ = s.Stop() })
	assert.NotEmpty(t, s.JobID())

	require.Eventually(t, func() bool {
		_, ok := p.Last()
		return ok
	}, 5*time.Second, 10*time.Millisecond)
	status, _ := p.Last()
	assert.GreaterOrEqual(t, resolver.Calls(), 1)
	assert.Equal(t, catalog.TierFallback, status.Tier)
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	s, err := NewScheduler(New(&fakeResolver{}, Options{}))
	require.NoError(t, err)
	require.Error(t, s.Start(context.Background(), 0))
}
