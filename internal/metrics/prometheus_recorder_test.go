package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveResolverDuration("bundled", 2*time.Millisecond, ResultSuccess)
	pr.ObserveResolverDuration("remote", 200*time.Millisecond, ResultError)
	pr.IncTierServed("bundled")
	pr.AddDroppedDocuments("filesystem", 2)
	pr.AddDroppedDocuments("filesystem", 0)
	pr.ObserveRenderDuration(time.Millisecond)
	pr.IncMailOutcome("contact", true)
	pr.SetProbeStatus("fallback", 3, time.Second)
	pr.ObserveHTTPRequest("/insights", 200, 5*time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"insightsite_resolver_duration_seconds",
		"insightsite_resolver_results_total",
		"insightsite_tier_served_total",
		"insightsite_documents_dropped_total",
		"insightsite_render_duration_seconds",
		"insightsite_mail_outcomes_total",
		"insightsite_probe_tier",
		"insightsite_probe_documents",
		"insightsite_http_request_duration_seconds",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncTierServed("bundled")
		pr.SetProbeStatus("remote", 1, time.Second)
		pr.ObserveHTTPRequest("/", 200, time.Millisecond)
	})
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.ObserveResolverDuration("x", time.Second, ResultEmpty)
		r.IncMailOutcome("newsletter", false)
	})
}

func TestHTTPHandler_ServesRegistry(t *testing.T) {
	reg := NewRegistry()
	NewPrometheusRecorder(reg).IncTierServed("remote")

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `insightsite_tier_served_total{tier="remote"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
