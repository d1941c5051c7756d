package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "insightsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	resolverDuration *prom.HistogramVec
	resolverResults  *prom.CounterVec
	tierServed       *prom.CounterVec
	dropped          *prom.CounterVec
	renderDuration   prom.Histogram
	mailOutcomes     *prom.CounterVec
	probeTier        *prom.GaugeVec
	probeDocuments   prom.Gauge
	probeDuration    prom.Gauge
	probeTimestamp   prom.Gauge
	httpDuration     *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.resolverDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "resolver_duration_seconds",
			Help:      "Duration of content resolver calls",
			Buckets:   prom.DefBuckets,
		}, []string{"resolver"})
		pr.resolverResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "resolver_results_total",
			Help:      "Resolver outcomes by result",
		}, []string{"resolver", "result"})
		pr.tierServed = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "tier_served_total",
			Help:      "Waterfall resolutions by the tier that served them",
		}, []string{"tier"})
		pr.dropped = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_dropped_total",
			Help:      "Documents dropped because they could not be parsed",
		}, []string{"resolver"})
		pr.renderDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of Markdown rendering",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		})
		pr.mailOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "mail_outcomes_total",
			Help:      "Mail submissions by kind and result",
		}, []string{"kind", "result"})
		pr.probeTier = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "probe_tier",
			Help:      "1 for the tier that served the last probe, 0 otherwise",
		}, []string{"tier"})
		pr.probeDocuments = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "probe_documents",
			Help:      "Documents returned by the last probe",
		})
		pr.probeDuration = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Duration of the last probe",
		})
		pr.probeTimestamp = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "probe_last_run_timestamp_seconds",
			Help:      "Unix time of the last probe",
		})
		pr.httpDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route and status",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "status"})
		reg.MustRegister(pr.resolverDuration, pr.resolverResults, pr.tierServed, pr.dropped, pr.renderDuration,
			pr.mailOutcomes, pr.probeTier, pr.probeDocuments, pr.probeDuration, pr.probeTimestamp, pr.httpDuration)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveResolverDuration(resolver string, d time.Duration, result ResultLabel) {
	if p == nil || p.resolverDuration == nil {
		return
	}
	p.resolverDuration.WithLabelValues(resolver).Observe(d.Seconds())
	p.resolverResults.WithLabelValues(resolver, string(result)).Inc()
}

func (p *PrometheusRecorder) IncTierServed(tier string) {
	if p == nil || p.tierServed == nil {
		return
	}
	p.tierServed.WithLabelValues(tier).Inc()
}

func (p *PrometheusRecorder) AddDroppedDocuments(resolver string, n int) {
	if p == nil || p.dropped == nil || n <= 0 {
		return
	}
	p.dropped.WithLabelValues(resolver).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncMailOutcome(kind string, success bool) {
	if p == nil || p.mailOutcomes == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.mailOutcomes.WithLabelValues(kind, res).Inc()
}

func (p *PrometheusRecorder) SetProbeStatus(tier string, documents int, d time.Duration) {
	if p == nil || p.probeTier == nil {
		return
	}
	p.probeTier.Reset()
	p.probeTier.WithLabelValues(tier).Set(1)
	p.probeDocuments.Set(float64(documents))
	p.probeDuration.Set(d.Seconds())
	p.probeTimestamp.SetToCurrentTime()
}

func (p *PrometheusRecorder) ObserveHTTPRequest(route string, status int, d time.Duration) {
	if p == nil || p.httpDuration == nil {
		return
	}
	p.httpDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}
