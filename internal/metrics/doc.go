// Package metrics provides the observability hooks for the content pipeline.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default; PrometheusRecorder is activated by the serve command unless
// monitoring.disable_metrics is set:
//
//	reg := prom.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	cat := catalog.New(resolvers, catalog.Options{Recorder: recorder})
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
