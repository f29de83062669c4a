// Package metrics provides build and stage metrics for site generation.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	gen := site.NewGenerator(cfg, fsys) // NoopRecorder
//
// The preview server swaps in a PrometheusRecorder and exposes it with
// HTTPHandler on /metrics:
//
//	reg := prometheus.NewRegistry()
//	gen := site.NewGenerator(cfg, fsys, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
