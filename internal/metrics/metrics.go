// Package metrics exposes Prometheus counters and histograms for the GA and
// backtest hot loops. Adapted from the prometheus wiring in the retrieval
// pack's exchange-connector repos (DaveintDBN-luno, chidi150c-coinbase):
// a package-level registry plus a handful of named collectors, surfaced by
// the optional `wfo serve` HTTP server rather than the batch `run` path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the private registry this package's collectors are bound to.
// Using a private registry (instead of prometheus.DefaultRegisterer) keeps
// running the WFO CLI twice within one process (e.g. from tests) from
// panicking on duplicate registration.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// GAGenerationsTotal counts every generation evaluated, labeled by
	// window label.
	GAGenerationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "wfo_ga_generations_total",
		Help: "Total number of GA generations evaluated, by window.",
	}, []string{"window"})

	// GAEvaluationsTotal counts every individual fitness evaluation.
	GAEvaluationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "wfo_ga_evaluations_total",
		Help: "Total number of GA individual fitness evaluations, by window.",
	}, []string{"window"})

	// GABestFitness records the best-ever fitness reached per window at
	// the time the GA stopped.
	GABestFitness = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wfo_ga_best_fitness",
		Help: "Best fitness found by the GA for the most recently completed window.",
	}, []string{"window"})

	// BacktestDurationSeconds times one Engine.Run call, labeled by mode
	// ("ga", "test").
	BacktestDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wfo_backtest_duration_seconds",
		Help:    "Wall-clock duration of one backtest segment run.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})

	// WindowTestPF records the out-of-sample profit factor per completed
	// window.
	WindowTestPF = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wfo_window_test_pf",
		Help: "Out-of-sample profit factor for the most recently completed window.",
	}, []string{"window"})
)
