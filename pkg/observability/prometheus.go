package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks records layout and input events as Prometheus metrics on
// its own registry.
type PrometheusHooks struct {
	registry *prometheus.Registry

	runsStarted  prometheus.Counter
	runsFinished *prometheus.CounterVec
	stressChecks prometheus.Counter
	stress       prometheus.Gauge
	iteration    prometheus.Gauge
	runDuration  prometheus.Histogram
	itemsLoaded  prometheus.Gauge
	loadErrors   prometheus.Counter
}

// NewPrometheusHooks creates hooks with a fresh registry.
func NewPrometheusHooks() *PrometheusHooks {
	h := &PrometheusHooks{
		registry: prometheus.NewRegistry(),
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ssaview_layout_runs_started_total",
			Help: "Total number of layout runs started",
		}),
		runsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ssaview_layout_runs_finished_total",
			Help: "Total number of layout runs finished, by stop reason",
		}, []string{"reason"}),
		stressChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ssaview_layout_stress_checks_total",
			Help: "Total number of stress evaluations",
		}),
		stress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ssaview_layout_stress",
			Help: "Most recently evaluated stress",
		}),
		iteration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ssaview_layout_iteration",
			Help: "Iteration of the most recent stress evaluation",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ssaview_layout_run_duration_seconds",
			Help:    "Duration of layout runs",
			Buckets: []float64{.001, .01, .1, .5, 1, 5, 10, 30, 60},
		}),
		itemsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ssaview_input_items",
			Help: "Number of items in the most recently loaded input",
		}),
		loadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ssaview_input_errors_total",
			Help: "Total number of failed input loads",
		}),
	}
	h.registry.MustRegister(
		h.runsStarted, h.runsFinished, h.stressChecks, h.stress,
		h.iteration, h.runDuration, h.itemsLoaded, h.loadErrors,
	)
	return h
}

// Registry returns the registry holding the metrics.
func (h *PrometheusHooks) Registry() *prometheus.Registry { return h.registry }

// WriteTextfile writes all metrics in the text exposition format, suitable
// for the node exporter's textfile collector.
func (h *PrometheusHooks) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, h.registry)
}

func (h *PrometheusHooks) OnRunStart(context.Context, string, int, int) {
	h.runsStarted.Inc()
}

func (h *PrometheusHooks) OnStressCheck(_ context.Context, _ string, iteration int, stress float64) {
	h.stressChecks.Inc()
	h.stress.Set(stress)
	h.iteration.Set(float64(iteration))
}

func (h *PrometheusHooks) OnRunComplete(_ context.Context, _ string, _ int, stress float64, reason string, d time.Duration) {
	h.runsFinished.WithLabelValues(reason).Inc()
	h.stress.Set(stress)
	h.runDuration.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnLoad(_ context.Context, _ string, items, _ int, _ time.Duration, err error) {
	if err != nil {
		h.loadErrors.Inc()
		return
	}
	h.itemsLoaded.Set(float64(items))
}

var (
	_ LayoutHooks = (*PrometheusHooks)(nil)
	_ InputHooks  = (*PrometheusHooks)(nil)
)
