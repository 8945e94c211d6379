package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the explorer.
type Registry struct {
	registry *prometheus.Registry

	// Graph model
	GraphNodesTotal prometheus.Gauge
	GraphEdgesTotal prometheus.Gauge
	LoadsTotal      prometheus.Counter
	LoadDuration    prometheus.Histogram

	// Analytics
	RankComputeDuration    prometheus.Histogram
	PredictionQueriesTotal *prometheus.CounterVec
	PredictionCandidates   prometheus.Histogram

	// Layout simulation
	SimulationTicksTotal   prometheus.Counter
	SimulationTickDuration prometheus.Histogram
}

// NewRegistry creates a registry with all explorer metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.GraphNodesTotal = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "semgraph_graph_nodes",
		Help: "Number of nodes in the loaded graph",
	})
	r.GraphEdgesTotal = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "semgraph_graph_edges",
		Help: "Number of edges in the loaded graph",
	})
	r.LoadsTotal = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "semgraph_dataset_loads_total",
		Help: "Total number of dataset loads",
	})
	r.LoadDuration = promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
		Name:    "semgraph_dataset_load_duration_seconds",
		Help:    "Graph rebuild duration in seconds",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	})

	r.RankComputeDuration = promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
		Name:    "semgraph_rank_compute_duration_seconds",
		Help:    "PageRank computation duration in seconds",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	})
	r.PredictionQueriesTotal = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "semgraph_prediction_queries_total",
		Help: "Total number of link prediction queries",
	}, []string{"status"})
	r.PredictionCandidates = promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
		Name:    "semgraph_prediction_candidates",
		Help:    "Number of candidates returned per prediction query",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
	})

	r.SimulationTicksTotal = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "semgraph_simulation_ticks_total",
		Help: "Total number of layout simulation ticks",
	})
	r.SimulationTickDuration = promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
		Name:    "semgraph_simulation_tick_duration_seconds",
		Help:    "Layout simulation tick duration in seconds",
		Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	return r
}

// RecordLoad records one dataset load with the resulting graph size.
func (r *Registry) RecordLoad(nodes, edges int, duration time.Duration) {
	r.LoadsTotal.Inc()
	r.LoadDuration.Observe(duration.Seconds())
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
}

// RecordRankCompute records one PageRank computation.
func (r *Registry) RecordRankCompute(duration time.Duration) {
	r.RankComputeDuration.Observe(duration.Seconds())
}

// RecordPrediction records one link prediction query.
func (r *Registry) RecordPrediction(status string, candidates int) {
	r.PredictionQueriesTotal.WithLabelValues(status).Inc()
	r.PredictionCandidates.Observe(float64(candidates))
}

// RecordTick records one simulation tick.
func (r *Registry) RecordTick(duration time.Duration) {
	r.SimulationTicksTotal.Inc()
	r.SimulationTickDuration.Observe(duration.Seconds())
}

// Handler returns an HTTP handler serving the registry in Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gather exposes the underlying registry for tests.
func (r *Registry) Gather() prometheus.Gatherer {
	return r.registry
}
