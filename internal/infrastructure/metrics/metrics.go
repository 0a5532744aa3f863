package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/flowgraph/flowbuilder/internal/core/graph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "flowbuilder"

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// Editor metrics
	nodesAdded     *prometheus.CounterVec
	nodesDeleted   prometheus.Counter
	edgesCascaded  prometheus.Counter
	edgesConnected prometheus.Counter
	edgesRejected  *prometheus.CounterVec
	edgesDeleted   prometheus.Counter
	saves          *prometheus.CounterVec
	sessions       prometheus.Gauge

	// HTTP metrics
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector creates a collector registered on a fresh registry. With
// withRuntime set the Go runtime and process collectors are added too.
func NewCollector(namespace string, withRuntime bool) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	registry := prometheus.NewRegistry()
	if withRuntime {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		nodesAdded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_added_total",
			Help:      "Nodes dropped onto a canvas, by kind",
		}, []string{"kind"}),
		nodesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_deleted_total",
			Help:      "Nodes deleted from a canvas",
		}),
		edgesCascaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_cascade_deleted_total",
			Help:      "Edges removed because an endpoint node was deleted",
		}),
		edgesConnected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_connected_total",
			Help:      "Connections accepted",
		}),
		edgesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_rejected_total",
			Help:      "Connections refused, by reason",
		}, []string{"reason"}),
		edgesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_deleted_total",
			Help:      "Edges deleted directly",
		}),
		saves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Save attempts, by outcome",
		}, []string{"outcome"}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_open",
			Help:      "Editor sessions currently open",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) NodeAdded(kind graph.NodeKind) { c.nodesAdded.WithLabelValues(string(kind)).Inc() }

func (c *Collector) NodeDeleted(edgesRemoved int) {
	c.nodesDeleted.Inc()
	c.edgesCascaded.Add(float64(edgesRemoved))
}

func (c *Collector) EdgeConnected() { c.edgesConnected.Inc() }

func (c *Collector) EdgeRejected(reason string) {
	c.edgesRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) EdgeDeleted() { c.edgesDeleted.Inc() }

func (c *Collector) SaveAttempted(outcome string) {
	c.saves.WithLabelValues(outcome).Inc()
}

// SessionsOpen sets the open sessions gauge.
func (c *Collector) SessionsOpen(n int) { c.sessions.Set(float64(n)) }

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
