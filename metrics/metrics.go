// Package metrics exposes workflow and tool execution metrics through
// Prometheus. A Collector plugs into the graph via Hooks and into the tool
// executor via ObserveToolCall.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hupe1980/supportmesh/graph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tool call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector owns the supportmesh metric families.
type Collector struct {
	nodeVisits   *prometheus.CounterVec
	nodeDuration *prometheus.HistogramVec
	routes       *prometheus.CounterVec
	toolCalls    *prometheus.CounterVec
	gatherer     prometheus.Gatherer
}

// NewCollector creates the metric families and registers them with reg. A nil
// reg uses a fresh private registry.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	c := &Collector{
		nodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supportmesh_node_visits_total",
				Help: "Total number of graph node executions",
			},
			[]string{"node"},
		),
		nodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "supportmesh_node_duration_seconds",
				Help:    "Duration of graph node executions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"node"},
		),
		routes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supportmesh_route_total",
				Help: "Total number of graph transitions",
			},
			[]string{"from", "to"},
		),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supportmesh_tool_calls_total",
				Help: "Total number of tool executions by outcome",
			},
			[]string{"tool", "outcome"},
		),
	}

	for _, col := range []prometheus.Collector{c.nodeVisits, c.nodeDuration, c.routes, c.toolCalls} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		c.gatherer = g
	} else {
		c.gatherer = prometheus.DefaultGatherer
	}

	return c, nil
}

// Hooks returns graph hooks recording node visits, durations and routes.
func (c *Collector) Hooks() graph.Hooks {
	return graph.Hooks{
		OnNodeEnter: func(node string) {
			c.nodeVisits.WithLabelValues(node).Inc()
		},
		OnNodeLeave: func(node string, dur time.Duration, _ error) {
			c.nodeDuration.WithLabelValues(node).Observe(dur.Seconds())
		},
		OnRoute: func(from, to string) {
			c.routes.WithLabelValues(from, to).Inc()
		},
	}
}

// ObserveToolCall records one tool execution. Its signature matches
// tool.CallObserver.
func (c *Collector) ObserveToolCall(name string, _ time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	c.toolCalls.WithLabelValues(name, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
