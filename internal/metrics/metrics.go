package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the prometheus collectors exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	reqTotal       *prometheus.CounterVec
	reqDuration    prometheus.Summary
	feedCandidates prometheus.Gauge
	searchResults  prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{registry: registry}

	m.reqTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citypulse",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method, route and status code",
	}, []string{"method", "route", "status"})

	m.reqDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace:  "citypulse",
		Name:       "http_request_duration_seconds",
		Help:       "HTTP request latency",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	})

	m.feedCandidates = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "citypulse",
		Name:      "feed_candidate_events",
		Help:      "Non-expired events considered by the last feed request",
	})

	m.searchResults = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "citypulse",
		Name:      "search_result_events",
		Help:      "Events returned per search request",
		Buckets:   []float64{0, 1, 5, 10, 25, 50},
	})

	registry.MustRegister(m.reqTotal, m.reqDuration, m.feedCandidates, m.searchResults)

	return m
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Middleware instruments every request with a count and a latency sample.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.reqTotal.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.reqDuration.Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) ObserveFeedCandidates(n int) {
	m.feedCandidates.Set(float64(n))
}

func (m *Metrics) ObserveSearchResults(n int) {
	m.searchResults.Observe(float64(n))
}
