package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	estimatesTotal    *prometheus.CounterVec
	syncsTotal        *prometheus.CounterVec
	syncDuration      prometheus.Histogram
	rowsChanged       prometheus.Counter
	catalogRows       *prometheus.GaugeVec
	cbState           *prometheus.GaugeVec
	subscribers       prometheus.Gauge
}

// New registers the service's collectors on reg. A nil reg uses a fresh
// registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		estimatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estimates_total",
			Help: "Estimator runs by model and outcome.",
		}, []string{"model", "outcome"}),
		syncsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_syncs_total",
			Help: "Catalog sync attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		syncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_sync_duration_seconds",
			Help:    "Histogram of catalog sync durations.",
			Buckets: prometheus.DefBuckets,
		}),
		rowsChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_rows_changed_total",
			Help: "Catalog rows inserted or updated by syncs.",
		}),
		catalogRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "catalog_rows",
			Help: "Rows currently mirrored per catalog table.",
		}, []string{"table"}),
		cbState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cb_state",
			Help: "Circuit breaker state gauge (0 closed, 1 half, 2 open).",
		}, []string{"target"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "event_subscribers",
			Help: "Connected catalog event stream subscribers.",
		}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.estimatesTotal,
		m.syncsTotal,
		m.syncDuration,
		m.rowsChanged,
		m.catalogRows,
		m.cbState,
		m.subscribers,
	)

	return m
}

// Middleware records request counts and latency by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) Estimate(model string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.estimatesTotal.WithLabelValues(model, outcome).Inc()
}

func (m *Metrics) CatalogSync(source string, duration time.Duration, changed int, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.syncsTotal.WithLabelValues(source, outcome).Inc()
	m.syncDuration.Observe(duration.Seconds())
	m.rowsChanged.Add(float64(changed))
}

func (m *Metrics) SetCatalogRows(table string, n int) {
	if m == nil {
		return
	}
	m.catalogRows.WithLabelValues(table).Set(float64(n))
}

func (m *Metrics) SetCircuitBreakerState(target string, state float64) {
	if m == nil {
		return
	}
	m.cbState.WithLabelValues(target).Set(state)
}

func (m *Metrics) SubscriberConnected() {
	if m == nil {
		return
	}
	m.subscribers.Inc()
}

func (m *Metrics) SubscriberDisconnected() {
	if m == nil {
		return
	}
	m.subscribers.Dec()
}
