package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry with the HTTP and CRM collectors. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	statusCategories *prometheus.CounterVec

	prospectsCreated *prometheus.CounterVec
	productsCreated  prometheus.Counter
	links            prometheus.Counter
	conflicts        *prometheus.CounterVec
}

func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Duration of HTTP requests in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		statusCategories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_status_category_total",
			Help:        "Total number of responses by status category (2xx, 4xx, 5xx)",
			ConstLabels: constLabels,
		}, []string{"category"}),
		prospectsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "crm_prospects_created_total",
			Help:        "Prospects created, by acquisition source",
			ConstLabels: constLabels,
		}, []string{"source"}),
		productsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "crm_products_created_total",
			Help:        "Products created",
			ConstLabels: constLabels,
		}),
		links: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "crm_prospect_product_links_total",
			Help:        "Prospect to product interest links created",
			ConstLabels: constLabels,
		}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "crm_conflicts_total",
			Help:        "Writes rejected by a uniqueness rule, by entity",
			ConstLabels: constLabels,
		}, []string{"entity"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.statusCategories,
		m.prospectsCreated,
		m.productsCreated,
		m.links,
		m.conflicts,
	)
	return m
}

func (m *Metrics) ProspectCreated(source string) {
	if m == nil {
		return
	}
	m.prospectsCreated.WithLabelValues(source).Inc()
}

func (m *Metrics) ProductCreated() {
	if m == nil {
		return
	}
	m.productsCreated.Inc()
}

func (m *Metrics) LinksCreated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.links.Add(float64(n))
}

func (m *Metrics) Conflict(entity string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(entity).Inc()
}

// Middleware records request count, latency and status category per route
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			statusStr := strconv.Itoa(status)

			m.requests.WithLabelValues(method, path, statusStr).Inc()
			m.requestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())
			if category := statusCategory(status); category != "" {
				m.statusCategories.WithLabelValues(category).Inc()
			}

			return err
		}
	}
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
