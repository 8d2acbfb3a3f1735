package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// HTTPMetrics records request counts and latencies per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the request metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, duration)
	return &HTTPMetrics{requests: requests, duration: duration}
}

// Observe records one finished request.
func (m *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SalesMetrics counts committed sales and their value.
type SalesMetrics struct {
	completed prometheus.Counter
	units     prometheus.Counter
	revenue   prometheus.Counter
}

func NewSalesMetrics(reg prometheus.Registerer) *SalesMetrics {
	if reg == nil {
		return &SalesMetrics{}
	}
	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_completed_total",
		Help: "Committed sale transactions.",
	})
	units := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_units_total",
		Help: "Inventory units sold.",
	})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_revenue_total",
		Help: "Sum of sale totals.",
	})
	reg.MustRegister(completed, units, revenue)
	return &SalesMetrics{completed: completed, units: units, revenue: revenue}
}

// SaleCompleted records a committed sale.
func (m *SalesMetrics) SaleCompleted(quantity int, total decimal.Decimal) {
	if m == nil || m.completed == nil {
		return
	}
	m.completed.Inc()
	m.units.Add(float64(quantity))
	m.revenue.Add(total.InexactFloat64())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
