// Package metrics exposes prometheus instruments for billing and HTTP traffic.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups every instrument the API records.
type Metrics struct {
	invoicesCreated    *prometheus.CounterVec
	documentsDelivered *prometheus.CounterVec
	qrFailures         prometheus.Counter
	requestDuration    *prometheus.HistogramVec
	requestsTotal      *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the process-wide metrics registered on the default registerer.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// New creates and registers all instruments on registerer.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	invoicesCreated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billbook_invoices_created_total",
			Help: "Invoices created, by initial status.",
		},
		[]string{"status"},
	)
	documentsDelivered := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billbook_documents_delivered_total",
			Help: "Rendered invoice documents handed to a sink.",
		},
		[]string{"template", "result"}, // success | failed
	)
	qrFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "billbook_payment_qr_failures_total",
			Help: "Payment QR generations that failed and were left out of the document.",
		},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "billbook_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billbook_http_requests_total",
			Help: "HTTP requests by endpoint and status code.",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	registerer.MustRegister(
		invoicesCreated,
		documentsDelivered,
		qrFailures,
		requestDuration,
		requestsTotal,
	)

	return &Metrics{
		invoicesCreated:    invoicesCreated,
		documentsDelivered: documentsDelivered,
		qrFailures:         qrFailures,
		requestDuration:    requestDuration,
		requestsTotal:      requestsTotal,
	}
}

func (m *Metrics) InvoiceCreated(status string) {
	if m == nil {
		return
	}
	m.invoicesCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) DocumentDelivered(template string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failed"
	}
	m.documentsDelivered.WithLabelValues(template, result).Inc()
}

func (m *Metrics) PaymentQRFailed() {
	if m == nil {
		return
	}
	m.qrFailures.Inc()
}

// GinMiddleware records request count and latency per route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		method := c.Request.Method
		m.requestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
