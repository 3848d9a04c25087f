package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "tawjih"

type metrics struct {
	registry         *prometheus.Registry
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	assistantAnswers *prometheus.CounterVec
	recommendations  prometheus.Histogram
}

// newMetrics uses its own registry so that many servers can live in one process.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latencies.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		assistantAnswers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "assistant_answers_total",
				Help:      "Assistant answers by endpoint and source (llm or rules).",
			},
			[]string{"endpoint", "source"},
		),
		recommendations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "recommendations_returned",
				Help:      "Number of programs returned per recommendation request.",
				Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
			},
		),
	}
	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.assistantAnswers,
		m.recommendations,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *metrics) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		if err := next(ctx); err != nil {
			ctx.Error(err) // renders the error so the status below is the one sent
		}

		path := ctx.Path() // route pattern, keeps the label set small
		code := strconv.Itoa(ctx.Response().Status)
		m.requestsTotal.WithLabelValues(ctx.Request().Method, path, code).Inc()
		m.requestDuration.WithLabelValues(ctx.Request().Method, path).Observe(time.Since(start).Seconds())
		return nil
	}
}

func (m *metrics) observeAnswer(endpoint, source string) {
	m.assistantAnswers.WithLabelValues(endpoint, source).Inc()
}

func (m *metrics) observeRecommendations(n int) {
	m.recommendations.Observe(float64(n))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
