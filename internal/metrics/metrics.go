// Package metrics collects and exposes Prometheus metrics for shiftclock.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/alexanderramin/shiftclock/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records use-case outcomes and HTTP traffic. It implements
// service.UseCaseObserver so it can be handed to the services directly.
type Collector struct {
	useCases     *prometheus.CounterVec
	useCaseTime  *prometheus.HistogramVec
	autoClosed   prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

var _ service.UseCaseObserver = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		useCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftclock_use_case_total",
			Help: "Use-case executions by outcome code.",
		}, []string{"use_case", "code"}),
		useCaseTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shiftclock_use_case_duration_seconds",
			Help:    "Use-case latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"use_case"}),
		autoClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shiftclock_sessions_auto_closed_total",
			Help: "Work sessions closed automatically after exceeding the maximum duration.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftclock_http_requests_total",
			Help: "HTTP responses by route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shiftclock_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.useCases,
		c.useCaseTime,
		c.autoClosed,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

// ObserveUseCase counts the event under its error code and records its latency.
func (c *Collector) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	c.useCases.WithLabelValues(event.Name, domain.ErrorCode(event.Err)).Inc()
	c.useCaseTime.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
	if !event.Success {
		return
	}
	if n, ok := event.Fields["auto_closed"].(int); ok && n > 0 {
		c.autoClosed.Add(float64(n))
	}
}

// RecordHTTPRequest records one served request. route is the matched
// pattern, not the raw path, to keep label cardinality bounded.
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(route).Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
