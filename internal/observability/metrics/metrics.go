// Package metrics exposes prometheus instrumentation for the claims
// pipeline and the HTTP layer.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Submissions       *prometheus.CounterVec
	EventsPublished   *prometheus.CounterVec
	EligibilityChecks *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_submissions_total",
			Help: "Claim submissions by outcome.",
		}, []string{"outcome"}),
		EventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_events_published_total",
			Help: "Claim events published by type and result.",
		}, []string{"event_type", "result"}),
		EligibilityChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_eligibility_checks_total",
			Help: "Eligibility gate decisions.",
		}, []string{"result"}),
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// RecordSubmission counts a submission outcome (SUBMITTED, REJECTED,
// DUPLICATE, ERROR).
func (m *Metrics) RecordSubmission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordEventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, result).Inc()
}

func (m *Metrics) RecordEligibilityCheck(eligible bool) {
	if m == nil {
		return
	}
	result := "denied"
	if eligible {
		result = "eligible"
	}
	m.EligibilityChecks.WithLabelValues(result).Inc()
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
