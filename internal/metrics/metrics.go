// Package metrics holds the Prometheus collectors of the authoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"course-authoring/internal/errors"
)

var (
	// TasksCreated counts task creation attempts by task type and outcome
	TasksCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "course_authoring",
		Name:      "task_create_total",
		Help:      "Task creation attempts by task type and outcome",
	}, []string{"type", "outcome"})

	// TasksShifted counts tasks renumbered to make room for an insertion
	TasksShifted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "course_authoring",
		Name:      "tasks_shifted_total",
		Help:      "Existing tasks moved one position down by an insertion",
	})

	// PublishAttempts counts publication attempts by outcome
	PublishAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "course_authoring",
		Name:      "publish_total",
		Help:      "Course publication attempts by outcome",
	}, []string{"outcome"})

	// HTTPRequestDuration tracks request latency by route and status class
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "course_authoring",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	}, []string{"method", "route", "status"})
)

// OutcomeSuccess labels accepted operations
const OutcomeSuccess = "success"

// Outcome returns the label for an operation result: "success", the
// AppError type of a rejected call, or "internal".
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Type.String()
	}
	return "internal"
}
