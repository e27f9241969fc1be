package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SubmissionTotal counts evaluated submissions by overall status label.
	SubmissionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contest_submission_total",
			Help: "Total number of evaluated submissions",
		},
		[]string{"status"},
	)

	SubmissionRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contest_submission_rejected_total",
			Help: "Submissions rejected before reaching the judge",
		},
		[]string{"reason"},
	)

	JudgePollAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contest_judge_poll_attempts",
			Help:    "Number of status polls needed for a judge batch to finish",
			Buckets: prometheus.LinearBuckets(1, 2, 8),
		},
	)

	JudgeErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contest_judge_errors_total",
			Help: "Judge batch failures by reason",
		},
		[]string{"reason"},
	)

	AssignmentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contest_question_assignment_total",
			Help: "Questions assigned to team slots",
		},
		[]string{"slot"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration,
		RequestTotal,
		SubmissionTotal,
		SubmissionRejectedTotal,
		JudgePollAttempts,
		JudgeErrorsTotal,
		AssignmentTotal,
	)
}
