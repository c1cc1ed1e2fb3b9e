package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcome labels.
const (
	OutcomeGraded     = "graded"
	OutcomeNotFound   = "not_found"
	OutcomeValidation = "validation_error"
	OutcomeConflict   = "conflict"
	OutcomeError      = "error"
)

var (
	registerOnce           sync.Once
	apiRequestsTotal       *prometheus.CounterVec
	apiLatencySeconds      *prometheus.HistogramVec
	apiErrorsTotal         *prometheus.CounterVec
	submissionsTotal       *prometheus.CounterVec
	gradingDurationSeconds prometheus.Histogram
	submissionScore        prometheus.Histogram
	examCacheRequestsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Submission attempts partitioned by outcome.",
		}, []string{"outcome"})

		gradingDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "grading_duration_seconds",
			Help:    "Time spent persisting and grading a submission.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		submissionScore = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "submission_score",
			Help:    "Distribution of total scores of graded submissions.",
			Buckets: []float64{10, 25, 50, 60, 75, 90, 100},
		})

		examCacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exam_cache_requests_total",
			Help: "Exam catalog cache lookups partitioned by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			submissionsTotal,
			gradingDurationSeconds,
			submissionScore,
			examCacheRequestsTotal,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// Submissions exposes the submission outcome counter.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// GradingDuration exposes the grading latency histogram.
func GradingDuration() prometheus.Histogram {
	RegisterMetrics()
	return gradingDurationSeconds
}

// SubmissionScore exposes the total score histogram.
func SubmissionScore() prometheus.Histogram {
	RegisterMetrics()
	return submissionScore
}

// ExamCacheRequests exposes the catalog cache hit/miss counter.
func ExamCacheRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return examCacheRequestsTotal
}
