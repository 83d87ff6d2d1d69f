package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	testsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "culturetest_tests_published_total",
			Help: "Total number of tests published",
		},
	)

	submissionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "culturetest_submissions_started_total",
			Help: "Total number of submissions started",
		},
	)

	// Counter for completions by insight band
	submissionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culturetest_submissions_completed_total",
			Help: "Total number of submissions completed",
		},
		[]string{"insight"},
	)

	scorePercentage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "culturetest_score_percentage",
			Help:    "Distribution of completed submission percentages",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	generationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culturetest_generation_requests_total",
			Help: "Total number of question generation requests",
		},
		[]string{"status"},
	)

	generationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "culturetest_generation_duration_seconds",
			Help:    "Time spent waiting on the question generator",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func TestPublished() { testsPublished.Inc() }

func SubmissionStarted() { submissionsStarted.Inc() }

func SubmissionCompleted(insight string, percentage int) {
	submissionsCompleted.WithLabelValues(insight).Inc()
	scorePercentage.Observe(float64(percentage))
}

// GenerationTimer starts timing a generator call; call the returned func
// with "ok" or "error" when it finishes.
func GenerationTimer() func(status string) {
	timer := prometheus.NewTimer(generationDuration)
	return func(status string) {
		timer.ObserveDuration()
		generationRequests.WithLabelValues(status).Inc()
	}
}

func Handler() http.Handler { return promhttp.Handler() }
