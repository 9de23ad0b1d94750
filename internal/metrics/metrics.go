package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder tracks attempt lifecycle counters on a private registry. A nil
// Recorder is valid and records nothing.
type Recorder struct {
	registry   *prometheus.Registry
	started    *prometheus.CounterVec
	completed  *prometheus.CounterVec
	rejections *prometheus.CounterVec
	scores     prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_attempts_started_total",
			Help: "Attempts that entered the active state.",
		}, []string{"quiz_id"}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_attempts_completed_total",
			Help: "Attempts that reached results.",
		}, []string{"quiz_id"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_operation_rejections_total",
			Help: "Engine operations rejected, by reason.",
		}, []string{"reason"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_attempt_score_percentage",
			Help:    "Percentage score of completed attempts.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
	}
	r.registry.MustRegister(r.started, r.completed, r.rejections, r.scores)
	return r
}

func (r *Recorder) AttemptStarted(quizID string) {
	if r == nil {
		return
	}
	r.started.WithLabelValues(quizID).Inc()
}

func (r *Recorder) AttemptCompleted(quizID string, percentage int) {
	if r == nil {
		return
	}
	r.completed.WithLabelValues(quizID).Inc()
	r.scores.Observe(float64(percentage))
}

func (r *Recorder) Rejected(reason string) {
	if r == nil {
		return
	}
	r.rejections.WithLabelValues(reason).Inc()
}

// Handler exposes the registry in Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
