package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()
	r.AttemptStarted("quiz-1")
	r.AttemptStarted("quiz-1")
	r.AttemptCompleted("quiz-1", 67)
	r.Rejected("answer_required")

	if got := testutil.ToFloat64(r.started.WithLabelValues("quiz-1")); got != 2 {
		t.Fatalf("expected 2 started, got %v", got)
	}
	if got := testutil.ToFloat64(r.completed.WithLabelValues("quiz-1")); got != 1 {
		t.Fatalf("expected 1 completed, got %v", got)
	}
	if got := testutil.ToFloat64(r.rejections.WithLabelValues("answer_required")); got != 1 {
		t.Fatalf("expected 1 rejection, got %v", got)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "quiz_attempt_score_percentage_count 1") {
		t.Fatalf("expected histogram in exposition, got:\n%s", rec.Body.String())
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.AttemptStarted("quiz-1")
	r.AttemptCompleted("quiz-1", 100)
	r.Rejected("x")
}
