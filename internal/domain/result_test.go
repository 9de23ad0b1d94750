package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestScoringResultMessageAndGrade(t *testing.T) {
	tests := []struct {
		percentage int
		grade      string
		message    string
	}{
		{100, GradeHigh, "Exceptional! You're a true trivia master!"},
		{80, GradeHigh, "Great job! Your knowledge is impressive!"},
		{67, GradeMedium, "Good work! You know your stuff!"},
		{40, GradeLow, "Not bad! There's room for improvement."},
		{0, GradeLow, "Keep practicing! You'll do better next time."},
	}
	for _, tt := range tests {
		r := ScoringResult{Percentage: tt.percentage}
		if got := r.Grade(); got != tt.grade {
			t.Fatalf("%d%%: expected grade %s, got %s", tt.percentage, tt.grade, got)
		}
		if got := r.Message(); got != tt.message {
			t.Fatalf("%d%%: expected %q, got %q", tt.percentage, tt.message, got)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := FormatElapsed(125); got != "2m 5s" {
		t.Fatalf("expected 2m 5s, got %s", got)
	}
	if got := FormatClock(65); got != "1:05" {
		t.Fatalf("expected 1:05, got %s", got)
	}
	if got := FormatClock(-3); got != "0:00" {
		t.Fatalf("expected 0:00 for negative input, got %s", got)
	}
}

func TestCodeUnwrapsErrors(t *testing.T) {
	wrapped := fmt.Errorf("load quiz 9: %w", ErrQuizNotFound)
	if got := Code(wrapped); got != CodeQuizNotFound {
		t.Fatalf("expected %s, got %s", CodeQuizNotFound, got)
	}
	if got := Code(errors.New("boom")); got != CodeInternalError {
		t.Fatalf("expected %s, got %s", CodeInternalError, got)
	}
}
