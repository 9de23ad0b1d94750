package domain

import "fmt"

// ScoredAnswer is the review line for one question of a finished attempt.
type ScoredAnswer struct {
	Question         Question `json:"question"`
	SelectedOptionID *string  `json:"selectedOptionId"`
	CorrectOptionID  string   `json:"correctOptionId,omitempty"`
	IsCorrect        bool     `json:"isCorrect"`
}

// ScoringResult is the terminal payload of an attempt.
type ScoringResult struct {
	QuizID         string         `json:"quizId"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	Percentage     int            `json:"percentage"`
	ElapsedSeconds int            `json:"elapsedSeconds"`
	Answers        []ScoredAnswer `json:"answers"`
}

// Grade bands used by result screens.
const (
	GradeHigh   = "high"
	GradeMedium = "medium"
	GradeLow    = "low"
)

// Message returns the encouragement line for the achieved percentage.
func (r ScoringResult) Message() string {
	switch p := r.Percentage; {
	case p >= 90:
		return "Exceptional! You're a true trivia master!"
	case p >= 75:
		return "Great job! Your knowledge is impressive!"
	case p >= 60:
		return "Good work! You know your stuff!"
	case p >= 40:
		return "Not bad! There's room for improvement."
	default:
		return "Keep practicing! You'll do better next time."
	}
}

// Grade buckets the percentage into high/medium/low.
func (r ScoringResult) Grade() string {
	switch {
	case r.Percentage >= 80:
		return GradeHigh
	case r.Percentage >= 60:
		return GradeMedium
	default:
		return GradeLow
	}
}

// FormatElapsed renders seconds as "Xm Ys".
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// FormatClock renders seconds as "m:ss" for live display.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
