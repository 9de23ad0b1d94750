package app

import (
	"math"
	"time"

	"quiz-session-engine/internal/domain"
)

// Phase is the live state of a session.
type Phase string

const (
	PhaseBrowsing Phase = "browsing"
	PhaseIntro    Phase = "intro"
	PhaseActive   Phase = "active"
	PhaseResults  Phase = "results"
)

// SessionState is a read-only, serializable snapshot of a session. Quiz is nil
// while browsing; StartedAt is set only while active.
type SessionState struct {
	SessionID      string            `json:"sessionId"`
	Phase          Phase             `json:"phase"`
	Quiz           *domain.Quiz      `json:"quiz,omitempty"`
	CurrentIndex   int               `json:"currentIndex"`
	Answers        map[string]string `json:"answers,omitempty"`
	StartedAt      *time.Time        `json:"startedAt,omitempty"`
	ElapsedSeconds int               `json:"elapsedSeconds"`
}

// PickerStatus marks a question in the question picker.
type PickerStatus string

const (
	PickerCurrent    PickerStatus = "current"
	PickerAnswered   PickerStatus = "answered"
	PickerUnanswered PickerStatus = "unanswered"
)

// PickerItem is one entry of the question picker.
type PickerItem struct {
	Index      int          `json:"index"`
	QuestionID string       `json:"questionId"`
	Status     PickerStatus `json:"status"`
}

// CurrentQuestion returns the question at CurrentIndex while active.
func (st SessionState) CurrentQuestion() (domain.Question, bool) {
	if st.Phase != PhaseActive || st.Quiz == nil {
		return domain.Question{}, false
	}
	if st.CurrentIndex < 0 || st.CurrentIndex >= len(st.Quiz.Questions) {
		return domain.Question{}, false
	}
	return st.Quiz.Questions[st.CurrentIndex], true
}

// SelectedOption returns the recorded selection for questionID.
func (st SessionState) SelectedOption(questionID string) (string, bool) {
	optionID, ok := st.Answers[questionID]
	return optionID, ok
}

func (st SessionState) IsLastQuestion() bool {
	return st.Quiz != nil && st.CurrentIndex == len(st.Quiz.Questions)-1
}

// CanGoNext reports whether "next" would be accepted.
func (st SessionState) CanGoNext() bool {
	q, ok := st.CurrentQuestion()
	if !ok {
		return false
	}
	_, answered := st.Answers[q.ID]
	return answered
}

func (st SessionState) CanGoPrevious() bool {
	return st.Phase == PhaseActive && st.CurrentIndex > 0
}

// AnsweredCount counts questions of the quiz that have a selection.
func (st SessionState) AnsweredCount() int {
	if st.Quiz == nil {
		return 0
	}
	n := 0
	for _, q := range st.Quiz.Questions {
		if _, ok := st.Answers[q.ID]; ok {
			n++
		}
	}
	return n
}

// ProgressPercent is the position of the current question within the quiz.
func (st SessionState) ProgressPercent() int {
	if st.Phase != PhaseActive || st.Quiz == nil || len(st.Quiz.Questions) == 0 {
		return 0
	}
	return int(math.Round(float64(st.CurrentIndex+1) / float64(len(st.Quiz.Questions)) * 100))
}

// Picker lists every question in order with its status; the current question
// wins over answered.
func (st SessionState) Picker() []PickerItem {
	if st.Phase != PhaseActive || st.Quiz == nil {
		return nil
	}
	items := make([]PickerItem, len(st.Quiz.Questions))
	for i, q := range st.Quiz.Questions {
		status := PickerUnanswered
		if _, ok := st.Answers[q.ID]; ok {
			status = PickerAnswered
		}
		if i == st.CurrentIndex {
			status = PickerCurrent
		}
		items[i] = PickerItem{Index: i, QuestionID: q.ID, Status: status}
	}
	return items
}
