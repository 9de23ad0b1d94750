package domain

import "strings"

// Difficulty is the declared difficulty band of a quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the known difficulty bands.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Option represents a possible answer for a question.
type Option struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	IsCorrect bool   `json:"isCorrect" yaml:"is_correct"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID          string   `json:"id" yaml:"id"`
	Text        string   `json:"text" yaml:"text"`
	Options     []Option `json:"options" yaml:"options"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// CorrectOption returns the option marked correct. ok is false when the question
// carries no correct option.
func (q Question) CorrectOption() (Option, bool) {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt, true
		}
	}
	return Option{}, false
}

// HasOption reports whether optionID is one of the question's options.
func (q Question) HasOption(optionID string) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// Quiz is an ordered collection of questions plus its catalog metadata.
type Quiz struct {
	ID               string     `json:"id" yaml:"id"`
	Title            string     `json:"title" yaml:"title"`
	Description      string     `json:"description" yaml:"description"`
	Category         string     `json:"category" yaml:"category"`
	Author           string     `json:"author" yaml:"author"`
	TimeLimitMinutes int        `json:"timeLimitMinutes,omitempty" yaml:"time_limit_minutes,omitempty"` // 0 means no limit
	Difficulty       Difficulty `json:"difficulty" yaml:"difficulty"`
	Questions        []Question `json:"questions" yaml:"questions"`
}

// QuestionIndex returns the position of questionID in the quiz, or -1.
func (q Quiz) QuestionIndex(questionID string) int {
	for i := range q.Questions {
		if q.Questions[i].ID == questionID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can hold a quiz without sharing slices
// with the catalog that produced it.
func (q Quiz) Clone() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = append([]Option(nil), question.Options...)
		out.Questions[i] = question
	}
	return out
}

// QuizSummary is the intro card shown before an attempt starts.
type QuizSummary struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Author           string     `json:"author"`
	Difficulty       Difficulty `json:"difficulty"`
	QuestionCount    int        `json:"questionCount"`
	TimeLimitMinutes int        `json:"timeLimitMinutes,omitempty"`
}

// Summary builds the intro card for q.
func (q Quiz) Summary() QuizSummary {
	return QuizSummary{
		ID:               q.ID,
		Title:            q.Title,
		Description:      q.Description,
		Category:         q.Category,
		Author:           q.Author,
		Difficulty:       q.Difficulty,
		QuestionCount:    len(q.Questions),
		TimeLimitMinutes: q.TimeLimitMinutes,
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
