package domain

import (
	"errors"
	"testing"
)

func validQuiz() Quiz {
	return Quiz{
		ID:          "1",
		Title:       "Science Fundamentals",
		Description: "Basic scientific principles",
		Category:    "Science",
		Author:      "Admin",
		Difficulty:  DifficultyMedium,
		Questions: []Question{
			{
				ID:   "101",
				Text: "What is the chemical symbol for gold?",
				Options: []Option{
					{ID: "a", Text: "Go"},
					{ID: "b", Text: "Au", IsCorrect: true},
				},
			},
		},
	}
}

func TestQuizValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *Quiz)
		want   error
	}{
		{"valid", func(q *Quiz) {}, nil},
		{"no questions is valid", func(q *Quiz) { q.Questions = nil }, nil},
		{"blank title", func(q *Quiz) { q.Title = "  " }, ErrMissingField},
		{"blank category", func(q *Quiz) { q.Category = "" }, ErrMissingField},
		{"bad difficulty", func(q *Quiz) { q.Difficulty = "Insane" }, ErrInvalidDifficulty},
		{"negative time limit", func(q *Quiz) { q.TimeLimitMinutes = -1 }, ErrInvalidTimeLimit},
		{"one option", func(q *Quiz) { q.Questions[0].Options = q.Questions[0].Options[:1] }, ErrTooFewOptions},
		{"no correct option", func(q *Quiz) { q.Questions[0].Options[1].IsCorrect = false }, ErrCorrectOptionCount},
		{"two correct options", func(q *Quiz) { q.Questions[0].Options[0].IsCorrect = true }, ErrCorrectOptionCount},
		{"duplicate option id", func(q *Quiz) { q.Questions[0].Options[0].ID = "b" }, ErrDuplicateID},
		{"blank option text", func(q *Quiz) { q.Questions[0].Options[0].Text = "" }, ErrEmptyText},
		{"duplicate question id", func(q *Quiz) { q.Questions = append(q.Questions, q.Questions[0]) }, ErrDuplicateID},
		{"nine options", func(q *Quiz) {
			opts := make([]Option, 9)
			for i := range opts {
				opts[i] = Option{ID: string(rune('a' + i)), Text: "x", IsCorrect: i == 0}
			}
			q.Questions[0].Options = opts
		}, ErrTooManyOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuiz()
			tt.mutate(&q)
			err := q.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("expected valid quiz, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidationErrorsMapToValidationCode(t *testing.T) {
	q := validQuiz()
	q.TimeLimitMinutes = -5
	if got := Code(q.Validate()); got != CodeValidationFailed {
		t.Fatalf("expected %s, got %s", CodeValidationFailed, got)
	}

	q = validQuiz()
	q.Title = ""
	if got := Code(q.Validate()); got != CodeValidationFailed {
		t.Fatalf("expected %s, got %s", CodeValidationFailed, got)
	}
}

func TestQuizCloneDoesNotShareOptions(t *testing.T) {
	q := validQuiz()
	c := q.Clone()
	c.Questions[0].Options[0].Text = "changed"
	if q.Questions[0].Options[0].Text == "changed" {
		t.Fatalf("clone shares option storage with original")
	}
}
