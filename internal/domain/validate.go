package domain

import "fmt"

const (
	MinOptions = 2
	MaxOptions = 8
)

// Validate checks the structural rules a question must satisfy before it can be
// served: option count, a single correct option, unique option IDs and
// non-empty texts.
func (q Question) Validate() error {
	if blank(q.ID) {
		return fmt.Errorf("question id: %w", ErrMissingField)
	}
	if blank(q.Text) {
		return fmt.Errorf("question %s: %w", q.ID, ErrEmptyText)
	}
	if err := checkOptionSet(q.Options); err != nil {
		return fmt.Errorf("question %s: %w", q.ID, err)
	}
	seen := make(map[string]struct{}, len(q.Options))
	for i, opt := range q.Options {
		if blank(opt.ID) {
			return fmt.Errorf("question %s option %d id: %w", q.ID, i+1, ErrMissingField)
		}
		if _, dup := seen[opt.ID]; dup {
			return fmt.Errorf("question %s option %s: %w", q.ID, opt.ID, ErrDuplicateID)
		}
		seen[opt.ID] = struct{}{}
		if blank(opt.Text) {
			return fmt.Errorf("question %s option %s: %w", q.ID, opt.ID, ErrEmptyText)
		}
	}
	return nil
}

// checkOptionSet enforces the count and single-correct invariants only.
func checkOptionSet(options []Option) error {
	if len(options) < MinOptions {
		return ErrTooFewOptions
	}
	if len(options) > MaxOptions {
		return ErrTooManyOptions
	}
	correct := 0
	for _, opt := range options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: found %d", ErrCorrectOptionCount, correct)
	}
	return nil
}

// Validate checks quiz metadata and every question. A quiz without questions is
// valid.
func (q Quiz) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"id", q.ID},
		{"title", q.Title},
		{"description", q.Description},
		{"category", q.Category},
	}
	for _, field := range required {
		if blank(field.value) {
			return fmt.Errorf("quiz %q %s: %w", q.ID, field.name, ErrMissingField)
		}
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("quiz %s: %w %q", q.ID, ErrInvalidDifficulty, q.Difficulty)
	}
	if q.TimeLimitMinutes < 0 {
		return fmt.Errorf("quiz %q time limit %d: %w", q.ID, q.TimeLimitMinutes, ErrInvalidTimeLimit)
	}

	seen := make(map[string]struct{}, len(q.Questions))
	for _, question := range q.Questions {
		if err := question.Validate(); err != nil {
			return fmt.Errorf("quiz %s: %w", q.ID, err)
		}
		if _, dup := seen[question.ID]; dup {
			return fmt.Errorf("quiz %s question %s: %w", q.ID, question.ID, ErrDuplicateID)
		}
		seen[question.ID] = struct{}{}
	}
	return nil
}
