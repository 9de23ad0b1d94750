package domain

import (
	"errors"
	"testing"
)

func correctCount(options []Option) int {
	n := 0
	for _, opt := range options {
		if opt.IsCorrect {
			n++
		}
	}
	return n
}

func TestNewQuestionDraftDefaults(t *testing.T) {
	d := NewQuestionDraft("q1")
	opts := d.Options()
	if len(opts) != 4 {
		t.Fatalf("expected 4 default options, got %d", len(opts))
	}
	if !opts[0].IsCorrect || correctCount(opts) != 1 {
		t.Fatalf("expected only the first option correct, got %+v", opts)
	}
}

func TestDraftAddOptionStopsAtEight(t *testing.T) {
	d := NewQuestionDraft("q1")
	for i := 0; i < 4; i++ {
		if _, err := d.AddOption(); err != nil {
			t.Fatalf("add option %d: %v", i, err)
		}
	}
	if _, err := d.AddOption(); !errors.Is(err, ErrTooManyOptions) {
		t.Fatalf("expected ErrTooManyOptions, got %v", err)
	}
	if n := len(d.Options()); n != MaxOptions {
		t.Fatalf("expected %d options, got %d", MaxOptions, n)
	}
	if correctCount(d.Options()) != 1 {
		t.Fatalf("expected one correct option after adds")
	}
}

func TestDraftAddOptionAfterRemoveUsesFreshID(t *testing.T) {
	d := NewQuestionDraft("q1")
	if err := d.RemoveOption("2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	id, err := d.AddOption()
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id != "5" {
		t.Fatalf("expected id 5, got %s", id)
	}
}

func TestDraftRemoveCorrectOptionMovesMark(t *testing.T) {
	d := NewQuestionDraft("q1")
	if err := d.MarkCorrect("3"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := d.RemoveOption("3"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	opts := d.Options()
	if !opts[0].IsCorrect || correctCount(opts) != 1 {
		t.Fatalf("expected first remaining option to become correct, got %+v", opts)
	}
}

func TestDraftRemoveStopsAtTwo(t *testing.T) {
	d := NewQuestionDraft("q1")
	_ = d.RemoveOption("4")
	_ = d.RemoveOption("3")
	if err := d.RemoveOption("2"); !errors.Is(err, ErrTooFewOptions) {
		t.Fatalf("expected ErrTooFewOptions, got %v", err)
	}
	if err := d.RemoveOption("nope"); !errors.Is(err, ErrTooFewOptions) {
		t.Fatalf("expected count check before lookup, got %v", err)
	}
}

func TestDraftMarkCorrectUnknownOption(t *testing.T) {
	d := NewQuestionDraft("q1")
	if err := d.MarkCorrect("9"); !errors.Is(err, ErrOptionNotFound) {
		t.Fatalf("expected ErrOptionNotFound, got %v", err)
	}
	if correctCount(d.Options()) != 1 {
		t.Fatalf("failed mark must not change correctness")
	}
}

func TestDraftBuildRequiresText(t *testing.T) {
	d := NewQuestionDraft("q1")
	d.SetText("   ")
	if _, err := d.Build(); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText for blank question, got %v", err)
	}

	d.SetText("What is the chemical symbol for gold?")
	_ = d.SetOptionText("1", "Au")
	_ = d.SetOptionText("2", "Ag")
	_ = d.SetOptionText("3", " ")
	_ = d.SetOptionText("4", "Gd")
	if _, err := d.Build(); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText for blank option, got %v", err)
	}

	_ = d.SetOptionText("3", "Go")
	d.SetExplanation("  from the Latin aurum ")
	q, err := d.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if q.Explanation != "from the Latin aurum" {
		t.Fatalf("expected trimmed explanation, got %q", q.Explanation)
	}
	if correct, _ := q.CorrectOption(); correct.Text != "Au" {
		t.Fatalf("expected Au correct, got %+v", correct)
	}
}

func TestDraftFromQuestionRejectsBrokenInvariant(t *testing.T) {
	_, err := DraftFromQuestion(Question{
		ID: "q1",
		Options: []Option{
			{ID: "a", Text: "x", IsCorrect: true},
			{ID: "b", Text: "y", IsCorrect: true},
		},
	})
	if !errors.Is(err, ErrCorrectOptionCount) {
		t.Fatalf("expected ErrCorrectOptionCount, got %v", err)
	}
}
