package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const defaultDraftOptions = 4

// QuestionDraft is an editable question used by authoring tools. Every mutation
// keeps the option count within [MinOptions, MaxOptions] and exactly one option
// marked correct; text emptiness is only checked by Build.
type QuestionDraft struct {
	id          string
	text        string
	explanation string
	options     []Option
}

// NewQuestionDraft starts a draft with four empty options, the first one correct.
func NewQuestionDraft(id string) *QuestionDraft {
	d := &QuestionDraft{id: id, options: make([]Option, defaultDraftOptions)}
	for i := range d.options {
		d.options[i] = Option{ID: strconv.Itoa(i + 1), IsCorrect: i == 0}
	}
	return d
}

// DraftFromQuestion opens an existing question for editing.
func DraftFromQuestion(q Question) (*QuestionDraft, error) {
	if err := checkOptionSet(q.Options); err != nil {
		return nil, fmt.Errorf("question %s: %w", q.ID, err)
	}
	return &QuestionDraft{
		id:          q.ID,
		text:        q.Text,
		explanation: q.Explanation,
		options:     append([]Option(nil), q.Options...),
	}, nil
}

func (d *QuestionDraft) SetText(text string)        { d.text = text }
func (d *QuestionDraft) SetExplanation(text string) { d.explanation = text }

// Options returns a copy of the current option list.
func (d *QuestionDraft) Options() []Option {
	return append([]Option(nil), d.options...)
}

// SetOptionText replaces the text of one option.
func (d *QuestionDraft) SetOptionText(optionID, text string) error {
	i := d.indexOf(optionID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrOptionNotFound, optionID)
	}
	d.options[i].Text = text
	return nil
}

// AddOption appends an empty, incorrect option and returns its ID.
func (d *QuestionDraft) AddOption() (string, error) {
	if len(d.options) >= MaxOptions {
		return "", ErrTooManyOptions
	}
	id := d.nextOptionID()
	d.options = append(d.options, Option{ID: id})
	return id, nil
}

// RemoveOption drops an option. Removing the correct option moves the correct
// mark to the first remaining option.
func (d *QuestionDraft) RemoveOption(optionID string) error {
	if len(d.options) <= MinOptions {
		return ErrTooFewOptions
	}
	i := d.indexOf(optionID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrOptionNotFound, optionID)
	}
	wasCorrect := d.options[i].IsCorrect
	d.options = append(d.options[:i], d.options[i+1:]...)
	if wasCorrect {
		d.options[0].IsCorrect = true
	}
	return nil
}

// MarkCorrect makes optionID the single correct option.
func (d *QuestionDraft) MarkCorrect(optionID string) error {
	if d.indexOf(optionID) < 0 {
		return fmt.Errorf("%w: %s", ErrOptionNotFound, optionID)
	}
	for i := range d.options {
		d.options[i].IsCorrect = d.options[i].ID == optionID
	}
	return nil
}

// Build validates the draft and returns the finished question.
func (d *QuestionDraft) Build() (Question, error) {
	q := Question{
		ID:          d.id,
		Text:        strings.TrimSpace(d.text),
		Explanation: strings.TrimSpace(d.explanation),
		Options:     make([]Option, len(d.options)),
	}
	for i, opt := range d.options {
		opt.Text = strings.TrimSpace(opt.Text)
		q.Options[i] = opt
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (d *QuestionDraft) indexOf(optionID string) int {
	for i := range d.options {
		if d.options[i].ID == optionID {
			return i
		}
	}
	return -1
}

func (d *QuestionDraft) nextOptionID() string {
	highest := 0
	for _, opt := range d.options {
		if n, err := strconv.Atoi(opt.ID); err == nil && n > highest {
			highest = n
		}
	}
	for n := highest + 1; ; n++ {
		id := strconv.Itoa(n)
		if d.indexOf(id) < 0 {
			return id
		}
	}
}
