package app

// AnswerLookup is the read side of a ledger, all scoring needs.
type AnswerLookup interface {
	Get(questionID string) (string, bool)
}

// Ledger records the option selected for each question of one attempt. It does
// not check that the option belongs to the question; the session does that
// before writing. Not safe for concurrent use; the owning Session guards it.
type Ledger struct {
	answers map[string]string
}

func NewLedger() *Ledger {
	return &Ledger{answers: make(map[string]string)}
}

// Set records or overwrites the selection for questionID.
func (l *Ledger) Set(questionID, optionID string) {
	l.answers[questionID] = optionID
}

// Get returns the selected option; ok is false when the question is unanswered.
func (l *Ledger) Get(questionID string) (string, bool) {
	optionID, ok := l.answers[questionID]
	return optionID, ok
}

func (l *Ledger) Clear() {
	l.answers = make(map[string]string)
}

func (l *Ledger) Len() int {
	return len(l.answers)
}

// Snapshot copies the entries for serialization.
func (l *Ledger) Snapshot() map[string]string {
	out := make(map[string]string, len(l.answers))
	for k, v := range l.answers {
		out[k] = v
	}
	return out
}

func ledgerFromSnapshot(answers map[string]string) *Ledger {
	l := NewLedger()
	for k, v := range answers {
		l.answers[k] = v
	}
	return l
}
