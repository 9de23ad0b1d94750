package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"quiz-session-engine/internal/domain"
)

const defaultTickInterval = time.Second

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithClock replaces time.Now, mainly for deterministic tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithTickInterval sets how often live ticks are published while active.
func WithTickInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

func WithLogger(logger zerolog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// Session drives a single quiz attempt through browsing, intro, active and
// results. Every operation applies fully or not at all; rejected operations
// return the unchanged snapshot with the error.
type Session struct {
	id           string
	catalog      QuizRepository
	now          func() time.Time
	tickInterval time.Duration
	logger       zerolog.Logger

	mu     sync.RWMutex
	phase  Phase
	quiz   *domain.Quiz
	index  int
	ledger *Ledger
	timer  *Timer
	ticker *ticker

	// subMu guards subscribers only; the ticker goroutine never takes mu.
	subMu       sync.Mutex
	subscribers map[chan Tick]struct{}
}

// NewSession creates a session in the browsing state.
func NewSession(id string, catalog QuizRepository, opts ...SessionOption) *Session {
	s := &Session{
		id:           id,
		catalog:      catalog,
		now:          time.Now,
		tickInterval: defaultTickInterval,
		logger:       zerolog.Nop(),
		phase:        PhaseBrowsing,
		ledger:       NewLedger(),
		subscribers:  make(map[chan Tick]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.timer = NewTimer(s.now)
	s.logger = s.logger.With().Str("session_id", id).Logger()
	return s
}

// RestoreSession rebuilds a session from a snapshot, restarting the live ticker
// when the snapshot was taken mid-attempt.
func RestoreSession(state SessionState, catalog QuizRepository, opts ...SessionOption) (*Session, error) {
	s := NewSession(state.SessionID, catalog, opts...)
	if state.Phase == PhaseBrowsing {
		return s, nil
	}
	if state.Quiz == nil {
		return nil, fmt.Errorf("restore session %s: %s snapshot without quiz", state.SessionID, state.Phase)
	}
	quiz := state.Quiz.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz = &quiz
	s.phase = state.Phase
	switch state.Phase {
	case PhaseIntro:
	case PhaseActive:
		if state.CurrentIndex < 0 || state.CurrentIndex >= len(quiz.Questions) || state.StartedAt == nil {
			return nil, fmt.Errorf("restore session %s: inconsistent active snapshot", state.SessionID)
		}
		s.index = state.CurrentIndex
		s.ledger = ledgerFromSnapshot(state.Answers)
		s.timer.resume(*state.StartedAt)
		s.startTickerLocked()
	case PhaseResults:
		s.ledger = ledgerFromSnapshot(state.Answers)
		s.timer.freezeAt(state.ElapsedSeconds)
	default:
		return nil, fmt.Errorf("restore session %s: unknown phase %q", state.SessionID, state.Phase)
	}
	return s, nil
}

func (s *Session) ID() string { return s.id }

// State returns a snapshot of the current state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Elapsed returns live elapsed seconds while active, the frozen value in results.
func (s *Session) Elapsed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timer.Elapsed()
}

// SelectQuiz moves from browsing to the intro of quizID. An unknown quiz leaves
// the session browsing and returns domain.ErrQuizNotFound.
func (s *Session) SelectQuiz(ctx context.Context, quizID string) (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseBrowsing {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	quiz, err := s.catalog.GetQuiz(ctx, quizID)
	if err != nil {
		s.logger.Debug().Err(err).Str("quiz_id", quizID).Msg("quiz selection failed")
		return s.snapshotLocked(), err
	}

	q := quiz.Clone()
	s.quiz = &q
	s.index = 0
	s.ledger.Clear()
	s.timer.Reset()
	s.transitionLocked(PhaseIntro)
	return s.snapshotLocked(), nil
}

// Begin starts the attempt clock with an empty ledger. A quiz without questions
// goes straight to results.
func (s *Session) Begin() (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseIntro {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	s.index = 0
	s.ledger.Clear()
	s.timer.Start()

	if len(s.quiz.Questions) == 0 {
		s.enterResultsLocked()
		return s.snapshotLocked(), nil
	}
	s.transitionLocked(PhaseActive)
	s.startTickerLocked()
	return s.snapshotLocked(), nil
}

// SelectAnswer records optionID for questionID. The question need not be the
// current one and the current index does not move.
func (s *Session) SelectAnswer(questionID, optionID string) (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	i := s.quiz.QuestionIndex(questionID)
	if i < 0 {
		return s.snapshotLocked(), domain.ErrQuestionNotFound
	}
	if !s.quiz.Questions[i].HasOption(optionID) {
		return s.snapshotLocked(), domain.ErrInvalidOptionReference
	}
	s.ledger.Set(questionID, optionID)
	return s.snapshotLocked(), nil
}

// Next advances once the current question is answered; on the last question it
// completes the attempt.
func (s *Session) Next() (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	current := s.quiz.Questions[s.index]
	if _, ok := s.ledger.Get(current.ID); !ok {
		return s.snapshotLocked(), domain.ErrAnswerRequired
	}
	if s.index == len(s.quiz.Questions)-1 {
		s.enterResultsLocked()
		return s.snapshotLocked(), nil
	}
	s.index++
	return s.snapshotLocked(), nil
}

// Previous steps back one question without touching answers.
func (s *Session) Previous() (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	if s.index == 0 {
		return s.snapshotLocked(), domain.ErrNoPreviousQuestion
	}
	s.index--
	return s.snapshotLocked(), nil
}

// Jump moves to any question index regardless of answers.
func (s *Session) Jump(index int) (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	if index < 0 || index >= len(s.quiz.Questions) {
		return s.snapshotLocked(), domain.ErrQuestionIndexOutOfRange
	}
	s.index = index
	return s.snapshotLocked(), nil
}

// Finish completes the attempt whether or not every question is answered.
func (s *Session) Finish() (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	s.enterResultsLocked()
	return s.snapshotLocked(), nil
}

// Retry returns to the intro of the same quiz with a clean ledger and timer.
func (s *Session) Retry() (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseResults {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	s.index = 0
	s.ledger.Clear()
	s.timer.Reset()
	s.transitionLocked(PhaseIntro)
	return s.snapshotLocked(), nil
}

// Exit discards the attempt and returns to browsing. Legal from any state.
func (s *Session) Exit() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTickerLocked()
	s.quiz = nil
	s.index = 0
	s.ledger.Clear()
	s.timer.Reset()
	if s.phase != PhaseBrowsing {
		s.transitionLocked(PhaseBrowsing)
	}
	return s.snapshotLocked()
}

// Close exits the session and closes every tick subscription.
func (s *Session) Close() {
	s.Exit()
	s.closeSubscribers()
}

// Release stops the live ticker and closes subscriptions but keeps the state,
// so the session can later be rebuilt from a snapshot.
func (s *Session) Release() {
	s.mu.Lock()
	s.stopTickerLocked()
	s.mu.Unlock()
	s.closeSubscribers()
}

func (s *Session) closeSubscribers() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// Result scores the finished attempt. It is recomputed on every call.
func (s *Session) Result() (domain.ScoringResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.phase != PhaseResults {
		return domain.ScoringResult{}, domain.ErrInvalidTransition
	}
	return Score(s.quiz.ID, s.quiz.Questions, s.ledger, s.timer.Elapsed()), nil
}

// Subscribe returns a channel of live ticks. The caller must invoke the returned
// cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan Tick, func()) {
	ch := make(chan Tick, 8)

	s.mu.RLock()
	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	if s.phase == PhaseActive {
		ch <- newTick(s.id, s.timer.Elapsed(), s.quiz.TimeLimitMinutes*60)
	}
	s.subMu.Unlock()
	s.mu.RUnlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// Dispatch applies cmd through the matching operation.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (SessionState, error) {
	switch cmd.Type {
	case CommandSelect:
		return s.SelectQuiz(ctx, cmd.QuizID)
	case CommandBegin:
		return s.Begin()
	case CommandAnswer:
		return s.SelectAnswer(cmd.QuestionID, cmd.OptionID)
	case CommandNext:
		return s.Next()
	case CommandPrevious:
		return s.Previous()
	case CommandJump:
		return s.Jump(cmd.Index)
	case CommandFinish:
		return s.Finish()
	case CommandRetry:
		return s.Retry()
	case CommandExit:
		return s.Exit(), nil
	default:
		return s.State(), fmt.Errorf("%w %q", domain.ErrUnknownCommand, cmd.Type)
	}
}

func (s *Session) enterResultsLocked() {
	s.stopTickerLocked()
	s.timer.Stop()
	s.transitionLocked(PhaseResults)
}

func (s *Session) transitionLocked(to Phase) {
	ev := s.logger.Debug().Str("from", string(s.phase)).Str("to", string(to))
	if s.quiz != nil {
		ev = ev.Str("quiz_id", s.quiz.ID)
	}
	ev.Msg("session transition")
	s.phase = to
}

func (s *Session) startTickerLocked() {
	s.stopTickerLocked()
	start := s.timer.StartedAt()
	limit := s.quiz.TimeLimitMinutes * 60
	now := s.now
	s.ticker = startTicker(s.tickInterval, func() {
		s.publish(newTick(s.id, elapsedSeconds(start, now()), limit))
	})
}

func (s *Session) stopTickerLocked() {
	s.ticker.Stop()
	s.ticker = nil
}

func (s *Session) ticking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticker != nil
}

func (s *Session) publish(tick Tick) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- tick:
		default:
			// drop the oldest reading so a slow reader sees the latest one
			select {
			case <-ch:
			default:
			}
			ch <- tick
		}
	}
}

func (s *Session) snapshotLocked() SessionState {
	st := SessionState{
		SessionID:      s.id,
		Phase:          s.phase,
		CurrentIndex:   s.index,
		ElapsedSeconds: s.timer.Elapsed(),
	}
	if s.quiz != nil {
		q := s.quiz.Clone()
		st.Quiz = &q
	}
	if s.ledger.Len() > 0 {
		st.Answers = s.ledger.Snapshot()
	}
	if s.timer.Running() {
		started := s.timer.StartedAt()
		st.StartedAt = &started
	}
	return st
}
