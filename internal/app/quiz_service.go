package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"quiz-session-engine/internal/domain"
	"quiz-session-engine/internal/metrics"
)

// SessionRepository abstracts where live sessions and their snapshots are kept
// (in-memory, Redis, etc).
type SessionRepository interface {
	// Put stores or refreshes a session after an operation.
	Put(ctx context.Context, session *Session) error
	// Get returns a live session held by this process.
	Get(ctx context.Context, sessionID string) (*Session, bool)
	// LoadSnapshot returns the last stored snapshot, or domain.ErrSessionNotFound.
	LoadSnapshot(ctx context.Context, sessionID string) (SessionState, error)
	Delete(ctx context.Context, sessionID string) error
}

type detacher interface {
	Detach(sessionID string)
}

// QuizRepository loads quiz content (from cache/backing store). It returns
// domain.ErrQuizNotFound for unknown IDs.
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// ServiceOptions configures a QuizService.
type ServiceOptions struct {
	Logger         zerolog.Logger
	Metrics        *metrics.Recorder
	SessionOptions []SessionOption
}

// Outcome is what a front end renders after one command.
type Outcome struct {
	State  SessionState          `json:"state"`
	Result *domain.ScoringResult `json:"result,omitempty"`
}

// QuizService hosts attempt sessions for front ends.
type QuizService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	logger   zerolog.Logger
	metrics  *metrics.Recorder
	opts     []SessionOption
}

func NewQuizService(store SessionRepository, quizzes QuizRepository, opts ServiceOptions) *QuizService {
	return &QuizService{
		sessions: store,
		quizzes:  quizzes,
		logger:   opts.Logger.With().Str("component", "quiz_service").Logger(),
		metrics:  opts.Metrics,
		opts:     opts.SessionOptions,
	}
}

// Open creates a browsing session with a fresh ID.
func (s *QuizService) Open(ctx context.Context) (*Session, error) {
	session := s.newSession(uuid.NewString())
	if err := s.sessions.Put(ctx, session); err != nil {
		session.Close()
		return nil, fmt.Errorf("store session: %w", err)
	}
	s.logger.Info().Str("session_id", session.ID()).Msg("session opened")
	return session, nil
}

// Resume returns a live session or rebuilds one from its stored snapshot.
func (s *QuizService) Resume(ctx context.Context, sessionID string) (*Session, error) {
	if session, ok := s.sessions.Get(ctx, sessionID); ok {
		return session, nil
	}
	state, err := s.sessions.LoadSnapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session, err := RestoreSession(state, s.quizzes, s.sessionOptions()...)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		session.Close()
		return nil, fmt.Errorf("store session: %w", err)
	}
	s.logger.Info().Str("session_id", sessionID).Str("phase", string(state.Phase)).Msg("session restored")
	return session, nil
}

// Apply runs one command against a session and persists the resulting snapshot.
// Rejected commands still return the unchanged state.
func (s *QuizService) Apply(ctx context.Context, sessionID string, cmd Command) (Outcome, error) {
	session, err := s.Resume(ctx, sessionID)
	if err != nil {
		return Outcome{}, err
	}

	before := session.State().Phase
	state, err := session.Dispatch(ctx, cmd)
	out := Outcome{State: state}
	if err != nil {
		code := domain.Code(err)
		s.metrics.Rejected(code)
		ev := s.logger.Debug()
		if code == domain.CodeInternalError {
			ev = s.logger.Warn()
		}
		ev.Err(err).Str("session_id", sessionID).Str("command", string(cmd.Type)).Msg("command rejected")
		return out, err
	}

	if cmd.Type == CommandBegin {
		s.metrics.AttemptStarted(state.Quiz.ID)
	}
	if state.Phase == PhaseResults {
		result, err := session.Result()
		if err != nil {
			return out, err
		}
		out.Result = &result
		if before != PhaseResults {
			s.metrics.AttemptCompleted(result.QuizID, result.Percentage)
			s.logger.Info().
				Str("session_id", sessionID).
				Str("quiz_id", result.QuizID).
				Int("score", result.Score).
				Int("total", result.TotalQuestions).
				Int("elapsed_seconds", result.ElapsedSeconds).
				Msg("attempt completed")
		}
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		return out, fmt.Errorf("store session: %w", err)
	}
	return out, nil
}

// Close exits a session, stopping its ticker, and forgets it.
func (s *QuizService) Close(ctx context.Context, sessionID string) error {
	if session, ok := s.sessions.Get(ctx, sessionID); ok {
		session.Close()
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	s.logger.Info().Str("session_id", sessionID).Msg("session closed")
	return nil
}

// Suspend releases a session when its front end goes away. Stores that keep
// snapshots only forget the live copy; otherwise the session is closed.
func (s *QuizService) Suspend(ctx context.Context, sessionID string) error {
	d, ok := s.sessions.(detacher)
	if !ok {
		return s.Close(ctx, sessionID)
	}
	if session, found := s.sessions.Get(ctx, sessionID); found {
		session.Release()
	}
	d.Detach(sessionID)
	s.logger.Info().Str("session_id", sessionID).Msg("session suspended")
	return nil
}

// Summary returns the intro card of a quiz.
func (s *QuizService) Summary(ctx context.Context, quizID string) (domain.QuizSummary, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizSummary{}, err
	}
	return quiz.Summary(), nil
}

func (s *QuizService) newSession(id string) *Session {
	return NewSession(id, s.quizzes, s.sessionOptions()...)
}

func (s *QuizService) sessionOptions() []SessionOption {
	opts := make([]SessionOption, 0, len(s.opts)+1)
	opts = append(opts, WithLogger(s.logger))
	return append(opts, s.opts...)
}
