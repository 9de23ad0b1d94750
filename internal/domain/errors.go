package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSessionNotFound is returned when an attempt session does not exist.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrAnswerRequired is returned when advancing past an unanswered question.
	ErrAnswerRequired = errors.New("answer required before advancing")
	// ErrInvalidOptionReference indicates a selected option ID is not part of the question.
	ErrInvalidOptionReference = errors.New("option does not belong to question")
	// ErrQuestionNotFound indicates a question ID is not part of the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidTransition is returned when an operation is not legal in the current state.
	ErrInvalidTransition = errors.New("operation not allowed in current state")
	ErrNoPreviousQuestion      = errors.New("already at first question")
	ErrQuestionIndexOutOfRange = errors.New("question index out of range")
	// ErrUnknownCommand is returned for an unrecognized engine command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidPayload indicates a command could not be decoded.
	ErrInvalidPayload = errors.New("invalid command payload")
)

// Authoring and catalog validation errors.
var (
	ErrTooFewOptions      = errors.New("question needs at least 2 options")
	ErrTooManyOptions     = errors.New("question allows at most 8 options")
	ErrCorrectOptionCount = errors.New("question needs exactly one correct option")
	ErrEmptyText          = errors.New("text must not be empty")
	ErrOptionNotFound     = errors.New("option not found")
	ErrDuplicateID        = errors.New("duplicate id")
	ErrInvalidDifficulty  = errors.New("invalid difficulty")
	ErrMissingField       = errors.New("missing field")
	ErrInvalidTimeLimit   = errors.New("time limit must not be negative")
)

// Stable codes reported to clients and metrics.
const (
	CodeQuizNotFound       = "quiz_not_found"
	CodeSessionNotFound    = "session_not_found"
	CodeAnswerRequired     = "answer_required"
	CodeInvalidOption      = "invalid_option"
	CodeQuestionNotFound   = "question_not_found"
	CodeInvalidTransition  = "invalid_transition"
	CodeNoPrevious         = "no_previous_question"
	CodeOutOfRange         = "out_of_range"
	CodeValidationFailed   = "validation_failed"
	CodeInvalidPayload     = "invalid_payload"
	CodeUnknownMessageType = "unknown_message_type"
	CodeInternalError      = "internal_error"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrQuizNotFound, CodeQuizNotFound},
	{ErrSessionNotFound, CodeSessionNotFound},
	{ErrAnswerRequired, CodeAnswerRequired},
	{ErrInvalidOptionReference, CodeInvalidOption},
	{ErrQuestionNotFound, CodeQuestionNotFound},
	{ErrInvalidTransition, CodeInvalidTransition},
	{ErrNoPreviousQuestion, CodeNoPrevious},
	{ErrQuestionIndexOutOfRange, CodeOutOfRange},
	{ErrUnknownCommand, CodeUnknownMessageType},
	{ErrInvalidPayload, CodeInvalidPayload},
	{ErrTooFewOptions, CodeValidationFailed},
	{ErrTooManyOptions, CodeValidationFailed},
	{ErrCorrectOptionCount, CodeValidationFailed},
	{ErrEmptyText, CodeValidationFailed},
	{ErrOptionNotFound, CodeValidationFailed},
	{ErrDuplicateID, CodeValidationFailed},
	{ErrInvalidDifficulty, CodeValidationFailed},
	{ErrMissingField, CodeValidationFailed},
	{ErrInvalidTimeLimit, CodeValidationFailed},
}

// Code maps err to its stable code; unknown errors map to CodeInternalError.
func Code(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternalError
}
