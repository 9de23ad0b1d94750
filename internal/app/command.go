package app

// CommandType names an engine operation.
type CommandType string

const (
	CommandSelect   CommandType = "select"
	CommandBegin    CommandType = "begin"
	CommandAnswer   CommandType = "answer"
	CommandNext     CommandType = "next"
	CommandPrevious CommandType = "previous"
	CommandJump     CommandType = "jump"
	CommandFinish   CommandType = "finish"
	CommandRetry    CommandType = "retry"
	CommandExit     CommandType = "exit"
)

// Command is one front-end action. Only the fields relevant to Type are read.
type Command struct {
	Type       CommandType `json:"type"`
	QuizID     string      `json:"quizId,omitempty"`
	QuestionID string      `json:"questionId,omitempty"`
	OptionID   string      `json:"optionId,omitempty"`
	Index      int         `json:"index,omitempty"`
}
