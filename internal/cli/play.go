package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"quiz-session-engine/internal/app"
	"quiz-session-engine/internal/domain"
	transport "quiz-session-engine/internal/transport/http"
)

// NewPlayCmd runs one engine session against the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var quizID string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logger = logger.Level(zerolog.WarnLevel)

			st, err := buildStores(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			session := app.NewSession(uuid.NewString(), st.quizzes, app.WithLogger(logger))
			defer session.Close()
			return newPlayer(cmd.InOrStdin(), cmd.OutOrStdout(), st.catalog).run(cmd.Context(), session, quizID)
		},
	}
	cmd.Flags().StringVar(&quizID, "quiz", "", "quiz id to open directly")
	return cmd
}

type player struct {
	in      *bufio.Scanner
	out     io.Writer
	catalog transport.QuizLister
}

func newPlayer(in io.Reader, out io.Writer, catalog transport.QuizLister) *player {
	return &player{in: bufio.NewScanner(in), out: out, catalog: catalog}
}

func (p *player) run(ctx context.Context, s *app.Session, quizID string) error {
	for {
		st := s.State()
		var (
			done bool
			err  error
		)
		switch st.Phase {
		case app.PhaseBrowsing:
			done, err = p.browse(ctx, s, quizID)
			quizID = ""
		case app.PhaseIntro:
			done = p.intro(s, st)
		case app.PhaseActive:
			done = p.question(s, st)
		case app.PhaseResults:
			done, err = p.results(s)
		}
		if err != nil || done {
			return err
		}
	}
}

func (p *player) browse(ctx context.Context, s *app.Session, quizID string) (bool, error) {
	if quizID == "" {
		summaries, err := p.catalog.Summaries(ctx)
		if err != nil {
			return true, err
		}
		fmt.Fprintln(p.out, "\nAvailable quizzes:")
		for _, q := range summaries {
			fmt.Fprintf(p.out, "  %-6s %s (%s, %s, %d questions)\n", q.ID, q.Title, q.Category, q.Difficulty, q.QuestionCount)
		}
		line, ok := p.prompt("Quiz id (q to quit): ")
		if !ok || line == "q" {
			return true, nil
		}
		quizID = line
	}
	if _, err := s.SelectQuiz(ctx, quizID); err != nil {
		if errors.Is(err, domain.ErrQuizNotFound) {
			fmt.Fprintf(p.out, "No quiz with id %q.\n", quizID)
			return false, nil
		}
		return true, err
	}
	return false, nil
}

func (p *player) intro(s *app.Session, st app.SessionState) bool {
	sum := st.Quiz.Summary()
	fmt.Fprintf(p.out, "\n%s\n%s\n", sum.Title, sum.Description)
	fmt.Fprintf(p.out, "Category: %s  Difficulty: %s  Questions: %d", sum.Category, sum.Difficulty, sum.QuestionCount)
	if sum.TimeLimitMinutes > 0 {
		fmt.Fprintf(p.out, "  Time limit: %d min", sum.TimeLimitMinutes)
	}
	fmt.Fprintln(p.out)

	line, ok := p.prompt("Press enter to begin, b to go back, q to quit: ")
	switch {
	case !ok || line == "q":
		return true
	case line == "b":
		s.Exit()
	default:
		_, _ = s.Begin()
	}
	return false
}

func (p *player) question(s *app.Session, st app.SessionState) bool {
	q, _ := st.CurrentQuestion()
	fmt.Fprintf(p.out, "\nQuestion %d of %d  [%s]  %s\n", st.CurrentIndex+1, len(st.Quiz.Questions),
		domain.FormatClock(st.ElapsedSeconds), pickerLine(st.Picker()))
	fmt.Fprintln(p.out, q.Text)
	selected, _ := st.SelectedOption(q.ID)
	for i, opt := range q.Options {
		mark := " "
		if opt.ID == selected {
			mark = "*"
		}
		fmt.Fprintf(p.out, " %s %d) %s\n", mark, i+1, opt.Text)
	}

	line, ok := p.prompt("Option number, n next, p previous, g N go to, f finish, q quit: ")
	if !ok || line == "q" {
		s.Exit()
		return true
	}

	var err error
	switch {
	case line == "n":
		_, err = s.Next()
	case line == "p":
		_, err = s.Previous()
	case line == "f":
		_, err = s.Finish()
	case strings.HasPrefix(line, "g "):
		n, convErr := strconv.Atoi(strings.TrimSpace(line[2:]))
		if convErr != nil {
			err = domain.ErrQuestionIndexOutOfRange
			break
		}
		_, err = s.Jump(n - 1)
	default:
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > len(q.Options) {
			fmt.Fprintln(p.out, "Unknown input.")
			return false
		}
		_, err = s.SelectAnswer(q.ID, q.Options[n-1].ID)
	}
	if err != nil {
		fmt.Fprintln(p.out, describe(err))
	}
	return false
}

func (p *player) results(s *app.Session) (bool, error) {
	r, err := s.Result()
	if err != nil {
		return true, err
	}
	fmt.Fprintf(p.out, "\nYou scored %d of %d (%d%%)\n%s\nTime: %s\n\n", r.Score, r.TotalQuestions, r.Percentage, r.Message(), domain.FormatElapsed(r.ElapsedSeconds))
	for i, a := range r.Answers {
		mark := "x"
		if a.IsCorrect {
			mark = "+"
		}
		fmt.Fprintf(p.out, "%s %d. %s\n", mark, i+1, a.Question.Text)
		if a.SelectedOptionID == nil {
			fmt.Fprintln(p.out, "    not answered")
		} else if !a.IsCorrect {
			fmt.Fprintf(p.out, "    your answer: %s\n", optionText(a.Question, *a.SelectedOptionID))
		}
		fmt.Fprintf(p.out, "    correct answer: %s\n", optionText(a.Question, a.CorrectOptionID))
		if a.Question.Explanation != "" {
			fmt.Fprintf(p.out, "    %s\n", a.Question.Explanation)
		}
	}

	line, ok := p.prompt("r to retry, b to browse, q to quit: ")
	switch {
	case !ok || line == "q":
		return true, nil
	case line == "r":
		_, _ = s.Retry()
	case line == "b":
		s.Exit()
	}
	return false, nil
}

func (p *player) prompt(label string) (string, bool) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

func pickerLine(items []app.PickerItem) string {
	var b strings.Builder
	for _, it := range items {
		switch it.Status {
		case app.PickerCurrent:
			fmt.Fprintf(&b, "[%d>]", it.Index+1)
		case app.PickerAnswered:
			fmt.Fprintf(&b, "[%d*]", it.Index+1)
		default:
			fmt.Fprintf(&b, "[%d ]", it.Index+1)
		}
	}
	return b.String()
}

func optionText(q domain.Question, optionID string) string {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return opt.Text
		}
	}
	return optionID
}

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrAnswerRequired):
		return "Select an answer before moving on."
	case errors.Is(err, domain.ErrNoPreviousQuestion):
		return "This is the first question."
	case errors.Is(err, domain.ErrQuestionIndexOutOfRange):
		return "No question with that number."
	default:
		return err.Error()
	}
}
