package app

import (
	"math"

	"quiz-session-engine/internal/domain"
)

// Score builds the result and per-question review for an attempt. It reads
// questions and answers only and returns the same result for the same inputs.
func Score(quizID string, questions []domain.Question, answers AnswerLookup, elapsedSeconds int) domain.ScoringResult {
	result := domain.ScoringResult{
		QuizID:         quizID,
		TotalQuestions: len(questions),
		ElapsedSeconds: elapsedSeconds,
		Answers:        make([]domain.ScoredAnswer, 0, len(questions)),
	}

	for _, question := range questions {
		question.Options = append([]domain.Option(nil), question.Options...)
		scored := domain.ScoredAnswer{Question: question}
		correct, hasCorrect := question.CorrectOption()
		if hasCorrect {
			scored.CorrectOptionID = correct.ID
		}
		if selected, ok := answers.Get(question.ID); ok {
			selected := selected
			scored.SelectedOptionID = &selected
			scored.IsCorrect = hasCorrect && selected == correct.ID
		}
		if scored.IsCorrect {
			result.Score++
		}
		result.Answers = append(result.Answers, scored)
	}

	result.Percentage = percentage(result.Score, result.TotalQuestions)
	return result
}

func percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
