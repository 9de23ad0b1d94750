package memory

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"quiz-session-engine/internal/domain"
)

// CatalogFile is the YAML layout of a quiz catalog.
type CatalogFile struct {
	Quizzes []domain.Quiz `yaml:"quizzes"`
}

// ParseCatalog decodes a YAML catalog and validates every quiz. All problems are
// joined into the returned error so a single run reports the whole file.
func ParseCatalog(data []byte) ([]domain.Quiz, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	var errs []error
	seen := make(map[string]struct{}, len(file.Quizzes))
	for i, quiz := range file.Quizzes {
		if err := quiz.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("quiz #%d (%q): %w", i+1, quiz.ID, err))
			continue
		}
		if _, dup := seen[quiz.ID]; dup {
			errs = append(errs, fmt.Errorf("quiz #%d: %w %q", i+1, domain.ErrDuplicateID, quiz.ID))
			continue
		}
		seen[quiz.ID] = struct{}{}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return file.Quizzes, nil
}

// LoadCatalogFile reads and validates a YAML catalog from path.
func LoadCatalogFile(path string) ([]domain.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// CatalogLoader builds a StaticQuizLoader over quizzes.
func CatalogLoader(quizzes []domain.Quiz) *StaticQuizLoader {
	byID := make(map[string]domain.Quiz, len(quizzes))
	for _, q := range quizzes {
		byID[q.ID] = q
	}
	return NewStaticQuizLoader(byID)
}

func sortSummaries(s []domain.QuizSummary) {
	sort.Slice(s, func(i, j int) bool { return s[i].ID < s[j].ID })
}

// SampleQuizzes is the built-in demo catalog used when no other source is configured.
func SampleQuizzes() []domain.Quiz {
	return []domain.Quiz{
		{
			ID:               "1",
			Title:            "Science Fundamentals",
			Description:      "Test your knowledge of basic scientific concepts and discoveries.",
			Category:         "Science",
			Author:           "Admin",
			TimeLimitMinutes: 15,
			Difficulty:       domain.DifficultyMedium,
			Questions: []domain.Question{
				{
					ID:   "101",
					Text: "What is the chemical symbol for gold?",
					Options: []domain.Option{
						{ID: "a", Text: "Ag"},
						{ID: "b", Text: "Au", IsCorrect: true},
						{ID: "c", Text: "Fe"},
						{ID: "d", Text: "Gd"},
					},
					Explanation: "Au comes from the Latin word for gold, aurum.",
				},
				{
					ID:   "102",
					Text: "Which planet has the most moons?",
					Options: []domain.Option{
						{ID: "a", Text: "Jupiter"},
						{ID: "b", Text: "Saturn", IsCorrect: true},
						{ID: "c", Text: "Uranus"},
						{ID: "d", Text: "Neptune"},
					},
					Explanation: "Saturn has the most confirmed moons in our solar system.",
				},
				{
					ID:   "103",
					Text: "What is the hardest natural substance on Earth?",
					Options: []domain.Option{
						{ID: "a", Text: "Diamond", IsCorrect: true},
						{ID: "b", Text: "Quartz"},
						{ID: "c", Text: "Topaz"},
						{ID: "d", Text: "Corundum"},
					},
					Explanation: "Diamond scores 10 on the Mohs hardness scale.",
				},
			},
		},
		{
			ID:               "2",
			Title:            "World Geography",
			Description:      "Explore countries, capitals, and natural wonders around the globe.",
			Category:         "Geography",
			Author:           "Admin",
			TimeLimitMinutes: 20,
			Difficulty:       domain.DifficultyHard,
		},
	}
}
