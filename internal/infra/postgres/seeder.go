package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"quiz-session-engine/internal/domain"
)

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID        string      `bun:"id,pk"`
	Data      domain.Quiz `bun:"data,type:jsonb"`
	UpdatedAt time.Time   `bun:"updated_at,notnull"`
}

// Seeder upserts catalog quizzes into the quizzes table.
type Seeder struct {
	db  *bun.DB
	now func() time.Time
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db, now: time.Now}
}

// Upsert validates every quiz and writes them in one statement. Nothing is
// written when any quiz is invalid.
func (s *Seeder) Upsert(ctx context.Context, quizzes []domain.Quiz) (int, error) {
	if len(quizzes) == 0 {
		return 0, nil
	}
	rows := make([]quizRow, 0, len(quizzes))
	now := s.now().UTC()
	for _, q := range quizzes {
		if err := q.Validate(); err != nil {
			return 0, fmt.Errorf("quiz %q: %w", q.ID, err)
		}
		rows = append(rows, quizRow{ID: q.ID, Data: q, UpdatedAt: now})
	}

	_, err := s.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("upsert quizzes: %w", err)
	}
	return len(rows), nil
}
