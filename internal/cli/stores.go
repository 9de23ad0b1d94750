package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"quiz-session-engine/internal/app"
	"quiz-session-engine/internal/config"
	"quiz-session-engine/internal/infra/memory"
	pgloader "quiz-session-engine/internal/infra/postgres"
	infraredis "quiz-session-engine/internal/infra/redis"
	transport "quiz-session-engine/internal/transport/http"
)

// stores is the storage wiring chosen from config.
type stores struct {
	quizzes  app.QuizRepository
	catalog  transport.QuizLister
	sessions app.SessionRepository
	// local is set when sessions live only in this process and need sweeping.
	local   *memory.SessionStore
	closers []func()
}

// catalogLoader is what both quiz caches load from.
type catalogLoader interface {
	memory.QuizLoader
	transport.QuizLister
}

// buildStores picks the catalog source (Postgres, catalog file, or built-in
// samples) and puts Redis in front of it when configured.
func buildStores(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*stores, error) {
	st := &stores{}

	var loader catalogLoader
	switch {
	case cfg.Postgres.URL != "":
		if err := runMigrations(ctx, cfg, logger); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		st.closers = append(st.closers, pool.Close)
		loader = pgloader.NewQuizLoader(pool)
		logger.Info().Msg("catalog source: postgres")
	case cfg.Quiz.CatalogPath != "":
		quizzes, err := memory.LoadCatalogFile(cfg.Quiz.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", cfg.Quiz.CatalogPath, err)
		}
		loader = memory.CatalogLoader(quizzes)
		logger.Info().Str("path", cfg.Quiz.CatalogPath).Int("quizzes", len(quizzes)).Msg("catalog source: file")
	default:
		loader = memory.CatalogLoader(memory.SampleQuizzes())
		logger.Info().Msg("catalog source: built-in samples")
	}
	st.catalog = loader

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if cfg.Redis.Addr == "" {
		st.quizzes = memory.NewQuizRepository(loader, quizTTL)
		st.local = memory.NewSessionStore()
		st.sessions = st.local
		return st, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	st.closers = append(st.closers, func() { _ = client.Close() })
	if err := client.Ping(ctx).Err(); err != nil {
		st.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	st.quizzes = infraredis.NewQuizRepository(client, loader, quizTTL, logger)
	st.sessions = infraredis.NewSessionStore(client, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute))
	return st, nil
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
