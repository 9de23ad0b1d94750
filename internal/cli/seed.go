package cli

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-session-engine/internal/infra/memory"
	"quiz-session-engine/internal/infra/postgres"
	infraredis "quiz-session-engine/internal/infra/redis"
)

// NewSeedCmd validates a catalog file and upserts its quizzes into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load quizzes from a YAML catalog into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			quizzes := memory.SampleQuizzes()
			if file != "" {
				if quizzes, err = memory.LoadCatalogFile(file); err != nil {
					return fmt.Errorf("catalog %s: %w", file, err)
				}
			}

			db, err := openBun(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := migrateDB(cmd.Context(), db, logger); err != nil {
				return err
			}

			n, err := postgres.NewSeeder(db).Upsert(cmd.Context(), quizzes)
			if err != nil {
				return err
			}
			logger.Info().Int("quizzes", n).Str("file", file).Msg("catalog seeded")

			if cfg.Redis.Addr == "" {
				return nil
			}
			client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
			defer client.Close()
			cache := infraredis.NewQuizRepository(client, nil, 0, logger)
			for _, q := range quizzes {
				if err := cache.Invalidate(cmd.Context(), q.ID); err != nil {
					logger.Warn().Err(err).Str("quiz_id", q.ID).Msg("cache invalidation failed")
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML catalog to load (defaults to the built-in samples)")
	return cmd
}
