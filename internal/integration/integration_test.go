package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"quiz-session-engine/internal/app"
	"quiz-session-engine/internal/domain"
	"quiz-session-engine/internal/infra/memory"
	pgloader "quiz-session-engine/internal/infra/postgres"
	pgmigrations "quiz-session-engine/internal/infra/postgres/migrations"
	infraredis "quiz-session-engine/internal/infra/redis"
)

func TestAttemptEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedCatalog(t, ctx, pgURL, memory.SampleQuizzes())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgloader.NewQuizLoader(pool)
	summaries, err := loader.Summaries(ctx)
	if err != nil || len(summaries) != 2 {
		t.Fatalf("expected 2 seeded quizzes, got %+v (%v)", summaries, err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	newService := func() (*app.QuizService, *infraredis.SessionStore) {
		quizRepo := infraredis.NewQuizRepository(redisClient, loader, 5*time.Minute, zerolog.Nop())
		store := infraredis.NewSessionStore(redisClient, 5*time.Minute)
		return app.NewQuizService(store, quizRepo, app.ServiceOptions{Logger: zerolog.Nop()}), store
	}
	service, _ := newService()

	session, err := service.Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	id := session.ID()
	steps := []app.Command{
		{Type: app.CommandSelect, QuizID: "1"},
		{Type: app.CommandBegin},
		{Type: app.CommandAnswer, QuestionID: "101", OptionID: "b"},
		{Type: app.CommandNext},
		{Type: app.CommandAnswer, QuestionID: "102", OptionID: "a"},
	}
	for _, cmd := range steps {
		if _, err := service.Apply(ctx, id, cmd); err != nil {
			t.Fatalf("apply %s: %v", cmd.Type, err)
		}
	}
	if err := service.Suspend(ctx, id); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	// a second process resumes the attempt from the Redis snapshot
	restarted, _ := newService()
	out, err := restarted.Apply(ctx, id, app.Command{Type: app.CommandNext})
	if err != nil {
		t.Fatalf("next after resume: %v", err)
	}
	if out.State.Phase != app.PhaseActive || out.State.CurrentIndex != 2 {
		t.Fatalf("unexpected resumed state: %+v", out.State)
	}
	if _, err := restarted.Apply(ctx, id, app.Command{Type: app.CommandAnswer, QuestionID: "103", OptionID: "a"}); err != nil {
		t.Fatalf("answer: %v", err)
	}
	out, err = restarted.Apply(ctx, id, app.Command{Type: app.CommandNext})
	if err != nil {
		t.Fatalf("finish via next: %v", err)
	}
	if out.Result == nil || out.Result.Score != 2 || out.Result.Percentage != 67 {
		t.Fatalf("expected 2/3 (67%%), got %+v", out.Result)
	}

	if err := restarted.Close(ctx, id); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := restarted.Resume(ctx, id); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after close, got %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedCatalog(t *testing.T, ctx context.Context, dsn string, quizzes []domain.Quiz) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	n, err := pgloader.NewSeeder(db).Upsert(ctx, quizzes)
	if err != nil {
		t.Fatalf("seed quizzes: %v", err)
	}
	if n != len(quizzes) {
		t.Fatalf("expected %d quizzes seeded, got %d", len(quizzes), n)
	}
	// seeding twice must update in place
	if _, err := pgloader.NewSeeder(db).Upsert(ctx, quizzes); err != nil {
		t.Fatalf("reseed quizzes: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
