package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-session-engine/internal/app"
	"quiz-session-engine/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	session := app.NewSession("s1", sampleRepository())

	if err := store.Put(ctx, session); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got, ok := store.Get(ctx, "s1"); !ok || got != session {
		t.Fatalf("expected stored session")
	}
	if _, err := store.LoadSnapshot(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("memory store keeps no snapshots, got %v", err)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.Get(ctx, "s1"); ok {
		t.Fatalf("expected session removed")
	}
	if err := store.Delete(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestSessionStoreDeleteIdle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	now := time.Now()
	store.clock = func() time.Time { return now }

	_ = store.Put(ctx, app.NewSession("old", sampleRepository()))
	now = now.Add(time.Hour)
	_ = store.Put(ctx, app.NewSession("fresh", sampleRepository()))

	if removed := store.DeleteIdle(30 * time.Minute); removed != 1 {
		t.Fatalf("expected 1 idle session removed, got %d", removed)
	}
	if _, ok := store.Get(ctx, "fresh"); !ok || store.Len() != 1 {
		t.Fatalf("expected fresh session kept")
	}
}

func sampleRepository() *QuizRepository {
	return NewQuizRepository(CatalogLoader(SampleQuizzes()), time.Minute)
}
