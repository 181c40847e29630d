package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"heresy-trivia-service/internal/app"
	"heresy-trivia-service/internal/domain"
	"heresy-trivia-service/internal/infra/memory"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	store := NewSessionStore(client, time.Minute)
	repo := memory.NewQuestionSetRepository(memory.NewStaticQuestionLoader(sampleSet()), time.Minute)
	service := app.NewGameService(store, repo, memory.NewUsedQuestionStore(), app.DefaultGameConfig(), zerolog.Nop())

	session, err := service.Start(context.Background(), "p1", "Alice", domain.DifficultyEasy)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !mr.Exists("game:session:" + session.ID()) {
		t.Fatalf("expected redis liveness key to be set")
	}

	service.Leave(context.Background(), session.ID())
	if mr.Exists("game:session:" + session.ID()) {
		t.Fatalf("expected redis liveness key to be removed")
	}
}
