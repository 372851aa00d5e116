package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/BlockSyncLab/FGVGAMEBA/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader([]domain.Question{sampleQuestion()}),
	}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute)

	if _, err := repo.GetQuestion(context.Background(), 7); err != nil {
		t.Fatalf("get question: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}

	q, err := repo.GetQuestion(context.Background(), 7)
	if err != nil {
		t.Fatalf("get cached question: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if q != sampleQuestion() {
		t.Fatalf("cached question differs: %+v", q)
	}
	if ttl := mr.TTL("question:7"); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestQuestionRepositoryReloadsAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader([]domain.Question{sampleQuestion()}),
	}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute)

	_, _ = repo.GetQuestion(context.Background(), 7)
	mr.FastForward(2 * time.Minute)
	_, _ = repo.GetQuestion(context.Background(), 7)

	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}
}

func TestQuestionRepositoryInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader([]domain.Question{sampleQuestion()}),
	}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute)

	_, _ = repo.GetQuestion(context.Background(), 7)
	if err := repo.Invalidate(context.Background(), 7, 8); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("question:7") {
		t.Fatal("expected cache entry to be removed")
	}
	_, _ = repo.GetQuestion(context.Background(), 7)
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.calls)
	}
}

func TestQuestionRepositoryMissing(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewQuestionRepository(newClient(mr), memory.NewStaticQuestionLoader(nil), time.Minute)
	if _, err := repo.GetQuestion(context.Background(), 99); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
	if mr.Exists("question:99") {
		t.Fatal("missing question must not be cached")
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestion(ctx context.Context, questionID int64) (domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestion(ctx, questionID)
}

func sampleQuestion() domain.Question {
	return domain.Question{
		ID:            7,
		Text:          "Qual a capital da Bahia?",
		Image:         "salvador.png",
		Hint:          "starts with S",
		Choices:       [domain.ChoiceCount]string{"Salvador", "Recife", "Natal", "Aracaju", "Maceió"},
		CorrectChoice: 1,
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
