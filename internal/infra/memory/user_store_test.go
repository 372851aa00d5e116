package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
)

func TestUserStoreApplyAnswerOnlyOnce(t *testing.T) {
	qid := int64(7)
	user := domain.User{ID: 1, Login: "ana", Class: "3A", School: "Central"}
	user.Slots[0].QuestionID = &qid
	store := NewUserStore(user)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ApplyAnswer(context.Background(), 1, domain.AnswerUpdate{
				Slot: 1, XPDelta: 50, MarkAnswered: true, At: time.Now(),
			})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			} else if !errors.Is(err, domain.ErrAlreadyAnswered) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Fatalf("expected exactly one accepted answer, got %d", accepted)
	}
	got, _ := store.GetUser(context.Background(), 1)
	if got.XP != 50 || !got.Slots[0].Answered {
		t.Fatalf("expected 50 xp and answered slot, got %+v", got)
	}
}

func TestUserStoreIncorrectKeepsSlotOpen(t *testing.T) {
	store := NewUserStore(domain.User{ID: 1})

	got, err := store.ApplyAnswer(context.Background(), 1, domain.AnswerUpdate{
		Slot: 2, XPDelta: -10, Incorrect: true, At: time.Now(),
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Slots[1].Answered {
		t.Fatalf("incorrect answer must not close the slot")
	}
	if got.XP != -10 || got.ErrorCount != 1 || got.IncorrectCount != 1 || got.LastResponseAt == nil {
		t.Fatalf("unexpected counters %+v", got)
	}
}

func TestUserStoreUnknownUser(t *testing.T) {
	store := NewUserStore()
	if _, err := store.GetUser(context.Background(), 42); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
