package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
)

// UserStore is an in-memory implementation of app.UserRepository.
type UserStore struct {
	mu    sync.RWMutex
	users map[int64]domain.User
}

func NewUserStore(users ...domain.User) *UserStore {
	s := &UserStore{users: make(map[int64]domain.User, len(users))}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *UserStore) GetUser(_ context.Context, userID int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// ApplyAnswer checks and updates the slot under the store lock, so two
// concurrent submissions for the same slot cannot both succeed.
func (s *UserStore) ApplyAnswer(_ context.Context, userID int64, update domain.AnswerUpdate) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	slot := u.Slot(update.Slot)
	if slot == nil {
		return domain.User{}, domain.ErrQuestionNotAssigned
	}
	if slot.Answered {
		return domain.User{}, domain.ErrAlreadyAnswered
	}

	if update.MarkAnswered {
		slot.Answered = true
	}
	u.XP += update.XPDelta
	if update.Incorrect {
		u.ErrorCount++
		u.IncorrectCount++
	}
	if update.Late {
		u.LateCount++
	}
	at := update.At
	u.LastResponseAt = &at

	s.users[userID] = u
	return u, nil
}
