package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches questions from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestion(ctx context.Context, questionID int64) (domain.Question, error)
}

// QuestionRepository caches questions with TTL to avoid repeated DB hits.
// Questions are immutable, so a stale entry is never wrong, only late to expire.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[int64]cachedQuestion
}

type cachedQuestion struct {
	question  domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int64]cachedQuestion),
	}
}

func (r *QuestionRepository) GetQuestion(ctx context.Context, questionID int64) (domain.Question, error) {
	if q, ok := r.cached(questionID); ok {
		return q, nil
	}

	result, err, _ := r.sf.Do(strconv.FormatInt(questionID, 10), func() (interface{}, error) {
		if q, ok := r.cached(questionID); ok {
			return q, nil
		}

		q, err := r.loader.LoadQuestion(ctx, questionID)
		if err != nil {
			return domain.Question{}, err
		}

		r.mu.Lock()
		r.cache[questionID] = cachedQuestion{
			question:  q,
			expiresAt: r.clock().Add(r.ttlWithJitterLocked()),
		}
		r.mu.Unlock()
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (r *QuestionRepository) cached(questionID int64) (domain.Question, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[questionID]; ok && entry.expiresAt.After(now) {
		return entry.question, true
	}
	return domain.Question{}, false
}

func (r *QuestionRepository) ttlWithJitterLocked() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticQuestionLoader struct {
	questions map[int64]domain.Question
}

func NewStaticQuestionLoader(questions []domain.Question) *StaticQuestionLoader {
	m := make(map[int64]domain.Question, len(questions))
	for _, q := range questions {
		m[q.ID] = q
	}
	return &StaticQuestionLoader{questions: m}
}

func (l *StaticQuestionLoader) LoadQuestion(_ context.Context, questionID int64) (domain.Question, error) {
	if q, ok := l.questions[questionID]; ok {
		return q, nil
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}
