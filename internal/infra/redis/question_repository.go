package redis

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches questions from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestion(ctx context.Context, questionID int64) (domain.Question, error)
}

// QuestionRepository caches questions in Redis (hash per question) and falls back to a loader on cache miss.
// Layout: HSET question:{id} text .. image .. hint .. correct .. c1 .. c5 ..
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestion(ctx context.Context, questionID int64) (domain.Question, error) {
	key := questionKey(questionID)
	if q, ok := r.cached(ctx, key, questionID); ok {
		return q, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// another caller may have filled the cache meanwhile
		if q, ok := r.cached(ctx, key, questionID); ok {
			return q, nil
		}

		q, err := r.loader.LoadQuestion(ctx, questionID)
		if err != nil {
			return domain.Question{}, err
		}

		fields := map[string]interface{}{
			"text":    q.Text,
			"image":   q.Image,
			"hint":    q.Hint,
			"correct": q.CorrectChoice,
		}
		for i, c := range q.Choices {
			fields[choiceField(i)] = c
		}
		pipe := r.client.Pipeline()
		pipe.HSet(ctx, key, fields)
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		// a failed write only costs a reload next time
		_, _ = pipe.Exec(ctx)

		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

// Invalidate drops cached copies so the next read goes to the loader.
func (r *QuestionRepository) Invalidate(ctx context.Context, questionIDs ...int64) error {
	if len(questionIDs) == 0 {
		return nil
	}
	keys := make([]string, len(questionIDs))
	for i, id := range questionIDs {
		keys[i] = questionKey(id)
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *QuestionRepository) cached(ctx context.Context, key string, questionID int64) (domain.Question, bool) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil || len(fields) == 0 {
		return domain.Question{}, false
	}
	correct, err := strconv.Atoi(fields["correct"])
	if err != nil || correct < 1 || correct > domain.ChoiceCount {
		return domain.Question{}, false
	}
	q := domain.Question{
		ID:            questionID,
		Text:          fields["text"],
		Image:         fields["image"],
		Hint:          fields["hint"],
		CorrectChoice: correct,
	}
	for i := range q.Choices {
		q.Choices[i] = fields[choiceField(i)]
	}
	return q, true
}

func questionKey(questionID int64) string {
	return "question:" + strconv.FormatInt(questionID, 10)
}

func choiceField(i int) string {
	return "c" + strconv.Itoa(i+1)
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
