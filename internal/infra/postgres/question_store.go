package postgres

import (
	"context"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
)

// QuestionStore loads and writes questions. It backs the question caches as their loader.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) LoadQuestion(ctx context.Context, questionID int64) (domain.Question, error) {
	var (
		q       domain.Question
		choices []string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, text, image, hint, choices, correct_choice FROM questions WHERE id = $1`,
		questionID).Scan(&q.ID, &q.Text, &q.Image, &q.Hint, &choices, &q.CorrectChoice)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, errors.Wrapf(err, "load question %d", questionID)
	}
	copy(q.Choices[:], choices)
	return q, nil
}

// UpsertQuestion inserts q or replaces the stored question with the same id.
func (s *QuestionStore) UpsertQuestion(ctx context.Context, q domain.Question) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO questions (id, text, image, hint, choices, correct_choice)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			text = EXCLUDED.text,
			image = EXCLUDED.image,
			hint = EXCLUDED.hint,
			choices = EXCLUDED.choices,
			correct_choice = EXCLUDED.correct_choice`,
		q.ID, q.Text, q.Image, q.Hint, q.Choices[:], q.CorrectChoice)
	return errors.Wrapf(err, "upsert question %d", q.ID)
}
