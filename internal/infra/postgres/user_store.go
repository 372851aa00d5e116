package postgres

import (
	"context"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
)

const selectUser = `SELECT id, login, class, school, xp, error_count, incorrect_count, late_count, last_response_at FROM users`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// UserStore keeps students in the users table and their slots in user_slots.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	return getUser(ctx, s.pool, userID)
}

func (s *UserStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, selectUser+` ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	defer rows.Close()

	var users []domain.User
	index := make(map[int64]int)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		index[u.ID] = len(users)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list users")
	}

	slots, err := s.pool.Query(ctx, `SELECT user_id, slot, question_id, answered FROM user_slots`)
	if err != nil {
		return nil, errors.Wrap(err, "list slots")
	}
	defer slots.Close()
	for slots.Next() {
		var (
			userID int64
			n      int
			slot   domain.Slot
		)
		if err := slots.Scan(&userID, &n, &slot.QuestionID, &slot.Answered); err != nil {
			return nil, errors.Wrap(err, "scan slot")
		}
		i, ok := index[userID]
		if !ok {
			continue
		}
		if dst := users[i].Slot(n); dst != nil {
			*dst = slot
		}
	}
	return users, errors.Wrap(slots.Err(), "list slots")
}

// ApplyAnswer locks the user's slot row for the duration of the transaction.
// A second submission for the same slot waits on the lock and then sees it answered.
func (s *UserStore) ApplyAnswer(ctx context.Context, userID int64, update domain.AnswerUpdate) (domain.User, error) {
	var user domain.User
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		var answered bool
		err := tx.QueryRow(ctx,
			`SELECT answered FROM user_slots WHERE user_id = $1 AND slot = $2 AND question_id IS NOT NULL FOR UPDATE`,
			userID, update.Slot).Scan(&answered)
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
				return errors.Wrap(err, "check user")
			}
			if !exists {
				return domain.ErrUserNotFound
			}
			return domain.ErrQuestionNotAssigned
		}
		if err != nil {
			return errors.Wrap(err, "lock slot")
		}
		if answered {
			return domain.ErrAlreadyAnswered
		}

		if update.MarkAnswered {
			if _, err := tx.Exec(ctx,
				`UPDATE user_slots SET answered = TRUE WHERE user_id = $1 AND slot = $2`,
				userID, update.Slot); err != nil {
				return errors.Wrap(err, "mark slot answered")
			}
		}
		incorrect, late := 0, 0
		if update.Incorrect {
			incorrect = 1
		}
		if update.Late {
			late = 1
		}
		if _, err := tx.Exec(ctx, `
			UPDATE users SET
				xp = xp + $2,
				error_count = error_count + $3,
				incorrect_count = incorrect_count + $3,
				late_count = late_count + $4,
				last_response_at = $5
			WHERE id = $1`,
			userID, update.XPDelta, incorrect, late, update.At); err != nil {
			return errors.Wrap(err, "update user score")
		}

		user, err = getUser(ctx, tx, userID)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// CreateUser inserts a student with its slot assignments and returns it with the generated id.
func (s *UserStore) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO users (login, class, school, xp) VALUES ($1, $2, $3, $4) RETURNING id`,
			u.Login, u.Class, u.School, u.XP).Scan(&u.ID); err != nil {
			return errors.Wrapf(err, "insert user %s", u.Login)
		}
		for i, slot := range u.Slots {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_slots (user_id, slot, question_id, answered) VALUES ($1, $2, $3, $4)`,
				u.ID, i+1, slot.QuestionID, slot.Answered); err != nil {
				return errors.Wrapf(err, "insert slot %d for %s", i+1, u.Login)
			}
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func getUser(ctx context.Context, q querier, userID int64) (domain.User, error) {
	u, err := scanUser(q.QueryRow(ctx, selectUser+` WHERE id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, errors.Wrapf(err, "load user %d", userID)
	}

	rows, err := q.Query(ctx, `SELECT slot, question_id, answered FROM user_slots WHERE user_id = $1`, userID)
	if err != nil {
		return domain.User{}, errors.Wrapf(err, "load slots of user %d", userID)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			n    int
			slot domain.Slot
		)
		if err := rows.Scan(&n, &slot.QuestionID, &slot.Answered); err != nil {
			return domain.User{}, errors.Wrap(err, "scan slot")
		}
		if dst := u.Slot(n); dst != nil {
			*dst = slot
		}
	}
	if err := rows.Err(); err != nil {
		return domain.User{}, errors.Wrapf(err, "load slots of user %d", userID)
	}
	return u, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Login, &u.Class, &u.School, &u.XP,
		&u.ErrorCount, &u.IncorrectCount, &u.LateCount, &u.LastResponseAt)
	return u, err
}
