package postgres

import (
	"context"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
)

// AuditSink appends security violations to the security_violations table.
type AuditSink struct {
	pool *pgxpool.Pool
}

func NewAuditSink(pool *pgxpool.Pool) *AuditSink {
	return &AuditSink{pool: pool}
}

func (s *AuditSink) RecordViolation(ctx context.Context, v domain.SecurityViolation) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO security_violations (user_id, code, detail, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		v.UserID, string(v.Code), v.Detail, v.IPAddress, v.UserAgent, v.Timestamp)
	return errors.Wrapf(err, "record violation for user %d", v.UserID)
}

// Recent returns up to count violations, newest first.
func (s *AuditSink) Recent(ctx context.Context, count int64) ([]domain.SecurityViolation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, code, detail, ip_address, user_agent, created_at
		FROM security_violations ORDER BY id DESC LIMIT $1`, count)
	if err != nil {
		return nil, errors.Wrap(err, "list violations")
	}
	defer rows.Close()

	var out []domain.SecurityViolation
	for rows.Next() {
		var (
			v    domain.SecurityViolation
			code string
		)
		if err := rows.Scan(&v.UserID, &code, &v.Detail, &v.IPAddress, &v.UserAgent, &v.Timestamp); err != nil {
			return nil, errors.Wrap(err, "scan violation")
		}
		v.Code = domain.ViolationCode(code)
		out = append(out, v)
	}
	return out, errors.Wrap(rows.Err(), "list violations")
}
