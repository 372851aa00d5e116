package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// AuditStreamKey is the stream security violations are appended to.
const AuditStreamKey = "audit:violations"

// AuditStream appends security violations to a capped Redis stream so that
// several instances can share one audit trail.
type AuditStream struct {
	client *redis.Client
	maxLen int64
}

// NewAuditStream creates the sink; maxLen <= 0 leaves the stream uncapped.
func NewAuditStream(client *redis.Client, maxLen int64) *AuditStream {
	return &AuditStream{client: client, maxLen: maxLen}
}

func (s *AuditStream) RecordViolation(ctx context.Context, v domain.SecurityViolation) error {
	args := &redis.XAddArgs{
		Stream: AuditStreamKey,
		Values: map[string]interface{}{
			"user_id":    strconv.FormatInt(v.UserID, 10),
			"code":       string(v.Code),
			"detail":     v.Detail,
			"ip":         v.IPAddress,
			"user_agent": v.UserAgent,
			"timestamp":  v.Timestamp.UTC().Format(time.RFC3339Nano),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	return errors.Wrap(s.client.XAdd(ctx, args).Err(), "append audit stream")
}

// Recent returns up to count violations, newest first.
func (s *AuditStream) Recent(ctx context.Context, count int64) ([]domain.SecurityViolation, error) {
	msgs, err := s.client.XRevRangeN(ctx, AuditStreamKey, "+", "-", count).Result()
	if err != nil {
		return nil, errors.Wrap(err, "read audit stream")
	}
	out := make([]domain.SecurityViolation, 0, len(msgs))
	for _, m := range msgs {
		v := domain.SecurityViolation{
			Code:      domain.ViolationCode(str(m.Values["code"])),
			Detail:    str(m.Values["detail"]),
			IPAddress: str(m.Values["ip"]),
			UserAgent: str(m.Values["user_agent"]),
		}
		v.UserID, _ = strconv.ParseInt(str(m.Values["user_id"]), 10, 64)
		v.Timestamp, _ = time.Parse(time.RFC3339Nano, str(m.Values["timestamp"]))
		out = append(out, v)
	}
	return out, nil
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}
