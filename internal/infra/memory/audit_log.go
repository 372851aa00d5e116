package memory

import (
	"context"
	"sync"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
)

// AuditLog is an append-only in-memory audit sink.
type AuditLog struct {
	mu      sync.Mutex
	records []domain.SecurityViolation
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (l *AuditLog) RecordViolation(_ context.Context, v domain.SecurityViolation) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, v)
	return nil
}

// Records returns a copy of everything recorded so far.
func (l *AuditLog) Records() []domain.SecurityViolation {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.SecurityViolation, len(l.records))
	copy(out, l.records)
	return out
}

// Recent returns up to count records, newest first.
func (l *AuditLog) Recent(_ context.Context, count int64) ([]domain.SecurityViolation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := int64(len(l.records))
	if count < n {
		n = count
	}
	out := make([]domain.SecurityViolation, 0, n)
	for i := len(l.records) - 1; i >= 0 && int64(len(out)) < n; i-- {
		out = append(out, l.records[i])
	}
	return out, nil
}
