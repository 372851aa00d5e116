package redis

import (
	"context"
	"testing"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestAuditStreamRecordsViolations(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	sink := NewAuditStream(newClient(mr), 100)
	at := time.Date(2025, 8, 16, 10, 30, 0, 0, time.UTC)
	for i, code := range []domain.ViolationCode{domain.ViolationQuestionNotAssigned, domain.ViolationQuestionNotYetUnlocked} {
		err := sink.RecordViolation(context.Background(), domain.SecurityViolation{
			UserID:    int64(i + 1),
			Code:      code,
			Detail:    "detail",
			IPAddress: "10.0.0.1",
			UserAgent: "agent",
			Timestamp: at,
		})
		if err != nil {
			t.Fatalf("record violation: %v", err)
		}
	}

	got, err := sink.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(got))
	}
	if got[0].UserID != 2 || got[0].Code != domain.ViolationQuestionNotYetUnlocked {
		t.Fatalf("expected newest first, got %+v", got[0])
	}
	if !got[1].Timestamp.Equal(at) || got[1].IPAddress != "10.0.0.1" {
		t.Fatalf("unexpected record %+v", got[1])
	}
}
