package memory

import (
	"context"
	"testing"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
)

func TestCampaignStoreUpdateScheduleClampsDay(t *testing.T) {
	day := 8
	store := NewCampaignStore(&domain.CampaignConfig{ID: 1, DurationDays: 10, Active: true, CurrentDay: &day})

	cfg, err := store.UpdateSchedule(context.Background(), 1, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), 3)
	if err != nil {
		t.Fatalf("update schedule: %v", err)
	}
	if cfg.CurrentDay == nil || *cfg.CurrentDay != 3 {
		t.Fatalf("expected day clamped to 3, got %v", cfg.CurrentDay)
	}
	if day != 8 {
		t.Fatalf("caller's day was modified: %d", day)
	}
}
