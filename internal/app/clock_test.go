package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/app"
	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayFromScheduleStartDateIsDayOne(t *testing.T) {
	cfg := domain.CampaignConfig{StartDate: campaignStart, DurationDays: 10}

	assert.Equal(t, 1, app.DayFromSchedule(cfg, campaignStart))
	assert.Equal(t, 1, app.DayFromSchedule(cfg, campaignStart.Add(23*time.Hour+59*time.Minute)))
}

func TestDayFromScheduleBoundaries(t *testing.T) {
	cfg := domain.CampaignConfig{StartDate: campaignStart, DurationDays: 10}

	cases := []struct {
		name  string
		today time.Time
		want  int
	}{
		{"day before start", campaignStart.AddDate(0, 0, -1), 0},
		{"long before start", campaignStart.AddDate(0, -2, 0), 0},
		{"second day", campaignStart.AddDate(0, 0, 1), 2},
		{"last day", campaignStart.AddDate(0, 0, 9), 10},
		{"day after end", campaignStart.AddDate(0, 0, 10), 10},
		{"long after end", campaignStart.AddDate(1, 0, 0), 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, app.DayFromSchedule(cfg, tc.today))
		})
	}
}

func TestDayFromScheduleUsesLocalCalendarDate(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	cfg := domain.CampaignConfig{StartDate: campaignStart, DurationDays: 10}

	// 01:30 UTC on the 16th is still the 15th in Brazil.
	today := time.Date(2025, 8, 16, 1, 30, 0, 0, time.UTC).In(saoPaulo)
	assert.Equal(t, 1, app.DayFromSchedule(cfg, today))
}

func TestResolveDayPrefersStoredDay(t *testing.T) {
	cfg := domain.CampaignConfig{StartDate: campaignStart, DurationDays: 10, CurrentDay: intPtr(3)}
	assert.Equal(t, 3, app.ResolveDay(cfg, campaignStart.AddDate(0, 0, 7)))

	cfg.CurrentDay = intPtr(42)
	assert.Equal(t, 10, app.ResolveDay(cfg, campaignStart), "stored day is clamped to the duration")
}

func TestCurrentDayWithoutActiveCampaign(t *testing.T) {
	f := newInactiveFixture()

	_, err := f.clock.CurrentDay(context.Background())
	require.ErrorIs(t, err, domain.ErrNoActiveCampaign)
}

func TestCurrentDayComputedWhenNotStored(t *testing.T) {
	f := newFixtureAt(campaignStart.AddDate(0, 0, 2), nil)

	day, err := f.clock.CurrentDay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, day)
}

func TestUntilNextDayUsesLocalMidnight(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	// 01:30 UTC on the 16th is 22:30 on the 15th in Brazil.
	now := time.Date(2025, 8, 16, 1, 30, 0, 0, time.UTC)
	clock := app.NewCampaignClockWithNow(nil, saoPaulo, func() time.Time { return now })

	assert.Equal(t, 90*time.Minute, clock.UntilNextDay())
}
