package app

import (
	"context"
	"errors"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/golang/glog"
)

// CampaignClock resolves the authoritative campaign day. The active config is
// fetched on every call; nothing is cached between requests.
type CampaignClock struct {
	campaigns CampaignRepository
	loc       *time.Location
	now       func() time.Time
}

func NewCampaignClock(campaigns CampaignRepository, loc *time.Location) *CampaignClock {
	return NewCampaignClockWithNow(campaigns, loc, time.Now)
}

// NewCampaignClockWithNow allows deterministic dates in tests.
func NewCampaignClockWithNow(campaigns CampaignRepository, loc *time.Location, now func() time.Time) *CampaignClock {
	if loc == nil {
		loc = time.UTC
	}
	return &CampaignClock{campaigns: campaigns, loc: loc, now: now}
}

// Now returns the current instant in the campaign time zone.
func (c *CampaignClock) Now() time.Time {
	return c.now().In(c.loc)
}

// UntilNextDay is the time left until the next local midnight.
func (c *CampaignClock) UntilNextDay() time.Duration {
	now := c.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return midnight.Sub(now)
}

// Config returns the active campaign configuration.
func (c *CampaignClock) Config(ctx context.Context) (domain.CampaignConfig, error) {
	return c.campaigns.ActiveCampaign(ctx)
}

// CurrentDay returns the current campaign day, or domain.ErrNoActiveCampaign.
func (c *CampaignClock) CurrentDay(ctx context.Context) (int, error) {
	cfg, err := c.campaigns.ActiveCampaign(ctx)
	if err != nil {
		return 0, err
	}
	return ResolveDay(cfg, c.Now()), nil
}

// resolve returns the active config and day. Without an active campaign it
// falls back to day 1 over a default-length campaign and logs the fallback.
func (c *CampaignClock) resolve(ctx context.Context) (domain.CampaignConfig, int, error) {
	cfg, err := c.campaigns.ActiveCampaign(ctx)
	if errors.Is(err, domain.ErrNoActiveCampaign) {
		glog.Warningf("no active campaign found, falling back to day 1")
		return domain.CampaignConfig{DurationDays: domain.SlotCount}, 1, nil
	}
	if err != nil {
		return domain.CampaignConfig{}, 0, err
	}
	day := ResolveDay(cfg, c.Now())
	glog.V(4).Infof("campaign %d resolved to day %d", cfg.ID, day)
	return cfg, day, nil
}

// ResolveDay returns the stored day when the tick has set one, otherwise the
// day derived from the start date.
func ResolveDay(cfg domain.CampaignConfig, today time.Time) int {
	if cfg.CurrentDay != nil {
		return clampDay(*cfg.CurrentDay, cfg.DurationDays)
	}
	return DayFromSchedule(cfg, today)
}

// DayFromSchedule derives the 1-based day from the calendar: 0 before the
// start date, 1 on the start date itself, DurationDays once the campaign is over.
func DayFromSchedule(cfg domain.CampaignConfig, today time.Time) int {
	elapsed := ElapsedDays(cfg.StartDate, today)
	switch {
	case elapsed < 0:
		return 0
	case elapsed >= cfg.DurationDays:
		return cfg.DurationDays
	default:
		return elapsed + 1
	}
}

// ElapsedDays counts whole calendar days from start to today. start is a
// calendar date; today is read in its own location, ignoring time of day.
func ElapsedDays(start, today time.Time) int {
	s := calendarDate(start.Year(), start.Month(), start.Day())
	t := calendarDate(today.Year(), today.Month(), today.Day())
	return int(t.Sub(s) / (24 * time.Hour))
}

func calendarDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clampDay(day, duration int) int {
	if day < 0 {
		return 0
	}
	if day > duration {
		return duration
	}
	return day
}
