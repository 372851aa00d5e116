package app

import (
	"context"
	"fmt"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/golang/glog"
)

const maxDurationDays = 365

// CampaignService holds the operator use cases around the campaign schedule.
type CampaignService struct {
	campaigns CampaignRepository
	clock     *CampaignClock
}

func NewCampaignService(campaigns CampaignRepository, clock *CampaignClock) *CampaignService {
	return &CampaignService{campaigns: campaigns, clock: clock}
}

// Status reports the lifecycle phase of the active campaign. The phase follows
// the resolved day, so a stored day set by tick or reset wins over the calendar.
func (s *CampaignService) Status(ctx context.Context) (domain.CampaignStatus, error) {
	cfg, err := s.campaigns.ActiveCampaign(ctx)
	if err != nil {
		return domain.CampaignStatus{}, err
	}
	day := ResolveDay(cfg, s.clock.Now())

	state := domain.CampaignActive
	switch {
	case day == 0:
		state = domain.CampaignWaiting
	case day >= cfg.DurationDays:
		state = domain.CampaignFinished
	}

	remaining := cfg.DurationDays - day
	if remaining < 0 {
		remaining = 0
	}
	return domain.CampaignStatus{
		State:         state,
		CurrentDay:    day,
		DaysRemaining: remaining,
		DurationDays:  cfg.DurationDays,
		StartDate:     cfg.StartDate.Format(time.DateOnly),
		EndDate:       cfg.EndDate().Format(time.DateOnly),
	}, nil
}

// UpdateSchedule moves the start date and duration of the active campaign.
func (s *CampaignService) UpdateSchedule(ctx context.Context, startDate time.Time, durationDays int) (domain.CampaignConfig, error) {
	if durationDays < 1 || durationDays > maxDurationDays {
		return domain.CampaignConfig{}, fmt.Errorf("%w: duration %d outside 1..%d", domain.ErrInvalidSchedule, durationDays, maxDurationDays)
	}
	if startDate.IsZero() {
		return domain.CampaignConfig{}, fmt.Errorf("%w: missing start date", domain.ErrInvalidSchedule)
	}
	cfg, err := s.campaigns.ActiveCampaign(ctx)
	if err != nil {
		return domain.CampaignConfig{}, err
	}
	start := calendarDate(startDate.Year(), startDate.Month(), startDate.Day())
	updated, err := s.campaigns.UpdateSchedule(ctx, cfg.ID, start, durationDays)
	if err != nil {
		return domain.CampaignConfig{}, err
	}
	glog.Infof("campaign %d rescheduled: start=%s duration=%d", cfg.ID, start.Format(time.DateOnly), durationDays)
	return updated, nil
}

// ResetDay overrides the stored day of the active campaign.
func (s *CampaignService) ResetDay(ctx context.Context, day int) (domain.CampaignConfig, error) {
	cfg, err := s.campaigns.ActiveCampaign(ctx)
	if err != nil {
		return domain.CampaignConfig{}, err
	}
	if day < 0 || day > cfg.DurationDays {
		return domain.CampaignConfig{}, fmt.Errorf("%w: %d outside 0..%d", domain.ErrInvalidDay, day, cfg.DurationDays)
	}
	if err := s.campaigns.SetCurrentDay(ctx, cfg.ID, day); err != nil {
		return domain.CampaignConfig{}, err
	}
	glog.Infof("campaign %d day reset to %d", cfg.ID, day)
	cfg.CurrentDay = &day
	return cfg, nil
}

// Tick is the daily trigger. It sets the stored day to the calendar-derived
// day, so repeated ticks on the same date leave the state unchanged.
func (s *CampaignService) Tick(ctx context.Context) (int, error) {
	cfg, err := s.campaigns.ActiveCampaign(ctx)
	if err != nil {
		return 0, err
	}
	day := DayFromSchedule(cfg, s.clock.Now())
	if cfg.CurrentDay != nil && *cfg.CurrentDay == day {
		glog.V(2).Infof("campaign %d already on day %d", cfg.ID, day)
		return day, nil
	}
	if err := s.campaigns.SetCurrentDay(ctx, cfg.ID, day); err != nil {
		return 0, err
	}
	glog.Infof("campaign %d advanced to day %d", cfg.ID, day)
	return day, nil
}
