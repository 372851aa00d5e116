package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
)

// CampaignStore holds a single campaign configuration in memory.
type CampaignStore struct {
	mu     sync.RWMutex
	config *domain.CampaignConfig
}

// NewCampaignStore creates a store; a nil config means no campaign is active.
func NewCampaignStore(config *domain.CampaignConfig) *CampaignStore {
	s := &CampaignStore{}
	if config != nil {
		c := *config
		s.config = &c
	}
	return s
}

func (s *CampaignStore) ActiveCampaign(_ context.Context) (domain.CampaignConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil || !s.config.Active {
		return domain.CampaignConfig{}, domain.ErrNoActiveCampaign
	}
	c := *s.config
	if c.CurrentDay != nil {
		day := *c.CurrentDay
		c.CurrentDay = &day
	}
	return c, nil
}

func (s *CampaignStore) SetCurrentDay(_ context.Context, campaignID int64, day int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil || s.config.ID != campaignID {
		return domain.ErrNoActiveCampaign
	}
	s.config.CurrentDay = &day
	s.config.UpdatedAt = time.Now()
	return nil
}

func (s *CampaignStore) UpdateSchedule(_ context.Context, campaignID int64, startDate time.Time, durationDays int) (domain.CampaignConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil || s.config.ID != campaignID || !s.config.Active {
		return domain.CampaignConfig{}, domain.ErrNoActiveCampaign
	}
	s.config.StartDate = startDate
	s.config.DurationDays = durationDays
	if s.config.CurrentDay != nil && *s.config.CurrentDay > durationDays {
		day := durationDays
		s.config.CurrentDay = &day
	}
	s.config.UpdatedAt = time.Now()
	c := *s.config
	if c.CurrentDay != nil {
		day := *c.CurrentDay
		c.CurrentDay = &day
	}
	return c, nil
}
