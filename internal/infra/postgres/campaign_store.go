package postgres

import (
	"context"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
)

const campaignColumns = `id, start_date, duration_days, active, current_day, updated_at`

// CampaignStore reads the single active row of the campaigns table.
type CampaignStore struct {
	pool *pgxpool.Pool
}

func NewCampaignStore(pool *pgxpool.Pool) *CampaignStore {
	return &CampaignStore{pool: pool}
}

func (s *CampaignStore) ActiveCampaign(ctx context.Context) (domain.CampaignConfig, error) {
	cfg, err := scanCampaign(s.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE active LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CampaignConfig{}, domain.ErrNoActiveCampaign
	}
	if err != nil {
		return domain.CampaignConfig{}, errors.Wrap(err, "load active campaign")
	}
	return cfg, nil
}

func (s *CampaignStore) SetCurrentDay(ctx context.Context, campaignID int64, day int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE campaigns SET current_day = $2, updated_at = now() WHERE id = $1 AND active`,
		campaignID, day)
	if err != nil {
		return errors.Wrapf(err, "set day of campaign %d", campaignID)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoActiveCampaign
	}
	return nil
}

func (s *CampaignStore) UpdateSchedule(ctx context.Context, campaignID int64, startDate time.Time, durationDays int) (domain.CampaignConfig, error) {
	cfg, err := scanCampaign(s.pool.QueryRow(ctx, `
		UPDATE campaigns
		SET start_date = $2, duration_days = $3, current_day = LEAST(current_day, $3), updated_at = now()
		WHERE id = $1 AND active
		RETURNING `+campaignColumns,
		campaignID, startDate, durationDays))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CampaignConfig{}, domain.ErrNoActiveCampaign
	}
	if err != nil {
		return domain.CampaignConfig{}, errors.Wrapf(err, "update campaign %d", campaignID)
	}
	return cfg, nil
}

// StartCampaign deactivates any active campaign and inserts a new active one.
func (s *CampaignStore) StartCampaign(ctx context.Context, startDate time.Time, durationDays int) (domain.CampaignConfig, error) {
	var cfg domain.CampaignConfig
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE campaigns SET active = FALSE, updated_at = now() WHERE active`); err != nil {
			return errors.Wrap(err, "deactivate campaigns")
		}
		var err error
		cfg, err = scanCampaign(tx.QueryRow(ctx, `
			INSERT INTO campaigns (start_date, duration_days, active) VALUES ($1, $2, TRUE)
			RETURNING `+campaignColumns,
			startDate, durationDays))
		return errors.Wrap(err, "insert campaign")
	})
	if err != nil {
		return domain.CampaignConfig{}, err
	}
	return cfg, nil
}

func scanCampaign(row pgx.Row) (domain.CampaignConfig, error) {
	var cfg domain.CampaignConfig
	err := row.Scan(&cfg.ID, &cfg.StartDate, &cfg.DurationDays, &cfg.Active, &cfg.CurrentDay, &cfg.UpdatedAt)
	return cfg, err
}
