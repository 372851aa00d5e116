package cli

import (
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/config"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewCampaignCmd groups the campaign administration subcommands.
func NewCampaignCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Manage the active campaign",
	}
	cmd.AddCommand(newCampaignStartCmd(configPath))
	return cmd
}

func newCampaignStartCmd(configPath *string) *cobra.Command {
	var (
		date string
		days int
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Replace the active campaign with a new one",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseStartDate(date, days)
			if err != nil {
				return err
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return errors.New("campaign start needs a postgres url")
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			b, err := openBackend(cmd.Context(), cfg, loc)
			if err != nil {
				return err
			}
			defer b.Close()

			campaign, err := b.campaignStore.StartCampaign(cmd.Context(), start, days)
			if err != nil {
				return err
			}
			glog.Infof("campaign %d started on %s for %d days", campaign.ID, date, days)
			cmd.Printf("campaign %d: starts %s, %d days\n", campaign.ID, campaign.StartDate.Format(time.DateOnly), campaign.DurationDays)
			glog.Flush()
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "first campaign day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 10, "campaign length in days")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func parseStartDate(date string, days int) (time.Time, error) {
	if days < 1 || days > 365 {
		return time.Time{}, errors.Errorf("--days must be within 1..365, got %d", days)
	}
	start, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid --date %q", date)
	}
	return start, nil
}
