package cli

import (
	"github.com/BlockSyncLab/FGVGAMEBA/internal/app"
	"github.com/BlockSyncLab/FGVGAMEBA/internal/config"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewTickCmd advances the stored campaign day. Meant to run once a day from cron.
func NewTickCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Set the campaign day from the calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return errors.New("tick needs a postgres url")
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

			clock := app.NewCampaignClock(b.campaigns, loc)
			day, err := app.NewCampaignService(b.campaigns, clock).Tick(cmd.Context())
			if err != nil {
				return err
			}
			glog.Infof("campaign day is %d", day)
			cmd.Printf("campaign day: %d\n", day)
			glog.Flush()
			return nil
		},
	}
}
