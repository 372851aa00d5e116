package cli

import (
	"os"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/config"
	"github.com/BlockSyncLab/FGVGAMEBA/internal/infra/xlsx"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewImportUsersCmd creates students and their slot assignments from a roster spreadsheet.
func NewImportUsersCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import-users <file.xlsx>",
		Short: "Import students from a roster spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return errors.New("import-users needs a postgres url")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, "open %s", args[0])
			}
			defer f.Close()

			users, rejected, err := xlsx.ReadUsers(f)
			if err != nil {
				return err
			}
			for _, r := range rejected {
				glog.Warningf("skipping %v", r)
				cmd.PrintErrln("skipped", r.Error())
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

			for _, u := range users {
				created, err := b.userStore.CreateUser(cmd.Context(), u)
				if err != nil {
					return err
				}
				glog.V(2).Infof("created user %d (%s, %s/%s)", created.ID, created.Login, created.School, created.Class)
			}
			cmd.Printf("imported %d users, skipped %d rows\n", len(users), len(rejected))
			glog.Flush()
			return nil
		},
	}
}
