package cli

import (
	"os"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/config"
	"github.com/BlockSyncLab/FGVGAMEBA/internal/infra/xlsx"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewImportQuestionsCmd loads a question bank spreadsheet into Postgres.
func NewImportQuestionsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import-questions <file.xlsx>",
		Short: "Import questions from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return errors.New("import-questions needs a postgres url")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, "open %s", args[0])
			}
			defer f.Close()

			questions, rejected, err := xlsx.ReadQuestions(f)
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

			ids := make([]int64, 0, len(questions))
			for _, q := range questions {
				if err := b.questionStore.UpsertQuestion(cmd.Context(), q); err != nil {
					return err
				}
				ids = append(ids, q.ID)
			}
			if b.questionCache != nil {
				if err := b.questionCache.Invalidate(cmd.Context(), ids...); err != nil {
					glog.Warningf("invalidate question cache: %v", err)
				}
			}
			cmd.Printf("imported %d questions, skipped %d rows\n", len(questions), len(rejected))
			glog.Flush()
			return nil
		},
	}
}
