package cli

import (
	"context"
	"database/sql"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/config"
	pgmigrations "github.com/BlockSyncLab/FGVGAMEBA/internal/infra/postgres/migrations"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return RunMigrations(cmd.Context(), cfg.Postgres.URL)
		},
	}
}

// RunMigrations brings the schema at dsn up to date.
func RunMigrations(ctx context.Context, dsn string) error {
	if dsn == "" {
		return errors.New("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return errors.Wrap(err, "init migrations")
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return errors.Wrap(err, "migrate")
	}
	if group.IsZero() {
		glog.Info("schema up to date")
		return nil
	}
	glog.Infof("migrated to %s", group)
	return nil
}
