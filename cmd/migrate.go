package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	config "project-board.com/project-board/internal/configs"
	repository "project-board.com/project-board/internal/repositories"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the postgres schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(repository.MigrateUp), string(repository.MigrateDown)},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if cfg.DatabaseDriver != config.DriverPostgres {
			return errors.New("migrations apply to the postgres driver only; sqlite and bolt manage their own schema")
		}

		return repository.RunMigrations(cfg.DatabaseURL, repository.MigrationDirection(args[0]), logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
