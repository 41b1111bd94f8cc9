package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solarwerk/pv-planner/internal/config"
	"github.com/solarwerk/pv-planner/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		undo := setupLogger(cfg)
		defer undo()

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := migrate(cmd.Context(), cfg, db, s); err != nil {
			zap.S().Fatalw("running migrations", "error", err)
		}
		zap.S().Info("Db migrated")

		return nil
	},
}
