package main

import (
	"context"
	"net"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/solarwerk/pv-planner/internal/config"
	"github.com/solarwerk/pv-planner/internal/store"
	"github.com/solarwerk/pv-planner/pkg/log"
	"github.com/solarwerk/pv-planner/pkg/migrations"
)

// setupLogger installs the global zap logger. The returned func restores the previous one.
func setupLogger(cfg *config.Config) func() {
	logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
	if err != nil {
		logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger := log.InitLog(logLvl)
	undo := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		undo()
	}
}

// migrate applies the sql migrations when a folder is configured and falls back to
// creating the schema from the models otherwise.
func migrate(ctx context.Context, cfg *config.Config, db *gorm.DB, s store.Store) error {
	if cfg.Service.MigrationFolder == "" {
		zap.S().Info("no migrations folder configured, migrating from models")
		return s.InitialMigration(ctx)
	}

	if err := migrations.MigrateStore(db, cfg.Service.MigrationFolder); err != nil {
		return err
	}
	version, err := migrations.Version(db)
	if err != nil {
		return err
	}
	zap.S().Infof("database schema at version %d", version)
	return nil
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
