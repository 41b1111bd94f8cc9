package migrations

import (
	"fmt"
	"os"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateStore applies every pending goose migration found in migrationFolder.
func MigrateStore(db *gorm.DB, migrationFolder string) error {
	goose.SetLogger(&logger{})

	fi, err := os.Stat(migrationFolder)
	if err != nil {
		return err
	}

	if !fi.Mode().IsDir() {
		return fmt.Errorf("failed to open migration folder: %s is not a folder", migrationFolder)
	}

	goose.SetBaseFS(os.DirFS(migrationFolder))

	if err := goose.SetDialect(dialect(db)); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return goose.Up(sqlDB, ".")
}

// Version returns the current schema version.
func Version(db *gorm.DB) (int64, error) {
	if err := goose.SetDialect(dialect(db)); err != nil {
		return 0, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return 0, err
	}
	return goose.GetDBVersion(sqlDB)
}

func dialect(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "postgres"
	}
	return "sqlite3"
}

/*
logger implements goose.Logger interface

	type Logger interface {
		Fatalf(format string, v ...interface{})
		Printf(format string, v ...interface{})
	}
*/
type logger struct{}

func (m *logger) Printf(format string, v ...interface{}) { zap.S().Named("migrations").Infof(format, v...) }
func (m *logger) Fatalf(format string, v ...interface{}) { zap.S().Named("migrations").Fatalf(format, v...) }
