package database

import (
	"errors"
	"fmt"

	"caseadmin/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// LatestVersion is the newest migration shipped in the migrations directory.
const LatestVersion = 1

func Migrations(url, path string) error {
	migration, err := migrate.New("file://"+path, url)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	defer migration.Close()

	if version, dirty, _ := migration.Version(); dirty {
		logger.Warn("database is dirty, forcing version", zap.Uint("version", version))
		if err := migration.Force(LatestVersion); err != nil {
			return fmt.Errorf("force migration version: %w", err)
		}
	}

	if err := migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("migrations applied")
	return nil
}
