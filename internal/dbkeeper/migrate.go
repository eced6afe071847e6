package dbkeeper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate"
	"github.com/golang-migrate/migrate/database/postgres"
	_ "github.com/golang-migrate/migrate/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// migrateUp applies every pending migration found in dir.
func migrateUp(dsn string, dir string, log Log) error {
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("parse connection string: %w", err)
	}
	sqlDB := stdlib.OpenDB(*connConfig)
	defer sqlDB.Close()

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		log.Error("Error getting driver", zap.Error(err))
		return fmt.Errorf("migration driver: %w", err)
	}

	path, err := migrationsPath(dir)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		log.Error("Error creating migration instance", zap.Error(err))
		return fmt.Errorf("create migration: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error("Error while performing migration", zap.Error(err))
		return fmt.Errorf("apply migrations: %w", err)
	}

	log.Info("Migrations applied", zap.String("dir", path))
	return nil
}

// migrationsPath resolves dir against the working directory, falling back to
// the repository root when run from cmd/plantcart.
func migrationsPath(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for _, candidate := range []string{
		filepath.Join(cwd, dir),
		filepath.Join(cwd, "..", "..", dir),
	} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("migrations directory %q not found", dir)
}
