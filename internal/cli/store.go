package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	"github.com/SscSPs/studio_ops_app/internal/platform/config"
	"github.com/SscSPs/studio_ops_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/studio_ops_app/internal/repositories/memory"
	"github.com/SscSPs/studio_ops_app/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// openStore builds the repositories for the configured driver. Postgres is
// migrated up before use. The returned func releases the store.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StoreDriver != config.StoreDriverPostgres {
		logger.Warn("Using the in-memory store, data is lost on restart")
		repos, _ := memory.NewRepositoryProvider()
		return repos, func() {}, nil
	}

	if err := runMigrations(cfg, logger, migrationUp); err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.MaxDBConns, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

type migrationDirection string

const (
	migrationUp   migrationDirection = "up"
	migrationDown migrationDirection = "down"
)

// runMigrations applies or reverts every migration under cfg.MigrationsURL.
func runMigrations(cfg *config.Config, logger *slog.Logger, direction migrationDirection) error {
	if cfg.DatabaseURL == "" {
		return errors.New("PGSQL_URL is required to run migrations")
	}
	logger.Info("Running database migrations...", slog.String("direction", string(direction)))

	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	switch direction {
	case migrationDown:
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	noChange := errors.Is(err, migrate.ErrNoChange)

	// Surface dirty state left behind by the run.
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if noChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.", slog.String("direction", string(direction)))
	}
	return nil
}
