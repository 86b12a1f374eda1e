package database

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/squirrel"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/rs/zerolog"

	"todoboard/pkg/config"
)

// DB bundles the sql handle with the squirrel builder configured for the
// active driver's placeholder format.
type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
	Driver       string
}

// Open connects to the configured database, runs pending migrations and
// wraps the connection with otel tracing and zerolog query logging.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	driver, dsn, err := resolveDSN(cfg)

	if err != nil {
		return nil, err
	}

	migrationDB, err := sql.Open(driver, dsn)

	if err != nil {
		return nil, err
	}

	if err := RunMigrations(migrationDB, driver, migrationsPath(cfg)); err != nil {
		migrationDB.Close()
		return nil, err
	}

	migrationDB.Close()

	sqlDB, err := otelsql.Open(driver, dsn,
		otelsql.WithDBSystem(driver),
		otelsql.WithDBName("todoboard"),
	)

	if err != nil {
		return nil, err
	}

	logger := zerolog.New(os.Stdout)
	logged := sqldblogger.OpenDriver(dsn, sqlDB.Driver(), zerologadapter.New(logger))

	// the otelsql pool only served to wrap the driver
	sqlDB.Close()

	logged.SetMaxOpenConns(100)
	logged.SetMaxIdleConns(5)
	logged.SetConnMaxLifetime(5 * time.Minute)

	return NewFromSQL(logged, driver), nil
}

// NewFromSQL builds a DB around an existing handle. Tests use this with an
// in-memory sqlite connection.
func NewFromSQL(sqlDB *sql.DB, driver string) *DB {
	builder := squirrel.StatementBuilder.PlaceholderFormat(placeholderFormat(driver))

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &builder,
		Driver:       driver,
	}
}

func RunMigrations(db *sql.DB, driver string, migrationsPath string) error {
	var (
		m   *migrate.Migrate
		err error
	)

	switch driver {
	case "pgx", "postgres":
		pgDriver, derr := migratepg.WithInstance(db, &migratepg.Config{})
		if derr != nil {
			return derr
		}
		m, err = migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", pgDriver)
	default:
		liteDriver, derr := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if derr != nil {
			return derr
		}
		m, err = migrate.NewWithDatabaseInstance("file://"+migrationsPath, "sqlite3", liteDriver)
	}

	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

func resolveDSN(cfg config.DatabaseConfig) (string, string, error) {
	switch cfg.Driver {
	case "postgres", "pgx":
		if cfg.URL == "" {
			return "", "", fmt.Errorf("postgres driver requires DATABASE_URL")
		}
		return "pgx", cfg.URL, nil
	case "sqlite3", "":
		path := cfg.Path
		if path == "" {
			path = "database.db"
		}
		return "sqlite3", path, nil
	default:
		return "", "", fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

func migrationsPath(cfg config.DatabaseConfig) string {
	if cfg.MigrationsPath != "" {
		return cfg.MigrationsPath
	}

	if cfg.Driver == "postgres" || cfg.Driver == "pgx" {
		return "db/migrations/postgres"
	}

	return "db/migrations/sqlite"
}

func placeholderFormat(driver string) squirrel.PlaceholderFormat {
	if driver == "pgx" || driver == "postgres" {
		return squirrel.Dollar
	}

	return squirrel.Question
}
