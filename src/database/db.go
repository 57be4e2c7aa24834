package database

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"stocksim/migrations"
	"stocksim/src/config"
)

// SetupDB opens the configured SQL store and verifies connectivity.
func SetupDB(cfg *config.Config) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch cfg.Databases.SQL.Driver {
	case "sqlite3":
		dsn := cfg.Databases.SQL.ConnectionString
		if dsn == "" {
			dsn = cfg.Databases.SQL.Database
		}
		// Serialize writers at the driver level so concurrent trades queue
		// instead of failing with SQLITE_BUSY.
		db, err = sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	case "postgres":
		dsn := cfg.Databases.SQL.ConnectionString
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				cfg.Databases.SQL.Host,
				cfg.Databases.SQL.Username,
				cfg.Databases.SQL.Password,
				cfg.Databases.SQL.Database,
				cfg.Databases.SQL.Port)
		}
		db, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver: %s", cfg.Databases.SQL.Driver)
	}
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v\nPlease check your database configuration and ensure it's running", err)
	}
	return db, nil
}

// Migrate applies the embedded goose migrations for the configured dialect.
// goose.Up is idempotent, so this runs unconditionally at startup.
func Migrate(db *sql.DB, driver string) error {
	goose.SetBaseFS(migrations.FS)

	var dialect, dir string
	switch driver {
	case "sqlite3":
		dialect, dir = "sqlite3", "sqlite"
	case "postgres":
		dialect, dir = "postgres", "postgres"
	default:
		return fmt.Errorf("unsupported sql driver: %s", driver)
	}

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.Up(db, dir)
}

// SetupGorm wraps the shared *sql.DB for the gorm-backed user store.
func SetupGorm(db *sql.DB, driver string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	switch driver {
	case "sqlite3":
		return gorm.Open(sqlite.Dialector{Conn: db}, gormCfg)
	case "postgres":
		return gorm.Open(postgres.New(postgres.Config{Conn: db}), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}
}
