package database

import (
	"database/sql"
	"embed"
	"fmt"
	"net/url"

	"acd-tierlist/internal/config"
	"acd-tierlist/internal/constants"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func New(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	return Open(cfg.DBPath, logger)
}

// Each write replaces the single document row: fsync on every commit, and
// transactions take the write lock at BEGIN.
var dsnParams = url.Values{
	"_journal_mode": {"WAL"},
	"_synchronous":  {"FULL"},
	"_busy_timeout": {"5000"},
	"_txlock":       {"immediate"},
}

// Open connects to the SQLite file at path and brings its schema up to date.
func Open(path string, logger zerolog.Logger) (*sql.DB, error) {
	logger = logger.With().Str("path", path).Logger()

	db, err := sql.Open("sqlite3", "file:"+path+"?"+dsnParams.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	mode, err := journalMode(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if mode != "wal" {
		logger.Warn().Str("journal_mode", mode).Msg("WAL unavailable, falling back")
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info().Str("journal_mode", mode).Msg("database ready")
	return db, nil
}

func journalMode(db *sql.DB) (string, error) {
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		return "", fmt.Errorf("failed to reach database: %w", err)
	}
	return mode, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}
	return nil
}
