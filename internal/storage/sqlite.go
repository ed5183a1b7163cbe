package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore persists blobs in a single-file sqlite database. This is the
// default durable medium.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and runs the
// schema migrations. Opening failures are real errors: without a medium at
// startup the caller should fall back to a memory store explicitly rather
// than run with a silently broken one.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	// A single writer keeps "database is locked" errors out of the
	// fire-and-forget write path.
	db.SetMaxOpenConns(1)

	if e3 := runMigrations(db); e3 != nil {
		db.Close()
		return nil, e3
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not load migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, key string) (json.RawMessage, Status) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, StatusAbsent
	}
	if err != nil {
		log.Printf("storage: load %q failed: %v", key, err)
		return nil, StatusAbsent
	}
	return blob, StatusOK
}

func (s *SQLiteStore) Save(ctx context.Context, key string, blob json.RawMessage) Status {
	query := `INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	          ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

	if _, err := s.db.ExecContext(ctx, query, key, []byte(blob)); err != nil {
		log.Printf("storage: save %q failed: %v", key, err)
		return StatusFailed
	}
	return StatusOK
}

func (s *SQLiteStore) Clear(ctx context.Context, key string) Status {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		log.Printf("storage: clear %q failed: %v", key, err)
		return StatusFailed
	}
	return StatusOK
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
