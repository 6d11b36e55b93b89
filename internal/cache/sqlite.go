package cache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Index on memo.generation for clears
const currentSchemaVersion = 1

// SQLiteTier keeps encoded memo values in a SQLite database so they outlive
// the process.
type SQLiteTier struct {
	db *sql.DB
}

var (
	_ Tier    = (*SQLiteTier)(nil)
	_ Stamper = (*SQLiteTier)(nil)
)

// OpenSQLite creates or opens the tier database at path. ":memory:" gives
// a private in-memory database.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
func OpenSQLite(path string) (*SQLiteTier, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	if _, err := db.Exec(
		`INSERT OR IGNORE INTO meta (key, value) VALUES ('generation', ?)`,
		uuid.NewString(),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed generation: %w", err)
	}
	return &SQLiteTier{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteTier) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load implements Tier.
func (s *SQLiteTier) Load(ctx context.Context, table, key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT m.value FROM memo m
		JOIN meta g ON g.key = 'generation' AND g.value = m.generation
		WHERE m.tbl = ? AND m.key = ?
	`, table, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s/%s: %w", table, key, err)
	}
	return data, true, nil
}

// Save implements Tier. The row is stamped with the current generation.
func (s *SQLiteTier) Save(ctx context.Context, table, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memo (tbl, key, generation, value)
		SELECT ?, ?, value, ? FROM meta WHERE key = 'generation'
		ON CONFLICT(tbl, key) DO UPDATE SET
			generation = excluded.generation,
			value = excluded.value
	`, table, key, data)
	if err != nil {
		return fmt.Errorf("save %s/%s: %w", table, key, err)
	}
	return nil
}

// Clear implements Tier. It rotates the generation and deletes rows written
// under earlier ones.
func (s *SQLiteTier) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	defer tx.Rollback()

	gen := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`UPDATE meta SET value = ? WHERE key = 'generation'`, gen); err != nil {
		return fmt.Errorf("clear: rotate generation: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM memo WHERE generation != ?`, gen); err != nil {
		return fmt.Errorf("clear: delete entries: %w", err)
	}
	return tx.Commit()
}

// Stamp implements Stamper. The fingerprint lives in meta next to the
// generation; a database that has none yet counts as changed.
func (s *SQLiteTier) Stamp(ctx context.Context, fingerprint string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("stamp: %w", err)
	}
	defer tx.Rollback()

	var stored string
	err = tx.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'fingerprint'`).Scan(&stored)
	switch {
	case err == nil && stored == fingerprint:
		return false, tx.Commit()
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("stamp: read fingerprint: %w", err)
	}

	gen := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`UPDATE meta SET value = ? WHERE key = 'generation'`, gen); err != nil {
		return false, fmt.Errorf("stamp: rotate generation: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM memo WHERE generation != ?`, gen); err != nil {
		return false, fmt.Errorf("stamp: delete entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES ('fingerprint', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, fingerprint); err != nil {
		return false, fmt.Errorf("stamp: write fingerprint: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("stamp: %w", err)
	}
	return true, nil
}

// Fingerprint returns the stored fingerprint, or "" before the first Stamp.
func (s *SQLiteTier) Fingerprint(ctx context.Context) (string, error) {
	var fp string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'fingerprint'`).Scan(&fp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read fingerprint: %w", err)
	}
	return fp, nil
}

// Generation returns the current generation id.
func (s *SQLiteTier) Generation(ctx context.Context) (string, error) {
	var gen string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'generation'`).Scan(&gen)
	if err != nil {
		return "", fmt.Errorf("read generation: %w", err)
	}
	return gen, nil
}

// Count returns the number of live entries.
func (s *SQLiteTier) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM memo m
		JOIN meta g ON g.key = 'generation' AND g.value = m.generation
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < 1 {
		if _, err := db.Exec(
			`CREATE INDEX IF NOT EXISTS idx_memo_generation ON memo(generation)`,
		); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
