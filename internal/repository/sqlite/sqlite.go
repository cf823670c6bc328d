// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere
// Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// It implements repository.ContactRepository, repository.ListRepository,
// and repository.UserRepository.
type DB struct {
	conn *sql.DB
}

// New opens a SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/crm.db"  → file-based database (persistent)
//   - ":memory:"     → in-memory database (used by the tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A memory database lives and dies with its connection, and each new
	// pooled connection would get its own empty copy. One connection total
	// keeps every query on the same database.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// Ping verifies the connection actually works. Without this, a bad path
	// or permissions issue would only surface on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// dsn builds the connection string. database/sql opens connections lazily
// and retires idle ones, so per-session pragmas must ride the DSN — a one-off
// Exec after Open would configure whichever single connection ran it and
// leave the rest of the pool with foreign keys off, breaking the ON DELETE
// CASCADE rules on list_contacts.
//
//   - foreign_keys(1): OFF by default in SQLite; cascades depend on it.
//   - journal_mode(WAL): concurrent reads while a write is in flight.
//   - busy_timeout(5000): wait for a writer instead of failing with SQLITE_BUSY.
func dsn(dbPath string) string {
	return "file:" + dbPath +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent —
// safe to run on every start against an existing database file.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                TEXT PRIMARY KEY,
			email             TEXT NOT NULL DEFAULT '',
			first_name        TEXT NOT NULL DEFAULT '',
			last_name         TEXT NOT NULL DEFAULT '',
			profile_image_url TEXT NOT NULL DEFAULT '',
			created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS contacts (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name    TEXT NOT NULL,
			last_name     TEXT NOT NULL,
			role          TEXT NOT NULL,
			company       TEXT NOT NULL,
			linkedin      TEXT NOT NULL DEFAULT '',
			portfolio     TEXT NOT NULL DEFAULT '',
			notes         TEXT NOT NULL DEFAULT '',
			profile_photo TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("creating contacts table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS lists (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating lists table: %w", err)
	}

	// UNIQUE(list_id, contact_id): re-adding a member must never produce a
	// duplicate row. ON DELETE CASCADE keeps memberships consistent when
	// either parent goes away.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS list_contacts (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			list_id    INTEGER NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
			contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
			added_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(list_id, contact_id)
		);
		CREATE INDEX IF NOT EXISTS idx_list_contacts_list_id ON list_contacts(list_id);
		CREATE INDEX IF NOT EXISTS idx_list_contacts_contact_id ON list_contacts(contact_id);
	`)
	if err != nil {
		return fmt.Errorf("creating list_contacts table: %w", err)
	}

	return nil
}
