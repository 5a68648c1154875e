// Package cache implements optional memoization of generalized top-level
// schemes across inference runs, keyed by a fingerprint string the
// caller chooses (cmd/funxycheck passes the demo program's name; this
// package does not hash source text or the prelude) (spec §5:
// "One inference run owns one Context" — this package lets a caller skip
// re-running a whole Context when nothing relevant to a given top-level
// binding changed).
//
// Grounded on the day59_oauth_provider/internal/database-style
// database/sql + blank-imported modernc.org/sqlite usage (one of this
// module's example repos): a single *sql.DB, schema created with
// CREATE TABLE IF NOT EXISTS, no ORM.
package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is a sqlite-backed cache of printed schemes, keyed by (run
// fingerprint, binding name).
type Store struct {
	db *sql.DB
}

// Open creates or attaches to a sqlite database at path (use ":memory:"
// for a process-local, non-persistent cache).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schemes (
	fingerprint TEXT NOT NULL,
	name        TEXT NOT NULL,
	printed     TEXT NOT NULL,
	PRIMARY KEY (fingerprint, name)
)`

// Get returns the previously-stored printed scheme for name under
// fingerprint, if any.
func (s *Store) Get(fingerprint, name string) (printed string, ok bool, err error) {
	row := s.db.QueryRow(`SELECT printed FROM schemes WHERE fingerprint = ? AND name = ?`, fingerprint, name)
	err = row.Scan(&printed)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: get %s/%s: %w", fingerprint, name, err)
	}
	return printed, true, nil
}

// Put records name's printed scheme under fingerprint, overwriting any
// prior entry for the same key.
func (s *Store) Put(fingerprint, name, printed string) error {
	_, err := s.db.Exec(
		`INSERT INTO schemes (fingerprint, name, printed) VALUES (?, ?, ?)
		 ON CONFLICT(fingerprint, name) DO UPDATE SET printed = excluded.printed`,
		fingerprint, name, printed,
	)
	if err != nil {
		return fmt.Errorf("cache: put %s/%s: %w", fingerprint, name, err)
	}
	return nil
}

// Invalidate removes every entry stored under fingerprint (a prelude or
// source-text change invalidates the whole run's memoized schemes at
// once, since this module doesn't track per-binding dependency edges).
func (s *Store) Invalidate(fingerprint string) error {
	if _, err := s.db.Exec(`DELETE FROM schemes WHERE fingerprint = ?`, fingerprint); err != nil {
		return fmt.Errorf("cache: invalidate %s: %w", fingerprint, err)
	}
	return nil
}
