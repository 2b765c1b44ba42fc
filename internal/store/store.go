// Package store keeps imported viewing history in SQLite so it can be queried
// across runs.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

const createTablesQuery = `
CREATE TABLE IF NOT EXISTS Profile (
  name TEXT PRIMARY KEY,
  source TEXT,
  last_imported DATETIME,
  has_duration INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS Viewing (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  profile TEXT,
  title TEXT NOT NULL,
  show TEXT NOT NULL,
  is_episode INTEGER NOT NULL DEFAULT 0,
  season INTEGER NOT NULL DEFAULT 0,
  episode INTEGER NOT NULL DEFAULT 0,
  start_time INTEGER NOT NULL,
  duration_seconds INTEGER NOT NULL DEFAULT 0,
  device TEXT,
  supplemental TEXT NOT NULL DEFAULT '',
  FOREIGN KEY (profile) REFERENCES Profile(name)
);

CREATE INDEX IF NOT EXISTS ViewingStart ON Viewing (start_time);
`

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(createTablesQuery); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema upgrades databases created before imports recorded whether the
// export carried durations. Rows from those imports are assumed to have them.
func ensureSchema(db *sql.DB) error {
	return addColumnIfNotExists(db, "Profile", "has_duration", "INTEGER NOT NULL DEFAULT 1")
}

func addColumnIfNotExists(db *sql.DB, table, column, typeDef string) error {
	exists, err := columnExists(db, table, column)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if !exists {
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, typeDef)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("adding column %s.%s: %w", table, column, err)
		}
	}
	return nil
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    interface{}
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
