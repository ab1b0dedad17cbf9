package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS library_items (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL,
		role        TEXT NOT NULL,
		subcategory TEXT NOT NULL,
		position    INTEGER NOT NULL DEFAULT 0,
		content     TEXT NOT NULL DEFAULT '',
		title       TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		icon        TEXT NOT NULL DEFAULT '',
		color       TEXT NOT NULL DEFAULT '',
		text_color  TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_library_bucket ON library_items(kind, role, subcategory);

	CREATE TABLE IF NOT EXISTS players (
		idx      INTEGER PRIMARY KEY,
		name     TEXT NOT NULL,
		avatar   TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		color    TEXT NOT NULL,
		role     TEXT NOT NULL
	);

	INSERT OR IGNORE INTO players (idx, name, avatar, position, color, role) VALUES
		(0, 'Him', '👦', 0, '#3B82F6', 'male'),
		(1, 'Her', '👧', 0, '#EC4899', 'female');

	CREATE TABLE IF NOT EXISTS game_history (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		game_type  TEXT NOT NULL,
		winner     TEXT,
		duration   INTEGER NOT NULL DEFAULT 0,
		board_size TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('pomodoro_focus',   '25'),
		('pomodoro_break',   '5'),
		('chess_difficulty', 'warmup'),
		('board_rows',       '8'),
		('board_cols',       '9'),
		('trigger_chance',   '1'),
		('remote_migrated',  'false');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/pairplay/pairplay.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pairplay", "pairplay.db"), nil
}

// DefaultLogPath returns ~/.config/pairplay/pairplay.log
func DefaultLogPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pairplay", "pairplay.log"), nil
}
