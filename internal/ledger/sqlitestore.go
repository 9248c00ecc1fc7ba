package ledger

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps records in a SQLite database. Save rewrites the players
// table in one transaction; seq preserves insertion order.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// migrates the schema. Use ":memory:" for a throwaway database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second pooled connection to ":memory:" would see an empty database
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS players (
			seq INTEGER NOT NULL,
			username TEXT PRIMARY KEY,
			credential TEXT NOT NULL,
			games_played INTEGER NOT NULL DEFAULT 0,
			games_won INTEGER NOT NULL DEFAULT 0,
			chips INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_players_seq ON players(seq)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Load reads every player in insertion order.
func (s *SQLiteStore) Load() ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT username, credential, games_played, games_won, chips
		FROM players
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Username, &rec.Credential, &rec.GamesPlayed, &rec.GamesWon, &rec.Chips); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Save replaces the players table with records.
func (s *SQLiteStore) Save(records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM players`); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO players (seq, username, credential, games_played, games_won, chips)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.Exec(i, rec.Username, rec.Credential, rec.GamesPlayed, rec.GamesWon, rec.Chips); err != nil {
			return fmt.Errorf("failed to insert %q: %w", rec.Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
