package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"status-board/models"
	"status-board/utils"

	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
	"go.uber.org/zap"
)

// BoardStore persists the status board bindings and page cursors.
type BoardStore interface {
	Load() (*models.BoardState, error)
	Save(state *models.BoardState) error
	Close() error
}

// Open returns the BoardStore selected by the storage configuration.
func Open(cfg models.StorageConfig) (BoardStore, error) {
	switch cfg.Driver {
	case "json":
		return NewStatusManager(cfg.Path), nil
	case "sqlite", "":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// SQLiteStore keeps the three board tables in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and ensures its tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure the directory for the database file exists.
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps writes ordered and makes ":memory:" usable.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create board tables: %w", err)
	}

	utils.L().Info("connected to board database", zap.String("path", dbPath))
	return &SQLiteStore{db: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS status_channels (
            guild_id TEXT PRIMARY KEY,
            channel_id TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS status_messages (
            guild_id TEXT PRIMARY KEY,
            message_id TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS current_pages (
            guild_id TEXT PRIMARY KEY,
            page INTEGER NOT NULL DEFAULT 1
        );`,
		`CREATE TABLE IF NOT EXISTS board_meta (
            id INTEGER PRIMARY KEY CHECK (id = 1),
            last_updated INTEGER NOT NULL
        );`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Load reads all three tables. An empty database yields an empty state.
func (s *SQLiteStore) Load() (*models.BoardState, error) {
	state := models.NewBoardState()

	if err := s.loadStrings("SELECT guild_id, channel_id FROM status_channels", state.StatusChannels); err != nil {
		return nil, fmt.Errorf("failed to load status channels: %w", err)
	}
	if err := s.loadStrings("SELECT guild_id, message_id FROM status_messages", state.StatusMessages); err != nil {
		return nil, fmt.Errorf("failed to load status messages: %w", err)
	}

	rows, err := s.db.Query("SELECT guild_id, page FROM current_pages")
	if err != nil {
		return nil, fmt.Errorf("failed to query current pages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var guildID string
		var page int
		if err := rows.Scan(&guildID, &page); err != nil {
			return nil, fmt.Errorf("failed to scan current page: %w", err)
		}
		state.CurrentPages[guildID] = page
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read current pages: %w", err)
	}

	var updated int64
	err = s.db.QueryRow("SELECT last_updated FROM board_meta WHERE id = 1").Scan(&updated)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to read board metadata: %w", err)
	default:
		state.LastUpdated = time.Unix(updated, 0)
	}

	return state, nil
}

func (s *SQLiteStore) loadStrings(query string, into map[string]string) error {
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return err
		}
		into[k] = v
	}
	return rows.Err()
}

// Save overwrites all three tables with the given state in one transaction.
func (s *SQLiteStore) Save(state *models.BoardState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"status_channels", "status_messages", "current_pages"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertAll(tx, `INSERT OR REPLACE INTO status_channels (guild_id, channel_id) VALUES (?, ?)`, state.StatusChannels); err != nil {
		return fmt.Errorf("failed to save status channels: %w", err)
	}
	if err := insertAll(tx, `INSERT OR REPLACE INTO status_messages (guild_id, message_id) VALUES (?, ?)`, state.StatusMessages); err != nil {
		return fmt.Errorf("failed to save status messages: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO current_pages (guild_id, page) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for current pages: %w", err)
	}
	defer stmt.Close()
	for guildID, page := range state.CurrentPages {
		if _, err := stmt.Exec(guildID, page); err != nil {
			return fmt.Errorf("failed to save page for guild %s: %w", guildID, err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO board_meta (id, last_updated) VALUES (1, ?)`, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save board metadata: %w", err)
	}

	return tx.Commit()
}

func insertAll(tx *sql.Tx, query string, values map[string]string) error {
	stmt, err := tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for k, v := range values {
		if _, err := stmt.Exec(k, v); err != nil {
			return fmt.Errorf("guild %s: %w", k, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
