// Package store provides storage backends for theraflow.
//
// This file implements an SQLite-backed session store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mindloom/theraflow/internal/models"
)

// DefaultDirPermissions defines the default permissions for database directories
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore persists sessions in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN is a file path to the SQLite database file; the directory is
// created if it does not exist.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(cfg.DSN)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run SQLite migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("SQLite session store ready", "dsn", cfg.DSN)
	return &SQLiteStore{db: db}, nil
}

// SaveSession stores or updates a session.
func (s *SQLiteStore) SaveSession(state models.SessionState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		slog.Error("SQLiteStore SaveSession JSON marshal failed", "error", err, "sessionID", state.ID)
		return err
	}
	query := `
		INSERT OR REPLACE INTO sessions (id, stage, state_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err = s.db.Exec(query, state.ID, string(state.Stage), string(stateJSON), state.CreatedAt, state.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveSession failed", "error", err, "sessionID", state.ID)
		return err
	}
	slog.Debug("SQLiteStore SaveSession succeeded", "sessionID", state.ID, "stage", state.Stage)
	return nil
}

// GetSession retrieves a session by id, or (nil, nil) when absent.
func (s *SQLiteStore) GetSession(id string) (*models.SessionState, error) {
	var stateJSON string
	err := s.db.QueryRow(`SELECT state_json FROM sessions WHERE id = ?`, id).Scan(&stateJSON)
	if err == sql.ErrNoRows {
		slog.Debug("SQLiteStore GetSession not found", "sessionID", id)
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetSession failed", "error", err, "sessionID", id)
		return nil, err
	}
	var state models.SessionState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		slog.Error("SQLiteStore GetSession JSON unmarshal failed", "error", err, "sessionID", id)
		return nil, err
	}
	return &state, nil
}

// DeleteSession removes a session.
func (s *SQLiteStore) DeleteSession(id string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		slog.Error("SQLiteStore DeleteSession failed", "error", err, "sessionID", id)
		return err
	}
	slog.Debug("SQLiteStore DeleteSession succeeded", "sessionID", id)
	return nil
}

// ListSessions returns all stored session ids.
func (s *SQLiteStore) ListSessions() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM sessions ORDER BY created_at`)
	if err != nil {
		slog.Error("SQLiteStore ListSessions failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	return s.db.Close()
}
