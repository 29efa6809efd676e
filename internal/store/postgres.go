// Package store provides storage backends for theraflow.
//
// This file implements a PostgreSQL-backed session store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "embed"

	_ "github.com/lib/pq"
	"github.com/mindloom/theraflow/internal/models"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists sessions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the given DSN.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run Postgres migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Postgres session store ready")
	return &PostgresStore{db: db}, nil
}

// SaveSession stores or updates a session.
func (s *PostgresStore) SaveSession(state models.SessionState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		slog.Error("PostgresStore SaveSession JSON marshal failed", "error", err, "sessionID", state.ID)
		return err
	}
	query := `
		INSERT INTO sessions (id, stage, state_json, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			stage = EXCLUDED.stage,
			state_json = EXCLUDED.state_json,
			updated_at = EXCLUDED.updated_at`
	_, err = s.db.Exec(query, state.ID, string(state.Stage), string(stateJSON), state.CreatedAt, state.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveSession failed", "error", err, "sessionID", state.ID)
		return err
	}
	slog.Debug("PostgresStore SaveSession succeeded", "sessionID", state.ID, "stage", state.Stage)
	return nil
}

// GetSession retrieves a session by id, or (nil, nil) when absent.
func (s *PostgresStore) GetSession(id string) (*models.SessionState, error) {
	var stateJSON string
	err := s.db.QueryRow(`SELECT state_json FROM sessions WHERE id = $1`, id).Scan(&stateJSON)
	if err == sql.ErrNoRows {
		slog.Debug("PostgresStore GetSession not found", "sessionID", id)
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetSession failed", "error", err, "sessionID", id)
		return nil, err
	}
	var state models.SessionState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		slog.Error("PostgresStore GetSession JSON unmarshal failed", "error", err, "sessionID", id)
		return nil, err
	}
	return &state, nil
}

// DeleteSession removes a session.
func (s *PostgresStore) DeleteSession(id string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		slog.Error("PostgresStore DeleteSession failed", "error", err, "sessionID", id)
		return err
	}
	return nil
}

// ListSessions returns all stored session ids.
func (s *PostgresStore) ListSessions() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM sessions ORDER BY created_at`)
	if err != nil {
		slog.Error("PostgresStore ListSessions failed", "error", err)
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

// Close closes the PostgreSQL database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
