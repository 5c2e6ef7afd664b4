package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/omarbz2001/MA-PCM/internal/session"
	"github.com/omarbz2001/MA-PCM/internal/telemetry"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store and applies migrations
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		id SERIAL PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		tsp_file TEXT NOT NULL,
		cities INTEGER NOT NULL,
		solver_path TEXT NOT NULL,
		runner TEXT NOT NULL,
		plot_path TEXT NOT NULL DEFAULT '',
		payload TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) SaveSession(sess *session.Session) (int64, error) {
	payload, err := json.Marshal(sess)
	if err != nil {
		return 0, fmt.Errorf("encoding session: %w", err)
	}

	query := `INSERT INTO sessions (created_at, tsp_file, cities, solver_path, runner, plot_path, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	var id int64
	if err := s.db.QueryRow(query, sess.CreatedAt, sess.TSPFile, sess.Cities, sess.SolverPath, sess.Runner, sess.PlotPath, string(payload)).Scan(&id); err != nil {
		return 0, err
	}
	telemetry.TrackStoreOp()
	return id, nil
}

func (s *PostgresStore) GetSession(id int64) (*session.Session, error) {
	query := `SELECT payload FROM sessions WHERE id = $1`

	var payload string
	if err := s.db.QueryRow(query, id).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %d not found", id)
		}
		return nil, err
	}
	telemetry.TrackStoreOp()
	return decodeSession(id, payload)
}

func (s *PostgresStore) ListSessions(limit int) ([]*session.Session, error) {
	query := `SELECT id, payload FROM sessions ORDER BY created_at DESC, id DESC LIMIT $1`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	telemetry.TrackStoreOp()
	return scanSessions(rows)
}
