package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/omarbz2001/MA-PCM/internal/session"
	"github.com/omarbz2001/MA-PCM/internal/telemetry"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and applies migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
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
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSession(sess *session.Session) (int64, error) {
	payload, err := json.Marshal(sess)
	if err != nil {
		return 0, fmt.Errorf("encoding session: %w", err)
	}

	query := `INSERT INTO sessions (created_at, tsp_file, cities, solver_path, runner, plot_path, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.Exec(query, sess.CreatedAt, sess.TSPFile, sess.Cities, sess.SolverPath, sess.Runner, sess.PlotPath, string(payload))
	if err != nil {
		return 0, err
	}
	telemetry.TrackStoreOp()
	return res.LastInsertId()
}

func (s *SQLiteStore) GetSession(id int64) (*session.Session, error) {
	query := `SELECT payload FROM sessions WHERE id = ?`

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

func (s *SQLiteStore) ListSessions(limit int) ([]*session.Session, error) {
	query := `SELECT id, payload FROM sessions ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	telemetry.TrackStoreOp()
	return scanSessions(rows)
}

func decodeSession(id int64, payload string) (*session.Session, error) {
	var sess session.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, fmt.Errorf("decoding session %d: %w", id, err)
	}
	sess.ID = id
	return &sess, nil
}

func scanSessions(rows *sql.Rows) ([]*session.Session, error) {
	var results []*session.Session
	for rows.Next() {
		var (
			id      int64
			payload string
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		sess, err := decodeSession(id, payload)
		if err != nil {
			return nil, err
		}
		results = append(results, sess)
	}
	return results, rows.Err()
}
