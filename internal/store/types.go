// Package store persists finished benchmark sessions so later runs can
// be listed, compared, and reported on.
package store

import "github.com/omarbz2001/MA-PCM/internal/session"

// Store is the persistence interface for benchmark sessions.
type Store interface {
	// SaveSession persists a finished session and returns its id.
	SaveSession(s *session.Session) (int64, error)
	// GetSession loads one session by id.
	GetSession(id int64) (*session.Session, error)
	// ListSessions returns up to limit sessions, newest first.
	ListSessions(limit int) ([]*session.Session, error)
	Close() error
}
