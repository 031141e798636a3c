package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-flock-vault/internal/config"
	"github.com/MKhiriev/go-flock-vault/internal/logger"
)

// ErrNoLocalSession is returned by [SessionStore.Load] when no session has
// been saved yet (or it was cleared).
var ErrNoLocalSession = errors.New("no local session found")

// Session is the locally persisted client state: the account identifier and
// the exported raw vault key. The key never leaves the machine; persisting it
// lets the client restore a vault across restarts without re-entering the
// password (see crypto.Import).
type Session struct {
	Account string
	Key     []byte
	SavedAt time.Time
}

// SessionStore persists at most one client session.
type SessionStore interface {
	Save(ctx context.Context, account string, key []byte) error
	Load(ctx context.Context) (Session, error)
	Clear(ctx context.Context) error
	Close() error
}

// sqliteSessionStore is the SQLite-backed [SessionStore]. A single-row table
// keeps exactly one session; saving replaces whatever was there.
type sqliteSessionStore struct {
	db     *sql.DB
	logger *logger.Logger
}

const createSessionTable = `CREATE TABLE IF NOT EXISTS session (
    id       INTEGER PRIMARY KEY CHECK (id = 1),
    account  TEXT NOT NULL,
    key      BLOB NOT NULL,
    saved_at TIMESTAMP NOT NULL
);`

// NewSessionStore opens (or creates) the SQLite session database at the
// configured path.
func NewSessionStore(ctx context.Context, cfg config.Session, log *logger.Logger) (SessionStore, error) {
	conn, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		log.Err(err).Str("func", "NewSessionStore").Msg("error opening session database")
		return nil, fmt.Errorf("error opening session database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, createSessionTable); err != nil {
		log.Err(err).Str("func", "NewSessionStore").Msg("error creating session table")
		return nil, fmt.Errorf("error creating session table: %w", err)
	}

	return &sqliteSessionStore{db: conn, logger: log}, nil
}

// Save stores the session, replacing any previous one.
func (s *sqliteSessionStore) Save(ctx context.Context, account string, key []byte) error {
	const query = `INSERT INTO session (id, account, key, saved_at) VALUES (1, $1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET account = EXCLUDED.account, key = EXCLUDED.key, saved_at = EXCLUDED.saved_at;`

	if _, err := s.db.ExecContext(ctx, query, account, key, time.Now().UTC()); err != nil {
		s.logger.Err(err).Str("func", "*sqliteSessionStore.Save").Msg("error saving session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// Load returns the saved session, or ErrNoLocalSession when none exists.
func (s *sqliteSessionStore) Load(ctx context.Context) (Session, error) {
	const query = `SELECT account, key, saved_at FROM session WHERE id = 1;`

	var session Session
	err := s.db.QueryRowContext(ctx, query).Scan(&session.Account, &session.Key, &session.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNoLocalSession
	}
	if err != nil {
		s.logger.Err(err).Str("func", "*sqliteSessionStore.Load").Msg("error loading session")
		return Session{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return session, nil
}

// Clear removes the saved session, if any.
func (s *sqliteSessionStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session;`); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *sqliteSessionStore) Close() error {
	return s.db.Close()
}
