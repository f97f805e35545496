package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "modernc.org/sqlite"

	"github.com/candidly/interview-engine/internal/domain"
	"github.com/candidly/interview-engine/internal/ports"
)

const sessionsSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL,
	document   BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions (status);
`

// SQLiteStore is the durable SessionStore, backed by a single SQLite
// database file. Each session is one row holding the encoded document;
// status is duplicated into its own column for querying.
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.SessionStore = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if necessary) the session database at path
// and ensures the schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging session database: %w", err)
	}

	if _, err := db.Exec(sessionsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Persist implements ports.SessionStore with an upsert keyed on session id.
func (s *SQLiteStore) Persist(ctx context.Context, session *domain.InterviewSession) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO sessions (id, status, document, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			document = excluded.document,
			updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query,
		session.ID, string(session.Status), data, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("persisting session %s: %w", session.ID, err)
	}
	return nil
}

// Load implements ports.SessionStore.
func (s *SQLiteStore) Load(ctx context.Context, id string) (*domain.InterviewSession, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}
	return decodeSession(data)
}

// ListByStatus returns the ids of sessions currently in the given status,
// most recently updated first.
func (s *SQLiteStore) ListByStatus(ctx context.Context, status domain.Status) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM sessions WHERE status = ? ORDER BY updated_at DESC`, string(status))
	if err != nil {
		return nil, fmt.Errorf("listing sessions by status: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session rows: %w", err)
	}
	return ids, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
