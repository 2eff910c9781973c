package credstore

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/autotrack/autotrack/internal/db"
)

// tokenKey is the fixed, well-known slot name for the single bearer token.
const tokenKey = "access_token"

// Store persists the single bearer token across process restarts. It holds
// no other state; absence of the token means unauthenticated. No validation
// of the token shape happens here, the server is authoritative.
type Store struct {
	conn   *db.DB
	logger *slog.Logger
}

func New(conn *db.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// Token returns the stored bearer token, with ok=false when the slot is
// empty. Satisfies api.CredentialSource.
func (s *Store) Token(ctx context.Context) (string, bool, error) {
	row := s.conn.QueryRow(ctx, `SELECT value FROM credentials WHERE key = ?`, tokenKey)

	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}

		return "", false, err
	}

	return v, v != "", nil
}

// SetToken stores the bearer token, replacing any previous value.
func (s *Store) SetToken(ctx context.Context, token string) error {
	_, err := s.conn.Exec(ctx,
		`INSERT INTO credentials (key, value, updated) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated = excluded.updated`,
		tokenKey, token, now())
	if err != nil {
		return err
	}

	s.logger.Info("credstore: token stored")
	return nil
}

// Clear removes the stored token. Clearing an already-empty slot is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, `DELETE FROM credentials WHERE key = ?`, tokenKey); err != nil {
		return err
	}

	s.logger.Info("credstore: token cleared")
	return nil
}
