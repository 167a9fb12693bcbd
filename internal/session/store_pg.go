package session

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGStore implements Store using Postgres.
type PGStore struct {
	DB *sql.DB
}

// Get returns the stored value for a session key.
func (s *PGStore) Get(ctx context.Context, sessionID, key string) ([]byte, bool, error) {
	const query = `
SELECT value
FROM session_state
WHERE session_id = $1 AND key = $2`
	var value []byte
	err := s.DB.QueryRowContext(ctx, query, sessionID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores/overwrites the value for a session key.
func (s *PGStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	const query = `
INSERT INTO session_state (session_id, key, value, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (session_id, key)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	_, err := s.DB.ExecContext(ctx, query, sessionID, key, value, time.Now().UTC())
	return err
}

// Remove deletes one key for a session. Missing keys are not an error.
func (s *PGStore) Remove(ctx context.Context, sessionID, key string) error {
	const query = `
DELETE FROM session_state
WHERE session_id = $1 AND key = $2`
	_, err := s.DB.ExecContext(ctx, query, sessionID, key)
	return err
}

// RemoveAll deletes every key for a session.
func (s *PGStore) RemoveAll(ctx context.Context, sessionID string) error {
	const query = `
DELETE FROM session_state
WHERE session_id = $1`
	_, err := s.DB.ExecContext(ctx, query, sessionID)
	return err
}
