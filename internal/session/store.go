package session

import (
	"context"
	"encoding/json"
)

// Store keys, one per session-scoped entity class. The lifecycle guard owns
// their removal as a unit.
const (
	KeyFeedback  = "feedback"
	KeyCVName    = "cvName"
	KeyJDName    = "jdName"
	KeyQuestions = "questions"
	KeyQALog     = "qaLog"
)

// OwnedKeys lists every key the lifecycle guard purges at session end.
var OwnedKeys = []string{KeyFeedback, KeyCVName, KeyJDName, KeyQuestions, KeyQALog}

// Store is a session-scoped key/value persistence layer. Values are opaque
// serialized bytes; the store never recomputes anything on a miss, callers
// decide what a miss means.
type Store interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, bool, error)
	Set(ctx context.Context, sessionID, key string, value []byte) error
	Remove(ctx context.Context, sessionID, key string) error
	RemoveAll(ctx context.Context, sessionID string) error
}

// ReadJSON decodes the stored value for key into v. A missing or malformed
// stored value reports absent rather than failing.
func ReadJSON(ctx context.Context, s Store, sessionID, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, sessionID, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, nil
	}
	return true, nil
}

// WriteJSON serializes v and overwrites the stored value for key.
func WriteJSON(ctx context.Context, s Store, sessionID, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, sessionID, key, raw)
}
