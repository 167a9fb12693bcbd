package session

import (
	"context"

	"jobmatch-backend/internal/shared/telemetry"
)

// Guard clears every store key owned by the workflow coordinators when a
// session ends, guaranteeing a clean slate for the next session.
type Guard struct {
	Store Store
}

// Purge removes the owned keys for a session. Safe to fire more than once;
// a purge failure is logged, never propagated, so termination is not blocked.
func (g *Guard) Purge(ctx context.Context, sessionID string) {
	for _, key := range OwnedKeys {
		if err := g.Store.Remove(ctx, sessionID, key); err != nil {
			telemetry.Warn("session.purge_failed", map[string]any{
				"session_id": sessionID,
				"key":        key,
				"error":      err.Error(),
			})
		}
	}
}
