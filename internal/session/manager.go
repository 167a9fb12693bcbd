package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobmatch-backend/internal/shared/telemetry"
)

// EndHook is invoked when a session terminates. Hooks must tolerate being
// fired more than once for the same session.
type EndHook func(ctx context.Context, sessionID string)

// Manager tracks live sessions and fires registered hooks when a session
// ends, either explicitly or by idle expiry.
type Manager struct {
	ttl time.Duration

	mu       sync.Mutex
	lastSeen map[string]time.Time
	hooks    []EndHook
}

// NewManager constructs a Manager with the given idle TTL.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		lastSeen: make(map[string]time.Time),
	}
}

// OnSessionEnd registers a termination hook. Registration happens during
// bootstrap, before any session traffic.
func (m *Manager) OnSessionEnd(hook EndHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook)
}

// Issue creates a new live session and returns its ID.
func (m *Manager) Issue() string {
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSeen[id] = time.Now().UTC()
	return id
}

// Touch marks a session as recently active. Unknown IDs become live: a
// returning client keeps its cookie across a server restart.
func (m *Manager) Touch(sessionID string) {
	if sessionID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSeen[sessionID] = time.Now().UTC()
}

// Alive reports whether the session is currently live.
func (m *Manager) Alive(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.lastSeen[sessionID]
	return ok
}

// End terminates a session and fires the registered hooks. Ending an
// already-ended session fires the hooks again; hooks are idempotent.
// Hooks run on a detached context: a browser unload aborts the request
// that triggered the end, and cleanup must still complete.
func (m *Manager) End(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	m.mu.Lock()
	delete(m.lastSeen, sessionID)
	hooks := make([]EndHook, len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	for _, hook := range hooks {
		hook(ctx, sessionID)
	}
}

// Sweep ends every session idle longer than the TTL.
func (m *Manager) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-m.ttl)

	m.mu.Lock()
	var expired []string
	for id, seen := range m.lastSeen {
		if seen.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		telemetry.Info("session.expired", map[string]any{"session_id": id})
		m.End(ctx, id)
	}
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep(ctx)
			}
		}
	}()
}
