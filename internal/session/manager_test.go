package session

import (
	"context"
	"testing"
	"time"
)

func TestManagerIssueAndEnd(t *testing.T) {
	manager := NewManager(time.Hour)

	var fired []string
	manager.OnSessionEnd(func(_ context.Context, id string) {
		fired = append(fired, id)
	})

	id := manager.Issue()
	if id == "" {
		t.Fatalf("expected session id")
	}
	if !manager.Alive(id) {
		t.Fatalf("issued session not alive")
	}

	manager.End(context.Background(), id)
	if manager.Alive(id) {
		t.Fatalf("ended session still alive")
	}
	if len(fired) != 1 || fired[0] != id {
		t.Fatalf("expected one hook fire for %s, got %v", id, fired)
	}

	// A duplicate fire reaches the hooks again; they are idempotent.
	manager.End(context.Background(), id)
	if len(fired) != 2 {
		t.Fatalf("expected duplicate End to fire hooks, got %v", fired)
	}
}

func TestManagerEndDetachesFromCanceledContext(t *testing.T) {
	manager := NewManager(time.Hour)

	var hookErr error
	manager.OnSessionEnd(func(ctx context.Context, _ string) {
		hookErr = ctx.Err()
	})

	id := manager.Issue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// An aborted unload request must not abort cleanup.
	manager.End(ctx, id)
	if hookErr != nil {
		t.Fatalf("hook saw canceled context: %v", hookErr)
	}
}

func TestManagerTouchRevivesUnknownID(t *testing.T) {
	manager := NewManager(time.Hour)

	manager.Touch("cookie-from-before-restart")
	if !manager.Alive("cookie-from-before-restart") {
		t.Fatalf("touched session not alive")
	}
}

func TestManagerSweepEndsIdleSessions(t *testing.T) {
	manager := NewManager(10 * time.Millisecond)

	var fired []string
	manager.OnSessionEnd(func(_ context.Context, id string) {
		fired = append(fired, id)
	})

	idle := manager.Issue()
	time.Sleep(20 * time.Millisecond)
	fresh := manager.Issue()

	manager.Sweep(context.Background())

	if manager.Alive(idle) {
		t.Fatalf("idle session survived sweep")
	}
	if !manager.Alive(fresh) {
		t.Fatalf("fresh session was swept")
	}
	if len(fired) != 1 || fired[0] != idle {
		t.Fatalf("expected sweep to end %s, got %v", idle, fired)
	}
}
