package session

import (
	"context"
	"testing"
)

func TestMemoryStoreSetGetRemove(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, ok, err := store.Get(ctx, "s1", KeyFeedback); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "s1", KeyFeedback, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, ok, err := store.Get(ctx, "s1", KeyFeedback)
	if err != nil || !ok {
		t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
	}
	if string(val) != `{"a":1}` {
		t.Fatalf("unexpected value %s", val)
	}

	// Overwrite replaces wholesale.
	if err := store.Set(ctx, "s1", KeyFeedback, []byte(`{"b":2}`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	val, _, _ = store.Get(ctx, "s1", KeyFeedback)
	if string(val) != `{"b":2}` {
		t.Fatalf("expected overwritten value, got %s", val)
	}

	if err := store.Remove(ctx, "s1", KeyFeedback); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "s1", KeyFeedback); ok {
		t.Fatalf("expected key removed")
	}

	// Removing a missing key is not an error.
	if err := store.Remove(ctx, "s1", KeyFeedback); err != nil {
		t.Fatalf("Remove missing: %v", err)
	}
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Set(ctx, "s1", KeyCVName, []byte(`"cv.pdf"`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "s2", KeyCVName); ok {
		t.Fatalf("value leaked across sessions")
	}

	if err := store.RemoveAll(ctx, "s1"); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "s1", KeyCVName); ok {
		t.Fatalf("expected session wiped")
	}
}

func TestReadJSONMalformedValueIsAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Set(ctx, "s1", KeyQuestions, []byte(`{not json`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out []string
	ok, err := ReadJSON(ctx, store, "s1", KeyQuestions, &out)
	if err != nil {
		t.Fatalf("ReadJSON must not fail on malformed value: %v", err)
	}
	if ok {
		t.Fatalf("malformed value must be treated as absent")
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	in := map[string]int{"match": 72}
	if err := WriteJSON(ctx, store, "s1", KeyFeedback, in); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out map[string]int
	ok, err := ReadJSON(ctx, store, "s1", KeyFeedback, &out)
	if err != nil || !ok {
		t.Fatalf("ReadJSON: ok=%v err=%v", ok, err)
	}
	if out["match"] != 72 {
		t.Fatalf("unexpected round trip value %v", out)
	}
}
