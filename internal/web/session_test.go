package web

import (
	"testing"
	"time"

	"github.com/leadforge/leadforge/internal/track"
)

func TestSessionCreateAndGet(t *testing.T) {
	store := NewSessionStore(time.Hour)

	id, err := store.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(id) != 64 {
		t.Errorf("session ID length = %d, want 64 hex chars", len(id))
	}

	session := store.Get(id)
	if session == nil {
		t.Fatal("session not found after Create")
	}
	if session.ID != id {
		t.Errorf("session ID mismatch: %s", session.ID)
	}
}

func TestSessionGetUnknown(t *testing.T) {
	store := NewSessionStore(time.Hour)

	if store.Get("") != nil {
		t.Error("empty ID should return nil")
	}
	if store.Get("nonexistent") != nil {
		t.Error("unknown ID should return nil")
	}
}

func TestSessionExpiry(t *testing.T) {
	store := NewSessionStore(10 * time.Millisecond)

	id, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(20 * time.Millisecond)

	if store.Get(id) != nil {
		t.Error("expired session should not be returned")
	}
	if store.Count() != 0 {
		t.Errorf("expired session still counted: %d", store.Count())
	}
}

func TestSessionUpdateExtendsExpiry(t *testing.T) {
	store := NewSessionStore(time.Hour)

	id, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}

	ok := store.Update(id, func(s *Session) {
		s.Selection = track.NewSelection()
	})
	if !ok {
		t.Fatal("Update on live session returned false")
	}

	session := store.Get(id)
	if session.Selection == nil {
		t.Error("update was not applied")
	}

	if store.Update("nonexistent", func(*Session) {}) {
		t.Error("Update on unknown session should return false")
	}
}

func TestSessionDelete(t *testing.T) {
	store := NewSessionStore(time.Hour)

	id, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}

	store.Delete(id)
	if store.Get(id) != nil {
		t.Error("deleted session still retrievable")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	store := NewSessionStore(time.Hour)

	idA, _ := store.Create()
	idB, _ := store.Create()

	store.Update(idA, func(s *Session) {
		s.Selection = track.NewSelection()
		s.Selection.Toggle("lead-1")
	})
	store.Update(idB, func(s *Session) {
		s.Selection = track.NewSelection()
	})

	if got := store.Get(idB).Selection.IDs(); len(got) != 0 {
		t.Errorf("selection leaked across sessions: %v", got)
	}
	if got := store.Get(idA).Selection.IDs(); len(got) != 1 {
		t.Errorf("session A selection = %v", got)
	}
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d within limit was denied", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over limit was allowed")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first request denied")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("separate key should have its own budget")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first request denied")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("second request within window was allowed")
	}

	time.Sleep(15 * time.Millisecond)

	if !rl.Allow("10.0.0.1") {
		t.Error("request after window elapsed was denied")
	}
}
