package suppress

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddAndBlock(t *testing.T) {
	l := &List{}

	if err := l.Add(Entry{Email: "Jane@Acme.example", Reason: "unsubscribe"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if !l.IsBlocked("jane@acme.example") {
		t.Error("address should be blocked case-insensitively")
	}
	if l.IsBlocked("other@acme.example") {
		t.Error("other address at same domain should not be blocked")
	}

	// Duplicate add fails
	if err := l.Add(Entry{Email: "jane@acme.example", Reason: "manual"}); err == nil {
		t.Error("want error for duplicate entry")
	}
}

func TestDomainBlock(t *testing.T) {
	l := &List{}
	if err := l.Add(Entry{Domain: "blocked.example", Reason: "manual"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if !l.IsBlocked("anyone@blocked.example") {
		t.Error("domain entry should block every address at the domain")
	}
	if l.IsBlocked("anyone@other.example") {
		t.Error("unrelated domain should not be blocked")
	}
}

func TestEmptyEntryRejected(t *testing.T) {
	l := &List{}
	if err := l.Add(Entry{Reason: "manual"}); err == nil {
		t.Error("want error for entry without email or domain")
	}
}

func TestRemoveByEmail(t *testing.T) {
	l := &List{}
	l.Add(Entry{Email: "a@x.example", Reason: "bounce"})
	l.Add(Entry{Email: "b@x.example", Reason: "bounce"})

	removed := l.RemoveByEmail("a@x.example")
	if removed == nil || removed.Email != "a@x.example" {
		t.Fatalf("RemoveByEmail: got %+v", removed)
	}
	if l.IsBlocked("a@x.example") {
		t.Error("removed address should no longer be blocked")
	}
	if !l.IsBlocked("b@x.example") {
		t.Error("remaining entry should still block")
	}

	if l.RemoveByEmail("missing@x.example") != nil {
		t.Error("removing a missing address should return nil")
	}
}

func TestFilterAllowed(t *testing.T) {
	l := &List{}
	l.Add(Entry{Email: "blocked@x.example", Reason: "unsubscribe"})

	allowed := l.FilterAllowed([]string{"blocked@x.example", "ok@x.example"})
	if len(allowed) != 1 || allowed[0] != "ok@x.example" {
		t.Errorf("got %v", allowed)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dnc.yaml")

	l := &List{}
	l.Add(Entry{Email: "jane@acme.example", Reason: "unsubscribe", LeadID: "l1"})
	l.Add(Entry{Domain: "blocked.example", Reason: "manual"})

	if err := l.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if len(loaded.Entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(loaded.Entries))
	}
	if !loaded.IsBlocked("jane@acme.example") || !loaded.IsBlocked("x@blocked.example") {
		t.Error("loaded list should block saved entries")
	}
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	l, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if len(l.Entries) != 0 {
		t.Errorf("want empty list, got %d entries", len(l.Entries))
	}
}

func TestSaveWithBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dnc.yaml")

	l := &List{}
	l.Add(Entry{Email: "a@x.example", Reason: "manual"})
	if err := l.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	l.Add(Entry{Email: "b@x.example", Reason: "manual"})
	if err := l.SaveWithBackup(path); err != nil {
		t.Fatalf("SaveWithBackup: %v", err)
	}

	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("backup file missing: %v", err)
	}
}
