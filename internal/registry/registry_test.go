package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leadforge/leadforge/internal/lead"
)

// memStore records every write so tests can assert on persistence behavior.
type memStore struct {
	tasks  []PendingTask
	writes int
}

func (m *memStore) Read() ([]PendingTask, error) {
	return append([]PendingTask(nil), m.tasks...), nil
}

func (m *memStore) Write(tasks []PendingTask) error {
	m.tasks = append([]PendingTask(nil), tasks...)
	m.writes++
	return nil
}

func TestLoadDropsExpiredTasks(t *testing.T) {
	now := time.Now()
	store := &memStore{tasks: []PendingTask{
		{EntityID: "a", EntityLabel: "Fresh Foods", Kind: lead.KindEmail, StartedAt: now.Add(-time.Minute)},
		{EntityID: "b", EntityLabel: "Stale Inc", Kind: lead.KindEmail, StartedAt: now.Add(-TTL - time.Minute)},
		{EntityID: "c", EntityLabel: "Edge Case LLC", Kind: lead.KindDescription, StartedAt: now.Add(-TTL + time.Second)},
	}}

	reg := New(store)
	reg.SetClock(func() time.Time { return now })

	tasks, err := reg.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(tasks) != 2 {
		t.Fatalf("expected 2 surviving tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.EntityID == "b" {
			t.Error("expired task survived the load")
		}
	}

	// The filtered list must be written back so a later load does not see
	// the expired entry again
	if store.writes != 1 {
		t.Errorf("expected 1 self-heal write, got %d", store.writes)
	}
	if len(store.tasks) != 2 {
		t.Errorf("store still holds %d tasks, want 2", len(store.tasks))
	}
}

func TestLoadWithoutExpiredSkipsWrite(t *testing.T) {
	store := &memStore{tasks: []PendingTask{
		{EntityID: "a", Kind: lead.KindEmail, StartedAt: time.Now()},
	}}

	reg := New(store)
	if _, err := reg.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if store.writes != 0 {
		t.Errorf("expected no write when nothing expired, got %d", store.writes)
	}
}

func TestAddReplacesSameEntityAndKind(t *testing.T) {
	now := time.Now()
	reg := New(&memStore{})
	current := now
	reg.SetClock(func() time.Time { return current })

	reg.Add("lead-1", "Acme Corp", lead.KindEmail)
	current = now.Add(5 * time.Minute)
	reg.Add("lead-1", "Acme Corp", lead.KindEmail)

	if reg.Len() != 1 {
		t.Fatalf("expected 1 task after re-add, got %d", reg.Len())
	}

	task := reg.Get("lead-1", lead.KindEmail)
	if task == nil {
		t.Fatal("task not found")
	}
	if !task.StartedAt.Equal(now.Add(5 * time.Minute)) {
		t.Error("re-adding a task should reset its start time")
	}
}

func TestAddSameEntityDifferentKinds(t *testing.T) {
	reg := New(&memStore{})

	reg.Add("lead-1", "Acme Corp", lead.KindEmail)
	reg.Add("lead-1", "Acme Corp", lead.KindDescription)

	if reg.Len() != 2 {
		t.Errorf("expected 2 tasks for distinct kinds, got %d", reg.Len())
	}
}

func TestRemoveMissingIsNoOp(t *testing.T) {
	store := &memStore{}
	reg := New(store)

	reg.Add("lead-1", "Acme Corp", lead.KindEmail)
	writesBefore := store.writes

	reg.Remove("lead-1", lead.KindDescription)
	reg.Remove("lead-2", lead.KindEmail)

	if reg.Len() != 1 {
		t.Errorf("unrelated removes changed the task count: %d", reg.Len())
	}
	if store.writes != writesBefore {
		t.Error("no-op remove should not write to the store")
	}

	reg.Remove("lead-1", lead.KindEmail)
	if reg.Len() != 0 {
		t.Error("matching remove left the task behind")
	}
}

func TestRemoveEntityDropsAllKinds(t *testing.T) {
	reg := New(&memStore{})

	reg.Add("lead-1", "Acme Corp", lead.KindEmail)
	reg.Add("lead-1", "Acme Corp", lead.KindWhatsApp)
	reg.Add("lead-2", "Globex", lead.KindEmail)

	reg.RemoveEntity("lead-1")

	if reg.Len() != 1 {
		t.Fatalf("expected 1 task after RemoveEntity, got %d", reg.Len())
	}
	if reg.Get("lead-2", lead.KindEmail) == nil {
		t.Error("RemoveEntity dropped an unrelated lead's task")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending_tasks.json")
	fs := NewFileStore(path)

	want := []PendingTask{
		{EntityID: "lead-1", EntityLabel: "Acme Corp", Kind: lead.KindEmail, StartedAt: time.Now().Truncate(time.Second)},
	}
	if err := fs.Write(want); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := fs.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 1 || got[0].EntityID != "lead-1" || got[0].Kind != lead.KindEmail {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "does-not-exist.json"))

	tasks, err := fs.Read()
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if tasks != nil {
		t.Errorf("expected nil tasks, got %v", tasks)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending_tasks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileStore(path)
	tasks, err := fs.Read()
	if err != nil {
		t.Fatalf("corrupt file should not be an error: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty tasks from corrupt file, got %v", tasks)
	}

	// Corrupt file is removed so the next write starts clean
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt file was not removed")
	}
}
