// Package registry tracks long-running backend jobs the user has started, so
// pending state survives restarts and is reconciled against fetched leads.
package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/leadforge/leadforge/internal/lead"
)

// TTL is the maximum age of a pending task. Entries older than this at load
// time are assumed orphaned (the job finished or died while we were not
// watching) and are dropped.
const TTL = 30 * time.Minute

// PendingTask is one outstanding generation job.
type PendingTask struct {
	EntityID    string    `json:"entity_id"`
	EntityLabel string    `json:"entity_label"` // captured at creation, not re-fetched
	Kind        lead.Kind `json:"kind"`
	StartedAt   time.Time `json:"started_at"`
}

// Age returns how long the task has been pending.
func (t PendingTask) Age(now time.Time) time.Duration {
	return now.Sub(t.StartedAt)
}

// Store persists the serialized task list. Implementations are best-effort;
// a corrupt stored value is treated as empty, never as a fatal error.
type Store interface {
	Read() ([]PendingTask, error)
	Write(tasks []PendingTask) error
}

// FileStore keeps the task list in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the task list location under the user's data dir.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pending_tasks.json"
	}
	return filepath.Join(home, ".leadforge", "pending_tasks.json")
}

func (fs *FileStore) Read() ([]PendingTask, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tasks []PendingTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		// Corrupt list: discard it rather than failing startup
		os.Remove(fs.path)
		return nil, nil
	}
	return tasks, nil
}

func (fs *FileStore) Write(tasks []PendingTask) error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fs.path, data, 0600)
}

// Registry is the in-memory task set, flushed to the store on every mutation.
// It is owned by a single controller; the mutex guards against the tracker's
// poll goroutine and the control server touching it concurrently.
type Registry struct {
	mu    sync.Mutex
	store Store
	tasks []PendingTask
	now   func() time.Time
}

// New creates a registry over the given store.
func New(store Store) *Registry {
	return &Registry{store: store, now: time.Now}
}

// SetClock overrides the time source. Tests use this to age entries.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Load rehydrates the registry, dropping entries older than TTL and writing
// the filtered list back so the store heals itself. Returns the survivors.
func (r *Registry) Load() ([]PendingTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.store.Read()
	if err != nil {
		return nil, err
	}

	cutoff := r.now().Add(-TTL)
	fresh := stored[:0]
	for _, t := range stored {
		if t.StartedAt.After(cutoff) {
			fresh = append(fresh, t)
		}
	}

	r.tasks = append([]PendingTask(nil), fresh...)
	if len(fresh) != len(stored) {
		r.flush()
	}
	return r.snapshot(), nil
}

// Add records a new pending task. A task with the same (entity, kind) is
// replaced rather than duplicated, so restarting generation resets the clock
// instead of inflating the pending count.
func (r *Registry) Add(entityID, label string, kind lead.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task := PendingTask{
		EntityID:    entityID,
		EntityLabel: label,
		Kind:        kind,
		StartedAt:   r.now(),
	}

	for i := range r.tasks {
		if r.tasks[i].EntityID == entityID && r.tasks[i].Kind == kind {
			r.tasks[i] = task
			r.flush()
			return
		}
	}
	r.tasks = append(r.tasks, task)
	r.flush()
}

// Remove drops the task for one (entity, kind). Removing a task that is not
// present is a no-op; cancel paths rely on that.
func (r *Registry) Remove(entityID string, kind lead.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, t := range r.tasks {
		if t.EntityID == entityID && t.Kind == kind {
			continue
		}
		r.tasks[n] = t
		n++
	}
	if n == len(r.tasks) {
		return
	}
	r.tasks = r.tasks[:n]
	r.flush()
}

// RemoveEntity drops all tasks for an entity, regardless of kind. Used when
// the lead itself is dismissed or deleted.
func (r *Registry) RemoveEntity(entityID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, t := range r.tasks {
		if t.EntityID == entityID {
			continue
		}
		r.tasks[n] = t
		n++
	}
	if n == len(r.tasks) {
		return
	}
	r.tasks = r.tasks[:n]
	r.flush()
}

// Get returns the pending task for (entity, kind), or nil.
func (r *Registry) Get(entityID string, kind lead.Kind) *PendingTask {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].EntityID == entityID && r.tasks[i].Kind == kind {
			t := r.tasks[i]
			return &t
		}
	}
	return nil
}

// Tasks returns a copy of the current task list.
func (r *Registry) Tasks() []PendingTask {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Len returns the number of pending tasks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

func (r *Registry) snapshot() []PendingTask {
	out := make([]PendingTask, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// flush writes the current list through to the store. Persistence is
// best-effort: a write failure leaves the in-memory state authoritative.
// Callers must hold the mutex.
func (r *Registry) flush() {
	r.store.Write(r.snapshot())
}
