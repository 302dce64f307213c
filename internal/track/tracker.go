// Package track implements client-side tracking of long-running backend
// jobs: a durable pending-task registry, a polling reconciliation loop,
// dual-channel cancellation, bulk coordination, and the pure projection the
// dashboard renders from.
package track

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/leadforge/leadforge/internal/api"
	"github.com/leadforge/leadforge/internal/lead"
	"github.com/leadforge/leadforge/internal/notify"
	"github.com/leadforge/leadforge/internal/registry"
)

// Backend is the API subset the tracker drives. *api.Client satisfies it;
// tests use a fake.
type Backend interface {
	CampaignLeads(ctx context.Context, campaignID string) ([]lead.Lead, error)
	Generate(ctx context.Context, leadID string, kind lead.Kind, params api.GenerateParams) error
	CancelLeadGeneration(ctx context.Context, leadID string) (api.CancelResult, error)
	CancelCampaignGeneration(ctx context.Context, campaignID string) (api.CancelResult, error)
	BulkGenerate(ctx context.Context, campaignID string, kind lead.Kind, leadIDs []string, params api.GenerateParams) (api.BulkReport, error)
	SendEmails(ctx context.Context, campaignID string, params api.SendParams) (api.BulkReport, error)
	SendWhatsApp(ctx context.Context, campaignID string, params api.SendParams) (api.BulkReport, error)
}

// Intervals are the polling schedule knobs.
type Intervals struct {
	// InitialDelay before the first tick after activation.
	InitialDelay time.Duration
	// Poll is the fixed interval between ticks.
	Poll time.Duration
	// MinFetchGap is the client-side debounce: a fetch is refused if fewer
	// than this has elapsed since the last one, defending against
	// overlapping triggers.
	MinFetchGap time.Duration
}

// DefaultIntervals matches the dashboard's observed schedule.
func DefaultIntervals() Intervals {
	return Intervals{
		InitialDelay: 5 * time.Second,
		Poll:         30 * time.Second,
		MinFetchGap:  10 * time.Second,
	}
}

// Tracker owns the per-campaign job-tracking state: the registry, the token
// set, the cached lead snapshot, and the polling loop.
type Tracker struct {
	backend   Backend
	registry  *registry.Registry
	tokens    *TokenSet
	notifier  notify.Notifier
	intervals Intervals
	now       func() time.Time

	mu          sync.Mutex
	campaignID  string
	autoRefresh bool
	lastFetch   time.Time
	leads       []lead.Lead

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a tracker. The registry should already be loaded.
func New(backend Backend, reg *registry.Registry, notifier notify.Notifier) *Tracker {
	return &Tracker{
		backend:   backend,
		registry:  reg,
		tokens:    NewTokenSet(),
		notifier:  notifier,
		intervals: DefaultIntervals(),
		now:       time.Now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// SetIntervals overrides the polling schedule.
func (t *Tracker) SetIntervals(iv Intervals) { t.intervals = iv }

// SetClock overrides the time source used for the fetch debounce.
func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

// Registry exposes the underlying pending-task registry.
func (t *Tracker) Registry() *registry.Registry { return t.registry }

// Tokens exposes the local cancellation token set.
func (t *Tracker) Tokens() *TokenSet { return t.tokens }

// SetCampaign switches the active scope. The cached snapshot is cleared; the
// registry is not, since pending tasks belong to leads, not to the view.
func (t *Tracker) SetCampaign(campaignID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.campaignID != campaignID {
		t.campaignID = campaignID
		t.leads = nil
		t.lastFetch = time.Time{}
	}
}

// CampaignID returns the active campaign scope.
func (t *Tracker) CampaignID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.campaignID
}

// SetAutoRefresh enables or disables the polling loop's fetches.
func (t *Tracker) SetAutoRefresh(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.autoRefresh = enabled
}

// Leads returns the most recently fetched lead snapshot.
func (t *Tracker) Leads() []lead.Lead {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]lead.Lead, len(t.leads))
	copy(out, t.leads)
	return out
}

// Run drives the polling loop until ctx is done or Stop is called. Teardown
// only stops the timers; it deliberately does not abort in-flight requests,
// because the jobs continue server-side regardless of client presence.
func (t *Tracker) Run(ctx context.Context) {
	defer close(t.done)

	initial := time.NewTimer(t.intervals.InitialDelay)
	defer initial.Stop()

	select {
	case <-initial.C:
	case <-ctx.Done():
		return
	case <-t.stop:
		return
	}
	t.tick(ctx)

	ticker := time.NewTicker(t.intervals.Poll)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.tick(ctx)
		case <-ctx.Done():
			return
		case <-t.stop:
			return
		}
	}
}

// Stop terminates the polling loop.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	<-t.done
}

// tick performs one scheduled reconciliation fetch, subject to activation
// and debounce rules.
func (t *Tracker) tick(ctx context.Context) {
	t.mu.Lock()
	active := t.autoRefresh && t.campaignID != "" && t.registry.Len() > 0
	t.mu.Unlock()
	if !active {
		return
	}

	if _, err := t.RefreshIfDue(ctx); err != nil && !api.IsCancelled(err) {
		log.Printf("poll fetch failed: %v", err)
	}
}

// RefreshIfDue fetches the active campaign's leads unless a fetch happened
// within MinFetchGap. Returns (false, nil) when debounced.
func (t *Tracker) RefreshIfDue(ctx context.Context) (bool, error) {
	t.mu.Lock()
	if !t.lastFetch.IsZero() && t.now().Sub(t.lastFetch) < t.intervals.MinFetchGap {
		t.mu.Unlock()
		return false, nil
	}
	t.lastFetch = t.now()
	campaignID := t.campaignID
	t.mu.Unlock()

	_, err := t.refresh(ctx, campaignID)
	return err == nil, err
}

// Refresh unconditionally fetches the active campaign's leads and reconciles
// them. User-initiated refreshes bypass the debounce but still update it.
func (t *Tracker) Refresh(ctx context.Context) ([]lead.Lead, error) {
	t.mu.Lock()
	t.lastFetch = t.now()
	campaignID := t.campaignID
	t.mu.Unlock()

	return t.refresh(ctx, campaignID)
}

func (t *Tracker) refresh(ctx context.Context, campaignID string) ([]lead.Lead, error) {
	leads, err := t.backend.CampaignLeads(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	t.Reconcile(leads)

	t.mu.Lock()
	t.leads = leads
	t.mu.Unlock()
	return leads, nil
}

// Reconcile diffs fetched leads against the registry. Completion is
// content-driven: a task is done when its lead's content field for that kind
// is populated, regardless of the order jobs were started or finished.
// Completed tasks are removed and surfaced as success notifications naming
// the lead.
func (t *Tracker) Reconcile(leads []lead.Lead) {
	for _, task := range t.registry.Tasks() {
		l := lead.FindByID(leads, task.EntityID)
		if l == nil {
			continue
		}
		if l.HasContent(task.Kind) {
			t.registry.Remove(task.EntityID, task.Kind)
			t.notifier.Notify(notify.LevelSuccess, "%s ready for %s", kindLabel(task.Kind), task.EntityLabel)
		}
	}
}

// StartGeneration enqueues a single-lead generation job and registers it as
// pending. The local token exists for the duration of the HTTP call (the
// "queuing" window); the registry entry is written only once the backend has
// accepted the job.
func (t *Tracker) StartGeneration(ctx context.Context, leadID, label string, kind lead.Kind, params api.GenerateParams) error {
	reqCtx, release := t.tokens.Begin(ctx, leadID, kind)
	defer release()

	if err := t.backend.Generate(reqCtx, leadID, kind, params); err != nil {
		if api.IsCancelled(err) {
			t.notifier.Notify(notify.LevelInfo, "%s generation for %s cancelled", kindLabel(kind), label)
			return err
		}
		t.notifier.Notify(notify.LevelError, "Failed to start %s generation for %s: %v", kindLabel(kind), label, err)
		return err
	}

	t.registry.Add(leadID, label, kind)
	return nil
}

// Cancel stops a pending task on both channels: it asks the backend to stop
// the server-side job, aborts the local request if one is still open, and
// removes the registry entry. Cancellation is best-effort from the client's
// perspective; even if the server is unreachable the local state is cleaned
// up so the user is never left with a stuck processing indicator. Calling
// Cancel twice for the same task is a no-op the second time.
func (t *Tracker) Cancel(ctx context.Context, leadID string, kind lead.Kind) {
	task := t.registry.Get(leadID, kind)

	result, err := t.backend.CancelLeadGeneration(ctx, leadID)
	switch {
	case err != nil && !api.IsCancelled(err):
		t.notifier.Notify(notify.LevelWarning, "Could not reach server to cancel; stopped tracking locally: %v", err)
	case err == nil && !result.Cancelled:
		detail := result.Detail
		if detail == "" {
			detail = "job already finished or never started"
		}
		t.notifier.Notify(notify.LevelInfo, "Nothing to cancel: %s", detail)
	case err == nil && task != nil:
		t.notifier.Notify(notify.LevelInfo, "Cancelled %s generation for %s", kindLabel(kind), task.EntityLabel)
	}

	t.tokens.Abort(leadID, kind)
	t.registry.Remove(leadID, kind)
}

// CancelScrape asks the backend to stop an in-flight scraping job for a
// campaign. Scrape jobs have no local token; they are observed via lead
// counts only.
func (t *Tracker) CancelScrape(ctx context.Context, campaignID string) error {
	result, err := t.backend.CancelCampaignGeneration(ctx, campaignID)
	if err != nil {
		if !api.IsCancelled(err) {
			t.notifier.Notify(notify.LevelError, "Failed to cancel scraping: %v", err)
		}
		return err
	}
	if result.Cancelled {
		t.notifier.Notify(notify.LevelInfo, "Scraping cancelled")
	} else {
		detail := result.Detail
		if detail == "" {
			detail = "no scraping job running"
		}
		t.notifier.Notify(notify.LevelInfo, "Nothing to cancel: %s", detail)
	}
	return nil
}

// Dismiss removes all pending tasks for a lead without contacting the
// backend, for when the user clears a stale indicator by hand.
func (t *Tracker) Dismiss(leadID string) {
	t.registry.RemoveEntity(leadID)
}

func kindLabel(kind lead.Kind) string {
	switch kind {
	case lead.KindDescription:
		return "Description"
	case lead.KindDeepResearch:
		return "Deep research"
	case lead.KindEmail:
		return "Email draft"
	case lead.KindWhatsApp:
		return "WhatsApp draft"
	}
	return string(kind)
}
