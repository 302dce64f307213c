package track

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/leadforge/leadforge/internal/api"
	"github.com/leadforge/leadforge/internal/lead"
	"github.com/leadforge/leadforge/internal/notify"
)

// Validation failures caught before any network call.
var (
	ErrEmptySelection     = errors.New("no leads selected")
	ErrMissingCompanyInfo = errors.New("company description is required for generation")
)

// Selection is the user's current set of selected lead ids. Owned by a
// single page-level controller; the coordinator clears it after a
// successful bulk call.
type Selection struct {
	mu  sync.Mutex
	ids map[string]bool
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]bool)}
}

// Set replaces the selection.
func (s *Selection) Set(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]bool, len(ids))
	for _, id := range ids {
		s.ids[id] = true
	}
}

// Toggle flips one id and reports the new state.
func (s *Selection) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids[id] {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = true
	return true
}

// IDs returns the selected ids.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]bool)
}

// Len returns the selection size.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// BulkAction identifies one fan-out operation over the selection.
type BulkAction string

const (
	BulkGenerateDescriptions BulkAction = "generate_descriptions"
	BulkGenerateEmails       BulkAction = "generate_emails"
	BulkGenerateWhatsApp     BulkAction = "generate_whatsapp"
	BulkSendEmails           BulkAction = "send_emails"
	BulkSendWhatsApp         BulkAction = "send_whatsapp"
)

// generationKind maps generation actions to their job kind.
func (a BulkAction) generationKind() (lead.Kind, bool) {
	switch a {
	case BulkGenerateDescriptions:
		return lead.KindDescription, true
	case BulkGenerateEmails:
		return lead.KindEmail, true
	case BulkGenerateWhatsApp:
		return lead.KindWhatsApp, true
	}
	return "", false
}

// BulkParams carry the action-specific inputs.
type BulkParams struct {
	CompanyInfo       string
	CustomInstruction string
	Sender            *api.SenderCredentials
	MinDelaySeconds   int
	MaxDelaySeconds   int
}

// Coordinator applies one action across the selected leads as a single
// server call. Exactly one cancellation token exists per bulk call; the
// server treats the batch as one job, so cancelling aborts the whole batch.
type Coordinator struct {
	tracker   *Tracker
	selection *Selection
	notifier  notify.Notifier

	mu     sync.Mutex
	opID   string
	cancel context.CancelFunc
}

// NewCoordinator creates a coordinator bound to a tracker and selection.
func NewCoordinator(tracker *Tracker, selection *Selection, notifier notify.Notifier) *Coordinator {
	return &Coordinator{tracker: tracker, selection: selection, notifier: notifier}
}

// Selection returns the coordinator's selection set.
func (c *Coordinator) Selection() *Selection { return c.selection }

// Run dispatches the action over the current selection. Validation happens
// before any network call: an empty selection or missing generation context
// produces a notification and no request. On success the selection is
// cleared and the lead collection re-fetched; partial results are never
// merged locally.
func (c *Coordinator) Run(ctx context.Context, action BulkAction, params BulkParams) (api.BulkReport, error) {
	ids := c.selection.IDs()
	if len(ids) == 0 {
		c.notifier.Notify(notify.LevelWarning, "Please select leads first")
		return api.BulkReport{}, ErrEmptySelection
	}

	kind, isGeneration := action.generationKind()
	if isGeneration && strings.TrimSpace(params.CompanyInfo) == "" {
		c.notifier.Notify(notify.LevelWarning, "Please describe your company before generating")
		return api.BulkReport{}, ErrMissingCompanyInfo
	}

	opCtx, cancel := context.WithCancel(ctx)
	opID := uuid.New().String()
	c.mu.Lock()
	if c.cancel != nil {
		// Only one bulk operation at a time; the newer one wins.
		c.cancel()
	}
	c.opID = opID
	c.cancel = cancel
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.opID == opID {
			c.opID = ""
			c.cancel = nil
		}
		c.mu.Unlock()
		cancel()
	}()

	campaignID := c.tracker.CampaignID()
	var report api.BulkReport
	var err error

	switch action {
	case BulkGenerateDescriptions, BulkGenerateEmails, BulkGenerateWhatsApp:
		report, err = c.tracker.backend.BulkGenerate(opCtx, campaignID, kind, ids, api.GenerateParams{
			CompanyInfo:       params.CompanyInfo,
			CustomInstruction: params.CustomInstruction,
		})
	case BulkSendEmails:
		report, err = c.tracker.backend.SendEmails(opCtx, campaignID, c.sendParams(ids, params))
	case BulkSendWhatsApp:
		report, err = c.tracker.backend.SendWhatsApp(opCtx, campaignID, c.sendParams(ids, params))
	default:
		return api.BulkReport{}, errors.New("unknown bulk action: " + string(action))
	}

	if err != nil {
		if api.IsCancelled(err) {
			c.notifier.Notify(notify.LevelInfo, "Bulk operation cancelled")
		} else {
			c.notifier.Notify(notify.LevelError, "Bulk operation failed: %v", err)
		}
		return api.BulkReport{}, err
	}

	c.reportOutcome(action, report)
	c.selection.Clear()

	if _, rerr := c.tracker.Refresh(ctx); rerr != nil && !api.IsCancelled(rerr) {
		c.notifier.Notify(notify.LevelWarning, "Refresh after bulk operation failed: %v", rerr)
	}
	return report, nil
}

// CancelActive aborts the in-flight bulk operation, if any. There is no
// per-lead cancel within a batch.
func (c *Coordinator) CancelActive() bool {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.opID = ""
	c.mu.Unlock()

	if cancel == nil {
		return false
	}
	cancel()
	return true
}

func (c *Coordinator) sendParams(ids []string, params BulkParams) api.SendParams {
	return api.SendParams{
		LeadIDs:         ids,
		Sender:          params.Sender,
		MinDelaySeconds: params.MinDelaySeconds,
		MaxDelaySeconds: params.MaxDelaySeconds,
	}
}

// reportOutcome surfaces the succeeded/failed/total split. Per-lead failures
// never escalate to a hard failure for the whole operation.
func (c *Coordinator) reportOutcome(action BulkAction, report api.BulkReport) {
	if report.Failed == 0 {
		c.notifier.Notify(notify.LevelSuccess, "%s completed for %d leads", actionLabel(action), report.Succeeded)
		return
	}
	c.notifier.Notify(notify.LevelWarning, "%s: %d succeeded, %d failed of %d",
		actionLabel(action), report.Succeeded, report.Failed, report.Total)
	for _, f := range report.Failures {
		c.notifier.Notify(notify.LevelInfo, "  %s: %s", f.LeadID, f.Reason)
	}
}

func actionLabel(action BulkAction) string {
	switch action {
	case BulkGenerateDescriptions:
		return "Description generation"
	case BulkGenerateEmails:
		return "Email generation"
	case BulkGenerateWhatsApp:
		return "WhatsApp generation"
	case BulkSendEmails:
		return "Email send"
	case BulkSendWhatsApp:
		return "WhatsApp send"
	}
	return string(action)
}
