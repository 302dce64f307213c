package track

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leadforge/leadforge/internal/api"
)

func newTestCoordinator(backend *fakeBackend, rec *recorder) (*Coordinator, *Selection) {
	tr := newTestTracker(backend, rec)
	sel := NewSelection()
	return NewCoordinator(tr, sel, rec), sel
}

func TestBulkRunEmptySelection(t *testing.T) {
	backend := &fakeBackend{}
	rec := &recorder{}
	coord, _ := newTestCoordinator(backend, rec)

	_, err := coord.Run(context.Background(), BulkGenerateEmails, BulkParams{CompanyInfo: "We sell widgets"})
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}

	if backend.bulkCalls != 0 {
		t.Error("validation failure must not reach the backend")
	}
	if !rec.contains("Please select leads first") {
		t.Error("expected the select-leads-first notification")
	}
}

func TestBulkGenerationRequiresCompanyInfo(t *testing.T) {
	backend := &fakeBackend{}
	rec := &recorder{}
	coord, sel := newTestCoordinator(backend, rec)
	sel.Set([]string{"lead-1"})

	_, err := coord.Run(context.Background(), BulkGenerateDescriptions, BulkParams{CompanyInfo: "   "})
	if !errors.Is(err, ErrMissingCompanyInfo) {
		t.Fatalf("expected ErrMissingCompanyInfo, got %v", err)
	}
	if backend.bulkCalls != 0 {
		t.Error("validation failure must not reach the backend")
	}
	if sel.Len() != 1 {
		t.Error("failed validation must not clear the selection")
	}
}

func TestBulkSendDoesNotRequireCompanyInfo(t *testing.T) {
	backend := &fakeBackend{sendReport: api.BulkReport{Succeeded: 1, Total: 1}}
	coord, sel := newTestCoordinator(backend, &recorder{})
	sel.Set([]string{"lead-1"})

	_, err := coord.Run(context.Background(), BulkSendEmails, BulkParams{})
	if err != nil {
		t.Fatalf("send should not need company info: %v", err)
	}
	if backend.sendCalls != 1 {
		t.Errorf("expected 1 send call, got %d", backend.sendCalls)
	}
}

func TestBulkSuccessClearsSelectionAndRefreshes(t *testing.T) {
	backend := &fakeBackend{bulkReport: api.BulkReport{Succeeded: 2, Total: 2}}
	rec := &recorder{}
	coord, sel := newTestCoordinator(backend, rec)
	sel.Set([]string{"lead-1", "lead-2"})

	report, err := coord.Run(context.Background(), BulkGenerateEmails, BulkParams{CompanyInfo: "We sell widgets"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Succeeded != 2 {
		t.Errorf("report.Succeeded = %d", report.Succeeded)
	}
	if sel.Len() != 0 {
		t.Error("selection must be cleared after a successful bulk call")
	}
	if backend.fetchCalls != 1 {
		t.Errorf("expected a refetch after the bulk call, got %d fetches", backend.fetchCalls)
	}
	if !rec.contains("completed for 2 leads") {
		t.Error("expected a success notification")
	}
}

func TestBulkPartialFailureStillSucceeds(t *testing.T) {
	backend := &fakeBackend{bulkReport: api.BulkReport{
		Succeeded: 1,
		Failed:    1,
		Total:     2,
		Failures:  []api.LeadFailure{{LeadID: "lead-2", Reason: "no website"}},
	}}
	rec := &recorder{}
	coord, sel := newTestCoordinator(backend, rec)
	sel.Set([]string{"lead-1", "lead-2"})

	_, err := coord.Run(context.Background(), BulkGenerateDescriptions, BulkParams{CompanyInfo: "We sell widgets"})
	if err != nil {
		t.Fatalf("per-lead failures must not fail the operation: %v", err)
	}

	if sel.Len() != 0 {
		t.Error("selection is cleared even when some leads failed")
	}
	if !rec.contains("1 succeeded, 1 failed of 2") {
		t.Error("expected a partial-failure notification")
	}
}

func TestBulkFailureKeepsSelection(t *testing.T) {
	backend := &fakeBackend{bulkErr: errors.New("server on fire")}
	rec := &recorder{}
	coord, sel := newTestCoordinator(backend, rec)
	sel.Set([]string{"lead-1"})

	_, err := coord.Run(context.Background(), BulkGenerateEmails, BulkParams{CompanyInfo: "We sell widgets"})
	if err == nil {
		t.Fatal("expected error")
	}

	if sel.Len() != 1 {
		t.Error("a failed bulk call must not clear the selection")
	}
	if !rec.contains("Bulk operation failed") {
		t.Error("expected a failure notification")
	}
}

func TestCancelActiveWithoutOperation(t *testing.T) {
	coord, _ := newTestCoordinator(&fakeBackend{}, &recorder{})
	if coord.CancelActive() {
		t.Error("CancelActive with no operation in flight should report false")
	}
}

func TestCancelActiveAbortsRun(t *testing.T) {
	backend := &fakeBackend{blockBulk: true, bulkStarted: make(chan struct{})}
	rec := &recorder{}
	coord, sel := newTestCoordinator(backend, rec)
	sel.Set([]string{"lead-1"})

	errCh := make(chan error, 1)
	go func() {
		_, err := coord.Run(context.Background(), BulkGenerateEmails, BulkParams{CompanyInfo: "We sell widgets"})
		errCh <- err
	}()

	select {
	case <-backend.bulkStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("bulk call never started")
	}

	if !coord.CancelActive() {
		t.Fatal("CancelActive should report an aborted operation")
	}

	select {
	case err := <-errCh:
		if !api.IsCancelled(err) {
			t.Errorf("expected a cancellation error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	if !rec.contains("Bulk operation cancelled") {
		t.Error("expected a cancelled notification")
	}
	if sel.Len() != 1 {
		t.Error("a cancelled bulk call must not clear the selection")
	}
}

func TestSelectionToggle(t *testing.T) {
	sel := NewSelection()

	if !sel.Toggle("lead-1") {
		t.Error("first toggle should select")
	}
	if sel.Toggle("lead-1") {
		t.Error("second toggle should deselect")
	}
	if sel.Len() != 0 {
		t.Errorf("selection size = %d, want 0", sel.Len())
	}
}
