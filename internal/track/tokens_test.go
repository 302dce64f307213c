package track

import (
	"context"
	"testing"

	"github.com/leadforge/leadforge/internal/lead"
)

func TestTokenAbortCancelsRequest(t *testing.T) {
	ts := NewTokenSet()

	reqCtx, release := ts.Begin(context.Background(), "lead-1", lead.KindEmail)
	defer release()

	if !ts.Active("lead-1", lead.KindEmail) {
		t.Fatal("token should be active after Begin")
	}

	if !ts.Abort("lead-1", lead.KindEmail) {
		t.Fatal("Abort should report a token was present")
	}

	select {
	case <-reqCtx.Done():
	default:
		t.Error("abort must cancel the request context")
	}

	if ts.Active("lead-1", lead.KindEmail) {
		t.Error("token should be gone after abort")
	}
	if ts.Abort("lead-1", lead.KindEmail) {
		t.Error("second abort should be a no-op")
	}
}

func TestStaleReleaseKeepsNewerToken(t *testing.T) {
	ts := NewTokenSet()

	oldCtx, oldRelease := ts.Begin(context.Background(), "lead-1", lead.KindEmail)
	_, newRelease := ts.Begin(context.Background(), "lead-1", lead.KindEmail)
	defer newRelease()

	// Starting a second request for the same cell cancels the first
	select {
	case <-oldCtx.Done():
	default:
		t.Error("replaced token's context should be cancelled")
	}

	// The stale request releasing its token must not drop the newer one
	oldRelease()
	if !ts.Active("lead-1", lead.KindEmail) {
		t.Error("stale release removed the newer token")
	}
}

func TestTokensAreIndependentPerKind(t *testing.T) {
	ts := NewTokenSet()

	_, releaseEmail := ts.Begin(context.Background(), "lead-1", lead.KindEmail)
	defer releaseEmail()

	if ts.Active("lead-1", lead.KindDescription) {
		t.Error("email token leaked into description cell")
	}
	if ts.Abort("lead-1", lead.KindDescription) {
		t.Error("abort for an idle kind should report no token")
	}
	if !ts.Active("lead-1", lead.KindEmail) {
		t.Error("unrelated abort removed the email token")
	}
}
