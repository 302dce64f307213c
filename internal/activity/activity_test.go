package activity

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "activity.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddOperationAssignsID(t *testing.T) {
	store := newTestStore(t)

	rec := &Record{
		CampaignID: "camp-1",
		LeadID:     "lead-1",
		LeadName:   "Acme Corp",
		Action:     ActionGenerate,
		Kind:       "email",
		Status:     StatusSucceeded,
	}
	if err := store.AddOperation(rec); err != nil {
		t.Fatalf("AddOperation failed: %v", err)
	}
	if rec.ID == 0 {
		t.Error("record ID was not assigned")
	}
}

func TestRecentOperationsOrderAndLimit(t *testing.T) {
	store := newTestStore(t)

	for i, status := range []Status{StatusStarted, StatusSucceeded, StatusFailed} {
		rec := &Record{CampaignID: "camp-1", Action: ActionBulkGenerate, Status: status, Detail: string(rune('a' + i))}
		if err := store.AddOperation(rec); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.RecentOperations(2)
	if err != nil {
		t.Fatalf("RecentOperations failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Status != StatusFailed {
		t.Errorf("newest first: got %s", records[0].Status)
	}
}

func TestCampaignOperationsScoped(t *testing.T) {
	store := newTestStore(t)

	for _, campaign := range []string{"camp-1", "camp-2", "camp-1"} {
		if err := store.AddOperation(&Record{CampaignID: campaign, Action: ActionScrape, Status: StatusSucceeded}); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.CampaignOperations("camp-1", 10)
	if err != nil {
		t.Fatalf("CampaignOperations failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records for camp-1, want 2", len(records))
	}
	for _, r := range records {
		if r.CampaignID != "camp-1" {
			t.Errorf("record from wrong campaign: %s", r.CampaignID)
		}
	}
}

func TestOperationStats(t *testing.T) {
	store := newTestStore(t)

	statuses := []Status{StatusSucceeded, StatusSucceeded, StatusFailed, StatusCancelled}
	for _, status := range statuses {
		if err := store.AddOperation(&Record{CampaignID: "camp-1", Action: ActionGenerate, Status: status}); err != nil {
			t.Fatal(err)
		}
	}

	total, succeeded, failed, cancelled, err := store.OperationStats()
	if err != nil {
		t.Fatalf("OperationStats failed: %v", err)
	}
	if total != 4 || succeeded != 2 || failed != 1 || cancelled != 1 {
		t.Errorf("stats = %d/%d/%d/%d, want 4/2/1/1", total, succeeded, failed, cancelled)
	}
}

func TestOperationStatsEmpty(t *testing.T) {
	store := newTestStore(t)

	total, succeeded, failed, cancelled, err := store.OperationStats()
	if err != nil {
		t.Fatalf("OperationStats failed: %v", err)
	}
	if total != 0 || succeeded != 0 || failed != 0 || cancelled != 0 {
		t.Errorf("stats on empty db = %d/%d/%d/%d", total, succeeded, failed, cancelled)
	}
}

func TestReplyRoundTrip(t *testing.T) {
	store := newTestStore(t)

	reply := &Reply{
		LeadID:     "lead-1",
		LeadName:   "Acme Corp",
		FromEmail:  "owner@acme.example",
		Subject:    "Re: quick question",
		Body:       "Sounds interesting, send me details.",
		ReplyType:  "interested",
		Confidence: 0.9,
		ReceivedAt: time.Now(),
	}
	if err := store.AddReply(reply); err != nil {
		t.Fatalf("AddReply failed: %v", err)
	}

	found, err := store.FindReplyBySubject("owner@acme.example", "Re: quick question")
	if err != nil {
		t.Fatalf("FindReplyBySubject failed: %v", err)
	}
	if found == nil {
		t.Fatal("stored reply not found")
	}
	if found.ReplyType != "interested" || found.LeadName != "Acme Corp" {
		t.Errorf("found reply = %+v", found)
	}
}

func TestFindReplyBySubjectMissing(t *testing.T) {
	store := newTestStore(t)

	found, err := store.FindReplyBySubject("nobody@example.com", "never sent")
	if err != nil {
		t.Fatalf("FindReplyBySubject failed: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for unknown message, got %+v", found)
	}
}

func TestUpdateReplyClassification(t *testing.T) {
	store := newTestStore(t)

	reply := &Reply{FromEmail: "owner@acme.example", Subject: "Re: hi", ReplyType: "unknown", NeedsReview: true}
	if err := store.AddReply(reply); err != nil {
		t.Fatal(err)
	}

	if err := store.UpdateReplyClassification(reply.ID, "not_interested", 0.8, false); err != nil {
		t.Fatalf("UpdateReplyClassification failed: %v", err)
	}

	found, err := store.FindReplyBySubject("owner@acme.example", "Re: hi")
	if err != nil {
		t.Fatal(err)
	}
	if found.ReplyType != "not_interested" || found.NeedsReview {
		t.Errorf("classification not updated: %+v", found)
	}
}

func TestReplyStats(t *testing.T) {
	store := newTestStore(t)

	for _, rt := range []string{"interested", "interested", "bounce"} {
		if err := store.AddReply(&Reply{FromEmail: "a@b.c", ReplyType: rt}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.ReplyStats()
	if err != nil {
		t.Fatalf("ReplyStats failed: %v", err)
	}
	if stats["interested"] != 2 || stats["bounce"] != 1 {
		t.Errorf("stats = %v", stats)
	}
}
