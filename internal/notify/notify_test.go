package notify

import (
	"fmt"
	"testing"
)

func TestCenterAssignsMonotonicIDs(t *testing.T) {
	c := NewCenter()
	c.Notify(LevelInfo, "first")
	c.Notify(LevelSuccess, "second")
	c.Notify(LevelError, "third")

	items := c.Recent(0)
	if len(items) != 3 {
		t.Fatalf("got %d notifications, want 3", len(items))
	}
	for i, n := range items {
		if n.ID != uint64(i+1) {
			t.Errorf("item %d has ID %d", i, n.ID)
		}
	}
	if items[0].Message != "first" || items[2].Message != "third" {
		t.Errorf("wrong order: %q .. %q", items[0].Message, items[2].Message)
	}
}

func TestCenterFormatsMessages(t *testing.T) {
	c := NewCenter()
	c.Notify(LevelSuccess, "Emails generated for %d leads", 7)

	items := c.Recent(1)
	if len(items) != 1 {
		t.Fatal("expected one notification")
	}
	if got := items[0].Message; got != "Emails generated for 7 leads" {
		t.Errorf("message = %q", got)
	}
}

func TestSinceSkipsOlderNotifications(t *testing.T) {
	c := NewCenter()
	for i := 0; i < 5; i++ {
		c.Notify(LevelInfo, "msg %d", i)
	}

	out := c.Since(3)
	if len(out) != 2 {
		t.Fatalf("Since(3) returned %d items, want 2", len(out))
	}
	if out[0].ID != 4 || out[1].ID != 5 {
		t.Errorf("IDs %d, %d, want 4, 5", out[0].ID, out[1].ID)
	}

	if got := c.Since(100); len(got) != 0 {
		t.Errorf("Since past the newest ID returned %d items", len(got))
	}
}

func TestRecentLimit(t *testing.T) {
	c := NewCenter()
	for i := 0; i < 10; i++ {
		c.Notify(LevelInfo, "msg %d", i)
	}

	out := c.Recent(3)
	if len(out) != 3 {
		t.Fatalf("Recent(3) returned %d items", len(out))
	}
	if out[0].Message != "msg 7" || out[2].Message != "msg 9" {
		t.Errorf("got %q .. %q, want newest three oldest-first", out[0].Message, out[2].Message)
	}
}

func TestBufferDropsOldest(t *testing.T) {
	c := NewCenter()
	c.keep = 4
	for i := 0; i < 6; i++ {
		c.Notify(LevelInfo, "msg %d", i)
	}

	items := c.Recent(0)
	if len(items) != 4 {
		t.Fatalf("buffer holds %d items, want 4", len(items))
	}
	if items[0].Message != "msg 2" {
		t.Errorf("oldest kept = %q, want msg 2", items[0].Message)
	}
	// IDs keep growing even after the buffer wraps
	if items[3].ID != 6 {
		t.Errorf("newest ID = %d, want 6", items[3].ID)
	}
}

func TestAttachedSinksReceiveNotifications(t *testing.T) {
	c := NewCenter()
	var got []string
	c.Attach(Func(func(level Level, format string, args ...interface{}) {
		got = append(got, fmt.Sprintf("%s: %s", level, fmt.Sprintf(format, args...)))
	}))

	c.Notify(LevelWarning, "lead %s skipped", "lead-9")

	if len(got) != 1 {
		t.Fatalf("sink received %d notifications, want 1", len(got))
	}
	if got[0] != "warning: lead lead-9 skipped" {
		t.Errorf("sink saw %q", got[0])
	}
}

func TestDiscardIsSafe(t *testing.T) {
	Discard.Notify(LevelError, "ignored %d", 1)
}
