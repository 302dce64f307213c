package lead

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestExportCSVRoundTrip(t *testing.T) {
	leads := []Lead{
		{
			Name:        "Acme Corp",
			Address:     "1 Main St, Springfield",
			Phone:       "+1 555 0100",
			Website:     "https://acme.example",
			Email:       "hello@acme.example",
			Description: "Widget maker, \"premium\" segment",
			LeadScore:   8.5,
		},
		{
			Name:           "Globex",
			GeneratedEmail: "Hi Globex,\n\nSaw your site and...",
		},
	}

	var buf bytes.Buffer
	if err := ExportCSV(&buf, leads); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	parsed, err := ParseCSV(&buf)
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}

	if len(parsed) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(parsed))
	}
	if parsed[0].Description != leads[0].Description {
		t.Errorf("quoted field mangled: %q", parsed[0].Description)
	}
	if parsed[0].LeadScore != 8.5 {
		t.Errorf("lead score = %v, want 8.5", parsed[0].LeadScore)
	}
	if parsed[1].GeneratedEmail != leads[1].GeneratedEmail {
		t.Errorf("multiline field mangled: %q", parsed[1].GeneratedEmail)
	}
}

func TestExportCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, nil); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "name,address,phone") {
		t.Errorf("unexpected header: %s", lines[0])
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
	got := ExportFileName("camp-7", now)
	want := "camp-7_leads_2026-08-31.csv"
	if got != want {
		t.Errorf("ExportFileName = %q, want %q", got, want)
	}
}

func TestContentByKind(t *testing.T) {
	l := Lead{
		Description:    "A bakery",
		GeneratedEmail: "Hello!",
	}

	tests := []struct {
		kind Kind
		want bool
	}{
		{KindDescription, true},
		{KindEmail, true},
		{KindDeepResearch, false},
		{KindWhatsApp, false},
	}
	for _, tt := range tests {
		if got := l.HasContent(tt.kind); got != tt.want {
			t.Errorf("HasContent(%s) = %v, want %v", tt.kind, got, tt.want)
		}
	}

	// Whitespace-only content does not count as done
	l.GeneratedWhatsApp = "   \n"
	if l.HasContent(KindWhatsApp) {
		t.Error("whitespace-only content should not count as populated")
	}
}

func TestScrapedDataUnionRoundTrip(t *testing.T) {
	d := ScrapedData{
		Source:     SourceGoogleMaps,
		GoogleMaps: &GoogleMapsData{PlaceID: "abc123", Rating: 4.6, Reviews: 120},
	}

	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	var back ScrapedData
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}

	if back.Source != SourceGoogleMaps || back.GoogleMaps == nil {
		t.Fatalf("union decoded wrong: %+v", back)
	}
	if back.GoogleMaps.Rating != 4.6 {
		t.Errorf("rating = %v", back.GoogleMaps.Rating)
	}
	if back.LinkedIn != nil || back.Instagram != nil {
		t.Error("other payloads should be nil")
	}
}
