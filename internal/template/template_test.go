package template

import (
	"strings"
	"testing"

	"github.com/leadforge/leadforge/internal/api"
	"github.com/leadforge/leadforge/internal/config"
	"github.com/leadforge/leadforge/internal/lead"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine([]api.EmailTemplate{
		{
			Name:    "intro",
			Subject: "Quick question for {{lead_name}}",
			Body:    "Hi {{lead_name}},\n\nI'm reaching out from {{company_name}}. {{company_description}}\n\nBest,\n{{company_name}}",
		},
		{
			Name: "followup",
			Body: "Just following up on my last email, {{lead_name}}.",
		},
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestRenderSubstitutesLeadAndCompany(t *testing.T) {
	e := testEngine(t)

	email, err := e.Render("intro",
		lead.Lead{ID: "l1", Name: "Acme Corp", Email: "info@acme.example"},
		config.CompanyConfig{Name: "LeadForge", Description: "We build pipelines."},
	)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if email.Subject != "Quick question for Acme Corp" {
		t.Errorf("subject: got %q", email.Subject)
	}
	if !strings.Contains(email.Body, "Hi Acme Corp,") {
		t.Errorf("body missing lead name: %q", email.Body)
	}
	if !strings.Contains(email.Body, "We build pipelines.") {
		t.Errorf("body missing company description: %q", email.Body)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	e := testEngine(t)
	if _, err := e.Render("missing", lead.Lead{}, config.CompanyConfig{}); err == nil {
		t.Fatal("want error for unknown template")
	}
}

func TestRenderDefaultSubject(t *testing.T) {
	e := testEngine(t)
	email, err := e.Render("followup", lead.Lead{Name: "Acme Corp"}, config.CompanyConfig{Name: "LeadForge"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if email.Subject != "Hello from LeadForge" {
		t.Errorf("subject: got %q", email.Subject)
	}
}

func TestAvailableTemplatesSorted(t *testing.T) {
	e := testEngine(t)
	names := e.AvailableTemplates()
	if len(names) != 2 || names[0] != "followup" || names[1] != "intro" {
		t.Errorf("got %v", names)
	}
}
