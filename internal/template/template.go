package template

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/leadforge/leadforge/internal/api"
	"github.com/leadforge/leadforge/internal/config"
	"github.com/leadforge/leadforge/internal/lead"
)

// PreviewData contains all data available to email templates
type PreviewData struct {
	// Lead
	LeadName    string
	LeadEmail   string
	LeadPhone   string
	LeadWebsite string
	LeadAddress string
	Description string

	// Sender company
	CompanyName        string
	CompanyDescription string

	// Metadata
	Date  string
	Year  int
	Month string
}

// Email represents a rendered email preview
type Email struct {
	Subject string
	Body    string
}

// Engine renders stored email templates locally, so a draft can be
// checked against a real lead before it is used in a send
type Engine struct {
	templates map[string]*template.Template
	subjects  map[string]string
}

// NewEngine parses the given templates into a ready engine
func NewEngine(templates []api.EmailTemplate) (*Engine, error) {
	e := &Engine{
		templates: make(map[string]*template.Template),
		subjects:  make(map[string]string),
	}

	for _, t := range templates {
		tmpl, err := template.New(t.Name).Parse(normalizePlaceholders(t.Body))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", t.Name, err)
		}
		e.templates[t.Name] = tmpl
		e.subjects[t.Name] = normalizePlaceholders(t.Subject)
	}

	return e, nil
}

// normalizePlaceholders rewrites {{lead_name}}-style placeholders into
// the field names PreviewData exposes
var placeholderAliases = map[string]string{
	"{{lead_name}}":           "{{.LeadName}}",
	"{{lead_email}}":          "{{.LeadEmail}}",
	"{{lead_phone}}":          "{{.LeadPhone}}",
	"{{lead_website}}":        "{{.LeadWebsite}}",
	"{{lead_address}}":        "{{.LeadAddress}}",
	"{{description}}":         "{{.Description}}",
	"{{company_name}}":        "{{.CompanyName}}",
	"{{company_description}}": "{{.CompanyDescription}}",
	"{{date}}":                "{{.Date}}",
}

func normalizePlaceholders(s string) string {
	for alias, field := range placeholderAliases {
		s = strings.ReplaceAll(s, alias, field)
	}
	return s
}

// Render generates a preview email for a template against a lead
func (e *Engine) Render(templateName string, l lead.Lead, company config.CompanyConfig) (*Email, error) {
	tmpl, ok := e.templates[templateName]
	if !ok {
		return nil, fmt.Errorf("unknown template: %s", templateName)
	}

	now := time.Now()
	data := PreviewData{
		LeadName:           l.Name,
		LeadEmail:          l.Email,
		LeadPhone:          l.Phone,
		LeadWebsite:        l.Website,
		LeadAddress:        l.Address,
		Description:        l.Description,
		CompanyName:        company.Name,
		CompanyDescription: company.Description,
		Date:               now.Format("January 2, 2006"),
		Year:               now.Year(),
		Month:              now.Format("January"),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}

	subject, err := e.renderSubject(templateName, data)
	if err != nil {
		return nil, err
	}

	return &Email{
		Subject: subject,
		Body:    buf.String(),
	}, nil
}

func (e *Engine) renderSubject(templateName string, data PreviewData) (string, error) {
	raw := e.subjects[templateName]
	if raw == "" {
		return fmt.Sprintf("Hello from %s", data.CompanyName), nil
	}

	tmpl, err := template.New(templateName + "_subject").Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse subject for %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render subject: %w", err)
	}
	return buf.String(), nil
}

// AvailableTemplates returns the sorted list of template names
func (e *Engine) AvailableTemplates() []string {
	templates := make([]string, 0, len(e.templates))
	for name := range e.templates {
		templates = append(templates, name)
	}
	sort.Strings(templates)
	return templates
}
