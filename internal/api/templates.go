package api

import (
	"context"
	"time"
)

// EmailTemplate is a reusable outreach template stored in the backend.
type EmailTemplate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// EmailTemplates lists the stored templates.
func (c *Client) EmailTemplates(ctx context.Context) ([]EmailTemplate, error) {
	var templates []EmailTemplate
	if err := c.get(ctx, "/email-templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateEmailTemplate stores a new template.
func (c *Client) CreateEmailTemplate(ctx context.Context, t EmailTemplate) (EmailTemplate, error) {
	var created EmailTemplate
	err := c.postJSON(ctx, "/email-templates", nil, t, &created)
	return created, err
}

// TemplatePatch holds the editable template fields.
type TemplatePatch struct {
	Name    *string `json:"name,omitempty"`
	Subject *string `json:"subject,omitempty"`
	Body    *string `json:"body,omitempty"`
}

// UpdateEmailTemplate applies a partial edit to a template.
func (c *Client) UpdateEmailTemplate(ctx context.Context, id string, patch TemplatePatch) (EmailTemplate, error) {
	var updated EmailTemplate
	err := c.patchJSON(ctx, "/email-templates/"+id, patch, &updated)
	return updated, err
}

// DeleteEmailTemplate removes a template.
func (c *Client) DeleteEmailTemplate(ctx context.Context, id string) error {
	return c.delete(ctx, "/email-templates/"+id)
}

// ConnectionTest is the backend's verdict on a set of SMTP credentials.
type ConnectionTest struct {
	Success bool   `json:"success"`
	Detail  string `json:"detail,omitempty"`
}

// TestEmailConnection validates SMTP credentials server-side before they are
// used for a send job.
func (c *Client) TestEmailConnection(ctx context.Context, creds SenderCredentials) (ConnectionTest, error) {
	var result ConnectionTest
	err := c.postJSON(ctx, "/test-email-connection", nil, creds, &result)
	return result, err
}
