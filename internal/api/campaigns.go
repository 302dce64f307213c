package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"

	"github.com/leadforge/leadforge/internal/lead"
)

// Campaigns lists the campaigns for the authenticated user.
func (c *Client) Campaigns(ctx context.Context) ([]lead.Campaign, error) {
	var campaigns []lead.Campaign
	if err := c.get(ctx, "/campaigns", nil, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// CampaignLeads lists all leads in a campaign.
func (c *Client) CampaignLeads(ctx context.Context, campaignID string) ([]lead.Lead, error) {
	var leads []lead.Lead
	if err := c.get(ctx, "/campaigns/"+campaignID+"/leads", nil, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// ClearCampaignLeads deletes all leads in a campaign.
func (c *Client) ClearCampaignLeads(ctx context.Context, campaignID string) error {
	return c.delete(ctx, "/campaigns/"+campaignID+"/leads")
}

// ScrapeParams controls a lead scraping job.
type ScrapeParams struct {
	Query      string
	Location   string
	MaxResults int
}

func (p ScrapeParams) values() url.Values {
	v := url.Values{}
	v.Set("query", p.Query)
	if p.Location != "" {
		v.Set("location", p.Location)
	}
	if p.MaxResults > 0 {
		v.Set("max_results", strconv.Itoa(p.MaxResults))
	}
	return v
}

// GenerateLeads starts a scraping job for the campaign. The source selects
// the backend scraper; the job itself runs server-side and is observed via
// polling.
func (c *Client) GenerateLeads(ctx context.Context, campaignID string, source lead.Source, params ScrapeParams) error {
	var path string
	switch source {
	case lead.SourceGoogleMaps:
		path = "/campaigns/" + campaignID + "/generate-leads"
	case lead.SourceLinkedIn:
		path = "/campaigns/" + campaignID + "/generate-linkedin-leads"
	case lead.SourceInstagram:
		path = "/campaigns/" + campaignID + "/generate-instagram-leads"
	default:
		return fmt.Errorf("unknown lead source: %q", source)
	}
	return c.postJSON(ctx, path, params.values(), nil, nil)
}

// CancelResult reports the outcome of a server-side cancel request.
// Cancelled false with a detail message means there was nothing to cancel,
// which is informational, not an error.
type CancelResult struct {
	Cancelled bool   `json:"cancelled"`
	Detail    string `json:"detail,omitempty"`
}

// CancelCampaignGeneration asks the backend to stop an in-flight scraping
// job for the campaign.
func (c *Client) CancelCampaignGeneration(ctx context.Context, campaignID string) (CancelResult, error) {
	var result CancelResult
	err := c.postJSON(ctx, "/campaigns/"+campaignID+"/cancel-generation", nil, nil, &result)
	return result, err
}

// SenderCredentials are SMTP credentials passed through to the backend's
// delivery workers. They are never stored server-side beyond the job.
type SenderCredentials struct {
	Email    string `json:"sender_email"`
	Password string `json:"sender_password"`
	Host     string `json:"smtp_host,omitempty"`
	Port     int    `json:"smtp_port,omitempty"`
}

// AutomationParams configures the combined scrape+describe+email pipeline.
type AutomationParams struct {
	Query                string             `json:"query"`
	Source               lead.Source        `json:"source"`
	MaxResults           int                `json:"max_results"`
	GenerateDescriptions bool               `json:"generate_descriptions"`
	GenerateEmails       bool               `json:"generate_emails"`
	CompanyInfo          string             `json:"company_info"`
	CustomInstruction    string             `json:"custom_instruction,omitempty"`
	AutoSend             bool               `json:"auto_send"`
	Sender               *SenderCredentials `json:"sender,omitempty"`
	MinDelaySeconds      int                `json:"min_delay_seconds,omitempty"`
	MaxDelaySeconds      int                `json:"max_delay_seconds,omitempty"`
}

// RunAutomation starts the full pipeline for a campaign.
func (c *Client) RunAutomation(ctx context.Context, campaignID string, params AutomationParams) error {
	return c.postJSON(ctx, "/campaigns/"+campaignID+"/run-automation", nil, params, nil)
}

// UploadOptions control post-import generation for uploaded leads.
type UploadOptions struct {
	GenerateDescriptions bool
	GenerateEmails       bool
	CompanyInfo          string
}

// ImportReport is the per-row outcome of a lead file import. Row failures do
// not fail the import as a whole.
type ImportReport struct {
	Imported int          `json:"imported"`
	Failed   int          `json:"failed"`
	Total    int          `json:"total"`
	Errors   []RowFailure `json:"errors,omitempty"`
}

// RowFailure names one rejected row and why.
type RowFailure struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// UploadLeads imports a CSV/Excel file of leads into the campaign.
func (c *Client) UploadLeads(ctx context.Context, campaignID, fileName string, file io.Reader, opts UploadOptions) (ImportReport, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return ImportReport{}, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return ImportReport{}, fmt.Errorf("failed to read upload file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return ImportReport{}, fmt.Errorf("failed to finalize upload: %w", err)
	}

	params := url.Values{}
	params.Set("generate_descriptions", strconv.FormatBool(opts.GenerateDescriptions))
	params.Set("generate_emails", strconv.FormatBool(opts.GenerateEmails))
	if opts.CompanyInfo != "" {
		params.Set("company_info", opts.CompanyInfo)
	}

	var report ImportReport
	err = c.do(ctx, "POST", "/campaigns/"+campaignID+"/upload-leads", params, &buf, mw.FormDataContentType(), &report)
	return report, err
}

// EnrichLeads asks the backend to enrich existing leads from their websites.
func (c *Client) EnrichLeads(ctx context.Context, campaignID string) error {
	return c.postJSON(ctx, "/campaigns/"+campaignID+"/leads/enrich", nil, nil, nil)
}

// EmailAnalytics are aggregate delivery/engagement stats for a campaign.
type EmailAnalytics struct {
	Sent      int     `json:"sent"`
	Delivered int     `json:"delivered"`
	Opened    int     `json:"opened"`
	Clicked   int     `json:"clicked"`
	Bounced   int     `json:"bounced"`
	Failed    int     `json:"failed"`
	OpenRate  float64 `json:"open_rate"`
	ClickRate float64 `json:"click_rate"`
}

// CampaignEmailAnalytics fetches aggregate email stats for a campaign.
func (c *Client) CampaignEmailAnalytics(ctx context.Context, campaignID string) (EmailAnalytics, error) {
	var a EmailAnalytics
	err := c.get(ctx, "/campaigns/"+campaignID+"/email-analytics", nil, &a)
	return a, err
}

// EmailLogEntry is one per-message delivery record.
type EmailLogEntry struct {
	LeadID    string `json:"lead_id"`
	LeadName  string `json:"lead_name"`
	Recipient string `json:"recipient"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	SentAt    string `json:"sent_at,omitempty"`
}

// CampaignEmailLogs fetches per-message delivery logs for a campaign.
func (c *Client) CampaignEmailLogs(ctx context.Context, campaignID string) ([]EmailLogEntry, error) {
	var logs []EmailLogEntry
	err := c.get(ctx, "/campaigns/"+campaignID+"/email-logs", nil, &logs)
	return logs, err
}
