package api

import (
	"context"
	"fmt"

	"github.com/leadforge/leadforge/internal/lead"
)

// GenerateParams carry the company context used by single-lead generation.
type GenerateParams struct {
	CompanyInfo       string `json:"company_info,omitempty"`
	CustomInstruction string `json:"custom_instruction,omitempty"`
}

func generatePath(leadID string, kind lead.Kind) (string, error) {
	switch kind {
	case lead.KindDescription:
		return "/leads/" + leadID + "/generate-description", nil
	case lead.KindDeepResearch:
		return "/leads/" + leadID + "/generate-deep-research", nil
	case lead.KindEmail:
		return "/leads/" + leadID + "/generate-email", nil
	case lead.KindWhatsApp:
		return "/leads/" + leadID + "/generate-whatsapp", nil
	}
	return "", fmt.Errorf("unknown generation kind: %q", kind)
}

// Generate enqueues a single-lead generation job of the given kind. The call
// returns once the backend accepts the job; completion is observed by polling
// the lead's content fields.
func (c *Client) Generate(ctx context.Context, leadID string, kind lead.Kind, params GenerateParams) error {
	path, err := generatePath(leadID, kind)
	if err != nil {
		return err
	}
	return c.postJSON(ctx, path, nil, params, nil)
}

// CancelLeadGeneration asks the backend to stop any in-flight generation job
// for the lead.
func (c *Client) CancelLeadGeneration(ctx context.Context, leadID string) (CancelResult, error) {
	var result CancelResult
	err := c.postJSON(ctx, "/leads/"+leadID+"/cancel-generation", nil, nil, &result)
	return result, err
}

// LeadPatch holds the editable lead fields. Nil fields are left unchanged.
type LeadPatch struct {
	Name              *string `json:"name,omitempty"`
	Address           *string `json:"address,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	Website           *string `json:"website,omitempty"`
	Email             *string `json:"email,omitempty"`
	Description       *string `json:"description,omitempty"`
	GeneratedEmail    *string `json:"generated_email,omitempty"`
	GeneratedWhatsApp *string `json:"generated_whatsapp,omitempty"`
}

// UpdateLead applies a partial edit to a lead.
func (c *Client) UpdateLead(ctx context.Context, leadID string, patch LeadPatch) (lead.Lead, error) {
	var updated lead.Lead
	err := c.patchJSON(ctx, "/leads/"+leadID, patch, &updated)
	return updated, err
}

// ReplaceLead overwrites a lead wholesale.
func (c *Client) ReplaceLead(ctx context.Context, l lead.Lead) (lead.Lead, error) {
	var updated lead.Lead
	err := c.putJSON(ctx, "/leads/"+l.ID, l, &updated)
	return updated, err
}

// DeleteLead removes a lead.
func (c *Client) DeleteLead(ctx context.Context, leadID string) error {
	return c.delete(ctx, "/leads/"+leadID)
}

// bulkGenerateRequest is the shared body for batch generation endpoints.
type bulkGenerateRequest struct {
	LeadIDs           []string `json:"lead_ids"`
	CompanyInfo       string   `json:"company_info,omitempty"`
	CustomInstruction string   `json:"custom_instruction,omitempty"`
}

// BulkReport is the per-lead outcome of a batch operation. Individual lead
// failures never fail the batch as a whole.
type BulkReport struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Total     int           `json:"total"`
	Failures  []LeadFailure `json:"failures,omitempty"`
}

// LeadFailure names one failed lead and why.
type LeadFailure struct {
	LeadID string `json:"lead_id"`
	Reason string `json:"reason"`
}

func bulkGeneratePath(campaignID string, kind lead.Kind) (string, error) {
	switch kind {
	case lead.KindDescription:
		return "/campaigns/" + campaignID + "/bulk-generate-descriptions", nil
	case lead.KindEmail:
		return "/campaigns/" + campaignID + "/bulk-generate-emails", nil
	case lead.KindWhatsApp:
		return "/campaigns/" + campaignID + "/bulk-generate-whatsapp", nil
	}
	return "", fmt.Errorf("no bulk endpoint for kind: %q", kind)
}

// BulkGenerate runs one generation action across a set of leads as a single
// server call. The backend treats the batch as one job; there is no per-lead
// cancel within it.
func (c *Client) BulkGenerate(ctx context.Context, campaignID string, kind lead.Kind, leadIDs []string, params GenerateParams) (BulkReport, error) {
	path, err := bulkGeneratePath(campaignID, kind)
	if err != nil {
		return BulkReport{}, err
	}
	req := bulkGenerateRequest{
		LeadIDs:           leadIDs,
		CompanyInfo:       params.CompanyInfo,
		CustomInstruction: params.CustomInstruction,
	}
	var report BulkReport
	err = c.postJSON(ctx, path, nil, req, &report)
	return report, err
}

// SendParams configure a batch delivery call.
type SendParams struct {
	LeadIDs         []string           `json:"lead_ids"`
	Sender          *SenderCredentials `json:"sender,omitempty"`
	MinDelaySeconds int                `json:"min_delay_seconds,omitempty"`
	MaxDelaySeconds int                `json:"max_delay_seconds,omitempty"`
}

// SendEmails delivers the generated emails for the given leads.
func (c *Client) SendEmails(ctx context.Context, campaignID string, params SendParams) (BulkReport, error) {
	var report BulkReport
	err := c.postJSON(ctx, "/campaigns/"+campaignID+"/send-emails-to-leads", nil, params, &report)
	return report, err
}

// SendWhatsApp delivers the generated WhatsApp messages for the given leads.
func (c *Client) SendWhatsApp(ctx context.Context, campaignID string, params SendParams) (BulkReport, error) {
	var report BulkReport
	err := c.postJSON(ctx, "/campaigns/"+campaignID+"/send-whatsapp", nil, params, &report)
	return report, err
}
