package lead

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Source identifies where a lead was scraped from
type Source string

const (
	SourceGoogleMaps Source = "google_maps"
	SourceLinkedIn   Source = "linkedin"
	SourceInstagram  Source = "instagram"
)

// Kind is the type of a long-running generation job for a lead
type Kind string

const (
	KindDescription  Kind = "description"
	KindDeepResearch Kind = "deep_research"
	KindEmail        Kind = "email"
	KindWhatsApp     Kind = "whatsapp"
)

// Kinds lists all generation job kinds
var Kinds = []Kind{KindDescription, KindDeepResearch, KindEmail, KindWhatsApp}

// Valid reports whether k is a known job kind
func (k Kind) Valid() bool {
	switch k {
	case KindDescription, KindDeepResearch, KindEmail, KindWhatsApp:
		return true
	}
	return false
}

// Lead is a prospective business contact managed by the backend
type Lead struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaign_id"`
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Website    string `json:"website,omitempty"`
	Email      string `json:"email,omitempty"`

	Description       string  `json:"description,omitempty"`
	DeepResearch      string  `json:"deep_research,omitempty"`
	GeneratedEmail    string  `json:"generated_email,omitempty"`
	GeneratedWhatsApp string  `json:"generated_whatsapp,omitempty"`
	LeadScore         float64 `json:"lead_score,omitempty"`

	EmailSent    bool         `json:"email_sent,omitempty"`
	WhatsAppSent bool         `json:"whatsapp_sent,omitempty"`
	ScrapedData  *ScrapedData `json:"scraped_data,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Content returns the generated content field corresponding to a job kind.
// An empty result means the job has not completed yet.
func (l *Lead) Content(kind Kind) string {
	switch kind {
	case KindDescription:
		return l.Description
	case KindDeepResearch:
		return l.DeepResearch
	case KindEmail:
		return l.GeneratedEmail
	case KindWhatsApp:
		return l.GeneratedWhatsApp
	}
	return ""
}

// HasContent reports whether the generation result for kind is populated
func (l *Lead) HasContent(kind Kind) bool {
	return strings.TrimSpace(l.Content(kind)) != ""
}

// GoogleMapsData holds the source-specific payload for Google Maps leads
type GoogleMapsData struct {
	PlaceID    string  `json:"place_id,omitempty"`
	Category   string  `json:"category,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
	Reviews    int     `json:"reviews,omitempty"`
	PlusCode   string  `json:"plus_code,omitempty"`
	OpeningNow bool    `json:"opening_now,omitempty"`
}

// LinkedInData holds the source-specific payload for LinkedIn leads
type LinkedInData struct {
	ProfileURL  string `json:"profile_url,omitempty"`
	Headline    string `json:"headline,omitempty"`
	Company     string `json:"company,omitempty"`
	Position    string `json:"position,omitempty"`
	Connections int    `json:"connections,omitempty"`
}

// InstagramData holds the source-specific payload for Instagram leads
type InstagramData struct {
	Username  string `json:"username,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Followers int    `json:"followers,omitempty"`
	Following int    `json:"following,omitempty"`
	Posts     int    `json:"posts,omitempty"`
}

// ScrapedData is a tagged union over the per-source payload shapes.
// Exactly one of the payload fields is set, matching Source.
type ScrapedData struct {
	Source     Source
	GoogleMaps *GoogleMapsData
	LinkedIn   *LinkedInData
	Instagram  *InstagramData
}

type scrapedEnvelope struct {
	Source  Source          `json:"source"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MarshalJSON encodes the union as {"source": ..., "payload": {...}}
func (d ScrapedData) MarshalJSON() ([]byte, error) {
	var payload interface{}
	switch d.Source {
	case SourceGoogleMaps:
		payload = d.GoogleMaps
	case SourceLinkedIn:
		payload = d.LinkedIn
	case SourceInstagram:
		payload = d.Instagram
	default:
		return nil, fmt.Errorf("unknown scraped data source: %q", d.Source)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(scrapedEnvelope{Source: d.Source, Payload: raw})
}

// UnmarshalJSON decodes the union, selecting the payload type by source tag
func (d *ScrapedData) UnmarshalJSON(data []byte) error {
	var env scrapedEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	d.Source = env.Source
	d.GoogleMaps, d.LinkedIn, d.Instagram = nil, nil, nil

	if len(env.Payload) == 0 {
		return nil
	}

	switch env.Source {
	case SourceGoogleMaps:
		d.GoogleMaps = &GoogleMapsData{}
		return json.Unmarshal(env.Payload, d.GoogleMaps)
	case SourceLinkedIn:
		d.LinkedIn = &LinkedInData{}
		return json.Unmarshal(env.Payload, d.LinkedIn)
	case SourceInstagram:
		d.Instagram = &InstagramData{}
		return json.Unmarshal(env.Payload, d.Instagram)
	}
	return fmt.Errorf("unknown scraped data source: %q", env.Source)
}

// Campaign is a named grouping of leads
type Campaign struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Source    Source    `json:"source,omitempty"`
	LeadCount int       `json:"lead_count"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// FindByID returns the lead with the given id, or nil
func FindByID(leads []Lead, id string) *Lead {
	for i := range leads {
		if leads[i].ID == id {
			return &leads[i]
		}
	}
	return nil
}
