package model

import (
	"encoding/json"
	"time"
)

// UnknownLabel substitutes missing city, device and browser values in
// categorical breakdowns.
const UnknownLabel = "Unknown"

// LeadRequest represents an incoming lead payload on the ingest endpoint.
type LeadRequest struct {
	Name      string          `json:"name" validate:"required"`
	Phone     string          `json:"phone" validate:"required"`
	ClientID  *int64          `json:"client_id" validate:"required"`
	Source    string          `json:"source" validate:"required"`
	Campaign  *string         `json:"campaign"`
	AdSet     *string         `json:"ad_set"`
	Ad        *string         `json:"ad"`
	Keyword   *string         `json:"keyword"`
	Device    string          `json:"device"`
	Browser   json.RawMessage `json:"browser"`
	Location  *Location       `json:"location"`
	Timestamp int64           `json:"timestamp" validate:"required"`
}

// Lead is the domain model persisted in the database. Campaign, ad-set,
// ad and keyword form a loose hierarchy; any of them may be absent
// independently of the others.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	ClientID  int64     `json:"client_id"`
	Source    string    `json:"source"`
	Campaign  *string   `json:"campaign"`
	AdSet     *string   `json:"ad_set"`
	Ad        *string   `json:"ad"`
	Keyword   *string   `json:"keyword"`
	Device    string    `json:"device,omitempty"`
	Browser   Browser   `json:"browser"`
	Location  *Location `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LeadResult reports the outcome of an ingest call.
type LeadResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Location is the geographic part of a lead, decoded from JSON.
type Location struct {
	City    string `json:"city"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

// Label renders the location for breakdowns: city plus region when both
// are known, "Unknown" when the city is missing.
func (l *Location) Label() string {
	if l == nil || l.City == "" {
		return UnknownLabel
	}
	if l.Region != "" {
		return l.City + ", " + l.Region
	}
	return l.City
}

// Browser tolerates both wire shapes seen in tracked leads: a plain
// string ("Chrome") or a structured object ({"name":"Chrome",...}).
type Browser struct {
	Raw string
}

type browserObject struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts either shape; anything unparseable decodes to an
// empty Browser rather than failing the whole record.
func (b *Browser) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		b.Raw = s
		return nil
	}
	var obj browserObject
	if err := json.Unmarshal(data, &obj); err == nil {
		b.Raw = obj.Name
		return nil
	}
	b.Raw = ""
	return nil
}

// MarshalJSON renders the browser back as a plain string.
func (b Browser) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Raw)
}

// Name returns the browser display name with the unknown fallback.
func (b Browser) Name() string {
	if b.Raw == "" {
		return UnknownLabel
	}
	return b.Raw
}

// Client is an owning client of tracked leads.
type Client struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Instance string `json:"instance,omitempty"`
}

// ClientLink is a shareable read-only dashboard link for one client.
type ClientLink struct {
	ClientID int64  `json:"client_id"`
	Token    string `json:"token"`
	URL      string `json:"url"`
}
