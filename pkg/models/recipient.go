package models

import "time"

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type RecipientStatus string

const (
	RecipientActive RecipientStatus = "active"
	RecipientHelped RecipientStatus = "helped"
)

type Recipient struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Count        int             `json:"count"` // people needing help, >= 1
	Description  string          `json:"description"`
	Needs        []string        `json:"needs"`
	Location     GeoPoint        `json:"location"`
	AddressLabel string          `json:"address_label"`
	ImageURL     string          `json:"image_url,omitempty"`
	Status       RecipientStatus `json:"status"`
	LastSeen     time.Time       `json:"last_seen"`
	ReportedBy   string          `json:"reported_by,omitempty"`
}

// Stale reports whether the recipient has not been reconfirmed within ttl.
// Stale recipients are hidden from the donor-facing catalogue.
func (r *Recipient) Stale(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.LastSeen) > ttl
}
