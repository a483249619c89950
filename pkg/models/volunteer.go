package models

type Volunteer struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Verified bool      `json:"verified"`
	Phone    string    `json:"phone,omitempty"`
	Location *GeoPoint `json:"location,omitempty"`
	IsOnline bool      `json:"is_online"`
	ChatID   int64     `json:"chat_id,omitempty"` // telegram chat for alerts, 0 if not linked

	// TotalDeliveries is derived from the requests collection
	// (status delivered or paid), never stored as a counter.
	TotalDeliveries int `json:"total_deliveries"`
}
