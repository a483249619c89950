package models

import "time"

// RequestStatus is the delivery request lifecycle state. Transitions only
// move forward: pending -> accepted -> picked_up -> delivered -> paid.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusPickedUp  RequestStatus = "picked_up"
	StatusDelivered RequestStatus = "delivered"
	StatusPaid      RequestStatus = "paid"
)

type FulfillmentMode string

const (
	ModeSelf      FulfillmentMode = "self"
	ModeVolunteer FulfillmentMode = "volunteer"
)

type ProofType string

const (
	ProofImage ProofType = "image"
	ProofVideo ProofType = "video"
)

type DeliveryRequest struct {
	ID             string        `json:"id"`
	RecipientID    string        `json:"recipient_id"`
	RecipientName  string        `json:"recipient_name"` // snapshot taken at creation
	DonorName      string        `json:"donor_name"`
	DonorPhone     string        `json:"donor_phone,omitempty"`
	Items          string        `json:"items"`
	PickupAddress  string        `json:"pickup_address"`
	PickupOtp      string        `json:"pickup_otp,omitempty"`
	PickupLocation *GeoPoint     `json:"pickup_location,omitempty"`
	ServiceFee     int           `json:"service_fee"`
	Status         RequestStatus `json:"status"`
	VolunteerID    string        `json:"volunteer_id,omitempty"`
	VolunteerName  string        `json:"volunteer_name,omitempty"`
	ProofURL       string        `json:"proof_url,omitempty"`
	ProofType      ProofType     `json:"proof_type,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// RequestPatch carries the optional fields a status transition may set
// alongside the status itself.
type RequestPatch struct {
	VolunteerID   *string
	VolunteerName *string
	ProofURL      *string
	ProofType     *ProofType
	UpdatedAt     time.Time
}
