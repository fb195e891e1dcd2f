package models

import "time"

// RosterEntry is the lightweight provider-client relationship record the
// engine upserts on booking and confirmation events. Its lifecycle is owned
// by the CRM side; the engine only touches contact and case context fields.
type RosterEntry struct {
	ID              string    `bson:"id" json:"id"`
	ProviderID      string    `bson:"provider_id" json:"providerId"`
	ClientID        string    `bson:"client_id" json:"clientId"`
	Status          string    `bson:"status" json:"status"`
	CaseType        string    `bson:"case_type,omitempty" json:"caseType,omitempty"`
	LastContactDate time.Time `bson:"last_contact_date" json:"lastContactDate"`
	LastBookingDate string    `bson:"last_booking_date,omitempty" json:"lastBookingDate,omitempty"`
	LastBookingTime string    `bson:"last_booking_time,omitempty" json:"lastBookingTime,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`
}
