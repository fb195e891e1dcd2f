package models

import "time"

// Reservation statuses. NoShow exists in the domain but no named lifecycle
// transition produces it; it is reachable only through a direct status write.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// ValidStatuses lists every value the status field may hold.
var ValidStatuses = []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow}

// IsValidStatus reports whether s is a member of the status domain.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsActiveStatus reports whether a reservation in status s holds its slot.
// Only active reservations participate in the uniqueness invariant.
func IsActiveStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed
}

// Reservation is the central entity of the booking engine: one client holding
// one slot on one provider's calendar.
type Reservation struct {
	ID         string `bson:"id" json:"id"`
	ProviderID string `bson:"provider_id" json:"providerId"`
	ClientID   string `bson:"client_id" json:"clientId"`

	Date         string `bson:"date" json:"date"`   // "YYYY-MM-DD"
	Start        string `bson:"start" json:"start"` // "HH:MM"
	End          string `bson:"end" json:"end"`     // always derived from Start + DurationMins
	DurationMins int    `bson:"duration_mins" json:"durationMins"`

	Status string `bson:"status" json:"status"`
	// Active mirrors IsActiveStatus(Status); it backs the partial unique index
	// that enforces at most one active reservation per (provider, date, start).
	Active bool `bson:"active" json:"-"`

	AppointmentType string `bson:"appointment_type,omitempty" json:"appointmentType,omitempty"`
	MeetingType     string `bson:"meeting_type,omitempty" json:"meetingType,omitempty"`

	ClientNotes   string `bson:"client_notes,omitempty" json:"clientNotes,omitempty"`
	ProviderNotes string `bson:"provider_notes,omitempty" json:"providerNotes,omitempty"`
	CancelReason  string `bson:"cancel_reason,omitempty" json:"cancelReason,omitempty"`
	CancelledBy   string `bson:"cancelled_by,omitempty" json:"cancelledBy,omitempty"`

	ConfirmedAt *time.Time `bson:"confirmed_at,omitempty" json:"confirmedAt,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	CancelledAt *time.Time `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`

	Payment *PaymentInfo `bson:"payment,omitempty" json:"payment,omitempty"`
}

// SetStatus writes the status and keeps the Active flag in sync.
func (r *Reservation) SetStatus(status string) {
	r.Status = status
	r.Active = IsActiveStatus(status)
}

// OwnedByProvider reports whether the given provider owns this reservation.
func (r *Reservation) OwnedByProvider(providerID string) bool {
	return providerID != "" && r.ProviderID == providerID
}

// OwnedByClient reports whether the given client owns this reservation.
func (r *Reservation) OwnedByClient(clientID string) bool {
	return clientID != "" && r.ClientID == clientID
}
