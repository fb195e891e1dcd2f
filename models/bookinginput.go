package models

// Request payloads bound by the HTTP layer.

// CreateBookingInput is the body of the free-booking endpoint. End is never
// accepted from the caller; it is derived from Start and DurationMins.
type CreateBookingInput struct {
	ProviderID      string `json:"providerId" binding:"required"`
	Date            string `json:"date" binding:"required"`
	Start           string `json:"start" binding:"required"`
	DurationMins    int    `json:"durationMins"`
	AppointmentType string `json:"appointmentType"`
	MeetingType     string `json:"meetingType"`
	Notes           string `json:"notes"`
}

// StatusUpdateInput drives the lifecycle endpoint. Reason is required when a
// provider cancels; Notes may accompany completion.
type StatusUpdateInput struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// NotesInput updates provider-authored free text without a status change.
type NotesInput struct {
	ProviderNotes string `json:"providerNotes" binding:"required"`
}

// RescheduleInput moves a reservation to a new slot.
type RescheduleInput struct {
	Date         string `json:"date" binding:"required"`
	Start        string `json:"start" binding:"required"`
	DurationMins int    `json:"durationMins"`
}

// CreateOrderInput asks the payment gateway for a new order.
type CreateOrderInput struct {
	Amount   float64           `json:"amount" binding:"required"`
	Currency string            `json:"currency"`
	Notes    map[string]string `json:"notes"`
}

// PaidBookingInput is the booking payload on the payment-verify path. Unlike
// CreateBookingInput nothing is required at bind time: a thin payload is
// legitimate because missing fields are recovered from the order metadata,
// and the engine validates the merged result.
type PaidBookingInput struct {
	ProviderID      string `json:"providerId"`
	Date            string `json:"date"`
	Start           string `json:"start"`
	DurationMins    int    `json:"durationMins"`
	AppointmentType string `json:"appointmentType"`
	MeetingType     string `json:"meetingType"`
	Notes           string `json:"notes"`
}

// VerifyPaymentInput carries the gateway callback triple plus the booking
// payload. Booking fields may be merged from order metadata as a fallback.
type VerifyPaymentInput struct {
	OrderID   string           `json:"orderId" binding:"required"`
	PaymentID string           `json:"paymentId" binding:"required"`
	Signature string           `json:"signature" binding:"required"`
	Booking   PaidBookingInput `json:"booking"`
}
