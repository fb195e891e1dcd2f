package notification

import (
	"context"

	"counselbook/models"
)

// Notice kinds dispatched on lifecycle transitions.
const (
	NoticeBookingConfirmed   = "booking_confirmed"
	NoticeBookingCancelled   = "booking_cancelled"
	NoticeBookingRescheduled = "booking_rescheduled"
	NoticeBookingReminder    = "booking_reminder"
)

// Recipient roles for a notice.
const (
	RecipientClient   = "client"
	RecipientProvider = "provider"
)

// Dispatcher delivers a notice about a reservation. All dispatches are
// best-effort relative to the primary state mutation: callers log failures
// and move on.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind, recipientRole, recipientID string, r *models.Reservation, extra map[string]string) error
}
