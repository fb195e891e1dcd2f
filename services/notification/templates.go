package notification

import (
	"fmt"

	"counselbook/models"
)

// noticeContent renders the title and body for a notice kind.
func noticeContent(kind string, r *models.Reservation, extra map[string]string) (string, string) {
	when := fmt.Sprintf("%s at %s", r.Date, r.Start)

	switch kind {
	case NoticeBookingConfirmed:
		return "Appointment confirmed",
			fmt.Sprintf("Your appointment on %s has been confirmed.", when)
	case NoticeBookingCancelled:
		reason := extra["reason"]
		if reason == "" {
			reason = "no reason provided"
		}
		return "Appointment cancelled",
			fmt.Sprintf("Your appointment on %s was cancelled. Reason: %s.", when, reason)
	case NoticeBookingRescheduled:
		return "Appointment rescheduled",
			fmt.Sprintf("Your appointment has been moved to %s.", when)
	case NoticeBookingReminder:
		return "Appointment reminder",
			fmt.Sprintf("You have an appointment coming up on %s.", when)
	default:
		return "Appointment update", fmt.Sprintf("Your appointment on %s was updated.", when)
	}
}
