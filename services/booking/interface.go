package booking

import (
	"context"

	"counselbook/models"
)

// Actor identifies the authenticated caller of a scheduling operation.
// Authorization is transition-scoped: the service checks the actor against
// the reservation's owners per operation.
type Actor struct {
	ID   string
	Role string
}

const (
	RoleClient   = "client"
	RoleProvider = "provider"
)

// ReminderScheduler enqueues a best-effort reminder for a confirmed
// reservation. Implemented by the asynq worker; failures never affect the
// primary transition.
type ReminderScheduler interface {
	ScheduleReminder(r *models.Reservation) error
}

// SchedulingService is the appointment scheduling and booking engine.
type SchedulingService interface {
	// Availability.
	ResolveSlots(ctx context.Context, providerID, startDate, endDate string) ([]models.DateSlots, error)

	// Creation.
	CreateBooking(ctx context.Context, clientID string, in models.CreateBookingInput) (*models.Reservation, error)
	CreatePaidBooking(ctx context.Context, clientID string, in models.VerifyPaymentInput) (*models.Reservation, error)

	// Lifecycle.
	Confirm(ctx context.Context, id string, actor Actor) (*models.Reservation, error)
	Cancel(ctx context.Context, id string, actor Actor, reason string) (*models.Reservation, error)
	Complete(ctx context.Context, id string, actor Actor, notes string) (*models.Reservation, error)
	Reschedule(ctx context.Context, id string, actor Actor, in models.RescheduleInput) (*models.Reservation, error)
	OverrideStatus(ctx context.Context, id string, actor Actor, status string) (*models.Reservation, error)
	UpdateNotes(ctx context.Context, id string, actor Actor, providerNotes string) (*models.Reservation, error)
	Delete(ctx context.Context, id string, actor Actor) error

	// Reads.
	Get(ctx context.Context, id string, actor Actor) (*models.Reservation, error)
	ListForProvider(ctx context.Context, providerID string, f ListFilter) ([]models.Reservation, error)
	ListForClient(ctx context.Context, clientID string, f ListFilter) ([]models.Reservation, error)
	TodayForProvider(ctx context.Context, providerID string) ([]models.Reservation, error)
	UpcomingForProvider(ctx context.Context, providerID string) ([]models.Reservation, error)
	DashboardStats(ctx context.Context, providerID string) (*DashboardStats, error)
}

// ListFilter narrows reservation listings.
type ListFilter struct {
	Date     string
	DateFrom string
	DateTo   string
	Status   string
	Limit    int64
	Skip     int64
}

// DashboardStats summarizes a provider's calendar load.
type DashboardStats struct {
	Total     int64            `json:"total"`
	ByStatus  map[string]int64 `json:"byStatus"`
	Today     int64            `json:"today"`
	TodayDate string           `json:"todayDate"`
}
