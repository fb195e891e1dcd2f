package booking

import (
	"context"
	"time"

	bookingRepo "counselbook/database/repository/booking"
	providerRepo "counselbook/database/repository/provider"
	"counselbook/models"
	"counselbook/services/notification"
	"counselbook/services/payment"
	"counselbook/services/roster"
	"counselbook/utils"

	"go.uber.org/zap"
)

// DefaultSchedulingEngine is the production SchedulingService. All state
// lives in the repositories; the engine itself is stateless and safe for
// concurrent use across request handlers and processes.
type DefaultSchedulingEngine struct {
	Repo         bookingRepo.ReservationRepository
	ProviderRepo providerRepo.ProviderRepository
	Roster       roster.Updater
	Notifier     notification.Dispatcher
	Gateway      payment.Gateway
	Reminders    ReminderScheduler
	Logger       *zap.Logger

	// Clock supplies "now"; nil means wall clock. Injected so tests can pin
	// today/now.
	Clock func() time.Time

	// GranularityMins is the slot step; zero means the 30-minute default.
	GranularityMins int

	// Fallback window applied when a provider publishes no active slots for a
	// weekday; zero values mean 09:00-17:00.
	FallbackStart string
	FallbackEnd   string
}

var _ SchedulingService = (*DefaultSchedulingEngine)(nil)

const (
	defaultGranularityMins = 30
	defaultDurationMins    = 30
	minDurationMins        = 15
	maxDurationMins        = 480
)

func (se *DefaultSchedulingEngine) now() time.Time {
	if se.Clock != nil {
		return se.Clock()
	}
	return time.Now()
}

func (se *DefaultSchedulingEngine) step() int {
	if se.GranularityMins > 0 {
		return se.GranularityMins
	}
	return defaultGranularityMins
}

func (se *DefaultSchedulingEngine) fallbackWindow() (int, int) {
	start, end := 9*60, 17*60
	if m, err := minutesOfDay(se.FallbackStart); err == nil && se.FallbackStart != "" {
		start = m
	}
	if m, err := minutesOfDay(se.FallbackEnd); err == nil && se.FallbackEnd != "" {
		end = m
	}
	return start, end
}

func (se *DefaultSchedulingEngine) logger() *zap.Logger {
	if se.Logger != nil {
		return se.Logger
	}
	return utils.GetLogger()
}

// tryRosterUpsert performs the best-effort roster update after a booking or
// confirmation event. Failure is logged and never propagates.
func (se *DefaultSchedulingEngine) tryRosterUpsert(ctx context.Context, r *models.Reservation) {
	if se.Roster == nil {
		return
	}
	rc := roster.Context{AppointmentType: r.AppointmentType, Date: r.Date, Start: r.Start}
	if err := se.Roster.Upsert(ctx, r.ProviderID, r.ClientID, rc); err != nil {
		se.logger().Warn("roster upsert failed", zap.String("reservation", r.ID), zap.Error(err))
	}
}

// tryNotify dispatches a best-effort notice. Failure is logged and never
// propagates.
func (se *DefaultSchedulingEngine) tryNotify(ctx context.Context, kind, role, recipientID string, r *models.Reservation, extra map[string]string) {
	if se.Notifier == nil {
		return
	}
	if err := se.Notifier.Dispatch(ctx, kind, role, recipientID, r, extra); err != nil {
		se.logger().Warn("notice dispatch failed",
			zap.String("kind", kind), zap.String("reservation", r.ID), zap.Error(err))
	}
}

// tryScheduleReminder enqueues a best-effort reminder for a confirmed slot.
func (se *DefaultSchedulingEngine) tryScheduleReminder(r *models.Reservation) {
	if se.Reminders == nil {
		return
	}
	if err := se.Reminders.ScheduleReminder(r); err != nil {
		se.logger().Warn("reminder scheduling failed", zap.String("reservation", r.ID), zap.Error(err))
	}
}
