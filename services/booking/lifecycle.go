package booking

import (
	"context"
	"errors"

	bookingRepo "counselbook/database/repository/booking"
	"counselbook/models"
	"counselbook/services/notification"
	"counselbook/utils"

	"go.uber.org/zap"
)

func (se *DefaultSchedulingEngine) load(ctx context.Context, id string) (*models.Reservation, error) {
	r, err := se.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, utils.NotFoundf("appointment not found")
		}
		return nil, err
	}
	return r, nil
}

// requireProvider checks that the actor is the owning provider.
func requireProvider(r *models.Reservation, actor Actor) error {
	if actor.Role != RoleProvider || !r.OwnedByProvider(actor.ID) {
		return utils.Forbiddenf("not authorized for this appointment")
	}
	return nil
}

// requireParticipant checks that the actor is the owning provider or client.
func requireParticipant(r *models.Reservation, actor Actor) error {
	switch actor.Role {
	case RoleProvider:
		if r.OwnedByProvider(actor.ID) {
			return nil
		}
	case RoleClient:
		if r.OwnedByClient(actor.ID) {
			return nil
		}
	}
	return utils.Forbiddenf("not authorized for this appointment")
}

// Confirm moves a pending reservation to confirmed. Provider only.
func (se *DefaultSchedulingEngine) Confirm(ctx context.Context, id string, actor Actor) (*models.Reservation, error) {
	r, err := se.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireProvider(r, actor); err != nil {
		return nil, err
	}
	if r.Status != models.StatusPending {
		return nil, utils.Validationf("only pending appointments can be confirmed")
	}

	now := se.now()
	r.SetStatus(models.StatusConfirmed)
	r.ConfirmedAt = &now
	if err := se.Repo.Update(ctx, r); err != nil {
		return nil, err
	}

	se.logger().Info("reservation confirmed", zap.String("reservation", r.ID))
	se.tryRosterUpsert(ctx, r)
	se.tryNotify(ctx, notification.NoticeBookingConfirmed, notification.RecipientClient, r.ClientID, r, nil)
	se.tryScheduleReminder(r)
	return r, nil
}

// Cancel releases the slot. Either participant may cancel an active
// reservation; a provider must state a reason, which reaches the client in the
// cancellation notice.
func (se *DefaultSchedulingEngine) Cancel(ctx context.Context, id string, actor Actor, reason string) (*models.Reservation, error) {
	r, err := se.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(r, actor); err != nil {
		return nil, err
	}
	if !models.IsActiveStatus(r.Status) {
		return nil, utils.Validationf("appointment is already closed")
	}
	if actor.Role == RoleProvider && reason == "" {
		return nil, utils.Validationf("a cancellation reason is required")
	}

	now := se.now()
	r.SetStatus(models.StatusCancelled)
	r.CancelReason = reason
	r.CancelledBy = actor.Role
	r.CancelledAt = &now
	if err := se.Repo.Update(ctx, r); err != nil {
		return nil, err
	}

	se.logger().Info("reservation cancelled",
		zap.String("reservation", r.ID), zap.String("by", actor.Role))

	recipientRole, recipientID := notification.RecipientClient, r.ClientID
	if actor.Role == RoleClient {
		recipientRole, recipientID = notification.RecipientProvider, r.ProviderID
	}
	se.tryNotify(ctx, notification.NoticeBookingCancelled, recipientRole, recipientID, r,
		map[string]string{"reason": reason})
	return r, nil
}

// Complete closes out a held appointment. Provider only; optional session
// notes are appended to the provider notes.
func (se *DefaultSchedulingEngine) Complete(ctx context.Context, id string, actor Actor, notes string) (*models.Reservation, error) {
	r, err := se.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireProvider(r, actor); err != nil {
		return nil, err
	}
	if !models.IsActiveStatus(r.Status) {
		return nil, utils.Validationf("appointment is already closed")
	}

	now := se.now()
	r.SetStatus(models.StatusCompleted)
	r.CompletedAt = &now
	if notes != "" {
		if r.ProviderNotes != "" {
			r.ProviderNotes += "\n"
		}
		r.ProviderNotes += notes
	}
	if err := se.Repo.Update(ctx, r); err != nil {
		return nil, err
	}

	se.logger().Info("reservation completed", zap.String("reservation", r.ID))
	return r, nil
}

// Reschedule moves an active reservation to a new slot. Either participant
// may move it; the new slot runs the full validation chain and the store's
// uniqueness constraint decides collisions with other reservations. The same
// document can never collide with itself, so keeping the same slot is a no-op
// rather than an error. A reschedule resets the reservation to pending; the
// provider re-confirms the new time.
func (se *DefaultSchedulingEngine) Reschedule(ctx context.Context, id string, actor Actor, in models.RescheduleInput) (*models.Reservation, error) {
	r, err := se.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(r, actor); err != nil {
		return nil, err
	}
	if !models.IsActiveStatus(r.Status) {
		return nil, utils.Validationf("completed or cancelled appointments cannot be rescheduled")
	}

	duration := in.DurationMins
	if duration == 0 {
		duration = r.DurationMins
	}
	start, err := se.validateSlot(ctx, r.ProviderID, in.Date, in.Start, duration)
	if err != nil {
		return nil, err
	}
	end, err := ComputeEnd(start, duration)
	if err != nil {
		return nil, utils.Validationf("invalid start time")
	}

	r.Date = in.Date
	r.Start = start
	r.End = end
	r.DurationMins = duration
	r.SetStatus(models.StatusPending)
	r.ConfirmedAt = nil

	if err := se.Repo.Update(ctx, r); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, utils.Validationf("selected time is not available")
		}
		return nil, err
	}

	se.logger().Info("reservation rescheduled",
		zap.String("reservation", r.ID),
		zap.String("date", r.Date),
		zap.String("start", r.Start))

	recipientRole, recipientID := notification.RecipientClient, r.ClientID
	if actor.Role == RoleClient {
		recipientRole, recipientID = notification.RecipientProvider, r.ProviderID
	}
	se.tryNotify(ctx, notification.NoticeBookingRescheduled, recipientRole, recipientID, r, nil)
	return r, nil
}

// OverrideStatus writes a status directly, bypassing the named transitions.
// Provider only. The status must be a member of the domain but no transition
// legality is enforced; this is the administrative escape hatch and the only
// way a reservation reaches no_show.
func (se *DefaultSchedulingEngine) OverrideStatus(ctx context.Context, id string, actor Actor, status string) (*models.Reservation, error) {
	r, err := se.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireProvider(r, actor); err != nil {
		return nil, err
	}
	if !models.IsValidStatus(status) {
		return nil, utils.Validationf("invalid status %q", status)
	}

	now := se.now()
	r.SetStatus(status)
	switch status {
	case models.StatusConfirmed:
		r.ConfirmedAt = &now
	case models.StatusCompleted:
		r.CompletedAt = &now
	case models.StatusCancelled:
		r.CancelledAt = &now
		r.CancelledBy = actor.Role
	}
	if err := se.Repo.Update(ctx, r); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			// Reactivating onto a slot someone else now holds.
			return nil, utils.Conflictf("this slot has just been booked by someone else")
		}
		return nil, err
	}

	se.logger().Info("reservation status overridden",
		zap.String("reservation", r.ID), zap.String("status", status))
	return r, nil
}

// UpdateNotes replaces the provider-authored notes. Provider only.
func (se *DefaultSchedulingEngine) UpdateNotes(ctx context.Context, id string, actor Actor, providerNotes string) (*models.Reservation, error) {
	r, err := se.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireProvider(r, actor); err != nil {
		return nil, err
	}
	r.ProviderNotes = providerNotes
	if err := se.Repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes the reservation record entirely. Provider only; cancellation
// is the normal path, deletion is for records created in error.
func (se *DefaultSchedulingEngine) Delete(ctx context.Context, id string, actor Actor) error {
	r, err := se.load(ctx, id)
	if err != nil {
		return err
	}
	if err := requireProvider(r, actor); err != nil {
		return err
	}
	if err := se.Repo.Delete(ctx, r.ID); err != nil {
		return err
	}
	se.logger().Info("reservation deleted", zap.String("reservation", r.ID))
	return nil
}

// Get returns a reservation to one of its participants.
func (se *DefaultSchedulingEngine) Get(ctx context.Context, id string, actor Actor) (*models.Reservation, error) {
	r, err := se.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(r, actor); err != nil {
		return nil, err
	}
	return r, nil
}
