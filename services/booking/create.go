package booking

import (
	"context"
	"errors"
	"strconv"

	bookingRepo "counselbook/database/repository/booking"
	"counselbook/models"
	"counselbook/services/notification"
	"counselbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking is the free-booking path: validate the slot, then hand the
// race to the store. A lost race surfaces as a conflict; there is no
// pre-insert existence check because two of those can both pass.
func (se *DefaultSchedulingEngine) CreateBooking(ctx context.Context, clientID string, in models.CreateBookingInput) (*models.Reservation, error) {
	if clientID == "" {
		return nil, utils.Unauthorizedf("missing client identity")
	}

	duration := in.DurationMins
	if duration == 0 {
		duration = defaultDurationMins
	}

	start, err := se.validateSlot(ctx, in.ProviderID, in.Date, in.Start, duration)
	if err != nil {
		return nil, err
	}
	end, err := ComputeEnd(start, duration)
	if err != nil {
		return nil, utils.Validationf("invalid start time")
	}

	r := &models.Reservation{
		ID:              uuid.NewString(),
		ProviderID:      in.ProviderID,
		ClientID:        clientID,
		Date:            in.Date,
		Start:           start,
		End:             end,
		DurationMins:    duration,
		AppointmentType: in.AppointmentType,
		MeetingType:     in.MeetingType,
		ClientNotes:     in.Notes,
		CreatedAt:       se.now(),
	}
	r.SetStatus(models.StatusPending)

	if err := se.Repo.Insert(ctx, r); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, utils.Conflictf("this slot has just been booked by someone else")
		}
		return nil, err
	}

	se.logger().Info("reservation created",
		zap.String("reservation", r.ID),
		zap.String("provider", r.ProviderID),
		zap.String("date", r.Date),
		zap.String("start", r.Start))

	se.tryRosterUpsert(ctx, r)
	return r, nil
}

// CreatePaidBooking is the payment-gated path. The signature is verified
// before anything touches the store; a forged callback never creates state.
// The reservation lands directly in confirmed with its payment record.
func (se *DefaultSchedulingEngine) CreatePaidBooking(ctx context.Context, clientID string, in models.VerifyPaymentInput) (*models.Reservation, error) {
	if clientID == "" {
		return nil, utils.Unauthorizedf("missing client identity")
	}
	if se.Gateway == nil {
		return nil, utils.Validationf("payments are not enabled")
	}
	if !se.Gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		return nil, utils.Unauthorizedf("payment signature verification failed")
	}

	booking := in.Booking
	var amount float64
	var currency string

	// The booking payload may be thin; the order metadata captured at order
	// creation is the fallback source of truth.
	if meta, err := se.Gateway.FetchOrderMetadata(ctx, in.OrderID); err == nil && meta != nil {
		if booking.ProviderID == "" {
			booking.ProviderID = meta["providerId"]
		}
		if booking.Date == "" {
			booking.Date = meta["date"]
		}
		if booking.Start == "" {
			booking.Start = meta["start"]
		}
		if booking.AppointmentType == "" {
			booking.AppointmentType = meta["appointmentType"]
		}
		if booking.MeetingType == "" {
			booking.MeetingType = meta["meetingType"]
		}
		if v, convErr := strconv.ParseFloat(meta["amount"], 64); convErr == nil {
			amount = v
		}
		currency = meta["currency"]
	} else if err != nil {
		se.logger().Warn("order metadata unavailable", zap.String("orderId", in.OrderID), zap.Error(err))
	}

	duration := booking.DurationMins
	if duration == 0 {
		duration = defaultDurationMins
	}

	// Re-validate at verification time: the slot may have closed while the
	// client was completing payment.
	start, err := se.validateSlot(ctx, booking.ProviderID, booking.Date, booking.Start, duration)
	if err != nil {
		return nil, err
	}
	end, err := ComputeEnd(start, duration)
	if err != nil {
		return nil, utils.Validationf("invalid start time")
	}

	now := se.now()
	r := &models.Reservation{
		ID:              uuid.NewString(),
		ProviderID:      booking.ProviderID,
		ClientID:        clientID,
		Date:            booking.Date,
		Start:           start,
		End:             end,
		DurationMins:    duration,
		AppointmentType: booking.AppointmentType,
		MeetingType:     booking.MeetingType,
		ClientNotes:     booking.Notes,
		ConfirmedAt:     &now,
		CreatedAt:       now,
		Payment: &models.PaymentInfo{
			Provider: se.Gateway.Name(),
			OrderID:  in.OrderID,
			Payment:  in.PaymentID,
			Amount:   amount,
			Currency: currency,
			Status:   "paid",
		},
	}
	r.SetStatus(models.StatusConfirmed)

	if err := se.Repo.Insert(ctx, r); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, utils.Conflictf("this slot has just been booked by someone else")
		}
		return nil, err
	}

	se.logger().Info("paid reservation created",
		zap.String("reservation", r.ID),
		zap.String("provider", r.ProviderID),
		zap.String("orderId", in.OrderID))

	se.tryRosterUpsert(ctx, r)
	se.tryNotify(ctx, notification.NoticeBookingConfirmed, notification.RecipientClient, r.ClientID, r, nil)
	se.tryScheduleReminder(r)
	return r, nil
}
