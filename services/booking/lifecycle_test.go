package booking

import (
	"context"
	"testing"

	"counselbook/models"
	"counselbook/utils"
)

func seedBooking(t *testing.T, fx *engineFixture, date, start string) *models.Reservation {
	t.Helper()
	r, err := fx.engine.CreateBooking(context.Background(), testClientID, models.CreateBookingInput{
		ProviderID: testProviderID, Date: date, Start: start,
	})
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}
	return r
}

var (
	asProvider = Actor{ID: testProviderID, Role: RoleProvider}
	asClient   = Actor{ID: testClientID, Role: RoleClient}
)

func TestConfirm(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")

	got, err := fx.engine.Confirm(context.Background(), r.ID, asProvider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.StatusConfirmed || got.ConfirmedAt == nil {
		t.Fatalf("expected confirmed with timestamp, got %+v", got)
	}
	kinds := fx.notifier.kinds()
	if len(kinds) != 1 || kinds[0] != "booking_confirmed" {
		t.Fatalf("expected confirmation notice to client, got %v", kinds)
	}
	if len(fx.reminders.scheduled) != 1 {
		t.Fatalf("expected reminder scheduled on confirm, got %d", len(fx.reminders.scheduled))
	}
}

func TestConfirm_OnlyOwningProvider(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")

	for _, actor := range []Actor{
		{ID: "prov-other", Role: RoleProvider},
		asClient,
	} {
		_, err := fx.engine.Confirm(context.Background(), r.ID, actor)
		de, ok := utils.AsDomainError(err)
		if !ok || de.Kind != utils.KindForbidden {
			t.Fatalf("expected forbidden for %+v, got %v", actor, err)
		}
	}
}

func TestConfirm_RequiresPending(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")
	ctx := context.Background()

	if _, err := fx.engine.Confirm(ctx, r.ID, asProvider); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	_, err := fx.engine.Confirm(ctx, r.ID, asProvider)
	de, ok := utils.AsDomainError(err)
	if !ok || de.Kind != utils.KindValidation {
		t.Fatalf("expected validation error on double confirm, got %v", err)
	}
}

func TestCancel_ProviderNeedsReason(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")
	ctx := context.Background()

	_, err := fx.engine.Cancel(ctx, r.ID, asProvider, "")
	de, ok := utils.AsDomainError(err)
	if !ok || de.Kind != utils.KindValidation || de.Message != "a cancellation reason is required" {
		t.Fatalf("expected reason requirement, got %v", err)
	}

	got, err := fx.engine.Cancel(ctx, r.ID, asProvider, "family emergency")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.StatusCancelled || got.CancelledAt == nil {
		t.Fatalf("expected cancelled with timestamp, got %+v", got)
	}
	if got.Active {
		t.Fatal("cancelled reservation must release its slot")
	}
	if got.CancelReason != "family emergency" || got.CancelledBy != RoleProvider {
		t.Fatalf("expected cancellation provenance, got %+v", got)
	}

	// The reason travels to the client in the notice.
	notices := fx.notifier.notices
	if len(notices) != 1 || notices[0].Kind != "booking_cancelled" || notices[0].Role != "client" {
		t.Fatalf("expected cancellation notice to client, got %+v", notices)
	}
	if notices[0].Extra["reason"] != "family emergency" {
		t.Fatalf("expected reason in notice, got %+v", notices[0].Extra)
	}
}

func TestCancel_ClientNeedsNoReason(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")

	got, err := fx.engine.Cancel(context.Background(), r.ID, asClient, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CancelledBy != RoleClient {
		t.Fatalf("expected cancelled by client, got %s", got.CancelledBy)
	}
	// The provider is told, not the client.
	notices := fx.notifier.notices
	if len(notices) != 1 || notices[0].Role != "provider" {
		t.Fatalf("expected cancellation notice to provider, got %+v", notices)
	}
}

func TestCancel_TerminalStatesRejected(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")
	ctx := context.Background()

	if _, err := fx.engine.Cancel(ctx, r.ID, asClient, ""); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	_, err := fx.engine.Cancel(ctx, r.ID, asClient, "")
	de, ok := utils.AsDomainError(err)
	if !ok || de.Kind != utils.KindValidation {
		t.Fatalf("expected validation error cancelling twice, got %v", err)
	}
}

func TestComplete_MergesNotes(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")
	ctx := context.Background()

	if _, err := fx.engine.UpdateNotes(ctx, r.ID, asProvider, "pre-session prep"); err != nil {
		t.Fatalf("notes update failed: %v", err)
	}
	got, err := fx.engine.Complete(ctx, r.ID, asProvider, "session went well")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.StatusCompleted || got.CompletedAt == nil {
		t.Fatalf("expected completed with timestamp, got %+v", got)
	}
	if got.ProviderNotes != "pre-session prep\nsession went well" {
		t.Fatalf("expected appended notes, got %q", got.ProviderNotes)
	}
	if got.Active {
		t.Fatal("completed reservation must release its slot")
	}
}

func TestComplete_ClientForbidden(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")

	_, err := fx.engine.Complete(context.Background(), r.ID, asClient, "")
	de, ok := utils.AsDomainError(err)
	if !ok || de.Kind != utils.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestReschedule_MovesSlotAndResetsConfirmation(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")
	ctx := context.Background()

	if _, err := fx.engine.Confirm(ctx, r.ID, asProvider); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	got, err := fx.engine.Reschedule(ctx, r.ID, asClient, models.RescheduleInput{
		Date: "2026-03-03", Start: "14:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Date != "2026-03-03" || got.Start != "14:00" || got.End != "14:30" {
		t.Fatalf("expected moved slot, got %+v", got)
	}
	if got.Status != models.StatusPending || got.ConfirmedAt != nil {
		t.Fatal("reschedule must reset the reservation to pending")
	}

	// The old slot reopens.
	days, err := fx.engine.ResolveSlots(ctx, testProviderID, "2026-03-03", "2026-03-03")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !contains(days[0].Slots, "09:30") {
		t.Fatalf("expected old slot to reopen, got %v", days[0].Slots)
	}
}

func TestReschedule_TargetHeldByOther(t *testing.T) {
	fx := newEngineFixture()
	ctx := context.Background()

	r := seedBooking(t, fx, "2026-03-03", "09:30")
	if _, err := fx.engine.CreateBooking(ctx, "client-2", models.CreateBookingInput{
		ProviderID: testProviderID, Date: "2026-03-03", Start: "14:00",
	}); err != nil {
		t.Fatalf("competitor booking failed: %v", err)
	}

	_, err := fx.engine.Reschedule(ctx, r.ID, asClient, models.RescheduleInput{
		Date: "2026-03-03", Start: "14:00",
	})
	de, ok := utils.AsDomainError(err)
	if !ok || de.Kind != utils.KindValidation || de.Message != "selected time is not available" {
		t.Fatalf("expected validation rejection for held target, got %v", err)
	}
}

func TestReschedule_SameSlotIsNotAConflict(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")

	got, err := fx.engine.Reschedule(context.Background(), r.ID, asClient, models.RescheduleInput{
		Date: "2026-03-03", Start: "09:30",
	})
	if err != nil {
		t.Fatalf("rescheduling onto own slot must not conflict: %v", err)
	}
	if got.Start != "09:30" {
		t.Fatalf("expected slot unchanged, got %s", got.Start)
	}
}

func TestReschedule_TerminalStatesRejected(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")
	ctx := context.Background()

	if _, err := fx.engine.Cancel(ctx, r.ID, asClient, ""); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	_, err := fx.engine.Reschedule(ctx, r.ID, asClient, models.RescheduleInput{
		Date: "2026-03-03", Start: "14:00",
	})
	de, ok := utils.AsDomainError(err)
	if !ok || de.Kind != utils.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOverrideStatus(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")
	ctx := context.Background()

	got, err := fx.engine.OverrideStatus(ctx, r.ID, asProvider, models.StatusNoShow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.StatusNoShow {
		t.Fatalf("expected no_show, got %s", got.Status)
	}
	if got.Active {
		t.Fatal("no_show must release the slot")
	}

	_, err = fx.engine.OverrideStatus(ctx, r.ID, asProvider, "vanished")
	de, ok := utils.AsDomainError(err)
	if !ok || de.Kind != utils.KindValidation {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestDelete_ProviderOnly(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")
	ctx := context.Background()

	if err := fx.engine.Delete(ctx, r.ID, asClient); err == nil {
		t.Fatal("expected client deletion to be forbidden")
	}
	if err := fx.engine.Delete(ctx, r.ID, asProvider); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := fx.engine.Get(ctx, r.ID, asProvider)
	de, ok := utils.AsDomainError(err)
	if !ok || de.Kind != utils.KindNotFound {
		t.Fatalf("expected not_found after deletion, got %v", err)
	}
}

func TestGet_ParticipantsOnly(t *testing.T) {
	fx := newEngineFixture()
	r := seedBooking(t, fx, "2026-03-03", "09:30")
	ctx := context.Background()

	if _, err := fx.engine.Get(ctx, r.ID, asClient); err != nil {
		t.Fatalf("client read failed: %v", err)
	}
	if _, err := fx.engine.Get(ctx, r.ID, asProvider); err != nil {
		t.Fatalf("provider read failed: %v", err)
	}
	_, err := fx.engine.Get(ctx, r.ID, Actor{ID: "client-2", Role: RoleClient})
	de, ok := utils.AsDomainError(err)
	if !ok || de.Kind != utils.KindForbidden {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
}

func TestUnknownReservation(t *testing.T) {
	fx := newEngineFixture()

	_, err := fx.engine.Confirm(context.Background(), "missing", asProvider)
	de, ok := utils.AsDomainError(err)
	if !ok || de.Kind != utils.KindNotFound || de.Message != "appointment not found" {
		t.Fatalf("expected appointment not found, got %v", err)
	}
}

func TestNotifierFailureDoesNotFailTransition(t *testing.T) {
	fx := newEngineFixture()
	fx.notifier.fail = true
	r := seedBooking(t, fx, "2026-03-03", "09:30")

	if _, err := fx.engine.Confirm(context.Background(), r.ID, asProvider); err != nil {
		t.Fatalf("notice failure must not surface: %v", err)
	}
}
