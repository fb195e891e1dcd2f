package roster

import (
	"context"
	"fmt"

	rosterRepo "counselbook/database/repository/roster"
	"counselbook/models"
)

// Context carries the booking details attached to a roster upsert.
type Context struct {
	AppointmentType string
	Date            string
	Start           string
}

// Updater upserts the provider-client relationship record on booking and
// confirmation events. Best-effort from the engine's point of view.
type Updater interface {
	Upsert(ctx context.Context, providerID, clientID string, rc Context) error
}

// DefaultRosterUpdater writes through the roster repository.
type DefaultRosterUpdater struct {
	Repo rosterRepo.RosterRepository
}

func (u *DefaultRosterUpdater) Upsert(ctx context.Context, providerID, clientID string, rc Context) error {
	entry := &models.RosterEntry{
		ProviderID:      providerID,
		ClientID:        clientID,
		Status:          "active",
		CaseType:        rc.AppointmentType,
		LastBookingDate: rc.Date,
		LastBookingTime: rc.Start,
	}
	if err := u.Repo.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("roster upsert for provider %s client %s: %w", providerID, clientID, err)
	}
	return nil
}
