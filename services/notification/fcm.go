package notification

import (
	"context"
	"fmt"

	providerRepo "counselbook/database/repository/provider"
	userRepo "counselbook/database/repository/user"
	"counselbook/models"
	"counselbook/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMDispatcher delivers notices as Firebase Cloud Messaging pushes. When the
// rich notification fails to send, it falls back to a minimal data-only
// message; that fallback is itself best-effort.
type FCMDispatcher struct {
	Users     userRepo.UserRepository
	Providers providerRepo.ProviderRepository
	Logger    *zap.Logger
}

func (d *FCMDispatcher) Dispatch(ctx context.Context, kind, recipientRole, recipientID string, r *models.Reservation, extra map[string]string) error {
	token, err := d.tokenFor(ctx, recipientRole, recipientID)
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", kind, err)
	}
	if token == "" {
		// No push target registered; nothing to deliver.
		return nil
	}

	title, body := noticeContent(kind, r, extra)
	data := map[string]string{
		"type":          kind,
		"role":          recipientRole,
		"reservationId": r.ID,
		"date":          r.Date,
		"start":         r.Start,
	}
	for k, v := range extra {
		data[k] = v
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		d.Logger.Warn("rich notice failed, sending minimal fallback",
			zap.String("kind", kind), zap.Error(err))
		fallback := &messaging.Message{Token: token, Data: data}
		if _, fbErr := utils.FCMClient.Send(ctx, fallback); fbErr != nil {
			return fmt.Errorf("dispatch %s: fallback failed: %w", kind, fbErr)
		}
	}
	return nil
}

func (d *FCMDispatcher) tokenFor(ctx context.Context, role, id string) (string, error) {
	switch role {
	case RecipientProvider:
		p, err := d.Providers.GetByID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("could not find provider %s: %w", id, err)
		}
		return p.FCMToken, nil
	default:
		u, err := d.Users.GetByID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("could not find user %s: %w", id, err)
		}
		return u.FCMToken, nil
	}
}
