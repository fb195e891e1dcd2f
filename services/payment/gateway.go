package payment

import (
	"context"

	"counselbook/models"
)

// Gateway is the payment collaborator consumed by the booking engine. Order
// creation and signature mechanics belong to the gateway; the engine only
// consumes the verified boolean and the amount/currency.
type Gateway interface {
	// CreateOrder opens a gateway order for the given amount.
	CreateOrder(ctx context.Context, amount float64, currency string, notes map[string]string) (*models.PaymentOrder, error)

	// VerifySignature checks the authenticity of a completed payment callback.
	VerifySignature(orderID, paymentID, signature string) bool

	// FetchOrderMetadata returns the notes attached at order creation, used as
	// a fallback source for booking fields. Returns nil when unavailable.
	FetchOrderMetadata(ctx context.Context, orderID string) (map[string]string, error)

	// Name identifies the gateway on reservation payment records.
	Name() string
}
