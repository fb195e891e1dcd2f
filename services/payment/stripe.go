package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"counselbook/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway on Stripe PaymentIntents. The callback
// signature is an HMAC-SHA256 over "orderID|paymentID" with the signing
// secret, computed by the checkout callback before it reaches us.
type StripeGateway struct {
	PublishableKey string
	SigningSecret  string
	Logger         *zap.Logger
}

func NewStripeGateway(publishableKey, signingSecret string, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{
		PublishableKey: publishableKey,
		SigningSecret:  signingSecret,
		Logger:         logger,
	}
}

func (g *StripeGateway) Name() string { return "stripe" }

// CreateOrder opens a PaymentIntent and hands back the order the client
// completes. Amount is in major currency units; Stripe wants minor units.
func (g *StripeGateway) CreateOrder(ctx context.Context, amount float64, currency string, notes map[string]string) (*models.PaymentOrder, error) {
	if currency == "" {
		currency = "usd"
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount * 100)),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx
	for k, v := range notes {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create order: %w", err)
	}

	g.Logger.Info("payment order created", zap.String("orderId", pi.ID))
	return &models.PaymentOrder{
		OrderID:  pi.ID,
		Amount:   amount,
		Currency: currency,
		Key:      g.PublishableKey,
	}, nil
}

// VerifySignature recomputes the callback HMAC and compares in constant time.
func (g *StripeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(g.SigningSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// FetchOrderMetadata reads back the metadata attached at order creation.
func (g *StripeGateway) FetchOrderMetadata(ctx context.Context, orderID string) (map[string]string, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(orderID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: fetch order %s: %w", orderID, err)
	}
	return pi.Metadata, nil
}
