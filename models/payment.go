package models

// PaymentInfo records the gateway outcome attached to a payment-gated
// reservation. It is absent on the free-booking path.
type PaymentInfo struct {
	Provider string  `bson:"provider" json:"provider"`
	OrderID  string  `bson:"order_id" json:"orderId"`
	Payment  string  `bson:"payment_id" json:"paymentId"`
	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency" json:"currency"`
	Status   string  `bson:"status" json:"status"` // e.g. "paid"
}

// PaymentOrder is the gateway-side order handed to the client to complete
// payment. Key is the publishable client key for the checkout widget.
type PaymentOrder struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Key      string  `json:"key"`
}
