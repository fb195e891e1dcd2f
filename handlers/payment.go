package handlers

import (
	"net/http"

	"counselbook/models"
	"counselbook/services/booking"
	"counselbook/services/payment"
	"counselbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes the payment-gated booking flow: order creation and
// the verify-and-book callback.
type PaymentHandler struct {
	Gateway payment.Gateway
	Service booking.SchedulingService
	Logger  *zap.Logger
}

func NewPaymentHandler(gw payment.Gateway, svc booking.SchedulingService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Gateway: gw, Service: svc, Logger: logger}
}

// CreateOrder opens a gateway order for the amount; booking details travel as
// order notes so the verify step can recover them.
// POST /api/payments/orders
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var in models.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	order, err := h.Gateway.CreateOrder(c.Request.Context(), in.Amount, in.Currency, in.Notes)
	if err != nil {
		h.Logger.Error("order creation failed", zap.Error(err))
		utils.RespondWithError(c, utils.Externalf(err, "could not create payment order"))
		return
	}
	c.JSON(http.StatusCreated, order)
}

// VerifyAndBook validates the payment callback and, on success, creates the
// confirmed reservation in one step.
// POST /api/payments/verify
func (h *PaymentHandler) VerifyAndBook(c *gin.Context) {
	var in models.VerifyPaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actor := actorFromContext(c)
	r, err := h.Service.CreatePaidBooking(c.Request.Context(), actor.ID, in)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	h.Logger.Info("paid booking created via api",
		zap.String("reservation", r.ID), zap.String("orderId", in.OrderID))
	c.JSON(http.StatusCreated, r)
}
