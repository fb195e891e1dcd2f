package handlers

import (
	"net/http"

	"counselbook/middleware"
	"counselbook/models"
	"counselbook/services/booking"
	"counselbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes slot resolution and booking creation.
type BookingHandler struct {
	Service booking.SchedulingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.SchedulingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// actorFromContext reads the identity the auth middleware stored.
func actorFromContext(c *gin.Context) booking.Actor {
	return booking.Actor{
		ID:   c.GetString(middleware.CtxActorID),
		Role: c.GetString(middleware.CtxActorRole),
	}
}

// GetSlots resolves a provider's open slots over a date range.
// GET /api/bookings/providers/:id/slots?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *BookingHandler) GetSlots(c *gin.Context) {
	providerID := c.Param("id")
	start := c.Query("start")
	end := c.DefaultQuery("end", start)
	if start == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start date is required"})
		return
	}

	slots, err := h.Service.ResolveSlots(c.Request.Context(), providerID, start, end)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providerId": providerID, "availability": slots})
}

// CreateBooking creates a pending reservation for the authenticated client.
// POST /api/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var in models.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actor := actorFromContext(c)
	r, err := h.Service.CreateBooking(c.Request.Context(), actor.ID, in)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	h.Logger.Info("booking created via api",
		zap.String("reservation", r.ID), zap.String("client", actor.ID))
	c.JSON(http.StatusCreated, r)
}

// GetBooking returns one reservation to a participant.
// GET /api/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	r, err := h.Service.Get(c.Request.Context(), c.Param("id"), actorFromContext(c))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
