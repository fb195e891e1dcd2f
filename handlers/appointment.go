package handlers

import (
	"net/http"
	"strconv"

	"counselbook/models"
	"counselbook/services/booking"
	"counselbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler exposes lifecycle transitions and listings.
type AppointmentHandler struct {
	Service booking.SchedulingService
	Logger  *zap.Logger
}

func NewAppointmentHandler(svc booking.SchedulingService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Service: svc, Logger: logger}
}

// UpdateStatus routes a status change to its named transition; statuses with
// no named transition go through the administrative override.
// PATCH /api/appointments/:id/status
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var in models.StatusUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	id := c.Param("id")
	actor := actorFromContext(c)
	ctx := c.Request.Context()

	var (
		r   *models.Reservation
		err error
	)
	switch in.Status {
	case models.StatusConfirmed:
		r, err = h.Service.Confirm(ctx, id, actor)
	case models.StatusCancelled:
		r, err = h.Service.Cancel(ctx, id, actor, in.Reason)
	case models.StatusCompleted:
		r, err = h.Service.Complete(ctx, id, actor, in.Notes)
	default:
		r, err = h.Service.OverrideStatus(ctx, id, actor, in.Status)
	}
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Reschedule moves a reservation to a new slot.
// PATCH /api/appointments/:id/reschedule
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var in models.RescheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	r, err := h.Service.Reschedule(c.Request.Context(), c.Param("id"), actorFromContext(c), in)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// UpdateNotes replaces the provider notes on a reservation.
// PATCH /api/appointments/:id/notes
func (h *AppointmentHandler) UpdateNotes(c *gin.Context) {
	var in models.NotesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	r, err := h.Service.UpdateNotes(c.Request.Context(), c.Param("id"), actorFromContext(c), in.ProviderNotes)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Delete removes a reservation record.
// DELETE /api/appointments/:id
func (h *AppointmentHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id"), actorFromContext(c)); err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "appointment deleted"})
}

func listFilterFromQuery(c *gin.Context) booking.ListFilter {
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	skip, _ := strconv.ParseInt(c.Query("skip"), 10, 64)
	return booking.ListFilter{
		Date:     c.Query("date"),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
		Status:   c.Query("status"),
		Limit:    limit,
		Skip:     skip,
	}
}

// ListMine lists the authenticated actor's appointments, provider or client.
// GET /api/appointments
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	actor := actorFromContext(c)
	f := listFilterFromQuery(c)

	var (
		rs  []models.Reservation
		err error
	)
	if actor.Role == booking.RoleProvider {
		rs, err = h.Service.ListForProvider(c.Request.Context(), actor.ID, f)
	} else {
		rs, err = h.Service.ListForClient(c.Request.Context(), actor.ID, f)
	}
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": rs, "count": len(rs)})
}

// Today lists the provider's appointments for the current date.
// GET /api/appointments/today
func (h *AppointmentHandler) Today(c *gin.Context) {
	rs, err := h.Service.TodayForProvider(c.Request.Context(), actorFromContext(c).ID)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": rs, "count": len(rs)})
}

// Upcoming lists the provider's active appointments from today forward.
// GET /api/appointments/upcoming
func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	rs, err := h.Service.UpcomingForProvider(c.Request.Context(), actorFromContext(c).ID)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": rs, "count": len(rs)})
}

// Stats returns the provider's dashboard aggregates.
// GET /api/appointments/stats
func (h *AppointmentHandler) Stats(c *gin.Context) {
	stats, err := h.Service.DashboardStats(c.Request.Context(), actorFromContext(c).ID)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
