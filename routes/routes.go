package routes

import (
	"net/http"
	"time"

	"counselbook/handlers"
	"counselbook/middleware"
	"counselbook/services/booking"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes sets up slot resolution. Public: prospective
// clients browse availability before they have an account.
func RegisterAvailabilityRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/providers")
	{
		api.GET("/:id/slots", bh.GetSlots)
	}
}

// RegisterBookingRoutes sets up booking creation and reads.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/bookings")
	{
		client := api.Group("")
		client.Use(middleware.JWTAuthMiddleware(booking.RoleClient))
		client.POST("", bh.CreateBooking)

		// Reads are open to either participant role; the engine checks
		// ownership.
		read := api.Group("")
		read.Use(middleware.JWTAuthMiddleware(""))
		read.GET("/:id", bh.GetBooking)
	}
}

// RegisterAppointmentRoutes sets up lifecycle and listing endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, ah *handlers.AppointmentHandler) {
	api := r.Group("/api/appointments")
	{
		// Transitions are role-checked per operation inside the engine; the
		// middleware only establishes identity.
		api.Use(middleware.JWTAuthMiddleware(""))
		api.GET("", ah.ListMine)
		api.PATCH("/:id/status", ah.UpdateStatus)
		api.PATCH("/:id/reschedule", ah.Reschedule)
		api.PATCH("/:id/notes", ah.UpdateNotes)
		api.DELETE("/:id", ah.Delete)
	}

	// Provider calendar views live on their own prefix so the static segments
	// never collide with the :id routes above.
	dash := r.Group("/api/dashboard")
	{
		dash.Use(middleware.JWTAuthMiddleware(booking.RoleProvider))
		dash.GET("/today", ah.Today)
		dash.GET("/upcoming", ah.Upcoming)
		dash.GET("/stats", ah.Stats)
	}
}

// RegisterPaymentRoutes sets up the payment-gated booking flow.
func RegisterPaymentRoutes(r *gin.Engine, ph *handlers.PaymentHandler) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.JWTAuthMiddleware(booking.RoleClient))
		api.POST("/orders", ph.CreateOrder)
		api.POST("/verify", ph.VerifyAndBook)
	}
}

// RegisterAuthRoutes sets up session teardown.
func RegisterAuthRoutes(r *gin.Engine, auth *handlers.AuthHandler) {
	api := r.Group("/api/auth")
	{
		api.Use(middleware.JWTAuthMiddleware(""))
		api.POST("/logout", auth.Logout)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, bh *handlers.BookingHandler, ah *handlers.AppointmentHandler, ph *handlers.PaymentHandler, auth *handlers.AuthHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r, bh)
	RegisterBookingRoutes(r, bh)
	RegisterAppointmentRoutes(r, ah)
	RegisterPaymentRoutes(r, ph)
	RegisterAuthRoutes(r, auth)
}
