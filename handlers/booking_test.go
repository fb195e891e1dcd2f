package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"counselbook/middleware"
	"counselbook/models"
	"counselbook/services/booking"
	"counselbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// stubSchedulingService returns canned results so handler tests exercise only
// binding, identity plumbing, and status mapping.
type stubSchedulingService struct {
	slots       []models.DateSlots
	reservation *models.Reservation
	err         error

	lastClientID string
	lastStatus   string
}

func (s *stubSchedulingService) ResolveSlots(ctx context.Context, providerID, startDate, endDate string) ([]models.DateSlots, error) {
	return s.slots, s.err
}

func (s *stubSchedulingService) CreateBooking(ctx context.Context, clientID string, in models.CreateBookingInput) (*models.Reservation, error) {
	s.lastClientID = clientID
	return s.reservation, s.err
}

func (s *stubSchedulingService) CreatePaidBooking(ctx context.Context, clientID string, in models.VerifyPaymentInput) (*models.Reservation, error) {
	s.lastClientID = clientID
	return s.reservation, s.err
}

func (s *stubSchedulingService) Confirm(ctx context.Context, id string, actor booking.Actor) (*models.Reservation, error) {
	s.lastStatus = models.StatusConfirmed
	return s.reservation, s.err
}

func (s *stubSchedulingService) Cancel(ctx context.Context, id string, actor booking.Actor, reason string) (*models.Reservation, error) {
	s.lastStatus = models.StatusCancelled
	return s.reservation, s.err
}

func (s *stubSchedulingService) Complete(ctx context.Context, id string, actor booking.Actor, notes string) (*models.Reservation, error) {
	s.lastStatus = models.StatusCompleted
	return s.reservation, s.err
}

func (s *stubSchedulingService) Reschedule(ctx context.Context, id string, actor booking.Actor, in models.RescheduleInput) (*models.Reservation, error) {
	return s.reservation, s.err
}

func (s *stubSchedulingService) OverrideStatus(ctx context.Context, id string, actor booking.Actor, status string) (*models.Reservation, error) {
	s.lastStatus = status
	return s.reservation, s.err
}

func (s *stubSchedulingService) UpdateNotes(ctx context.Context, id string, actor booking.Actor, providerNotes string) (*models.Reservation, error) {
	return s.reservation, s.err
}

func (s *stubSchedulingService) Delete(ctx context.Context, id string, actor booking.Actor) error {
	return s.err
}

func (s *stubSchedulingService) Get(ctx context.Context, id string, actor booking.Actor) (*models.Reservation, error) {
	return s.reservation, s.err
}

func (s *stubSchedulingService) ListForProvider(ctx context.Context, providerID string, f booking.ListFilter) ([]models.Reservation, error) {
	return nil, s.err
}

func (s *stubSchedulingService) ListForClient(ctx context.Context, clientID string, f booking.ListFilter) ([]models.Reservation, error) {
	return nil, s.err
}

func (s *stubSchedulingService) TodayForProvider(ctx context.Context, providerID string) ([]models.Reservation, error) {
	return nil, s.err
}

func (s *stubSchedulingService) UpcomingForProvider(ctx context.Context, providerID string) ([]models.Reservation, error) {
	return nil, s.err
}

func (s *stubSchedulingService) DashboardStats(ctx context.Context, providerID string) (*booking.DashboardStats, error) {
	return &booking.DashboardStats{}, s.err
}

// asIdentity injects the identity the auth middleware would have set.
func asIdentity(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxActorID, id)
		c.Set(middleware.CtxActorRole, role)
		c.Next()
	}
}

func newTestRouter(svc booking.SchedulingService, id, role string) (*gin.Engine, *BookingHandler, *AppointmentHandler) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asIdentity(id, role))
	bh := NewBookingHandler(svc, zap.NewNop())
	ah := NewAppointmentHandler(svc, zap.NewNop())
	return r, bh, ah
}

func TestGetSlots_RequiresStartDate(t *testing.T) {
	svc := &stubSchedulingService{}
	r, bh, _ := newTestRouter(svc, "client-1", booking.RoleClient)
	r.GET("/api/providers/:id/slots", bh.GetSlots)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/prov-1/slots", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetSlots_ReturnsAvailability(t *testing.T) {
	svc := &stubSchedulingService{slots: []models.DateSlots{
		{Date: "2026-03-03", Slots: []string{"09:00", "09:30"}},
	}}
	r, bh, _ := newTestRouter(svc, "", "")
	r.GET("/api/providers/:id/slots", bh.GetSlots)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/prov-1/slots?start=2026-03-03", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ProviderID   string             `json:"providerId"`
		Availability []models.DateSlots `json:"availability"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.ProviderID != "prov-1" || len(resp.Availability) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCreateBooking_UsesAuthenticatedClient(t *testing.T) {
	svc := &stubSchedulingService{reservation: &models.Reservation{ID: "res-1", Status: models.StatusPending}}
	r, bh, _ := newTestRouter(svc, "client-7", booking.RoleClient)
	r.POST("/api/bookings", bh.CreateBooking)

	body := `{"providerId":"prov-1","date":"2026-03-03","start":"09:30"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastClientID != "client-7" {
		t.Fatalf("expected identity from context, got %q", svc.lastClientID)
	}
}

func TestCreateBooking_MissingFieldsRejected(t *testing.T) {
	svc := &stubSchedulingService{}
	r, bh, _ := newTestRouter(svc, "client-1", booking.RoleClient)
	r.POST("/api/bookings", bh.CreateBooking)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{"date":"2026-03-03"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateBooking_ConflictMapsTo409(t *testing.T) {
	svc := &stubSchedulingService{err: utils.Conflictf("this slot has just been booked by someone else")}
	r, bh, _ := newTestRouter(svc, "client-1", booking.RoleClient)
	r.POST("/api/bookings", bh.CreateBooking)

	body := `{"providerId":"prov-1","date":"2026-03-03","start":"09:30"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "booked by someone else") {
		t.Fatalf("expected conflict message, got %s", rec.Body.String())
	}
}

func TestUpdateStatus_RoutesToNamedTransitions(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{models.StatusConfirmed, models.StatusConfirmed},
		{models.StatusCancelled, models.StatusCancelled},
		{models.StatusCompleted, models.StatusCompleted},
		{models.StatusNoShow, models.StatusNoShow},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			svc := &stubSchedulingService{reservation: &models.Reservation{ID: "res-1"}}
			r, _, ah := newTestRouter(svc, "prov-1", booking.RoleProvider)
			r.PATCH("/api/appointments/:id/status", ah.UpdateStatus)

			body := `{"status":"` + tc.status + `","reason":"because"}`
			req := httptest.NewRequest(http.MethodPatch, "/api/appointments/res-1/status", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if svc.lastStatus != tc.want {
				t.Fatalf("expected transition %s, got %s", tc.want, svc.lastStatus)
			}
		})
	}
}

func TestUpdateStatus_ForbiddenMapsTo403(t *testing.T) {
	svc := &stubSchedulingService{err: utils.Forbiddenf("not authorized for this appointment")}
	r, _, ah := newTestRouter(svc, "client-1", booking.RoleClient)
	r.PATCH("/api/appointments/:id/status", ah.UpdateStatus)

	req := httptest.NewRequest(http.MethodPatch, "/api/appointments/res-1/status", strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
