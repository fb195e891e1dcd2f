package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingRepo "counselbook/database/repository/booking"
	providerRepo "counselbook/database/repository/provider"
	"counselbook/models"
	"counselbook/services/roster"

	"go.uber.org/zap"
)

// memReservationRepo is an in-memory ReservationRepository that enforces the
// same uniqueness rule as the real store: at most one active reservation per
// (provider, date, start). The mutex makes Insert/Update atomic, so racing
// goroutines observe exactly one winner.
type memReservationRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Reservation
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{byID: make(map[string]*models.Reservation)}
}

func (m *memReservationRepo) conflictLocked(r *models.Reservation) bool {
	if !r.Active {
		return false
	}
	for _, ex := range m.byID {
		if ex.ID != r.ID && ex.Active &&
			ex.ProviderID == r.ProviderID && ex.Date == r.Date && ex.Start == r.Start {
			return true
		}
	}
	return false
}

func (m *memReservationRepo) Insert(ctx context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflictLocked(r) {
		return bookingRepo.ErrSlotTaken
	}
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *memReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memReservationRepo) Update(ctx context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[r.ID]; !ok {
		return bookingRepo.ErrNotFound
	}
	if m.conflictLocked(r) {
		return bookingRepo.ErrSlotTaken
	}
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *memReservationRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return bookingRepo.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memReservationRepo) ActiveStartsForDate(ctx context.Context, providerID, date string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var starts []string
	for _, r := range m.byID {
		if r.Active && r.ProviderID == providerID && r.Date == date {
			starts = append(starts, r.Start)
		}
	}
	sort.Strings(starts)
	return starts, nil
}

func (m *memReservationRepo) List(ctx context.Context, q bookingRepo.ListQuery) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Reservation
	for _, r := range m.byID {
		if q.ProviderID != "" && r.ProviderID != q.ProviderID {
			continue
		}
		if q.ClientID != "" && r.ClientID != q.ClientID {
			continue
		}
		if q.Date != "" && r.Date != q.Date {
			continue
		}
		if q.DateFrom != "" && r.Date < q.DateFrom {
			continue
		}
		if q.DateTo != "" && r.Date > q.DateTo {
			continue
		}
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Start < out[j].Start
	})
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memReservationRepo) CountByStatus(ctx context.Context, providerID string) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int64)
	for _, r := range m.byID {
		if r.ProviderID == providerID {
			counts[r.Status]++
		}
	}
	return counts, nil
}

// stubProviderRepo serves fixed provider profiles.
type stubProviderRepo struct {
	providers map[string]*models.Provider
}

func (s *stubProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	p, ok := s.providers[id]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	return p, nil
}

func (s *stubProviderRepo) GetSchedule(ctx context.Context, id string) (models.WeeklySchedule, error) {
	p, ok := s.providers[id]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	return p.Availability, nil
}

func (s *stubProviderRepo) IsBookable(ctx context.Context, id string) (bool, error) {
	p, ok := s.providers[id]
	if !ok {
		return false, providerRepo.ErrNotFound
	}
	return p.Bookable(), nil
}

// recordingNotifier captures dispatched notices.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []recordedNotice
	fail    bool
}

type recordedNotice struct {
	Kind        string
	Role        string
	RecipientID string
	Extra       map[string]string
}

func (n *recordingNotifier) Dispatch(ctx context.Context, kind, role, recipientID string, r *models.Reservation, extra map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return context.DeadlineExceeded
	}
	n.notices = append(n.notices, recordedNotice{Kind: kind, Role: role, RecipientID: recipientID, Extra: extra})
	return nil
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var ks []string
	for _, rec := range n.notices {
		ks = append(ks, rec.Kind)
	}
	return ks
}

// recordingRoster captures roster upserts.
type recordingRoster struct {
	mu      sync.Mutex
	upserts int
	fail    bool
}

func (r *recordingRoster) Upsert(ctx context.Context, providerID, clientID string, rc roster.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return context.DeadlineExceeded
	}
	r.upserts++
	return nil
}

// recordingReminders captures reminder scheduling.
type recordingReminders struct {
	mu        sync.Mutex
	scheduled []string
}

func (s *recordingReminders) ScheduleReminder(r *models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, r.ID)
	return nil
}

// stubGateway verifies a single known signature.
type stubGateway struct {
	validSignature string
	metadata       map[string]string
	metadataErr    error
}

func (g *stubGateway) CreateOrder(ctx context.Context, amount float64, currency string, notes map[string]string) (*models.PaymentOrder, error) {
	return &models.PaymentOrder{OrderID: "order-1", Amount: amount, Currency: currency}, nil
}

func (g *stubGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == g.validSignature
}

func (g *stubGateway) FetchOrderMetadata(ctx context.Context, orderID string) (map[string]string, error) {
	if g.metadataErr != nil {
		return nil, g.metadataErr
	}
	return g.metadata, nil
}

func (g *stubGateway) Name() string { return "stub" }

// Test calendar: "now" is Monday 2026-03-02 10:00 local.
var testNow = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

const (
	testProviderID = "prov-1"
	testClientID   = "client-1"
)

func weekdayWindows() models.WeeklySchedule {
	return models.WeeklySchedule{
		{Day: "Monday", IsActive: true, TimeSlots: []models.TimeSlot{
			{StartTime: "09:00", EndTime: "12:00", IsActive: true},
		}},
		{Day: "Tuesday", IsActive: true, TimeSlots: []models.TimeSlot{
			{StartTime: "09:00", EndTime: "11:00", IsActive: true},
			{StartTime: "14:00", EndTime: "15:00", IsActive: true},
		}},
		{Day: "Wednesday", IsActive: false, TimeSlots: []models.TimeSlot{
			{StartTime: "09:00", EndTime: "17:00", IsActive: true},
		}},
	}
}

type engineFixture struct {
	engine    *DefaultSchedulingEngine
	repo      *memReservationRepo
	notifier  *recordingNotifier
	roster    *recordingRoster
	reminders *recordingReminders
	gateway   *stubGateway
}

func newEngineFixture() *engineFixture {
	repo := newMemReservationRepo()
	notifier := &recordingNotifier{}
	rosterRec := &recordingRoster{}
	reminders := &recordingReminders{}
	gateway := &stubGateway{validSignature: "good-sig", metadata: map[string]string{}}

	providers := &stubProviderRepo{providers: map[string]*models.Provider{
		testProviderID: {
			ID:           testProviderID,
			Name:         "Dana Reyes",
			Verified:     true,
			Active:       true,
			Availability: weekdayWindows(),
		},
		"prov-empty": {
			ID:       "prov-empty",
			Name:     "Lee Park",
			Verified: true,
			Active:   true,
		},
		"prov-paused": {
			ID:       "prov-paused",
			Name:     "Paused Provider",
			Verified: true,
			Active:   false,
		},
	}}

	return &engineFixture{
		engine: &DefaultSchedulingEngine{
			Repo:         repo,
			ProviderRepo: providers,
			Roster:       rosterRec,
			Notifier:     notifier,
			Gateway:      gateway,
			Reminders:    reminders,
			Logger:       zap.NewNop(),
			Clock:        func() time.Time { return testNow },
		},
		repo:      repo,
		notifier:  notifier,
		roster:    rosterRec,
		reminders: reminders,
		gateway:   gateway,
	}
}
