package booking

import (
	"context"

	bookingRepo "counselbook/database/repository/booking"
	"counselbook/models"
)

const defaultListLimit = 100

func (f ListFilter) query() bookingRepo.ListQuery {
	q := bookingRepo.ListQuery{
		Date:     f.Date,
		DateFrom: f.DateFrom,
		DateTo:   f.DateTo,
		Status:   f.Status,
		Limit:    f.Limit,
		Skip:     f.Skip,
	}
	if q.Limit <= 0 {
		q.Limit = defaultListLimit
	}
	return q
}

// ListForProvider returns a provider's reservations, date then start ascending.
func (se *DefaultSchedulingEngine) ListForProvider(ctx context.Context, providerID string, f ListFilter) ([]models.Reservation, error) {
	q := f.query()
	q.ProviderID = providerID
	return se.Repo.List(ctx, q)
}

// ListForClient returns a client's reservations, date then start ascending.
func (se *DefaultSchedulingEngine) ListForClient(ctx context.Context, clientID string, f ListFilter) ([]models.Reservation, error) {
	q := f.query()
	q.ClientID = clientID
	return se.Repo.List(ctx, q)
}

// TodayForProvider returns the provider's reservations for the current date.
func (se *DefaultSchedulingEngine) TodayForProvider(ctx context.Context, providerID string) ([]models.Reservation, error) {
	return se.ListForProvider(ctx, providerID, ListFilter{Date: se.now().Format(dateLayout)})
}

// UpcomingForProvider returns the provider's still-active reservations from
// today forward.
func (se *DefaultSchedulingEngine) UpcomingForProvider(ctx context.Context, providerID string) ([]models.Reservation, error) {
	today := se.now().Format(dateLayout)
	pending, err := se.ListForProvider(ctx, providerID, ListFilter{DateFrom: today, Status: models.StatusPending})
	if err != nil {
		return nil, err
	}
	confirmed, err := se.ListForProvider(ctx, providerID, ListFilter{DateFrom: today, Status: models.StatusConfirmed})
	if err != nil {
		return nil, err
	}
	return mergeByDate(pending, confirmed), nil
}

// DashboardStats aggregates a provider's calendar load.
func (se *DefaultSchedulingEngine) DashboardStats(ctx context.Context, providerID string) (*DashboardStats, error) {
	byStatus, err := se.Repo.CountByStatus(ctx, providerID)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range byStatus {
		total += n
	}

	today := se.now().Format(dateLayout)
	todays, err := se.ListForProvider(ctx, providerID, ListFilter{Date: today})
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Total:     total,
		ByStatus:  byStatus,
		Today:     int64(len(todays)),
		TodayDate: today,
	}, nil
}

// mergeByDate interleaves two lists that are each sorted by (date, start).
func mergeByDate(a, b []models.Reservation) []models.Reservation {
	out := make([]models.Reservation, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Date < b[j].Date || (a[i].Date == b[j].Date && a[i].Start <= b[j].Start) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
