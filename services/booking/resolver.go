package booking

import (
	"context"
	"errors"

	providerRepo "counselbook/database/repository/provider"
	"counselbook/models"
	"counselbook/utils"
)

const maxResolveRangeDays = 62

// ResolveSlots expands a provider's recurring schedule over a date range and
// subtracts slots already held by active reservations. Every date in the range
// appears in the result, empty dates included, so the caller can render a full
// calendar without gap logic.
func (se *DefaultSchedulingEngine) ResolveSlots(ctx context.Context, providerID, startDate, endDate string) ([]models.DateSlots, error) {
	from, err := parseDate(startDate)
	if err != nil {
		return nil, utils.Validationf("invalid start date")
	}
	to, err := parseDate(endDate)
	if err != nil {
		return nil, utils.Validationf("invalid end date")
	}
	if to.Before(from) {
		return nil, utils.Validationf("end date is before start date")
	}
	if int(to.Sub(from).Hours()/24) >= maxResolveRangeDays {
		return nil, utils.Validationf("date range too large")
	}

	schedule, err := se.ProviderRepo.GetSchedule(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return nil, utils.NotFoundf("provider not found")
		}
		return nil, err
	}

	now := se.now()
	today := now.Format(dateLayout)
	nowMins := now.Hour()*60 + now.Minute()
	step := se.step()

	out := make([]models.DateSlots, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format(dateLayout)
		slots := ExpandDaySlots(schedule.FindDay(d.Weekday().String()), step)

		if len(slots) > 0 {
			taken, err := se.Repo.ActiveStartsForDate(ctx, providerID, date)
			if err != nil {
				return nil, err
			}
			slots = subtract(slots, taken)
		}
		if date == today {
			slots = dropPast(slots, nowMins)
		}
		if slots == nil {
			slots = []string{}
		}
		out = append(out, models.DateSlots{Date: date, Slots: slots})
	}
	return out, nil
}

// subtract removes taken starts from the ordered slot list.
func subtract(slots, taken []string) []string {
	if len(taken) == 0 {
		return slots
	}
	held := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		held[t] = struct{}{}
	}
	kept := slots[:0]
	for _, s := range slots {
		if _, ok := held[s]; !ok {
			kept = append(kept, s)
		}
	}
	return kept
}

// dropPast removes slots strictly before the current minute of the day. A slot
// starting exactly now is still offered.
func dropPast(slots []string, nowMins int) []string {
	kept := slots[:0]
	for _, s := range slots {
		m, err := minutesOfDay(s)
		if err != nil {
			continue
		}
		if m >= nowMins {
			kept = append(kept, s)
		}
	}
	return kept
}
