package booking

import (
	"context"
	"errors"

	providerRepo "counselbook/database/repository/provider"
	"counselbook/utils"
)

// validateSlot runs the full pre-write validation chain for a requested slot
// and returns the canonical "HH:MM" start string. The checks are ordered so
// the cheapest failures short-circuit first; passing validation is advisory
// only, the store's uniqueness constraint has the final word.
func (se *DefaultSchedulingEngine) validateSlot(ctx context.Context, providerID, date, start string, durationMins int) (string, error) {
	bookable, err := se.ProviderRepo.IsBookable(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return "", utils.NotFoundf("provider not found")
		}
		return "", err
	}
	if !bookable {
		return "", utils.NotFoundf("provider is not accepting bookings")
	}

	day, err := parseDate(date)
	if err != nil {
		return "", utils.Validationf("invalid date")
	}
	now := se.now()
	today := now.Format(dateLayout)
	if date < today {
		return "", utils.Validationf("cannot book a past date")
	}

	if durationMins < minDurationMins || durationMins > maxDurationMins {
		return "", utils.Validationf("duration must be between %d and %d minutes", minDurationMins, maxDurationMins)
	}

	startMins, err := minutesOfDay(start)
	if err != nil {
		return "", utils.Validationf("invalid start time")
	}
	canonical := formatMinutes(startMins)

	schedule, err := se.ProviderRepo.GetSchedule(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return "", utils.NotFoundf("provider not found")
		}
		return "", err
	}

	step := se.step()
	slots := ExpandDaySlots(schedule.FindDay(day.Weekday().String()), step)
	if len(slots) > 0 {
		if !contains(slots, canonical) {
			return "", utils.Validationf("selected time is not available")
		}
	} else {
		// No published windows for this weekday: accept standard business-hour
		// slots so a provider with an empty calendar is still reachable.
		fbStart, fbEnd := se.fallbackWindow()
		if startMins%step != 0 || startMins < fbStart || startMins+step > fbEnd {
			return "", utils.Validationf("selected time is not available")
		}
	}

	if date == today {
		nowMins := now.Hour()*60 + now.Minute()
		if startMins < nowMins {
			return "", utils.Validationf("cannot book a past time")
		}
	}
	return canonical, nil
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
