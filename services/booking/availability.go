package booking

import (
	"fmt"
	"time"

	"counselbook/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// minutesOfDay parses "HH:MM" into minutes from midnight.
func minutesOfDay(hhmm string) (int, error) {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// formatMinutes renders minutes from midnight as "HH:MM".
func formatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// parseDate parses a "YYYY-MM-DD" calendar date.
func parseDate(date string) (time.Time, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d, nil
}

// ComputeEnd derives the end time from a start time and duration. The end is
// never taken from caller input on the primary creation path.
func ComputeEnd(start string, durationMins int) (string, error) {
	mins, err := minutesOfDay(start)
	if err != nil {
		return "", err
	}
	return formatMinutes(mins + durationMins), nil
}

// ExpandDaySlots converts one day's recurring schedule into the ordered list
// of bookable start times at the given granularity. Each active window is
// walked independently in fixed steps from its start to end-step inclusive;
// windows are never merged, and inactive days or windows yield nothing.
// Pure: no clock, no store.
func ExpandDaySlots(day *models.DaySchedule, stepMins int) []string {
	if day == nil || !day.IsActive || stepMins <= 0 {
		return nil
	}
	var slots []string
	for _, w := range day.TimeSlots {
		if !w.IsActive {
			continue
		}
		start, err := minutesOfDay(w.StartTime)
		if err != nil {
			continue
		}
		end, err := minutesOfDay(w.EndTime)
		if err != nil {
			continue
		}
		for t := start; t+stepMins <= end; t += stepMins {
			slots = append(slots, formatMinutes(t))
		}
	}
	return slots
}
