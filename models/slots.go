package models

// DateSlots is one calendar date's bookable start times. Dates for which the
// provider publishes no availability still appear in range results, with an
// empty Slots list.
type DateSlots struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}
