package models

// TimeSlot is a contiguous window inside a day's schedule, in "HH:MM" 24-hour form.
type TimeSlot struct {
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
	IsActive  bool   `bson:"isActive" json:"isActive"`
}

// DaySchedule is one weekday's recurring availability. Day holds the weekday
// name ("Monday" .. "Sunday"). Inactive days contribute no bookable slots.
type DaySchedule struct {
	Day       string     `bson:"day" json:"day"`
	IsActive  bool       `bson:"isActive" json:"isActive"`
	TimeSlots []TimeSlot `bson:"timeSlots" json:"timeSlots"`
}

// WeeklySchedule is the provider's full recurring availability, one entry per
// weekday. It is owned by the provider profile and read-only to the engine.
type WeeklySchedule []DaySchedule

// FindDay returns the schedule entry for the given weekday name, or nil.
func (ws WeeklySchedule) FindDay(weekday string) *DaySchedule {
	for i := range ws {
		if ws[i].Day == weekday {
			return &ws[i]
		}
	}
	return nil
}
