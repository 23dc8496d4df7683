package models

import (
	"encoding/json"
	"strings"
)

// DaySchedule describes one weekday of a collection point's opening hours.
type DaySchedule struct {
	Enabled bool   `json:"enabled"`
	Open    string `json:"open"`
	Close   string `json:"close"`
}

// WeekSchedule is the structured weekly schedule. The remote store has no
// dedicated column for it; it is serialized as JSON into the generic
// description field, so decoding must tolerate absent or malformed content.
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DefaultWeekSchedule returns the safe fallback schedule: every day
// disabled, with placeholder business hours so the admin form has
// something to edit.
func DefaultWeekSchedule() WeekSchedule {
	day := DaySchedule{Enabled: false, Open: "08:00", Close: "18:00"}
	return WeekSchedule{
		Monday:    day,
		Tuesday:   day,
		Wednesday: day,
		Thursday:  day,
		Friday:    day,
		Saturday:  day,
		Sunday:    day,
	}
}

// DecodeWeekSchedule parses the JSON text stored in the description field.
// Empty, "null", or malformed input yields the all-disabled default
// schedule; it never returns an error.
func DecodeWeekSchedule(s string) WeekSchedule {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "null" {
		return DefaultWeekSchedule()
	}
	var ws WeekSchedule
	if err := json.Unmarshal([]byte(trimmed), &ws); err != nil {
		return DefaultWeekSchedule()
	}
	return ws
}

// Encode serializes the schedule to the JSON text persisted in the
// description field.
func (w WeekSchedule) Encode() string {
	data, err := json.Marshal(w)
	if err != nil {
		// WeekSchedule contains only strings and bools; Marshal cannot fail.
		return ""
	}
	return string(data)
}

// Days returns the seven day schedules in weekday order.
func (w WeekSchedule) Days() []DaySchedule {
	return []DaySchedule{
		w.Monday, w.Tuesday, w.Wednesday, w.Thursday, w.Friday, w.Saturday, w.Sunday,
	}
}
