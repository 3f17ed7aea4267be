package domain

import (
	"fmt"
	"time"
)

// DayOfWeek is the closed weekday tag carried by every schedule-bearing entity.
type DayOfWeek string

const (
	Monday    DayOfWeek = "mon"
	Tuesday   DayOfWeek = "tue"
	Wednesday DayOfWeek = "wed"
	Thursday  DayOfWeek = "thu"
	Friday    DayOfWeek = "fri"
	Saturday  DayOfWeek = "sat"
	Sunday    DayOfWeek = "sun"
)

// AllDaysOfWeek lists the valid weekday values in calendar order.
var AllDaysOfWeek = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseDayOfWeek validates a raw weekday string at the boundary so invalid
// values never enter the data model.
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	for _, d := range AllDaysOfWeek {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid day of week: %q", s)
}

func (d DayOfWeek) IsValid() bool {
	_, err := ParseDayOfWeek(string(d))
	return err == nil
}

// DayOfWeekFromTime maps a timestamp to its weekday tag.
func DayOfWeekFromTime(t time.Time) DayOfWeek {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}
