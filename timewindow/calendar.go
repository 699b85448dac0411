package timewindow

import "time"

// Unit identifies a calendar granularity for StartOfUnit/EndOfUnit and
// calendar windows.
type Unit int

const (
	UnitUnspecified Unit = iota
	UnitHour
	UnitDay
	UnitWeek
	UnitMonth
	UnitYear
)

// String renders the unit name, used by Describe.
func (u Unit) String() string {
	switch u {
	case UnitHour:
		return "hour"
	case UnitDay:
		return "day"
	case UnitWeek:
		return "week"
	case UnitMonth:
		return "month"
	case UnitYear:
		return "year"
	default:
		return "unspecified"
	}
}

// StartOfUnit returns the start of the calendar unit containing instant,
// evaluated in loc (nil means UTC). Weeks start on Monday.
func StartOfUnit(instant time.Time, unit Unit, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := instant.In(loc)

	switch unit {
	case UnitHour:
		y, m, d := local.Date()
		return time.Date(y, m, d, local.Hour(), 0, 0, 0, loc)
	case UnitDay:
		y, m, d := local.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case UnitWeek:
		y, m, d := local.Date()
		dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
		// time.Monday == 1, time.Sunday == 0; shift so Monday is offset 0.
		offset := (int(dayStart.Weekday()) + 6) % 7
		return dayStart.AddDate(0, 0, -offset)
	case UnitMonth:
		y, m, _ := local.Date()
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case UnitYear:
		y, _, _ := local.Date()
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return local
	}
}

// EndOfUnit returns the exclusive upper bound of the calendar unit
// containing instant: the start of the following unit.
func EndOfUnit(instant time.Time, unit Unit, loc *time.Location) time.Time {
	return addUnit(StartOfUnit(instant, unit, loc), unit, 1)
}

// addUnit advances t by n calendar units without the 30-day-month
// approximation used for sliding-window durations.
func addUnit(t time.Time, unit Unit, n int) time.Time {
	switch unit {
	case UnitHour:
		return t.Add(time.Duration(n) * time.Hour)
	case UnitDay:
		return t.AddDate(0, 0, n)
	case UnitWeek:
		return t.AddDate(0, 0, 7*n)
	case UnitMonth:
		return t.AddDate(0, n, 0)
	case UnitYear:
		return t.AddDate(n, 0, 0)
	default:
		return t
	}
}
