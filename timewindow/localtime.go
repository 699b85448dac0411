// Package timewindow implements the time primitives shared by the slot and
// policy cores: local-time/IANA-zone to UTC conversion, calendar-unit
// arithmetic, window resolution (calendar/sliding/lifetime/fixed), reset
// computation and human-readable descriptions. Every function takes the
// reference instant it needs as an explicit parameter; none consult the
// wall clock.
package timewindow

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LocalTime is an hh:mm wall-clock time with no associated date or zone. It
// must always be paired with a civil date and an IANA zone to mean anything.
type LocalTime struct {
	Hour   int
	Minute int
}

// ParseLocalTime parses a 24-hour "HH:MM" string.
func ParseLocalTime(s string) (LocalTime, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return LocalTime{}, fmt.Errorf("timewindow: invalid local time %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return LocalTime{}, fmt.Errorf("timewindow: invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return LocalTime{}, fmt.Errorf("timewindow: invalid minute in %q", s)
	}
	return LocalTime{Hour: hour, Minute: minute}, nil
}

// String renders the local time back to "HH:MM" form.
func (t LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// CivilDate is a year/month/day triple with no time-of-day or zone
// component.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the civil date of t as observed in loc. A nil loc is
// treated as UTC.
func DateOf(t time.Time, loc *time.Location) CivilDate {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// String renders the date as YYYY-MM-DD.
func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AddDays returns the date d+n days, not touching any time-of-day or zone.
func (d CivilDate) AddDays(n int) CivilDate {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	y, m, dd := t.Date()
	return CivilDate{Year: y, Month: m, Day: dd}
}

// Before reports whether d occurs strictly before other.
func (d CivilDate) Before(other CivilDate) bool {
	return d.compareKey() < other.compareKey()
}

// Equal reports whether d and other name the same calendar day.
func (d CivilDate) Equal(other CivilDate) bool {
	return d.compareKey() == other.compareKey()
}

func (d CivilDate) compareKey() int {
	return d.Year*10000 + int(d.Month)*100 + d.Day
}

// LocalToUTC converts a civil date and local time, interpreted in loc, to
// the UTC instant it denotes.
//
// The zone database is consulted at the target local instant rather than at
// the caller's "now", so DST transitions on the target date are honoured.
// At an ambiguous fall-back hour (two UTC instants share the same local
// wall clock reading) the later of the two offsets is chosen; at a skipped
// spring-forward hour the result is the instant just after the gap: the
// pre-transition offset is applied, so 02:30 in a 02:00-03:00 gap becomes
// 03:30 on the post-transition clock.
func LocalToUTC(date CivilDate, lt LocalTime, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	nominal := time.Date(date.Year, date.Month, date.Day, lt.Hour, lt.Minute, 0, 0, loc)

	lo := nominal.Add(-36 * time.Hour)
	hi := nominal.Add(36 * time.Hour)
	_, offLo := lo.Zone()
	_, offHi := hi.Zone()
	if offLo == offHi {
		// No DST transition within a day and a half of the nominal
		// instant: only one offset is ever valid here.
		return nominal
	}

	trans := findTransition(lo, hi, offLo)
	localNaive := time.Date(date.Year, date.Month, date.Day, lt.Hour, lt.Minute, 0, 0, time.UTC)
	candBefore := localNaive.Add(-time.Duration(offLo) * time.Second)
	candAfter := localNaive.Add(-time.Duration(offHi) * time.Second)

	validAfter := !candAfter.Before(trans)
	if !validAfter {
		// Either only the pre-transition reading exists, or the local time
		// falls in a gap and the pre-transition offset lands after it.
		return candBefore
	}
	return candAfter
}

// findTransition bisects [lo, hi) for the instant at which the zone offset
// changes from offLo to something else, assuming exactly one transition in
// the window (true for any DST boundary given a window well under the ~6
// month gap between transitions).
func findTransition(lo, hi time.Time, offLo int) time.Time {
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2)
		_, offMid := mid.Zone()
		if offMid == offLo {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}
