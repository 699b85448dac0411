package timewindow

import "time"

// WindowKind identifies which of the four window variants a WindowSpec
// carries.
type WindowKind int

const (
	WindowCalendar WindowKind = iota
	WindowSliding
	WindowLifetime
	WindowFixed
)

// epoch and farFuture bound the lifetime window, per spec: 1970-01-01T00:00:00Z
// through 9999-12-31T23:59:59.999Z.
var (
	epoch     = time.Unix(0, 0).UTC()
	farFuture = time.Date(9999, time.December, 31, 23, 59, 59, 999_000_000, time.UTC)
)

// WindowSpec is a tagged union over the four window variants: calendar,
// sliding, lifetime and fixed. Only the fields relevant to Kind are read.
type WindowSpec struct {
	Kind WindowKind

	// Calendar fields.
	Unit Unit
	Zone *time.Location

	// Sliding fields.
	Duration time.Duration

	// Fixed fields.
	FixedStart time.Time
	FixedEnd   time.Time
}

// CalendarWindow builds a calendar WindowSpec. A nil zone means UTC.
func CalendarWindow(unit Unit, zone *time.Location) WindowSpec {
	return WindowSpec{Kind: WindowCalendar, Unit: unit, Zone: zone}
}

// SlidingWindow builds a sliding WindowSpec of the given trailing duration.
func SlidingWindow(d time.Duration) WindowSpec {
	return WindowSpec{Kind: WindowSliding, Duration: d}
}

// LifetimeWindow builds the lifetime WindowSpec.
func LifetimeWindow() WindowSpec {
	return WindowSpec{Kind: WindowLifetime}
}

// FixedWindow builds a WindowSpec over the verbatim [start, end) interval.
func FixedWindow(start, end time.Time) WindowSpec {
	return WindowSpec{Kind: WindowFixed, FixedStart: start, FixedEnd: end}
}

// ResolveWindow returns the half-open [start, end) interval denoted by spec,
// evaluated relative to at.
func ResolveWindow(spec WindowSpec, at time.Time) (start, end time.Time) {
	switch spec.Kind {
	case WindowCalendar:
		return StartOfUnit(at, spec.Unit, spec.Zone), EndOfUnit(at, spec.Unit, spec.Zone)
	case WindowSliding:
		return at.Add(-spec.Duration), at
	case WindowLifetime:
		return epoch, farFuture
	case WindowFixed:
		return spec.FixedStart, spec.FixedEnd
	default:
		return at, at
	}
}

// NextReset returns the next instant at which usage counted within spec
// resets, relative to at. ok is false for lifetime and fixed windows, which
// never reset.
func NextReset(spec WindowSpec, at time.Time) (reset time.Time, ok bool) {
	switch spec.Kind {
	case WindowCalendar:
		return addUnit(StartOfUnit(at, spec.Unit, spec.Zone), spec.Unit, 1), true
	case WindowSliding:
		return at.Add(spec.Duration), true
	default:
		return time.Time{}, false
	}
}
