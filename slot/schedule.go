// Package slot computes bookable time windows from recurring schedules,
// overrides, existing bookings, opaque busy blocks and event-type
// constraints (length, grid, notice, lead time, per-day/per-week caps).
package slot

import (
	"time"

	"github.com/example/schedpolicy/interval"
	"github.com/example/schedpolicy/timewindow"
)

// ScheduleRule describes a recurring weekly availability window in local
// time, optionally bounded by a civil-date effective range.
type ScheduleRule struct {
	Days           []time.Weekday
	StartTime      timewindow.LocalTime
	EndTime        timewindow.LocalTime
	Zone           *time.Location
	EffectiveFrom  *timewindow.CivilDate
	EffectiveUntil *timewindow.CivilDate
}

func (r ScheduleRule) zone() *time.Location {
	if r.Zone == nil {
		return time.UTC
	}
	return r.Zone
}

func (r ScheduleRule) appliesOn(day timewindow.CivilDate) bool {
	loc := r.zone()
	weekday := time.Date(day.Year, day.Month, day.Day, 0, 0, 0, 0, loc).Weekday()
	matched := false
	for _, d := range r.Days {
		if d == weekday {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	if r.EffectiveFrom != nil && day.Before(*r.EffectiveFrom) {
		return false
	}
	if r.EffectiveUntil != nil && !day.Before(*r.EffectiveUntil) {
		return false
	}
	return true
}

// ScheduleOverride adds or removes availability on a single civil date,
// interpreted in the schedule's primary zone. An available override with
// times is merged into the base availability rather than replacing it.
type ScheduleOverride struct {
	Date      timewindow.CivilDate
	Available bool
	StartTime *timewindow.LocalTime
	EndTime   *timewindow.LocalTime
}

// Schedule is a named set of recurring rules plus day-level overrides.
type Schedule struct {
	ID        string
	Rules     []ScheduleRule
	Overrides []ScheduleOverride
}

// primaryZone is the zone overrides are matched against: the first rule's
// zone, or UTC if the schedule has no rules.
func (s Schedule) primaryZone() *time.Location {
	if len(s.Rules) == 0 {
		return time.UTC
	}
	return s.Rules[0].zone()
}

// ExpandSchedule returns the sorted, disjoint UTC intervals within rangeIv
// where the schedule is available.
func ExpandSchedule(schedule Schedule, rangeIv interval.Interval) []interval.Interval {
	if rangeIv.Empty() {
		return nil
	}
	primary := schedule.primaryZone()

	var base []interval.Interval
	startDay := timewindow.DateOf(rangeIv.Start, primary).AddDays(-1)
	endDay := timewindow.DateOf(rangeIv.End, primary).AddDays(1)

	for day := startDay; !endDay.Before(day); day = day.AddDays(1) {
		for _, rule := range schedule.Rules {
			if !rule.appliesOn(day) {
				continue
			}
			loc := rule.zone()
			start := timewindow.LocalToUTC(day, rule.StartTime, loc)
			end := timewindow.LocalToUTC(day, rule.EndTime, loc)
			if end.After(start) {
				base = append(base, interval.Interval{Start: start, End: end})
			}
		}
	}
	base = interval.Merge(base)

	var removals, additions []interval.Interval
	for _, ov := range schedule.Overrides {
		if ov.Available {
			if ov.StartTime == nil || ov.EndTime == nil {
				continue
			}
			start := timewindow.LocalToUTC(ov.Date, *ov.StartTime, primary)
			end := timewindow.LocalToUTC(ov.Date, *ov.EndTime, primary)
			if end.After(start) {
				additions = append(additions, interval.Interval{Start: start, End: end})
			}
			continue
		}
		if ov.StartTime != nil && ov.EndTime != nil {
			start := timewindow.LocalToUTC(ov.Date, *ov.StartTime, primary)
			end := timewindow.LocalToUTC(ov.Date, *ov.EndTime, primary)
			if end.After(start) {
				removals = append(removals, interval.Interval{Start: start, End: end})
			}
			continue
		}
		dayStart := timewindow.LocalToUTC(ov.Date, timewindow.LocalTime{}, primary)
		dayEnd := timewindow.LocalToUTC(ov.Date.AddDays(1), timewindow.LocalTime{}, primary)
		removals = append(removals, interval.Interval{Start: dayStart, End: dayEnd})
	}

	combined := interval.Subtract(base, removals)
	combined = interval.Merge(append(combined, additions...))

	result := make([]interval.Interval, 0, len(combined))
	for _, iv := range interval.Intersect(combined, []interval.Interval{rangeIv}) {
		result = append(result, iv)
	}
	return result
}
