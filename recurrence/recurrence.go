// Package recurrence expands a RecurrenceRule (daily/weekly/biweekly/monthly,
// with optional until/count/exclusion dates) into concrete UTC intervals
// within a query range. It covers only the recurrence subset spec.md
// requires, not full RFC-5545.
package recurrence

import (
	"time"

	"github.com/example/schedpolicy/interval"
	"github.com/example/schedpolicy/timewindow"
)

// Frequency identifies how a Rule repeats.
type Frequency int

const (
	FrequencyUnspecified Frequency = iota
	FrequencyDaily
	FrequencyWeekly
	FrequencyBiweekly
	FrequencyMonthly
)

// Rule describes a single recurrence configuration.
type Rule struct {
	Frequency Frequency

	// Days selects weekdays for Weekly and Biweekly; for Daily it is an
	// optional filter (empty means every day).
	Days []time.Weekday

	// DayOfMonth is read only when Frequency is Monthly.
	DayOfMonth int

	StartTime timewindow.LocalTime
	EndTime   timewindow.LocalTime
	Zone      *time.Location

	// Anchor fixes the reference date for Biweekly's parity check. When
	// nil, the query range's start date (in Zone) is used.
	Anchor *timewindow.CivilDate

	// Until, when set, bounds generation in addition to the query range.
	Until *time.Time

	// Count, when set, stops generation after this many occurrences.
	Count *int

	// Exclude lists civil dates (in Zone) to skip even if otherwise
	// included.
	Exclude []timewindow.CivilDate
}

func (r Rule) zone() *time.Location {
	if r.Zone == nil {
		return time.UTC
	}
	return r.Zone
}

// ExpandRecurrence produces the occurrences of rule that start within
// rangeIv, ordered by start.
func ExpandRecurrence(rule Rule, rangeIv interval.Interval) []interval.Interval {
	if rangeIv.Empty() {
		return nil
	}
	loc := rule.zone()

	cursor := timewindow.DateOf(rangeIv.Start, loc).AddDays(-1)
	limit := timewindow.DateOf(rangeIv.End, loc).AddDays(1)
	if rule.Until != nil {
		untilDate := timewindow.DateOf(*rule.Until, loc)
		if untilDate.Before(limit) {
			limit = untilDate
		}
	}

	anchor := timewindow.DateOf(rangeIv.Start, loc)
	if rule.Anchor != nil {
		anchor = *rule.Anchor
	}

	exclude := make(map[string]struct{}, len(rule.Exclude))
	for _, d := range rule.Exclude {
		exclude[d.String()] = struct{}{}
	}

	var results []interval.Interval
	count := 0
	for d := cursor; !limit.Before(d); d = d.AddDays(1) {
		if rule.Count != nil && count >= *rule.Count {
			break
		}
		if !includes(rule, anchor, d) {
			continue
		}
		if _, skip := exclude[d.String()]; skip {
			continue
		}

		start := timewindow.LocalToUTC(d, rule.StartTime, loc)
		end := timewindow.LocalToUTC(d, rule.EndTime, loc)
		if start.Before(rangeIv.Start) || !start.Before(rangeIv.End) {
			continue
		}
		if rule.Until != nil && start.After(*rule.Until) {
			continue
		}
		if !end.After(start) {
			continue
		}

		results = append(results, interval.Interval{Start: start, End: end})
		count++
	}

	return interval.Merge(results)
}

func includes(rule Rule, anchor, d timewindow.CivilDate) bool {
	switch rule.Frequency {
	case FrequencyDaily:
		if len(rule.Days) == 0 {
			return true
		}
		return hasWeekday(rule.Days, weekdayOf(d))
	case FrequencyWeekly:
		return len(rule.Days) > 0 && hasWeekday(rule.Days, weekdayOf(d))
	case FrequencyBiweekly:
		if len(rule.Days) == 0 || !hasWeekday(rule.Days, weekdayOf(d)) {
			return false
		}
		return weekDistance(anchor, d)%2 == 0
	case FrequencyMonthly:
		return int(d.Day) == rule.DayOfMonth
	default:
		return false
	}
}

func hasWeekday(days []time.Weekday, day time.Weekday) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func weekdayOf(d timewindow.CivilDate) time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

func ordinal(d timewindow.CivilDate) int64 {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// mondayOrdinal returns the ordinal day number of the Monday starting the
// ISO week containing d.
func mondayOrdinal(d timewindow.CivilDate) int64 {
	weekday := int64((int(weekdayOf(d)) + 6) % 7)
	return ordinal(d) - weekday
}

// weekDistance returns the number of whole weeks between the ISO weeks of
// anchor and d, normalised to be non-negative mod 2 so callers can test
// parity directly with %2.
func weekDistance(anchor, d timewindow.CivilDate) int64 {
	diff := (mondayOrdinal(d) - mondayOrdinal(anchor)) / 7
	return ((diff % 2) + 2) % 2
}
