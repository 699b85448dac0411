// Package interval implements half-open [start, end) interval arithmetic:
// merge (union), subtract (difference) and intersect. All three operations
// first normalise their inputs to a sorted, pairwise-disjoint form, so
// callers may pass unsorted, overlapping, or empty intervals freely.
package interval

import (
	"sort"
	"time"
)

// Interval is a half-open time range. It is empty when End does not come
// strictly after Start.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Empty reports whether the interval covers no time at all.
func (i Interval) Empty() bool {
	return !i.End.After(i.Start)
}

// Duration returns End-Start, which is zero or negative for an empty
// interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Clip returns i narrowed to bounds, or an empty interval if they do not
// overlap.
func (i Interval) Clip(bounds Interval) Interval {
	start := i.Start
	if bounds.Start.After(start) {
		start = bounds.Start
	}
	end := i.End
	if bounds.End.Before(end) {
		end = bounds.End
	}
	return Interval{Start: start, End: end}
}

func sorted(intervals []Interval) []Interval {
	out := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Empty() {
			continue
		}
		out = append(out, iv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].End.Before(out[j].End)
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// Merge normalises intervals into their union: sorted, pairwise-disjoint,
// touching endpoints merged (half-open intervals sharing an endpoint are
// adjacent, not overlapping, but they still coalesce into one run).
func Merge(intervals []Interval) []Interval {
	clean := sorted(intervals)
	if len(clean) == 0 {
		return nil
	}

	merged := make([]Interval, 0, len(clean))
	current := clean[0]
	for _, next := range clean[1:] {
		if !next.Start.After(current.End) {
			if next.End.After(current.End) {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)
	return merged
}

// Subtract removes the union of sub from the union of from, preserving the
// order of what remains of from.
func Subtract(from, sub []Interval) []Interval {
	fromClean := Merge(from)
	subClean := Merge(sub)
	if len(subClean) == 0 {
		return fromClean
	}

	result := make([]Interval, 0, len(fromClean))
	for _, f := range fromClean {
		pieces := []Interval{f}
		for _, s := range subClean {
			var next []Interval
			for _, piece := range pieces {
				next = append(next, subtractOne(piece, s)...)
			}
			pieces = next
			if len(pieces) == 0 {
				break
			}
		}
		result = append(result, pieces...)
	}
	return Merge(result)
}

// subtractOne removes s from a single interval from, returning 0, 1 or 2
// pieces.
func subtractOne(from, s Interval) []Interval {
	if s.Empty() || !s.Start.Before(from.End) || !s.End.After(from.Start) {
		// s does not strictly overlap from (a shared endpoint has no effect
		// under the half-open rule).
		return []Interval{from}
	}

	var out []Interval
	if s.Start.After(from.Start) {
		out = append(out, Interval{Start: from.Start, End: s.Start})
	}
	if s.End.Before(from.End) {
		out = append(out, Interval{Start: s.End, End: from.End})
	}
	return out
}

// Intersect returns the union of a intersected with the union of b.
func Intersect(a, b []Interval) []Interval {
	aClean := Merge(a)
	bClean := Merge(b)

	var result []Interval
	i, j := 0, 0
	for i < len(aClean) && j < len(bClean) {
		x, y := aClean[i], bClean[j]
		start := x.Start
		if y.Start.After(start) {
			start = y.Start
		}
		end := x.End
		if y.End.Before(end) {
			end = y.End
		}
		if end.After(start) {
			result = append(result, Interval{Start: start, End: end})
		}
		if x.End.Before(y.End) {
			i++
		} else {
			j++
		}
	}
	return result
}
