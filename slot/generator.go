package slot

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/schedpolicy/interval"
)

// EventType is the bookable shape: length, buffers, grid, notice, lead and
// per-day/per-week caps, with optional per-host overrides.
type EventType struct {
	ID              string
	Length          time.Duration
	ScheduleKey     string
	BufferBefore    time.Duration
	BufferAfter     time.Duration
	SlotInterval    time.Duration
	MinimumNotice   time.Duration
	MaximumLeadTime *time.Duration
	MaxPerDay       *int
	MaxPerWeek      *int
	HostOverrides   map[string]EventTypeOverride
}

// EventTypeOverride supplies per-host replacements for a subset of
// EventType fields. A nil pointer/zero-value field means "not overridden";
// the base EventType value wins.
type EventTypeOverride struct {
	Length          *time.Duration
	BufferBefore    *time.Duration
	BufferAfter     *time.Duration
	SlotInterval    *time.Duration
	MinimumNotice   *time.Duration
	MaximumLeadTime *time.Duration
	MaxPerDay       *int
	MaxPerWeek      *int
}

// resolvedEventType is an EventType after per-host override merge and
// derived-default application.
type resolvedEventType struct {
	Length          time.Duration
	BufferBefore    time.Duration
	BufferAfter     time.Duration
	SlotInterval    time.Duration
	MinimumNotice   time.Duration
	MaximumLeadTime *time.Duration
	MaxPerDay       *int
	MaxPerWeek      *int
}

func resolveForHost(et EventType, hostID string) resolvedEventType {
	r := resolvedEventType{
		Length:          et.Length,
		BufferBefore:    et.BufferBefore,
		BufferAfter:     et.BufferAfter,
		SlotInterval:    et.SlotInterval,
		MinimumNotice:   et.MinimumNotice,
		MaximumLeadTime: et.MaximumLeadTime,
		MaxPerDay:       et.MaxPerDay,
		MaxPerWeek:      et.MaxPerWeek,
	}
	if ov, ok := et.HostOverrides[hostID]; ok {
		if ov.Length != nil {
			r.Length = *ov.Length
		}
		if ov.BufferBefore != nil {
			r.BufferBefore = *ov.BufferBefore
		}
		if ov.BufferAfter != nil {
			r.BufferAfter = *ov.BufferAfter
		}
		if ov.SlotInterval != nil {
			r.SlotInterval = *ov.SlotInterval
		}
		if ov.MinimumNotice != nil {
			r.MinimumNotice = *ov.MinimumNotice
		}
		if ov.MaximumLeadTime != nil {
			r.MaximumLeadTime = ov.MaximumLeadTime
		}
		if ov.MaxPerDay != nil {
			r.MaxPerDay = ov.MaxPerDay
		}
		if ov.MaxPerWeek != nil {
			r.MaxPerWeek = ov.MaxPerWeek
		}
	}
	if r.SlotInterval <= 0 {
		r.SlotInterval = r.Length
	}
	return r
}

// Host pairs a host id with its named schedules.
type Host struct {
	ID        string
	Schedules map[string]Schedule
}

// Booking is an existing commitment on a host's timeline. EventTypeID keys
// into the buffer table to determine how far it inflates.
type Booking struct {
	ID          string
	HostID      string
	Start       time.Time
	End         time.Time
	EventTypeID string
}

// Block is opaque busy time on a host's timeline; it is never inflated and
// never counted against caps.
type Block struct {
	HostID string
	Start  time.Time
	End    time.Time
}

// Buffers is a pair of prep/wrap-up durations attached to an event type.
type Buffers struct {
	BufferBefore time.Duration
	BufferAfter  time.Duration
}

// Slot is a single bookable placement produced by GetAvailableSlots.
type Slot struct {
	HostID       string
	Start        time.Time
	End          time.Time
	BufferBefore *interval.Interval
	BufferAfter  *interval.Interval
}

// AvailabilityInput is everything GetAvailableSlots needs to compute slots
// for one event type across a set of hosts.
type AvailabilityInput struct {
	EventType  EventType
	Hosts      []Host
	Bookings   []Booking
	Blocks     []Block
	Range      interval.Interval
	EventTypes map[string]Buffers
}

// GetAvailableSlots runs the full pipeline — resolve host config, expand
// schedule, subtract busy time, clip to notice/lead bounds, place
// candidates, filter by caps — independently per host, then merges and
// sorts the results by (start, hostId).
func GetAvailableSlots(input AvailabilityInput, now time.Time) []Slot {
	var all []Slot
	for _, host := range input.Hosts {
		all = append(all, slotsForHost(input, host, now)...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Start.Equal(all[j].Start) {
			return all[i].HostID < all[j].HostID
		}
		return all[i].Start.Before(all[j].Start)
	})
	return all
}

func slotsForHost(input AvailabilityInput, host Host, now time.Time) []Slot {
	resolved := resolveForHost(input.EventType, host.ID)

	scheduleKey := input.EventType.ScheduleKey
	if scheduleKey == "" {
		scheduleKey = "default"
	}
	schedule, ok := host.Schedules[scheduleKey]
	if !ok {
		return nil
	}

	free := ExpandSchedule(schedule, input.Range)

	var busy []interval.Interval
	for _, b := range input.Bookings {
		if b.HostID != host.ID {
			continue
		}
		buf := bookingBuffers(input, b)
		busy = append(busy, interval.Interval{
			Start: b.Start.Add(-buf.BufferBefore),
			End:   b.End.Add(buf.BufferAfter),
		})
	}
	for _, blk := range input.Blocks {
		if blk.HostID != host.ID {
			continue
		}
		busy = append(busy, interval.Interval{Start: blk.Start, End: blk.End})
	}
	free = interval.Subtract(free, busy)

	noticeFloor := now.Add(resolved.MinimumNotice)
	free = clipFloor(free, noticeFloor)

	if resolved.MaximumLeadTime != nil {
		leadCeiling := now.Add(*resolved.MaximumLeadTime)
		free = clipCeiling(free, leadCeiling)
	}

	candidates := placeCandidates(free, resolved, host.ID)

	if resolved.MaxPerDay == nil && resolved.MaxPerWeek == nil {
		return candidates
	}
	return applyCaps(input, host.ID, resolved, candidates)
}

func bookingBuffers(input AvailabilityInput, b Booking) Buffers {
	if b.EventTypeID == "" {
		return Buffers{}
	}
	if input.EventTypes != nil {
		if buf, ok := input.EventTypes[b.EventTypeID]; ok {
			return buf
		}
		return Buffers{}
	}
	if b.EventTypeID == input.EventType.ID {
		return Buffers{BufferBefore: input.EventType.BufferBefore, BufferAfter: input.EventType.BufferAfter}
	}
	return Buffers{}
}

func clipFloor(intervals []interval.Interval, floor time.Time) []interval.Interval {
	var out []interval.Interval
	for _, iv := range intervals {
		if iv.End.After(floor) {
			if iv.Start.Before(floor) {
				iv.Start = floor
			}
			out = append(out, iv)
		}
	}
	return out
}

func clipCeiling(intervals []interval.Interval, ceiling time.Time) []interval.Interval {
	var out []interval.Interval
	for _, iv := range intervals {
		if iv.Start.Before(ceiling) {
			if iv.End.After(ceiling) {
				iv.End = ceiling
			}
			if iv.End.After(iv.Start) {
				out = append(out, iv)
			}
		}
	}
	return out
}

func placeCandidates(free []interval.Interval, resolved resolvedEventType, hostID string) []Slot {
	if resolved.Length <= 0 || resolved.SlotInterval <= 0 {
		return nil
	}
	var out []Slot
	for _, f := range free {
		for start := f.Start.Add(resolved.BufferBefore); ; start = start.Add(resolved.SlotInterval) {
			end := start.Add(resolved.Length)
			inflatedEnd := end.Add(resolved.BufferAfter)
			if inflatedEnd.After(f.End) {
				break
			}
			slot := Slot{HostID: hostID, Start: start, End: end}
			if resolved.BufferBefore > 0 {
				bb := interval.Interval{Start: start.Add(-resolved.BufferBefore), End: start}
				slot.BufferBefore = &bb
			}
			if resolved.BufferAfter > 0 {
				ba := interval.Interval{Start: end, End: end.Add(resolved.BufferAfter)}
				slot.BufferAfter = &ba
			}
			out = append(out, slot)
		}
	}
	return out
}

func applyCaps(input AvailabilityInput, hostID string, resolved resolvedEventType, candidates []Slot) []Slot {
	existingDay := map[string]int{}
	existingWeek := map[string]int{}
	for _, b := range input.Bookings {
		if b.HostID != hostID || b.EventTypeID != input.EventType.ID {
			continue
		}
		existingDay[dayKey(b.Start)]++
		existingWeek[weekKey(b.Start)]++
	}

	newDay := map[string]int{}
	newWeek := map[string]int{}
	var out []Slot
	for _, s := range candidates {
		dk := dayKey(s.Start)
		wk := weekKey(s.Start)
		if resolved.MaxPerDay != nil && existingDay[dk]+newDay[dk]+1 > *resolved.MaxPerDay {
			continue
		}
		if resolved.MaxPerWeek != nil && existingWeek[wk]+newWeek[wk]+1 > *resolved.MaxPerWeek {
			continue
		}
		newDay[dk]++
		newWeek[wk]++
		out = append(out, s)
	}
	return out
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// weekKey returns the ISO-8601 week-year concatenated with the ISO week
// number, e.g. "2025-01" for the Monday that starts ISO week 1 of 2025 even
// though the calendar date falls in December 2024.
func weekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-%02d", year, week)
}
