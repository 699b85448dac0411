package slot

import (
	"testing"
	"time"

	"github.com/example/schedpolicy/interval"
	"github.com/example/schedpolicy/timewindow"
)

func weekdayRule(days []time.Weekday, startHour, endHour int, loc *time.Location) ScheduleRule {
	return ScheduleRule{
		Days:      days,
		StartTime: timewindow.LocalTime{Hour: startHour},
		EndTime:   timewindow.LocalTime{Hour: endHour},
		Zone:      loc,
	}
}

func TestExpandScheduleWeekdayWindow(t *testing.T) {
	sched := Schedule{
		ID: "s1",
		Rules: []ScheduleRule{
			weekdayRule([]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, 9, 17, time.UTC),
		},
	}
	rangeIv := interval.Interval{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	got := ExpandSchedule(sched, rangeIv)
	if len(got) != 1 {
		t.Fatalf("expected one interval, got %v", got)
	}
	wantStart := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC)
	if !got[0].Start.Equal(wantStart) || !got[0].End.Equal(wantEnd) {
		t.Fatalf("got %v, want [%v,%v)", got[0], wantStart, wantEnd)
	}
}

func TestExpandScheduleRespectsEffectiveRange(t *testing.T) {
	from := timewindow.CivilDate{Year: 2024, Month: time.January, Day: 10}
	rule := weekdayRule([]time.Weekday{time.Monday}, 9, 17, time.UTC)
	rule.EffectiveFrom = &from
	sched := Schedule{Rules: []ScheduleRule{rule}}

	// Monday 2024-01-08 is before EffectiveFrom; Monday 2024-01-15 is after.
	rangeIv := interval.Interval{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	}
	got := ExpandSchedule(sched, rangeIv)
	if len(got) != 1 {
		t.Fatalf("expected exactly one occurrence after effectiveFrom, got %v", got)
	}
	if got[0].Start.Day() != 15 {
		t.Fatalf("expected occurrence on 2024-01-15, got %v", got[0].Start)
	}
}

func TestExpandScheduleOverrideRemovesAvailability(t *testing.T) {
	sched := Schedule{
		Rules: []ScheduleRule{weekdayRule([]time.Weekday{time.Monday}, 9, 17, time.UTC)},
		Overrides: []ScheduleOverride{
			{Date: timewindow.CivilDate{Year: 2024, Month: time.January, Day: 1}, Available: false},
		},
	}
	rangeIv := interval.Interval{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	got := ExpandSchedule(sched, rangeIv)
	if len(got) != 0 {
		t.Fatalf("expected no availability, got %v", got)
	}
}

func TestExpandScheduleOverrideAddsAvailability(t *testing.T) {
	start := timewindow.LocalTime{Hour: 18}
	end := timewindow.LocalTime{Hour: 20}
	sched := Schedule{
		Overrides: []ScheduleOverride{
			{Date: timewindow.CivilDate{Year: 2024, Month: time.January, Day: 1}, Available: true, StartTime: &start, EndTime: &end},
		},
	}
	rangeIv := interval.Interval{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	got := ExpandSchedule(sched, rangeIv)
	if len(got) != 1 {
		t.Fatalf("expected one added interval, got %v", got)
	}
	if got[0].Start.Hour() != 18 || got[0].End.Hour() != 20 {
		t.Fatalf("got %v", got[0])
	}
}

func TestExpandScheduleOverrideAvailableNoTimesIsNoop(t *testing.T) {
	sched := Schedule{
		Rules: []ScheduleRule{weekdayRule([]time.Weekday{time.Monday}, 9, 17, time.UTC)},
		Overrides: []ScheduleOverride{
			{Date: timewindow.CivilDate{Year: 2024, Month: time.January, Day: 1}, Available: true},
		},
	}
	rangeIv := interval.Interval{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	got := ExpandSchedule(sched, rangeIv)
	if len(got) != 1 || got[0].Start.Hour() != 9 {
		t.Fatalf("expected unchanged base availability, got %v", got)
	}
}

func TestExpandScheduleRemovalOnDateWithoutBaseAvailabilityIsNoop(t *testing.T) {
	sched := Schedule{
		Overrides: []ScheduleOverride{
			{Date: timewindow.CivilDate{Year: 2024, Month: time.January, Day: 1}, Available: false},
		},
	}
	rangeIv := interval.Interval{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	got := ExpandSchedule(sched, rangeIv)
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestExpandScheduleEmptyRuleSetYieldsEmpty(t *testing.T) {
	rangeIv := interval.Interval{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	got := ExpandSchedule(Schedule{}, rangeIv)
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestExpandScheduleClipsToRange(t *testing.T) {
	sched := Schedule{
		Rules: []ScheduleRule{weekdayRule([]time.Weekday{time.Monday}, 9, 17, time.UTC)},
	}
	rangeIv := interval.Interval{
		Start: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC),
	}
	got := ExpandSchedule(sched, rangeIv)
	if len(got) != 1 {
		t.Fatalf("expected one clipped interval, got %v", got)
	}
	if !got[0].Start.Equal(rangeIv.Start) || !got[0].End.Equal(rangeIv.End) {
		t.Fatalf("got %v, want clipped to %v", got[0], rangeIv)
	}
}
