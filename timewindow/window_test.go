package timewindow

import (
	"testing"
	"time"
)

func TestResolveWindowCalendar(t *testing.T) {
	at := time.Date(2024, time.January, 15, 12, 34, 0, 0, time.UTC)
	spec := CalendarWindow(UnitMonth, time.UTC)
	start, end := ResolveWindow(spec, at)

	wantStart := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Fatalf("got [%v, %v), want [%v, %v)", start, end, wantStart, wantEnd)
	}
}

func TestResolveWindowSliding(t *testing.T) {
	at := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	spec := SlidingWindow(24 * time.Hour)
	start, end := ResolveWindow(spec, at)
	if !end.Equal(at) {
		t.Fatalf("sliding window end should equal at, got %v", end)
	}
	if !start.Equal(at.Add(-24 * time.Hour)) {
		t.Fatalf("sliding window start wrong: %v", start)
	}
}

func TestResolveWindowLifetimeIndependentOfAt(t *testing.T) {
	spec := LifetimeWindow()
	start1, end1 := ResolveWindow(spec, time.Now())
	start2, end2 := ResolveWindow(spec, time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC))
	if !start1.Equal(start2) || !end1.Equal(end2) {
		t.Fatalf("lifetime window depends on at: [%v,%v) vs [%v,%v)", start1, end1, start2, end2)
	}
}

func TestResolveWindowFixedVerbatim(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	spec := FixedWindow(start, end)
	gotStart, gotEnd := ResolveWindow(spec, time.Now())
	if !gotStart.Equal(start) || !gotEnd.Equal(end) {
		t.Fatalf("fixed window not verbatim: [%v,%v)", gotStart, gotEnd)
	}
}

func TestNextResetCalendar(t *testing.T) {
	at := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	spec := CalendarWindow(UnitDay, time.UTC)
	reset, ok := NextReset(spec, at)
	if !ok {
		t.Fatal("expected ok")
	}
	want := time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC)
	if !reset.Equal(want) {
		t.Fatalf("got %v, want %v", reset, want)
	}
}

func TestNextResetLifetimeAndFixedNone(t *testing.T) {
	at := time.Now()
	if _, ok := NextReset(LifetimeWindow(), at); ok {
		t.Fatal("lifetime window should never reset")
	}
	if _, ok := NextReset(FixedWindow(at, at.Add(time.Hour)), at); ok {
		t.Fatal("fixed window should never reset")
	}
}

func TestNextResetSliding(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	spec := SlidingWindow(time.Hour)
	reset, ok := NextReset(spec, at)
	if !ok || !reset.Equal(at.Add(time.Hour)) {
		t.Fatalf("got %v, ok=%v", reset, ok)
	}
}

func TestResolveWindowCalendarStartIsIdempotent(t *testing.T) {
	at := time.Date(2024, time.March, 3, 7, 0, 0, 0, time.UTC)
	spec := CalendarWindow(UnitWeek, time.UTC)
	start, _ := ResolveWindow(spec, at)
	if again := StartOfUnit(start, UnitWeek, time.UTC); !again.Equal(start) {
		t.Fatalf("resolved start not idempotent: %v != %v", again, start)
	}
}
