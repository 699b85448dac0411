package timewindow

import (
	"strings"
	"testing"
	"time"
)

func TestDescribeLifetime(t *testing.T) {
	if got := Describe(LifetimeWindow(), time.Now()); got != "lifetime (no reset)" {
		t.Fatalf("got %q", got)
	}
}

func TestDescribeCalendarMentionsUnit(t *testing.T) {
	at := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	got := Describe(CalendarWindow(UnitMonth, time.UTC), at)
	if !strings.Contains(got, "month") {
		t.Fatalf("expected unit name in description, got %q", got)
	}
}

func TestDescribeFixedMentionsBothEnds(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	got := Describe(FixedWindow(start, end), time.Now())
	if !strings.Contains(got, "2024-01-01") || !strings.Contains(got, "2024-02-01") {
		t.Fatalf("expected both bounds in description, got %q", got)
	}
}
