package timewindow

import (
	"testing"
	"time"
)

func TestParseLocalTime(t *testing.T) {
	cases := []struct {
		in      string
		want    LocalTime
		wantErr bool
	}{
		{"09:00", LocalTime{9, 0}, false},
		{"23:59", LocalTime{23, 59}, false},
		{"00:00", LocalTime{0, 0}, false},
		{"24:00", LocalTime{}, true},
		{"9:00", LocalTime{9, 0}, false},
		{"bogus", LocalTime{}, true},
	}
	for _, c := range cases {
		got, err := ParseLocalTime(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseLocalTime(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLocalTime(%q): unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseLocalTime(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestLocalToUTCUnambiguous(t *testing.T) {
	nyc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	got := LocalToUTC(CivilDate{2024, time.January, 15}, LocalTime{9, 0}, nyc)
	want := time.Date(2024, time.January, 15, 14, 0, 0, 0, time.UTC) // EST is UTC-5
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLocalToUTCSummerOffset(t *testing.T) {
	nyc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	got := LocalToUTC(CivilDate{2024, time.July, 15}, LocalTime{9, 0}, nyc)
	want := time.Date(2024, time.July, 15, 13, 0, 0, 0, time.UTC) // EDT is UTC-4
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLocalToUTCSpringForwardGap(t *testing.T) {
	nyc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 2024-03-10: US clocks spring forward at 02:00 local, skipping to 03:00.
	got := LocalToUTC(CivilDate{2024, time.March, 10}, LocalTime{2, 30}, nyc)
	back := got.In(nyc)
	if back.Hour() < 3 {
		t.Fatalf("expected the post-gap offset to apply, got local time %v", back)
	}
}

func TestLocalToUTCFallBackAmbiguous(t *testing.T) {
	nyc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 2024-11-03: US clocks fall back at 02:00 local, repeating 01:00-02:00.
	got := LocalToUTC(CivilDate{2024, time.November, 3}, LocalTime{1, 30}, nyc)
	_, offset := got.In(nyc).Zone()
	if offset != -5*60*60 {
		t.Fatalf("expected the later (post-transition, EST) offset, got %ds", offset)
	}
}

func TestDateOfAndCivilDate(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	instant := time.Date(2024, time.January, 1, 1, 0, 0, 0, time.UTC) // 10:00 JST
	got := DateOf(instant, tokyo)
	want := CivilDate{2024, time.January, 1}
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if got.AddDays(1).String() != "2024-01-02" {
		t.Fatalf("AddDays: got %v", got.AddDays(1))
	}
	if !got.Before(got.AddDays(1)) {
		t.Fatalf("Before: expected true")
	}
}
