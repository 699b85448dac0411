package timewindow

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Describe renders spec as an operator-facing string, relative to at. It is
// a display convenience only: nothing in either core reads the result back.
func Describe(spec WindowSpec, at time.Time) string {
	switch spec.Kind {
	case WindowLifetime:
		return "lifetime (no reset)"
	case WindowFixed:
		return fmt.Sprintf("fixed window %s to %s", spec.FixedStart.Format(timeFormat), spec.FixedEnd.Format(timeFormat))
	case WindowCalendar:
		reset, _ := NextReset(spec, at)
		return fmt.Sprintf("%s window, resets %s", spec.Unit, humanize.RelTime(reset, at, "ago", "from now"))
	case WindowSliding:
		return fmt.Sprintf("trailing %s window", humanize.RelTime(at, at.Add(spec.Duration), "ago", "from now"))
	default:
		return "unspecified window"
	}
}

const timeFormat = "2006-01-02T15:04:05Z07:00"
