// Package limit implements the pure arithmetic behind quota checks: whether
// a consume is allowed, when a blocked actor's quota will next be
// available, and how much quota remains.
package limit

import (
	"time"

	"github.com/example/schedpolicy/timewindow"
)

// Limit is an integer cap, or "unlimited" when Unlimited is true (the
// integer value is then ignored).
type Limit struct {
	Value     int
	Unlimited bool
}

// Unlimited is the canonical unlimited Limit value.
var Unlimited = Limit{Unlimited: true}

// LimitOf wraps a finite integer cap.
func LimitOf(v int) Limit {
	return Limit{Value: v}
}

// ObligationConsume is the well-known obligation type checkLimit attaches
// to a successful consume.
const ObligationConsume = "consume"

// Obligation is a declarative instruction attached to an allow result,
// opaque to the engine that produced it.
type Obligation struct {
	Type   string
	Params map[string]any
}

// CheckResult is the outcome of CheckLimit.
type CheckResult struct {
	Allowed    bool
	Remaining  Limit
	Obligation *Obligation
}

// CheckLimit reports whether consuming consume more units is allowed given
// limit and the amount already used.
func CheckLimit(limit Limit, used int, consume int) CheckResult {
	if limit.Unlimited {
		return CheckResult{Allowed: true, Remaining: Unlimited}
	}
	if used+consume > limit.Value {
		remaining := limit.Value - used
		if remaining < 0 {
			remaining = 0
		}
		return CheckResult{Allowed: false, Remaining: LimitOf(remaining)}
	}
	return CheckResult{
		Allowed:   true,
		Remaining: LimitOf(limit.Value - used - consume),
		Obligation: &Obligation{
			Type:   ObligationConsume,
			Params: map[string]any{"amount": consume},
		},
	}
}

// Availability is the tagged result of AvailableAt: exactly one of Now,
// At, Never or Unknown is meaningful, selected by Kind.
type Availability struct {
	Kind   AvailabilityKind
	At     time.Time
	Reason string
}

// AvailabilityKind tags which branch of Availability is populated.
type AvailabilityKind int

const (
	AvailabilityNow AvailabilityKind = iota
	AvailabilityAt
	AvailabilityNever
	AvailabilityUnknown
)

// AvailableAt reports when, relative to at, the limit next permits a
// consume, given window governs how/if usage resets.
func AvailableAt(limit Limit, used int, window *timewindow.WindowSpec, at time.Time) Availability {
	if limit.Unlimited || used < limit.Value {
		return Availability{Kind: AvailabilityNow, At: at}
	}

	if window == nil {
		return Availability{Kind: AvailabilityNever, Reason: "no window configured"}
	}
	switch window.Kind {
	case timewindow.WindowLifetime, timewindow.WindowFixed:
		return Availability{Kind: AvailabilityNever, Reason: "window does not reset"}
	}

	reset, ok := timewindow.NextReset(*window, at)
	if !ok {
		return Availability{Kind: AvailabilityUnknown, Reason: "window has no computable reset"}
	}
	return Availability{Kind: AvailabilityAt, At: reset}
}

// RemainingQuota reports how many units remain under limit given used.
func RemainingQuota(limit Limit, used int) Limit {
	if limit.Unlimited {
		return Unlimited
	}
	remaining := limit.Value - used
	if remaining < 0 {
		remaining = 0
	}
	return LimitOf(remaining)
}
