// Package entitlement answers quota questions — check, capabilities,
// availableAt, remainingUses, dashboard — over an actor's per-action
// (limit, window) entitlements, built atop the limit and timewindow
// packages.
package entitlement

import (
	"context"
	"time"

	"github.com/example/schedpolicy/interval"
	"github.com/example/schedpolicy/limit"
	"github.com/example/schedpolicy/timewindow"
)

// Entitlement is a (limit, window) pair keyed by action, per actor. A nil
// Window means usage is counted lifetime.
type Entitlement struct {
	Limit  limit.Limit
	Window *timewindow.WindowSpec
}

// QuotaState is a projected view of an entitlement's state at a point in
// time, suitable for dashboards.
type QuotaState struct {
	Name      string
	Limit     limit.Limit
	Used      int
	Remaining limit.Limit
	Window    *timewindow.WindowSpec
	ResetsAt  *time.Time
	Interval  interval.Interval
}

// Adapter is the caller-supplied collaborator an Engine wraps.
type Adapter interface {
	GetEntitlements(ctx context.Context, actorID string) (map[string]Entitlement, error)
	GetUsage(ctx context.Context, actorID string, action string, counted interval.Interval) (int, error)
}

func countingInterval(e Entitlement, at time.Time) interval.Interval {
	if e.Window == nil {
		start, end := timewindow.ResolveWindow(timewindow.LifetimeWindow(), at)
		return interval.Interval{Start: start, End: end}
	}
	start, end := timewindow.ResolveWindow(*e.Window, at)
	return interval.Interval{Start: start, End: end}
}

func resetsAt(e Entitlement, at time.Time) *time.Time {
	if e.Window == nil {
		return nil
	}
	reset, ok := timewindow.NextReset(*e.Window, at)
	if !ok {
		return nil
	}
	return &reset
}

func quotaState(action string, e Entitlement, used int, at time.Time) QuotaState {
	return QuotaState{
		Name:      action,
		Limit:     e.Limit,
		Used:      used,
		Remaining: limit.RemainingQuota(e.Limit, used),
		Window:    e.Window,
		ResetsAt:  resetsAt(e, at),
		Interval:  countingInterval(e, at),
	}
}
