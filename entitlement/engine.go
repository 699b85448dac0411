package entitlement

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/schedpolicy/internal/logging"
	"github.com/example/schedpolicy/limit"
)

// CheckOutcome is the resolver-produced value of a check Decision.
type CheckOutcome struct {
	Allowed bool
}

// Decision is the result of a check: the outcome, one explanation, the
// consume obligation when allowed, and the entitlements map that was
// loaded. It does not depend on the policy package and carries no per-rule
// reasons or trace, since entitlement checks don't run a fact/rule graph —
// only a single allow/deny judgment plus its obligation.
type Decision struct {
	Outcome      CheckOutcome
	Explanation  string
	Obligation   *limit.Obligation
	Entitlements map[string]Entitlement
}

// CapabilityStatus tags which branch of a Capability is populated.
type CapabilityStatus int

const (
	CapabilityAvailable CapabilityStatus = iota
	CapabilityExhausted
	CapabilityUnavailable
)

// Capability is one action's entry in a capabilities() response.
type Capability struct {
	Action      string
	Status      CapabilityStatus
	Quota       *QuotaState
	Obligation  *limit.Obligation
	Reason      string
	AvailableAt *time.Time
}

// RemainingUses is the result of remainingUses(): either a finite use
// count, Unlimited, or LimitedBy describing why it's zero.
type RemainingUses struct {
	Uses      limit.Limit
	LimitedBy string
}

// Engine wraps an Adapter so callers can query entitlements by actor id.
type Engine struct {
	adapter Adapter
	logger  *slog.Logger
	now     func() time.Time
}

// NewEngine builds an Engine that logs to slog.Default().
func NewEngine(adapter Adapter) *Engine {
	return NewEngineWithLogger(adapter, nil)
}

// NewEngineWithLogger builds an Engine that logs to logger (or
// slog.Default() if nil).
func NewEngineWithLogger(adapter Adapter, logger *slog.Logger) *Engine {
	return &Engine{adapter: adapter, logger: logging.Default(logger), now: time.Now}
}

func (e *Engine) at(override *time.Time) time.Time {
	if override != nil {
		return *override
	}
	return e.now()
}

// Check evaluates whether actor may consume more of action's quota. An
// action with no defined entitlement denies with a well-formed reason,
// not an error.
func (e *Engine) Check(ctx context.Context, actorID, action string, consume int, at *time.Time) (Decision, error) {
	logger := logging.Service(ctx, e.logger, "entitlement.Engine", "Check", "actor_id", actorID, "action", action)

	entitlements, err := e.adapter.GetEntitlements(ctx, actorID)
	if err != nil {
		logger.Error("load entitlements failed", "error", err)
		return Decision{}, err
	}

	ent, ok := entitlements[action]
	if !ok {
		return Decision{
			Outcome:      CheckOutcome{Allowed: false},
			Explanation:  "No entitlement defined",
			Entitlements: entitlements,
		}, nil
	}

	evalAt := e.at(at)
	counted := countingInterval(ent, evalAt)
	used, err := e.adapter.GetUsage(ctx, actorID, action, counted)
	if err != nil {
		logger.Error("load usage failed", "error", err)
		return Decision{}, err
	}

	result := limit.CheckLimit(ent.Limit, used, consume)
	explanation := "quota available"
	if !result.Allowed {
		explanation = "quota exhausted"
	}
	return Decision{
		Outcome:      CheckOutcome{Allowed: result.Allowed},
		Explanation:  explanation,
		Obligation:   result.Obligation,
		Entitlements: entitlements,
	}, nil
}

// Capabilities reports, per requested action, whether actor can currently
// consume it.
func (e *Engine) Capabilities(ctx context.Context, actorID string, actions []string, at *time.Time) ([]Capability, error) {
	logger := logging.Service(ctx, e.logger, "entitlement.Engine", "Capabilities", "actor_id", actorID)

	entitlements, err := e.adapter.GetEntitlements(ctx, actorID)
	if err != nil {
		logger.Error("load entitlements failed", "error", err)
		return nil, err
	}

	evalAt := e.at(at)
	capabilities := make([]Capability, 0, len(actions))
	for _, action := range actions {
		ent, ok := entitlements[action]
		if !ok {
			capabilities = append(capabilities, Capability{
				Action: action,
				Status: CapabilityUnavailable,
				Reason: "No entitlement defined",
			})
			continue
		}

		counted := countingInterval(ent, evalAt)
		used, err := e.adapter.GetUsage(ctx, actorID, action, counted)
		if err != nil {
			logger.Error("load usage failed", "error", err, "action", action)
			return nil, err
		}

		state := quotaState(action, ent, used, evalAt)
		result := limit.CheckLimit(ent.Limit, used, 1)
		if result.Allowed {
			capabilities = append(capabilities, Capability{
				Action:     action,
				Status:     CapabilityAvailable,
				Quota:      &state,
				Obligation: result.Obligation,
			})
			continue
		}

		availability := limit.AvailableAt(ent.Limit, used, ent.Window, evalAt)
		var availableAt *time.Time
		if availability.Kind == limit.AvailabilityAt {
			availableAt = &availability.At
		}
		capabilities = append(capabilities, Capability{
			Action:      action,
			Status:      CapabilityExhausted,
			Quota:       &state,
			Reason:      availability.Reason,
			AvailableAt: availableAt,
		})
	}
	return capabilities, nil
}

// AvailableAt reports when action next becomes available to actor.
func (e *Engine) AvailableAt(ctx context.Context, actorID, action string, at *time.Time) (limit.Availability, error) {
	entitlements, err := e.adapter.GetEntitlements(ctx, actorID)
	if err != nil {
		return limit.Availability{}, err
	}
	ent, ok := entitlements[action]
	if !ok {
		return limit.Availability{Kind: limit.AvailabilityNever, Reason: "No entitlement defined"}, nil
	}

	evalAt := e.at(at)
	counted := countingInterval(ent, evalAt)
	used, err := e.adapter.GetUsage(ctx, actorID, action, counted)
	if err != nil {
		return limit.Availability{}, err
	}
	return limit.AvailableAt(ent.Limit, used, ent.Window, evalAt), nil
}

// RemainingUses reports how many more times actor may invoke action.
func (e *Engine) RemainingUses(ctx context.Context, actorID, action string, at *time.Time) (RemainingUses, error) {
	entitlements, err := e.adapter.GetEntitlements(ctx, actorID)
	if err != nil {
		return RemainingUses{}, err
	}
	ent, ok := entitlements[action]
	if !ok {
		return RemainingUses{Uses: limit.LimitOf(0), LimitedBy: "no-entitlement"}, nil
	}
	if ent.Limit.Unlimited {
		return RemainingUses{Uses: limit.Unlimited, LimitedBy: "none"}, nil
	}

	evalAt := e.at(at)
	counted := countingInterval(ent, evalAt)
	used, err := e.adapter.GetUsage(ctx, actorID, action, counted)
	if err != nil {
		return RemainingUses{}, err
	}
	return RemainingUses{Uses: limit.RemainingQuota(ent.Limit, used), LimitedBy: "none"}, nil
}

// Dashboard reports every action's QuotaState for actor.
func (e *Engine) Dashboard(ctx context.Context, actorID string, at *time.Time) (map[string]QuotaState, error) {
	entitlements, err := e.adapter.GetEntitlements(ctx, actorID)
	if err != nil {
		return nil, err
	}

	evalAt := e.at(at)
	dashboard := make(map[string]QuotaState, len(entitlements))
	for action, ent := range entitlements {
		counted := countingInterval(ent, evalAt)
		used, err := e.adapter.GetUsage(ctx, actorID, action, counted)
		if err != nil {
			return nil, err
		}
		dashboard[action] = quotaState(action, ent, used, evalAt)
	}
	return dashboard, nil
}
