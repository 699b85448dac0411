package policy

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Outcome tags which branch of a RuleResult is populated.
type Outcome int

const (
	OutcomeAllow Outcome = iota
	OutcomeDeny
	OutcomeSkip
)

// String renders the outcome as the word used in Reason.Explanation-facing
// logs and traces.
func (o Outcome) String() string {
	switch o {
	case OutcomeAllow:
		return "allow"
	case OutcomeDeny:
		return "deny"
	case OutcomeSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Obligation is a declarative instruction attached to an allow result,
// opaque to the engine that produced it.
type Obligation struct {
	Type   string
	Params map[string]any
}

// RuleResult is the tagged outcome a Rule's Evaluate function returns.
type RuleResult struct {
	Outcome     Outcome
	Explanation string
	Obligations []Obligation
}

// Allow builds an allow RuleResult, optionally carrying obligations.
func Allow(explanation string, obligations ...Obligation) RuleResult {
	return RuleResult{Outcome: OutcomeAllow, Explanation: explanation, Obligations: obligations}
}

// Deny builds a deny RuleResult.
func Deny(explanation string) RuleResult {
	return RuleResult{Outcome: OutcomeDeny, Explanation: explanation}
}

// Skip builds a skip RuleResult: the rule declines to have an opinion.
func Skip(explanation string) RuleResult {
	return RuleResult{Outcome: OutcomeSkip, Explanation: explanation}
}

// Rule is one named predicate in a policy's ordered rule list.
type Rule struct {
	ID       string
	Evaluate func(ctx context.Context, input any, facts map[string]any) (RuleResult, error)
}

// Reason records one rule's outcome for the decision trace, in the same
// order the rule appears in the policy.
type Reason struct {
	RuleID      string
	Outcome     Outcome
	Explanation string
	Metadata    map[string]any
}

// Trace captures the bookkeeping around one evaluation: when it started,
// how long it took, which facts were loaded (in load order) and a
// snapshot of their values, plus a correlation id and a fingerprint
// derived deterministically from the decision's reasons.
type Trace struct {
	ID          string
	EvaluatedAt time.Time
	DurationMs  int64
	FactOrder   []string
	Facts       map[string]any
	Fingerprint string
}

// Decision is the result of evaluating a Policy: the resolver's outcome
// value, the ordered per-rule reasons, the concatenated obligations of
// every allow result, and a trace. T is whatever type the policy's
// Resolver produces.
type Decision[T any] struct {
	Outcome     T
	Reasons     []Reason
	Obligations []Obligation
	Trace       Trace
}

// Resolver turns the ordered per-rule results into a decision's Outcome
// value.
type Resolver[T any] func(reasons []Reason, input any, facts map[string]any) T

// Policy bundles a fact graph, an ordered rule list and a resolver.
type Policy[T any] struct {
	Facts    []Fact
	Rules    []Rule
	Resolver Resolver[T]
}

// IDGenerator produces correlation ids for traces. The default generates a
// random v4 UUID; callers needing a specific scheme can inject their own.
type IDGenerator func() string

func defaultIDGenerator() string {
	return uuid.NewString()
}

// Evaluate runs policy against input: loads facts in topological order,
// evaluates every rule in list order without short-circuiting, resolves
// the outcome, concatenates obligations from allow results, and returns
// the full Decision. Fact-loader or rule errors propagate unchanged; no
// partial decision is returned in that case.
func Evaluate[T any](ctx context.Context, policy Policy[T], input any) (Decision[T], error) {
	return EvaluateWithClock(ctx, policy, input, time.Now, defaultIDGenerator)
}

// EvaluateWithClock is Evaluate with the trace's wall clock and id
// generator injected, for deterministic tests.
func EvaluateWithClock[T any](ctx context.Context, policy Policy[T], input any, now func() time.Time, idGen IDGenerator) (Decision[T], error) {
	start := now()

	facts, order, err := loadFacts(ctx, input, policy.Facts)
	if err != nil {
		return Decision[T]{}, err
	}

	reasons := make([]Reason, 0, len(policy.Rules))
	var obligations []Obligation
	for _, rule := range policy.Rules {
		result, err := rule.Evaluate(ctx, input, facts)
		if err != nil {
			return Decision[T]{}, err
		}
		reasons = append(reasons, Reason{
			RuleID:      rule.ID,
			Outcome:     result.Outcome,
			Explanation: result.Explanation,
		})
		if result.Outcome == OutcomeAllow {
			obligations = append(obligations, result.Obligations...)
		}
	}

	var outcome T
	if policy.Resolver != nil {
		outcome = policy.Resolver(reasons, input, facts)
	}

	trace := Trace{
		ID:          idGen(),
		EvaluatedAt: start,
		DurationMs:  now().Sub(start).Milliseconds(),
		FactOrder:   order,
		Facts:       facts,
		Fingerprint: fingerprint(reasons),
	}

	return Decision[T]{
		Outcome:     outcome,
		Reasons:     reasons,
		Obligations: obligations,
		Trace:       trace,
	}, nil
}

// fingerprint derives a short, deterministic digest of a decision's
// reasons, useful for deduplicating identical decisions in logs without
// comparing full reason lists. It is metadata only: nothing in the
// decision's evaluated outcome depends on it.
func fingerprint(reasons []Reason) string {
	h, _ := blake2b.New256(nil)
	for _, r := range reasons {
		h.Write([]byte(r.RuleID))
		h.Write([]byte{0})
		h.Write([]byte(r.Outcome.String()))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
