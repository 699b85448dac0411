package policy

// AllowResult is the outcome value produced by the AllMustAllow and
// AnyMustAllow built-in resolvers.
type AllowResult struct {
	Allowed bool
}

// AllMustAllowResolver returns a resolver that allows iff no rule denied
// (skips are permitted either way).
func AllMustAllowResolver() Resolver[AllowResult] {
	return func(reasons []Reason, input any, facts map[string]any) AllowResult {
		for _, r := range reasons {
			if r.Outcome == OutcomeDeny {
				return AllowResult{Allowed: false}
			}
		}
		return AllowResult{Allowed: true}
	}
}

// AnyMustAllowResolver returns a resolver that allows iff at least one rule
// allowed.
func AnyMustAllowResolver() Resolver[AllowResult] {
	return func(reasons []Reason, input any, facts map[string]any) AllowResult {
		for _, r := range reasons {
			if r.Outcome == OutcomeAllow {
				return AllowResult{Allowed: true}
			}
		}
		return AllowResult{Allowed: false}
	}
}

// WeightedScoreResolver returns a resolver that sums a per-rule weight
// table over every allow result, producing an integer score. Rules absent
// from weights contribute zero.
func WeightedScoreResolver(weights map[string]int) Resolver[int] {
	return func(reasons []Reason, input any, facts map[string]any) int {
		score := 0
		for _, r := range reasons {
			if r.Outcome != OutcomeAllow {
				continue
			}
			score += weights[r.RuleID]
		}
		return score
	}
}
