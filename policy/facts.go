// Package policy evaluates an entitlement/quota policy: load a named,
// typed fact graph in dependency order, run an ordered list of pure
// predicate rules, combine per-rule outcomes via a pluggable resolver, and
// return a decision with reasons, obligations and a trace.
package policy

import (
	"context"
	"errors"
	"fmt"
)

// ErrFactCycle is returned (wrapped with the offending fact's name) when a
// fact graph's dependency declarations form a cycle.
var ErrFactCycle = errors.New("policy: fact dependency cycle")

// ErrUnknownFact is returned (wrapped with the offending fact's name) when
// a fact declares a dependency that is not itself declared in the policy.
var ErrUnknownFact = errors.New("policy: unknown fact dependency")

// Fact describes one named value in the dependency graph loaded before
// rule evaluation. Load receives the input and the map of every fact
// loaded so far, which always includes each fact it declared as a
// dependency.
type Fact struct {
	Name         string
	Dependencies []string
	Load         func(ctx context.Context, input any, loaded map[string]any) (any, error)
}

type factVisitState int

const (
	factUnvisited factVisitState = iota
	factInProgress
	factDone
)

// loadFacts topologically orders facts by Dependencies and runs each
// Load in that order, returning the accumulated map plus the order facts
// were loaded in (exposed via the trace).
func loadFacts(ctx context.Context, input any, facts []Fact) (map[string]any, []string, error) {
	byName := make(map[string]Fact, len(facts))
	for _, f := range facts {
		byName[f.Name] = f
	}

	state := make(map[string]factVisitState, len(facts))
	loaded := make(map[string]any, len(facts))
	var order []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case factDone:
			return nil
		case factInProgress:
			return fmt.Errorf("%w: %s", ErrFactCycle, name)
		}
		fact, ok := byName[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownFact, name)
		}

		state[name] = factInProgress
		for _, dep := range fact.Dependencies {
			if _, ok := byName[dep]; !ok {
				return fmt.Errorf("%w: %s", ErrUnknownFact, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		value, err := fact.Load(ctx, input, loaded)
		if err != nil {
			return err
		}
		loaded[name] = value
		state[name] = factDone
		order = append(order, name)
		return nil
	}

	for _, f := range facts {
		if err := visit(f.Name); err != nil {
			return nil, nil, err
		}
	}

	return loaded, order, nil
}
