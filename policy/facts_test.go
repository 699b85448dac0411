package policy

import (
	"context"
	"errors"
	"testing"
)

func constFact(name string, deps []string, value any) Fact {
	return Fact{
		Name:         name,
		Dependencies: deps,
		Load: func(ctx context.Context, input any, loaded map[string]any) (any, error) {
			return value, nil
		},
	}
}

func TestLoadFactsOrdersByDependency(t *testing.T) {
	facts := []Fact{
		constFact("b", []string{"a"}, 2),
		constFact("a", nil, 1),
		constFact("c", []string{"a", "b"}, 3),
	}
	loaded, order, err := loadFacts(context.Background(), nil, facts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded["a"] != 1 || loaded["b"] != 2 || loaded["c"] != 3 {
		t.Fatalf("got %v", loaded)
	}
	posA, posB, posC := indexOf(order, "a"), indexOf(order, "b"), indexOf(order, "c")
	if posA >= posB || posB >= posC {
		t.Fatalf("expected order a,b,c, got %v", order)
	}
}

func TestLoadFactsDetectsCycle(t *testing.T) {
	facts := []Fact{
		constFact("x", []string{"y"}, 1),
		constFact("y", []string{"x"}, 2),
	}
	_, _, err := loadFacts(context.Background(), nil, facts)
	if !errors.Is(err, ErrFactCycle) {
		t.Fatalf("expected ErrFactCycle, got %v", err)
	}
}

func TestLoadFactsDetectsUnknownDependency(t *testing.T) {
	facts := []Fact{
		constFact("x", []string{"missing"}, 1),
	}
	_, _, err := loadFacts(context.Background(), nil, facts)
	if !errors.Is(err, ErrUnknownFact) {
		t.Fatalf("expected ErrUnknownFact, got %v", err)
	}
}

func TestLoadFactsSeesDependencyValues(t *testing.T) {
	facts := []Fact{
		constFact("base", nil, 10),
		{
			Name:         "derived",
			Dependencies: []string{"base"},
			Load: func(ctx context.Context, input any, loaded map[string]any) (any, error) {
				return loaded["base"].(int) * 2, nil
			},
		},
	}
	loaded, _, err := loadFacts(context.Background(), nil, facts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded["derived"] != 20 {
		t.Fatalf("got %v", loaded["derived"])
	}
}

func TestLoadFactsPropagatesLoaderError(t *testing.T) {
	wantErr := errors.New("boom")
	facts := []Fact{
		{
			Name: "failing",
			Load: func(ctx context.Context, input any, loaded map[string]any) (any, error) {
				return nil, wantErr
			},
		},
	}
	_, _, err := loadFacts(context.Background(), nil, facts)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
