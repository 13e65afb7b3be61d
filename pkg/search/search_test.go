package search

import (
	"slices"
	"testing"
)

// grid builds a neighbor function from an explicit adjacency table with
// sorted neighbor lists.
func grid(adj map[string][]string) func(string) []string {
	return func(n string) []string { return adj[n] }
}

func TestUniformCostShortestPath(t *testing.T) {
	adj := map[string][]string{
		"a": {"b", "c"},
		"b": {"a", "d"},
		"c": {"a", "d"},
		"d": {"b", "c"},
	}

	path, ok := UniformCost("a", Options[string]{
		Neighbors: grid(adj),
		Goal:      func(n string) bool { return n == "d" },
	})
	if !ok {
		t.Fatal("no path found")
	}
	if path.Hops != 2 || path.Cost != 2 {
		t.Errorf("hops = %d cost = %v, want 2, 2", path.Hops, path.Cost)
	}
	// Equal-cost tie: b was enqueued before c, so the b-route wins.
	if want := []string{"a", "b", "d"}; !slices.Equal(path.Nodes, want) {
		t.Errorf("path = %v, want %v", path.Nodes, want)
	}
}

func TestUniformCostPrefersCheaperDetour(t *testing.T) {
	// a-b-goal is 2 hops but expensive through b; a-c-d-goal is 3 hops
	// and cheap. The weighted search must take the detour.
	adj := map[string][]string{
		"a": {"b", "c"},
		"b": {"a", "goal"},
		"c": {"a", "d"},
		"d": {"c", "goal"},
	}
	weight := map[string]float64{"b": 10, "c": 0.1, "d": 0.1, "goal": 0}

	path, ok := UniformCost("a", Options[string]{
		Neighbors: grid(adj),
		Cost:      func(_, to string) float64 { return 1 + weight[to] },
		Goal:      func(n string) bool { return n == "goal" },
	})
	if !ok {
		t.Fatal("no path found")
	}
	if want := []string{"a", "c", "d", "goal"}; !slices.Equal(path.Nodes, want) {
		t.Errorf("path = %v, want %v", path.Nodes, want)
	}
	if got, want := path.Cost, 3+0.2; got != want {
		t.Errorf("cost = %v, want %v", got, want)
	}
}

func TestUniformCostMaxDepth(t *testing.T) {
	adj := map[string][]string{
		"a": {"b"},
		"b": {"a", "c"},
		"c": {"b", "d"},
		"d": {"c"},
	}
	opts := Options[string]{
		Neighbors: grid(adj),
		Goal:      func(n string) bool { return n == "d" },
		MaxDepth:  2,
	}

	if _, ok := UniformCost("a", opts); ok {
		t.Error("d is 3 hops away, depth cap 2 must fail")
	}

	opts.MaxDepth = 3
	if _, ok := UniformCost("a", opts); !ok {
		t.Error("depth cap 3 must reach d")
	}
}

func TestUniformCostCountedBudget(t *testing.T) {
	adj := map[string][]string{
		"a":  {"x1"},
		"x1": {"a", "x2"},
		"x2": {"x1", "goal"},
	}
	counted := func(n string) bool { return n == "x1" || n == "x2" }

	opts := Options[string]{
		Neighbors:  grid(adj),
		Goal:       func(n string) bool { return n == "goal" },
		Counted:    counted,
		MaxCounted: 1,
	}
	if _, ok := UniformCost("a", opts); ok {
		t.Error("path needs 2 counted nodes, budget 1 must fail")
	}

	opts.MaxCounted = 2
	path, ok := UniformCost("a", opts)
	if !ok {
		t.Fatal("budget 2 must reach goal")
	}
	if path.Counted != 2 {
		t.Errorf("counted = %d, want 2", path.Counted)
	}
}

func TestUniformCostNoPath(t *testing.T) {
	adj := map[string][]string{
		"a": {"b"},
		"b": {"a"},
		"c": {},
	}
	if _, ok := UniformCost("a", Options[string]{
		Neighbors: grid(adj),
		Goal:      func(n string) bool { return n == "c" },
	}); ok {
		t.Error("c is unreachable")
	}
}

func TestUniformCostStartIsGoal(t *testing.T) {
	path, ok := UniformCost("a", Options[string]{
		Neighbors: grid(map[string][]string{}),
		Goal:      func(n string) bool { return n == "a" },
	})
	if !ok {
		t.Fatal("start satisfying the goal must succeed")
	}
	if !slices.Equal(path.Nodes, []string{"a"}) || path.Hops != 0 {
		t.Errorf("path = %+v, want single-node path", path)
	}
}

func TestUniformCostMissingCallbacks(t *testing.T) {
	if _, ok := UniformCost("a", Options[string]{}); ok {
		t.Error("search without callbacks must fail closed")
	}
}

func TestUniformCostDeterministic(t *testing.T) {
	adj := map[string][]string{
		"s":  {"m1", "m2", "m3"},
		"m1": {"s", "t"},
		"m2": {"s", "t"},
		"m3": {"s", "t"},
	}
	opts := Options[string]{
		Neighbors: grid(adj),
		Goal:      func(n string) bool { return n == "t" },
	}

	first, ok := UniformCost("s", opts)
	if !ok {
		t.Fatal("no path found")
	}
	for range 20 {
		again, _ := UniformCost("s", opts)
		if !slices.Equal(first.Nodes, again.Nodes) {
			t.Fatalf("path changed across runs: %v vs %v", first.Nodes, again.Nodes)
		}
	}
}
