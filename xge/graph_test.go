package xge

import (
	"reflect"
	"testing"
)

func TestBuildGraph_LinksAndRoots(t *testing.T) {
	a := &Task{ID: "a"}
	b := &Task{ID: "b", DependsOn: []string{"a"}}
	c := &Task{ID: "c", DependsOn: []string{"a", "b"}}

	g, err := BuildGraph([]*Task{a, b, c})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}

	roots := g.Roots()
	if len(roots) != 1 || roots[0].ID != "a" {
		t.Fatalf("expected single root 'a', got %v", roots)
	}
	if len(b.predecessors) != 1 || b.predecessors[0].ID != "a" {
		t.Errorf("expected b to have predecessor a")
	}
	if len(a.successors) != 2 {
		t.Errorf("expected a to have 2 successors, got %d", len(a.successors))
	}
}

func TestGraph_IDsAndLookup(t *testing.T) {
	a := &Task{ID: "c"}
	b := &Task{ID: "a"}
	c := &Task{ID: "b", DependsOn: []string{"a", "c"}}

	g, err := BuildGraph([]*Task{a, b, c})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}

	if got := g.IDs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("IDs() = %v, want sorted [a b c]", got)
	}
	if g.Lookup("b") != c {
		t.Errorf("Lookup(\"b\") did not return the matching task")
	}
	if g.Lookup("missing") != nil {
		t.Errorf("Lookup of unknown id should return nil")
	}
}

func TestBuildGraph_DuplicateID(t *testing.T) {
	a := &Task{ID: "dup"}
	b := &Task{ID: "dup"}
	if _, err := BuildGraph([]*Task{a, b}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestBuildGraph_UnresolvedDependency(t *testing.T) {
	a := &Task{ID: "a", DependsOn: []string{"missing"}}
	if _, err := BuildGraph([]*Task{a}); err == nil {
		t.Fatalf("expected unresolved dependency error")
	}
}

func TestBuildGraph_Cycle(t *testing.T) {
	a := &Task{ID: "a", DependsOn: []string{"b"}}
	b := &Task{ID: "b", DependsOn: []string{"a"}}
	if _, err := BuildGraph([]*Task{a, b}); err == nil {
		t.Fatalf("expected cycle error")
	}
}

func TestBuildGraph_SelfCycle(t *testing.T) {
	a := &Task{ID: "a", DependsOn: []string{"a"}}
	if _, err := BuildGraph([]*Task{a}); err == nil {
		t.Fatalf("expected self-cycle error")
	}
}
