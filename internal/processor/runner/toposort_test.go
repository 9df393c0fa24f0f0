package runner

import (
	"testing"
)

func TestTopoSort_Simple(t *testing.T) {
	// Test: A -> B -> C (simple linear order)
	names := []string{"a", "b", "c"}
	before := map[string][]string{
		"a": {"b", "c"},
		"b": {"c"},
	}
	after := map[string][]string{}

	result, err := TopoSort(names, before, after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result))
	}
	if result[0] != "a" || result[1] != "b" || result[2] != "c" {
		t.Fatalf("unexpected order: %v", result)
	}
}

func TestTopoSort_AfterConstraints(t *testing.T) {
	// Test: b after a, c after b
	names := []string{"a", "b", "c"}
	before := map[string][]string{}
	after := map[string][]string{
		"b": {"a"},
		"c": {"b"},
	}

	result, err := TopoSort(names, before, after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result))
	}
	if result[0] != "a" || result[1] != "b" || result[2] != "c" {
		t.Fatalf("unexpected order: %v", result)
	}
}

func TestTopoSort_Cycle(t *testing.T) {
	// Test cycle detection: a before b, b before a
	names := []string{"a", "b"}
	before := map[string][]string{
		"a": {"b"},
		"b": {"a"},
	}
	after := map[string][]string{}

	result, err := TopoSort(names, before, after)
	if err == nil {
		t.Fatal("expected error for cycle, got nil")
	}

	if result != nil {
		t.Fatalf("expected nil result on error, got %v", result)
	}
}

func TestTopoSort_NoConstraints(t *testing.T) {
	names := []string{"a", "b", "c"}

	result, err := TopoSort(names, map[string][]string{}, map[string][]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result))
	}

	seen := make(map[string]bool)
	for _, item := range result {
		seen[item] = true
	}
	for _, name := range names {
		if !seen[name] {
			t.Fatalf("missing item: %s", name)
		}
	}
}

func TestResolveProcessorOrder(t *testing.T) {
	// Order resolution with builtins and customs
	defaults := []string{"exclusions", "readstatus"}
	customs := map[string]struct {
		Before []string
		After  []string
	}{
		"custom-a": {
			Before: []string{"custom-b"},
		},
		"custom-b": {
			After: []string{"readstatus"},
		},
	}

	result, err := ResolveProcessorOrder(defaults, customs, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result) != 4 {
		t.Fatalf("expected 4 items, got %d: %v", len(result), result)
	}

	pos := make(map[string]int)
	for i, name := range result {
		pos[name] = i
	}

	if pos["custom-b"] < pos["readstatus"] {
		t.Fatalf("custom-b should come after readstatus: %v", result)
	}
	if pos["custom-a"] >= pos["custom-b"] {
		t.Fatalf("custom-a should come before custom-b: %v", result)
	}
}

func TestResolveProcessorOrder_NoDefaults(t *testing.T) {
	defaults := []string{"exclusions", "readstatus"}
	customs := map[string]struct {
		Before []string
		After  []string
	}{
		"custom-a": {},
	}

	result, err := ResolveProcessorOrder(defaults, customs, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result) != 1 || result[0] != "custom-a" {
		t.Fatalf("expected only custom-a, got %v", result)
	}
}
