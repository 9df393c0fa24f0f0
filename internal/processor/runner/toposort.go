package runner

import (
	"fmt"
)

// TopoSort performs a topological sort on processor names based on before/after constraints.
// Returns ordered list of processor names, or an error if a cycle is detected.
func TopoSort(names []string, before map[string][]string, after map[string][]string) ([]string, error) {
	// before[A] = [B, C] means A must come before B and C
	// after[A] = [B, C] means A must come after B and C

	adjacency := make(map[string][]string)
	inDegree := make(map[string]int)

	for _, name := range names {
		if _, ok := adjacency[name]; !ok {
			adjacency[name] = []string{}
		}
		if _, ok := inDegree[name]; !ok {
			inDegree[name] = 0
		}
	}

	// after constraints (A after [B, C] means B -> A, C -> A)
	for name, afterList := range after {
		for _, after := range afterList {
			if _, exists := adjacency[after]; !exists {
				adjacency[after] = []string{}
			}
			adjacency[after] = append(adjacency[after], name)
			inDegree[name]++
		}
	}

	// before constraints (A before [B, C] means A -> B, A -> C)
	for name, beforeList := range before {
		for _, before := range beforeList {
			if _, exists := adjacency[name]; !exists {
				adjacency[name] = []string{}
			}
			adjacency[name] = append(adjacency[name], before)
			inDegree[before]++
		}
	}

	// Kahn's algorithm
	queue := []string{}
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}

	result := []string{}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, neighbor := range adjacency[current] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(names) {
		cycleNodes := []string{}
		for name, degree := range inDegree {
			if degree > 0 {
				cycleNodes = append(cycleNodes, name)
			}
		}
		return nil, fmt.Errorf("cycle detected in processor ordering constraints involving: %v", cycleNodes)
	}

	return result, nil
}

// ResolveProcessorOrder resolves the execution order of processors based on their before/after constraints.
// defaultProcessors: list of built-in processor names
// customProcessors: map of custom processor name -> (before list, after list)
// includeDefaults: whether to include default processors
// Returns: ordered list of processor names to execute
func ResolveProcessorOrder(defaultProcessors []string, customProcessors map[string]struct {
	Before []string
	After  []string
}, includeDefaults bool) ([]string, error) {
	allNames := []string{}
	if includeDefaults {
		allNames = append(allNames, defaultProcessors...)
	}

	before := make(map[string][]string)
	after := make(map[string][]string)

	for name, config := range customProcessors {
		allNames = append(allNames, name)
		if len(config.Before) > 0 {
			before[name] = config.Before
		}
		if len(config.After) > 0 {
			after[name] = config.After
		}
	}

	// Deduplicate
	seen := make(map[string]bool)
	unique := []string{}
	for _, name := range allNames {
		if !seen[name] {
			unique = append(unique, name)
			seen[name] = true
		}
	}

	return TopoSort(unique, before, after)
}
