package graph

import (
	"sort"

	"github.com/momemta/momemta-go/internal/merr"
)

// visitState mirrors the White/Gray/Black colouring of a textbook DFS-based
// topological sort: White unvisited, Gray on the current recursion stack
// (a Gray revisit is a cycle), Black fully explored.
const (
	white = iota
	gray
	black
)

// topoSort orders candidates so that for every dependency edge
// (consumer -> producer) in deps, the producer appears before the
// consumer. Iteration order is deterministic (candidates visited in
// sorted-name order, dependencies likewise), so the same Document always
// yields the same Plan.
func topoSort(candidates map[string]bool, deps map[string]map[string]bool) ([]string, error) {
	names := make([]string, 0, len(candidates))
	for n := range candidates {
		names = append(names, n)
	}
	sort.Strings(names)

	state := make(map[string]int, len(names))
	order := make([]string, 0, len(names))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case black:
			return nil
		case gray:
			return &merr.GraphError{Kind: merr.CyclicGraph, Module: name, Detail: "dependency cycle"}
		}
		state[name] = gray

		depNames := make([]string, 0, len(deps[name]))
		for d := range deps[name] {
			depNames = append(depNames, d)
		}
		sort.Strings(depNames)
		for _, d := range depNames {
			if err := visit(d); err != nil {
				return err
			}
		}

		state[name] = black
		order = append(order, name)
		return nil
	}

	for _, n := range names {
		if state[n] == white {
			if err := visit(n); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}
