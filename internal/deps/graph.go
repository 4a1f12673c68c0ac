// Package deps builds the dependency graph from links, volumes-from, and
// shared-network-namespace references between ContainerSpecs, and
// resolves it to a topological order plus downstream (dependent) queries.
package deps

import (
	"fmt"
	"sort"

	"github.com/barchart/dockerup/internal/specdata"
)

// Graph is an arena of spec nodes plus an index-based adjacency list. A
// synthetic root (not materialised as a node) is understood to depend
// on every node.
type Graph struct {
	specs      []specdata.ContainerSpec
	byName     map[string]int
	deps       [][]int // deps[i]: indices i depends on, sorted ascending
	dependents [][]int // dependents[i]: indices that depend on i, sorted ascending

	order []int // post-order from the last successful Resolve, excluding root
}

// CycleError reports a dependency cycle, naming both nodes by image.
type CycleError struct {
	ImageA, ImageB string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected between %q and %q", e.ImageA, e.ImageB)
}

// Build constructs the dependency graph from an ordered list of specs. A
// link/volumes-from/network target that names a spec absent from the
// inventory is silently ignored (no edge).
func Build(specs []specdata.ContainerSpec) *Graph {
	g := &Graph{
		specs:      specs,
		byName:     make(map[string]int, len(specs)),
		deps:       make([][]int, len(specs)),
		dependents: make([][]int, len(specs)),
	}

	for i, s := range specs {
		if s.Name == "" {
			continue
		}
		if _, exists := g.byName[s.Name]; !exists {
			g.byName[s.Name] = i
		}
	}

	for i, s := range specs {
		seen := make(map[int]bool)
		for _, target := range targetNames(s) {
			idx, ok := g.byName[target]
			if !ok || idx == i || seen[idx] {
				continue
			}
			seen[idx] = true
			g.deps[i] = append(g.deps[i], idx)
		}
		sort.Ints(g.deps[i])
	}

	for i, targets := range g.deps {
		for _, t := range targets {
			g.dependents[t] = append(g.dependents[t], i)
		}
	}
	for i := range g.dependents {
		sort.Ints(g.dependents[i])
	}

	return g
}

// Resolve returns the specs in topological order (dependencies first).
// Ties within a dependency level preserve original inventory order. A
// cycle is a fatal error for the caller's sync cycle, not the process.
func (g *Graph) Resolve() ([]specdata.ContainerSpec, error) {
	resolved := make([]bool, len(g.specs))
	inPath := make([]bool, len(g.specs))
	var order []int

	var visit func(i, from int) error
	visit = func(i, from int) error {
		if resolved[i] {
			return nil
		}
		if inPath[i] {
			return &CycleError{ImageA: g.specs[from].Image, ImageB: g.specs[i].Image}
		}
		inPath[i] = true
		for _, dep := range g.deps[i] {
			if err := visit(dep, i); err != nil {
				return err
			}
		}
		inPath[i] = false
		resolved[i] = true
		order = append(order, i)
		return nil
	}

	// The synthetic root visits every node in original inventory order.
	for i := range g.specs {
		if err := visit(i, i); err != nil {
			return nil, err
		}
	}

	g.order = order
	result := make([]specdata.ContainerSpec, len(order))
	for pos, idx := range order {
		result[pos] = g.specs[idx]
	}
	return result, nil
}

// Downstream returns every spec that transitively depends on the spec
// named `name` (direct or indirect dependents), excluding that spec
// itself, ordered to match the last successful Resolve's post-order (or
// original inventory order if Resolve hasn't run yet).
func (g *Graph) Downstream(name string) []specdata.ContainerSpec {
	idx, ok := g.byName[name]
	if !ok {
		return nil
	}

	visited := make(map[int]bool)
	var walk func(i int)
	walk = func(i int) {
		for _, dependent := range g.dependents[i] {
			if visited[dependent] {
				continue
			}
			visited[dependent] = true
			walk(dependent)
		}
	}
	walk(idx)

	var sequence []int
	if g.order != nil {
		sequence = g.order
	} else {
		sequence = make([]int, len(g.specs))
		for i := range g.specs {
			sequence[i] = i
		}
	}

	result := make([]specdata.ContainerSpec, 0, len(visited))
	for _, i := range sequence {
		if visited[i] {
			result = append(result, g.specs[i])
		}
	}
	return result
}
