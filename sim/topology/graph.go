package topology

import (
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
)

// Topology kinds accepted by New.
const (
	KindLine = "line"
	KindRing = "ring"
	KindGrid = "grid"
)

// ValidKinds is the set of recognized topology kinds.
var ValidKinds = map[string]bool{KindLine: true, KindRing: true, KindGrid: true}

// buildGraph creates the unit-weight graph of a topology kind.
//
//   - line, n: 0-1-...-(n-1), n >= 2
//   - ring, n: a line closed by (n-1)-0, n >= 3
//   - grid, rows, cols: node r*cols+c linked to its right and lower neighbours
func buildGraph(kind string, dims []int) (*simple.WeightedUndirectedGraph, error) {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	link := func(u, v int) {
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(u), simple.Node(v), 1))
	}

	switch kind {
	case KindLine, KindRing:
		if len(dims) != 1 {
			return nil, fmt.Errorf("%s topology takes one dimension, got %d", kind, len(dims))
		}
		n := dims[0]
		minNodes := 2
		if kind == KindRing {
			minNodes = 3
		}
		if n < minNodes {
			return nil, fmt.Errorf("%s topology needs at least %d nodes, got %d", kind, minNodes, n)
		}
		for i := 0; i < n-1; i++ {
			link(i, i+1)
		}
		if kind == KindRing {
			link(n-1, 0)
		}

	case KindGrid:
		if len(dims) != 2 {
			return nil, fmt.Errorf("grid topology takes rows and cols, got %d dimensions", len(dims))
		}
		rows, cols := dims[0], dims[1]
		if rows < 1 || cols < 1 || rows*cols < 2 {
			return nil, fmt.Errorf("grid topology needs at least two nodes, got %dx%d", rows, cols)
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				id := r*cols + c
				if c+1 < cols {
					link(id, id+1)
				}
				if r+1 < rows {
					link(id, id+cols)
				}
			}
		}

	default:
		return nil, fmt.Errorf("unknown topology %q; valid: line, ring, grid", kind)
	}
	return g, nil
}
