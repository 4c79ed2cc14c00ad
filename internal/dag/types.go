package dag

import (
	"fmt"
	"strings"
	"sync"
)

// Graph is a collection of nodes and their dependencies, representing a DAG.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects nodes and order during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order is the node insertion order.
	order []string
}

// node is a single vertex. Edge lists keep insertion order; the sets guard
// against duplicate edges.
type node struct {
	id string
	// deps are the nodes this node depends on (predecessors).
	deps   []string
	depSet map[string]struct{}
	// dependents are the nodes that depend on this node (successors).
	dependents   []string
	dependentSet map[string]struct{}
}

// CycleError reports a dependency cycle. Path starts and ends with the same
// node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic dependency detected: %s", strings.Join(e.Path, " -> "))
}
