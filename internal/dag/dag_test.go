package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
	assert.Zero(t, g.Len())
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("a")
	assert.Len(t, g.nodes, 1)
	nodeA, ok := g.nodes["a"]
	require.True(t, ok)
	assert.Equal(t, "a", nodeA.id)
	assert.Empty(t, nodeA.deps)
	assert.Empty(t, nodeA.dependents)

	g.AddNode("a") // Test idempotency
	assert.Len(t, g.nodes, 1)

	g.AddNode("b")
	assert.Equal(t, []string{"a", "b"}, g.Nodes())
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		require.NoError(t, g.AddEdge("a", "b")) // b depends on a
		require.NoError(t, g.AddEdge("a", "b")) // duplicate is ignored

		deps, err := g.Dependencies("b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, deps)

		dependents, err := g.Dependents("a")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, dependents)
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("dne", "a")
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "destination node not found")

		err = g.AddEdge("a", "a")
		var cerr *CycleError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, []string{"a", "a"}, cerr.Path)

		_, err = g.Dependencies("dne")
		assert.ErrorContains(t, err, "node not found")
		_, err = g.Dependents("dne")
		assert.ErrorContains(t, err, "node not found")
	})
}

func TestTopologicalOrder(t *testing.T) {
	t.Run("empty graph", func(t *testing.T) {
		order, err := New().TopologicalOrder()
		require.NoError(t, err)
		assert.Empty(t, order)
	})

	t.Run("chain is ordered dependencies first", func(t *testing.T) {
		// A needs B, B needs C.
		g := New()
		g.AddNode("A")
		g.AddNode("B")
		g.AddNode("C")
		require.NoError(t, g.AddEdge("B", "A"))
		require.NoError(t, g.AddEdge("C", "B"))

		order, err := g.TopologicalOrder()
		require.NoError(t, err)
		assert.Equal(t, []string{"C", "B", "A"}, order)
	})

	t.Run("isolated nodes appear exactly once", func(t *testing.T) {
		g := New()
		for _, id := range []string{"a", "b", "c", "d"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("a", "c"))

		order, err := g.TopologicalOrder()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, order)
		assert.Less(t, indexOf(order, "a"), indexOf(order, "b"))
		assert.Less(t, indexOf(order, "a"), indexOf(order, "c"))
	})

	t.Run("order is deterministic", func(t *testing.T) {
		build := func() []string {
			g := New()
			for _, id := range []string{"x", "y", "z", "w"} {
				g.AddNode(id)
			}
			require.NoError(t, g.AddEdge("w", "x"))
			require.NoError(t, g.AddEdge("z", "y"))
			order, err := g.TopologicalOrder()
			require.NoError(t, err)
			return order
		}
		first := build()
		for range 10 {
			assert.Equal(t, first, build())
		}
	})
}

func TestDetectCycles(t *testing.T) {
	t.Run("graph with nodes but no edges has no cycles", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		g.AddNode("d")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("a", "c")) // Transitive edge
		require.NoError(t, g.AddEdge("c", "d"))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("closing a chain into a loop is detected", func(t *testing.T) {
		g := New()
		g.AddNode("A")
		g.AddNode("B")
		g.AddNode("C")
		require.NoError(t, g.AddEdge("B", "A"))
		require.NoError(t, g.AddEdge("C", "B"))
		require.NoError(t, g.AddEdge("A", "C")) // C now needs A

		_, err := g.TopologicalOrder()
		var cerr *CycleError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, []string{"A", "C", "B", "A"}, cerr.Path)
		assert.ErrorContains(t, err, "cyclic dependency detected")
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		g := New()
		// Component 1 (valid)
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))

		// Component 2 (has a cycle)
		g.AddNode("x")
		g.AddNode("y")
		g.AddNode("z")
		require.NoError(t, g.AddEdge("x", "y"))
		require.NoError(t, g.AddEdge("y", "z"))
		require.NoError(t, g.AddEdge("z", "y")) // Cycle

		err := g.DetectCycles()
		var cerr *CycleError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, []string{"y", "z", "y"}, cerr.Path)
	})
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
