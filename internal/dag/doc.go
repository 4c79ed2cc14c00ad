// Package dag is a small directed acyclic graph keyed by string IDs. It keeps
// insertion order for nodes and edges so that traversals, and therefore build
// orders, are deterministic.
//
// An edge from -> to means `to` depends on `from`: the thing needed records
// its waiters as dependents.
package dag
