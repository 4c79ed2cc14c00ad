// Package hcl_adapter reads `.hcl` build descriptors into format-agnostic
// descriptor records.
//
// Each top-level block is one record: the block type is the record kind and
// an optional label becomes its `name`. Attributes are evaluated to plain Go
// values. Nested blocks become attributes too: `target`, `source`, `export`
// and `external_dep` blocks collect into the lists `targets`, `sources`,
// `exports` and `external_deps`, and any other nested block becomes a single
// object named after its type. A collected block may carry a `when`
// attribute holding a quintet pattern; the collection is then keyed by
// pattern, with unconditioned blocks under the wildcard.
//
//	workspace "app" {
//	  target "main" {
//	    type = "executable"
//	    source { srcs = ["src/*.c"] }
//	  }
//	  target "win_helper" {
//	    when = "windows:*:*:*:*"
//	    type = "static"
//	  }
//	}
package hcl_adapter
