package integration_tests

import (
	"errors"
	"testing"

	"github.com/specialistvlad/buildgrid/internal/codec"
	"github.com/specialistvlad/buildgrid/internal/dag"
	"github.com/specialistvlad/buildgrid/internal/descriptor"
	"github.com/specialistvlad/buildgrid/internal/external"
	"github.com/specialistvlad/buildgrid/internal/loader"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/registry"
	"github.com/specialistvlad/buildgrid/internal/resolver"
	"github.com/specialistvlad/buildgrid/internal/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test for: every fatal error kind surfaces from a plan with its type intact
func TestErrorHandling_Plan(t *testing.T) {
	testCases := []struct {
		name  string
		files map[string]string
		check func(t *testing.T, err error)
	}{
		{
			name: "invalid hcl is rejected",
			files: map[string]string{"build.hcl": `
workspace "broken" {
  target "a" {
`},
			check: func(t *testing.T, err error) {
				var perr *descriptor.ParseError
				require.True(t, errors.As(err, &perr))
				assert.Contains(t, perr.Filename, "build.hcl")
			},
		},
		{
			name: "unknown target kind",
			files: map[string]string{"build.hcl": `
workspace "w" {
  target "a" {
    type = "shared"
  }
}
`},
			check: func(t *testing.T, err error) {
				var derr *model.DescriptorError
				require.True(t, errors.As(err, &derr))
				assert.Contains(t, derr.Error(), `unknown target type "shared"`)
			},
		},
		{
			name: "unresolved reference",
			files: map[string]string{"build.hcl": `
workspace "w" {
  target "a" {
    type    = "header_only"
    depends = [":missing"]
  }
}
` + toolchainHCL},
			check: func(t *testing.T, err error) {
				var uerr *resolver.UnresolvedReferenceError
				require.True(t, errors.As(err, &uerr))
				assert.Equal(t, "//build.hcl:missing", uerr.Reference)
			},
		},
		{
			name: "duplicate target",
			files: map[string]string{"build.hcl": `
workspace "w" {
  target "a" {
    type = "header_only"
  }
  target "a" {
    type = "static"
  }
}
` + toolchainHCL},
			check: func(t *testing.T, err error) {
				var derr *resolver.DuplicateTargetError
				require.True(t, errors.As(err, &derr))
				assert.Equal(t, "//build.hcl:a", derr.Name)
			},
		},
		{
			name: "self dependency is a cycle",
			files: map[string]string{"build.hcl": `
workspace "w" {
  target "a" {
    type    = "header_only"
    depends = [":a"]
  }
}
` + toolchainHCL},
			check: func(t *testing.T, err error) {
				var cerr *dag.CycleError
				require.True(t, errors.As(err, &cerr))
			},
		},
		{
			name: "no viable toolchain",
			files: map[string]string{"build.hcl": `
workspace "w" {
  target "a" {
    type = "header_only"
  }
}
`},
			check: func(t *testing.T, err error) {
				var terr *steps.NoViableToolchainError
				require.True(t, errors.As(err, &terr))
			},
		},
		{
			name: "undeclared external",
			files: map[string]string{"build.hcl": `
workspace "w" {
  target "a" {
    type          = "header_only"
    external_deps = ["zlib"]
  }
}
` + toolchainHCL},
			check: func(t *testing.T, err error) {
				var uerr *external.UndeclaredError
				require.True(t, errors.As(err, &uerr))
				assert.Equal(t, "zlib", uerr.Name)
			},
		},
		{
			name: "missing required externals are aggregated",
			files: map[string]string{"build.hcl": `
workspace "w" {
  target "a" {
    type          = "header_only"
    external_deps = ["zlib", "png"]
  }
}

external "zlib" {
  version   = "1.3"
  providers = ["local"]
}

external "png" {
  providers = ["local"]
}

extension "local" {
  type    = "package-manager"
  handler = "static"
}
` + toolchainHCL},
			check: func(t *testing.T, err error) {
				var merr *external.MissingRequiredError
				require.True(t, errors.As(err, &merr))
				require.Len(t, merr.Missing, 2)
				assert.Equal(t, "zlib", merr.Missing[0].Name)
				assert.Equal(t, "png", merr.Missing[1].Name)
			},
		},
		{
			name: "missing property",
			files: map[string]string{"build.hcl": `
workspace "w" {
  target "a" {
    type          = "header_only"
    external_deps = ["zlib"]
  }
}

external "zlib" {
  providers = ["index"]
}

extension "index" {
  type    = "package-manager"
  handler = "sqlite"
}
` + toolchainHCL},
			check: func(t *testing.T, err error) {
				var perr *model.MissingPropertyError
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, "package_index", perr.Key)
			},
		},
		{
			name: "unknown handler",
			files: map[string]string{"build.hcl": `
workspace "w" {}

extension "conan" {
  type = "package-manager"
}
`},
			check: func(t *testing.T, err error) {
				var herr *registry.UnknownHandlerError
				require.True(t, errors.As(err, &herr))
				assert.Equal(t, "conan", herr.Handler)
			},
		},
		{
			name: "component cycle crosses the task boundary",
			files: map[string]string{
				"build.hcl": `
workspace "top" {
  components = ["lib/build.hcl"]
}
`,
				"lib/build.hcl": `
workspace "lib" {
  components = ["../build.hcl"]
}
`,
			},
			check: func(t *testing.T, err error) {
				var rerr *codec.RemoteError
				require.True(t, errors.As(err, &rerr))
				assert.Contains(t, rerr.Message, "component cycle detected")
				var cycle *loader.ComponentCycleError
				require.True(t, errors.As(err, &cycle))
				assert.Len(t, cycle.Chain, 3)
			},
		},
		{
			name: "invalid hcl in a component keeps its type",
			files: map[string]string{
				"build.hcl": `
workspace "top" {
  components = ["lib/build.hcl"]
}
`,
				"lib/build.hcl": `
workspace "lib" {
  target "lib" {
`,
			},
			check: func(t *testing.T, err error) {
				var perr *descriptor.ParseError
				require.True(t, errors.As(err, &perr))
				assert.Contains(t, perr.Filename, "build.hcl")
				assert.ErrorContains(t, err, "failed to load workspace")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := planTree(t, tc.files)
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}
