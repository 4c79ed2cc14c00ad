package loader

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/buildgrid/internal/descriptor"
	"github.com/specialistvlad/buildgrid/internal/hcl_adapter"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/registry"
	"github.com/specialistvlad/buildgrid/internal/testutil"
	"github.com/specialistvlad/buildgrid/internal/yaml_adapter"
	"github.com/specialistvlad/buildgrid/modules/static"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoader(workers int) *Loader {
	parsers := descriptor.Parsers{
		".hcl":  hcl_adapter.NewParser(),
		".yaml": yaml_adapter.NewParser(),
	}
	return New(parsers, registry.NewWith(&static.Module{}), workers)
}

var tree = map[string]string{
	"build.hcl": `
workspace "root" {
  imports    = ["toolchains.hcl"]
  components = {
    "*:*:*:*:*"       = ["lib/build.hcl", "app/build.yaml"]
    "windows:*:*:*:*" = ["win/build.hcl"]
  }
}

extension "pkgs" {
  type    = "package-manager"
  handler = "static"
}
`,
	"toolchains.hcl": `
toolchain "gcc" {
  quintets = ["linux:*:*:*:*"]
}

properties {
  package_root = "/opt/pkgs"
}
`,
	"lib/build.hcl": `
workspace "lib" {
  target "lib" {
    type = "static"
  }
}

extension "local" {
  type    = "package-manager"
  handler = "static"
  config = {
    packages = {
      "zlib::1.3" = { header_dirs = "/opt/zlib/include" }
    }
  }
}
`,
	"app/build.yaml": `
kind: workspace
name: app
imports: ["file://toolchains.hcl"]
targets:
  - name: app
    type: executable
    depends: ["//lib/build.hcl:lib"]
`,
}

func TestLoad_Tree(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run("", func(t *testing.T) {
			dir := testutil.WriteTree(t, tree)
			ctx, logs := testutil.LogContext(t)

			root, err := newLoader(workers).Load(ctx, Input{
				Filename: filepath.Join(dir, "build.hcl"),
				Target:   "linux:gcc:*:amd64:debug",
			})
			require.NoError(t, err)

			assert.Equal(t, "root", root.Name)
			assert.Equal(t, dir, root.RootDir)
			assert.Equal(t, dir, root.WorkspaceDir)
			assert.Equal(t, "build.hcl", root.BuildFile)
			assert.Equal(t, []string{filepath.Join(dir, "toolchains.hcl")}, root.Imports.All())
			require.Len(t, root.Toolchains, 1)
			assert.Equal(t, "/opt/pkgs", root.Properties["package_root"])
			require.Len(t, root.Extensions, 1)
			assert.NotNil(t, root.Extensions[0].Manager)

			comps := root.Components.MatchingElements(root.TargetQuintet)
			require.Len(t, comps, 2)
			lib, app := comps[0], comps[1]

			assert.Equal(t, "lib", lib.Name)
			assert.Same(t, root, lib.Parent)
			assert.Same(t, root.Files, lib.Files)
			assert.Equal(t, filepath.Join(dir, "lib"), lib.WorkspaceDir)
			assert.Equal(t, dir, lib.RootDir)
			assert.Equal(t, root.TargetQuintet, lib.TargetQuintet)
			require.Len(t, lib.Extensions, 1)
			assert.NotNil(t, lib.Extensions[0].Manager)
			require.Len(t, lib.Targets.All(), 1)
			assert.Same(t, lib, lib.Targets.All()[0].Parent)

			assert.Equal(t, "app", app.Name)
			assert.Equal(t, "build.yaml", app.BuildFile)
			assert.Len(t, app.Toolchains, 1)

			// Every parsed file ends up in the root cache exactly once.
			assert.Equal(t, 4, root.Files.Len())
			testutil.AssertLogged(t, logs, "Component spliced.", "component=lib")
		})
	}
}

func TestLoad_DefaultTarget(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"build.hcl": `
workspace "root" {
  defaults = {
    platform      = "plan9"
    configuration = "release"
  }
}
`,
	})
	root, err := newLoader(1).Load(t.Context(), Input{Filename: filepath.Join(dir, "build.hcl")})
	require.NoError(t, err)
	assert.Equal(t, "plan9", root.TargetQuintet.Platform().Major)
	assert.Equal(t, "release", root.TargetQuintet.Configuration().Major)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		check func(t *testing.T, err error)
	}{
		{
			name: "two workspaces",
			files: map[string]string{"build.hcl": `
workspace "a" {}
workspace "b" {}
`},
			check: func(t *testing.T, err error) {
				var derr *model.DescriptorError
				assert.True(t, errors.As(err, &derr))
			},
		},
		{
			name:  "no workspace",
			files: map[string]string{"build.hcl": `properties {}`},
			check: func(t *testing.T, err error) {
				var derr *model.DescriptorError
				assert.True(t, errors.As(err, &derr))
			},
		},
		{
			name: "missing component",
			files: map[string]string{"build.hcl": `
workspace "a" {
  components = ["nope/build.hcl"]
}
`},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "component nope/build.hcl")
			},
		},
		{
			name: "component cycle",
			files: map[string]string{
				"build.hcl": `
workspace "a" {
  components = ["b/build.hcl"]
}
`,
				"b/build.hcl": `
workspace "b" {
  components = ["../build.hcl"]
}
`,
			},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "component cycle detected")
				var cycle *ComponentCycleError
				require.True(t, errors.As(err, &cycle))
				assert.Len(t, cycle.Chain, 3)
			},
		},
		{
			name: "malformed component",
			files: map[string]string{
				"build.hcl": `
workspace "a" {
  components = ["lib/build.hcl"]
}
`,
				"lib/build.hcl": `workspace "lib" {`,
			},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "component lib/build.hcl")
				var perr *descriptor.ParseError
				require.True(t, errors.As(err, &perr))
				assert.Contains(t, perr.Filename, filepath.Join("lib", "build.hcl"))
			},
		},
		{
			name: "invalid target in nested component",
			files: map[string]string{
				"build.hcl": `
workspace "a" {
  components = ["b/build.hcl"]
}
`,
				"b/build.hcl": `
workspace "b" {
  components = ["c/build.hcl"]
}
`,
				"b/c/build.hcl": `
workspace "c" {
  target "x" {
    type = "plugin"
  }
}
`,
			},
			check: func(t *testing.T, err error) {
				var derr *model.DescriptorError
				require.True(t, errors.As(err, &derr))
				assert.Equal(t, "target", derr.Kind)
			},
		},
		{
			name: "unknown handler",
			files: map[string]string{"build.hcl": `
workspace "a" {}

extension "x" {
  type = "package-manager"
}
`},
			check: func(t *testing.T, err error) {
				var unknown *registry.UnknownHandlerError
				assert.True(t, errors.As(err, &unknown))
			},
		},
		{
			name:  "unsupported file type",
			files: map[string]string{"build.hcl": `workspace "a" { imports = ["x.toml"] }`, "x.toml": ""},
			check: func(t *testing.T, err error) {
				var perr *descriptor.ParseError
				assert.True(t, errors.As(err, &perr))
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := testutil.WriteTree(t, tc.files)
			_, err := newLoader(2).Load(t.Context(), Input{
				Filename: filepath.Join(dir, "build.hcl"),
				Target:   "linux:gcc:*:amd64:debug",
			})
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}
