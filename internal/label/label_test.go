package label

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  Label
	}{
		{
			name:     "full label",
			raw:      "//path/to/folder/file.name:target",
			expected: Label{Base: "//path/to/folder", Filename: "/file.name", Target: ":target"},
		},
		{
			name:     "implicit file and target",
			raw:      "//path/to/folder",
			expected: Label{Base: "//path/to/folder"},
		},
		{
			name:     "same level target",
			raw:      ":target",
			expected: Label{Target: ":target"},
		},
		{
			name:     "base and target",
			raw:      "//lib:zlib",
			expected: Label{Base: "//lib", Filename: "", Target: ":zlib"},
		},
		{
			name:     "empty",
			raw:      "",
			expected: Label{},
		},
		{
			name:     "root workspace file",
			raw:      "//build.hcl:app",
			expected: Label{Base: RootBase, Filename: "/build.hcl", Target: ":app"},
		},
		{
			name:      "error - relative path",
			raw:       "lib/zlib",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := Parse(tc.raw)
			if tc.expectErr {
				var perr *ParseError
				require.ErrorAs(t, err, &perr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, l)
			assert.Equal(t, tc.raw, l.String())
		})
	}
}

func TestParseTargetName(t *testing.T) {
	l, err := ParseTargetName("zlib")
	require.NoError(t, err)
	assert.Equal(t, Label{Target: ":zlib"}, l)

	l, err = ParseTargetName("//other:zlib")
	require.NoError(t, err)
	assert.Equal(t, Label{Base: "//other", Target: ":zlib"}, l)
}

func TestMakeAbsolute(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "src", "project")
	loc := Location{RootDir: root, WorkspaceDir: filepath.Join(root, "lib"), BuildFile: "build.jsm"}

	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "empty label", raw: "", expected: "//lib/build.jsm:lib"},
		{name: "same level target", raw: ":zlib", expected: "//lib/build.jsm:zlib"},
		{name: "other folder", raw: "//third_party/png", expected: "//third_party/png/build.jsm:png"},
		{name: "already absolute", raw: "//a/b.hcl:c", expected: "//a/b.hcl:c"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			abs := MustParse(tc.raw).MakeAbsolute(loc)
			assert.Equal(t, tc.expected, abs.String())
			assert.True(t, abs.IsAbsolute())
		})
	}

	t.Run("root workspace", func(t *testing.T) {
		rootLoc := Location{RootDir: root, WorkspaceDir: root, BuildFile: "build.hcl"}
		abs := MustParse(":app").MakeAbsolute(rootLoc)
		assert.Equal(t, "//build.hcl:app", abs.String())
		assert.Equal(t, abs, MustParse(abs.String()))

		assert.Equal(t, "//build.hcl:", MustParse("").MakeAbsolute(rootLoc).String())
	})
}
