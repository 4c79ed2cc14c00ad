package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_TextWarnings(t *testing.T) {
	plan := &Plan{
		Workspace: "top",
		Quintet:   "linux:gcc:*:amd64:debug",
		Targets: []TargetPlan{{
			Name:    "//build.hcl:hdr",
			Kind:    "header_only",
			Quintet: "linux:gcc:header-only:amd64:debug",
			Steps:   []StepPlan{{Kind: "copy", Inputs: []string{"a.h"}, Outputs: []string{"inc/a.h"}}},
		}},
		Warnings: []string{"top/x has unresolved optional external dependency z::1 from [*]"},
	}

	var out bytes.Buffer
	require.NoError(t, Render(&out, plan, OutputText))
	text := out.String()
	assert.Contains(t, text, "  copy     -\n")
	assert.Contains(t, text, "    in:      a.h\n")
	assert.Contains(t, text, "    out:     inc/a.h\n")
	assert.Contains(t, text, "warning: top/x has unresolved optional external dependency z::1 from [*]")
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, &Plan{}, "xml")
	require.ErrorContains(t, err, `unsupported output format "xml"`)
}

func TestRenderOrder(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RenderOrder(&out, []string{"//a", "//b"}))
	assert.Equal(t, "//a\n//b\n", out.String())
}
