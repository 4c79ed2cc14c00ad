package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/buildgrid/internal/app"
	"github.com/specialistvlad/buildgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const buildHCL = `
workspace "demo" {
  target "api" {
    type = "header_only"
  }
  target "impl" {
    type    = "header_only"
    depends = [":api"]
  }
}

toolchain "any" {
  quintets = ["*:*:*:*:*"]
}
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func requireExitCode(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected an *ExitError, got %v", err)
	require.Equal(t, code, exitErr.Code, exitErr.Message)
	return exitErr
}

func TestExecute_Help(t *testing.T) {
	out, _, err := execute(t, "-h")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "plan")
	assert.Contains(t, out, "watch")
}

func TestExecute_UsageErrors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown flag", []string{"plan", "--no-such-flag"}, "unknown flag: --no-such-flag"},
		{"unknown command", []string{"frobnicate"}, "unknown command"},
		{"too many args", []string{"order", "a", "b"}, "accepts at most 1 arg(s)"},
		{"match arity", []string{"match", "linux:*:*:*:*"}, "accepts 2 arg(s)"},
		{"bad quintet", []string{"match", "linux", "*:*:*:*:*"}, "linux"},
		{"bad output", []string{"plan", "--output", "xml", "."}, "invalid output"},
		{"bad target", []string{"order", "--target", "linux:gcc", "."}, "invalid target"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			exitErr := requireExitCode(t, err, ExitUsage)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}

func TestExecute_Match(t *testing.T) {
	out, _, err := execute(t, "match", "linux:*:*:*:*", "linux:gcc:static:amd64:debug")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, _, err = execute(t, "match", "linux:*:*:*:*", "windows:msvc:*:*:*")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestExecute_Order(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{"build.hcl": buildHCL})
	out, _, err := execute(t, "order", dir)
	require.NoError(t, err)
	assert.Equal(t, "//build.hcl:api\n//build.hcl:impl\n", out)
}

func TestExecute_PlanFailure(t *testing.T) {
	_, _, err := execute(t, "plan", filepath.Join(t.TempDir(), "missing.hcl"))
	exitErr := requireExitCode(t, err, ExitFailure)
	assert.Contains(t, exitErr.Message, "failed to read build file")
}

func TestExecute_ConfigLayers(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"build.hcl":      buildHCL,
		"buildgrid.yaml": "output: json\ntarget: linux:gcc:*:amd64:release\n",
	})
	cfgFile := filepath.Join(dir, "buildgrid.yaml")

	t.Run("config file", func(t *testing.T) {
		out, _, err := execute(t, "plan", "--config", cfgFile, dir)
		require.NoError(t, err)
		var plan app.Plan
		require.NoError(t, json.Unmarshal([]byte(out), &plan))
		assert.Equal(t, "linux:gcc:*:amd64:release", plan.Quintet)
		assert.Equal(t, []string{"//build.hcl:api", "//build.hcl:impl"}, plan.Order)
	})

	t.Run("environment over config file", func(t *testing.T) {
		t.Setenv("BUILDGRID_OUTPUT", "yaml")
		out, _, err := execute(t, "plan", "--config", cfgFile, dir)
		require.NoError(t, err)
		var plan app.Plan
		require.NoError(t, yaml.Unmarshal([]byte(out), &plan))
		assert.Equal(t, "demo", plan.Workspace)
		assert.Equal(t, "linux:gcc:*:amd64:release", plan.Quintet)
	})

	t.Run("flags over environment", func(t *testing.T) {
		t.Setenv("BUILDGRID_OUTPUT", "yaml")
		t.Setenv("BUILDGRID_TARGET", "linux:clang:*:arm64:debug")
		out, _, err := execute(t, "plan", "--config", cfgFile, "-o", "json", dir)
		require.NoError(t, err)
		var plan app.Plan
		require.NoError(t, json.Unmarshal([]byte(out), &plan))
		assert.Equal(t, "linux:clang:*:arm64:debug", plan.Quintet)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, _, err := execute(t, "plan", "--config", filepath.Join(dir, "nope.yaml"), dir)
		exitErr := requireExitCode(t, err, ExitUsage)
		assert.Contains(t, exitErr.Message, "failed to read config file")
	})
}

func TestExecute_Logs(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{"build.hcl": buildHCL})
	_, logs, err := execute(t, "order", "--log-level", "debug", "--log-format", "json", dir)
	require.NoError(t, err)
	assert.Contains(t, logs, `"msg":"Workspace loaded."`)
	assert.Contains(t, logs, `"run_id":`)
}
