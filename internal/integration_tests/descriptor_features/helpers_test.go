package integration_tests

import (
	"context"
	"testing"

	"github.com/specialistvlad/buildgrid/internal/app"
	"github.com/specialistvlad/buildgrid/internal/testutil"
	"github.com/stretchr/testify/require"
)

// planTree writes files and plans them for target, or for the workspace
// defaults when target is empty.
func planTree(t *testing.T, files map[string]string, target string) *app.Plan {
	t.Helper()
	dir := testutil.WriteTree(t, files)
	cfg, err := app.NewConfig(app.Config{File: dir, Target: target, LogLevel: "debug", Workers: 4})
	require.NoError(t, err)

	a, err := app.NewApp(&testutil.SafeBuffer{}, &testutil.SafeBuffer{}, cfg)
	require.NoError(t, err)
	plan, err := a.Plan(context.Background())
	require.NoError(t, err)
	return plan
}
