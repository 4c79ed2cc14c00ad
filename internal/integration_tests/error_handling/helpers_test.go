package integration_tests

import (
	"context"
	"testing"

	"github.com/specialistvlad/buildgrid/internal/app"
	"github.com/specialistvlad/buildgrid/internal/testutil"
	"github.com/stretchr/testify/require"
)

const toolchainHCL = `
toolchain "gcc" {
  quintets              = ["linux:gcc:*:*:*"]
  compiler_name         = "gcc"
  compiler_name_mapping = { "*.c" = "*.o" }
  linker_name           = "gcc"
  linker_name_mapping   = { "*.o" = "*" }
}
`

// planTree writes files and plans them for linux:gcc:*:amd64:debug with
// the core handlers.
func planTree(t *testing.T, files map[string]string) error {
	t.Helper()
	dir := testutil.WriteTree(t, files)
	cfg, err := app.NewConfig(app.Config{File: dir, Target: "linux:gcc:*:amd64:debug", LogLevel: "debug", Workers: 2})
	require.NoError(t, err)

	a, err := app.NewApp(&testutil.SafeBuffer{}, &testutil.SafeBuffer{}, cfg)
	require.NoError(t, err)
	_, err = a.Plan(context.Background())
	return err
}
