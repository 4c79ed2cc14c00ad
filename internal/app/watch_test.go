package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/buildgrid/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestApp_WatchReplansOnChange(t *testing.T) {
	dir := project(t, nil)
	cfg, err := NewConfig(Config{File: dir, Target: target, LogLevel: "debug"})
	require.NoError(t, err)

	out := &testutil.SafeBuffer{}
	a, err := NewApp(out, &testutil.SafeBuffer{}, cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, 20*time.Millisecond) }()

	plans := func() int { return strings.Count(out.String(), "Workspace top") }
	require.Eventually(t, func() bool { return plans() == 1 }, 5*time.Second, 10*time.Millisecond)

	// The watcher starts after the first render; keep touching the file
	// until the second plan shows up.
	lib := filepath.Join(dir, "lib", "build.hcl")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(lib, []byte(libHCL), 0o644)
		return plans() >= 2
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
