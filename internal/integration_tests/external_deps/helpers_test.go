package integration_tests

import (
	"context"
	"sync"
	"testing"

	"github.com/specialistvlad/buildgrid/internal/app"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/quintet"
	"github.com/specialistvlad/buildgrid/internal/registry"
	"github.com/specialistvlad/buildgrid/internal/testutil"
	"github.com/stretchr/testify/require"
)

const target = "linux:gcc:*:amd64:debug"

const toolchainHCL = `
toolchain "gcc" {
  quintets              = ["linux:gcc:*:*:*"]
  compiler_name         = "gcc"
  compiler_name_mapping = { "*.c" = "*.o" }
  linker_name           = "gcc"
  linker_name_mapping   = { "*.o" = "*" }
}
`

// planTree writes files and plans them with the given handler modules.
func planTree(t *testing.T, files map[string]string, modules ...registry.Module) (*app.Plan, *testutil.SafeBuffer, error) {
	t.Helper()
	dir := testutil.WriteTree(t, files)
	cfg, err := app.NewConfig(app.Config{File: dir, Target: target, LogLevel: "debug", Workers: 2})
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	a, err := app.NewApp(&testutil.SafeBuffer{}, logs, cfg, modules...)
	require.NoError(t, err)
	plan, err := a.Plan(context.Background())
	return plan, logs, err
}

// recorderModule registers a "recorder" handler that resolves the packages
// listed in its `knows` config and records every call.
type recorderModule struct {
	mu    sync.Mutex
	calls []string
}

func (m *recorderModule) Register(r *registry.Registry) {
	r.RegisterHandler("recorder", func(config map[string]any) (model.PackageManager, error) {
		name, err := registry.ConfigString(config, "name")
		if err != nil {
			return nil, err
		}
		knows, err := registry.ConfigStrings(config, "knows")
		if err != nil {
			return nil, err
		}
		return &recorder{module: m, name: name, knows: knows}, nil
	})
}

func (m *recorderModule) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

type recorder struct {
	module *recorderModule
	name   string
	knows  []string
}

func (r *recorder) Resolve(_ model.HostEnv, dep *model.ExternalDependency, _ quintet.Quintet) (*model.Resolution, error) {
	r.module.mu.Lock()
	r.module.calls = append(r.module.calls, r.name+":"+dep.Key())
	r.module.mu.Unlock()
	for _, k := range r.knows {
		if k == dep.Name {
			return model.NewResolution(map[string]any{"header_dirs": "/opt/" + r.name + "/" + dep.Name})
		}
	}
	return nil, nil
}
