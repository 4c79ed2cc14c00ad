package codec

import (
	"errors"
	"fmt"
	"testing"

	"github.com/specialistvlad/buildgrid/internal/descriptor"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/quintet"
	"github.com/specialistvlad/buildgrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopManager struct{}

func (nopManager) Resolve(model.HostEnv, *model.ExternalDependency, quintet.Quintet) (*model.Resolution, error) {
	return nil, nil
}

type nopModule struct{}

func (nopModule) Register(r *registry.Registry) {
	r.RegisterHandler("nop", func(map[string]any) (model.PackageManager, error) { return nopManager{}, nil })
}

func newTree(t *testing.T) *model.Workspace {
	t.Helper()
	root, err := model.NewWorkspace(descriptor.Record{Kind: descriptor.KindWorkspace, Attrs: map[string]any{
		"name":    "root",
		"targets": []any{map[string]any{"name": "app", "type": "executable", "depends": []any{"//lib/build.hcl:lib"}}},
	}})
	require.NoError(t, err)
	require.NoError(t, root.Apply([]descriptor.Record{
		{Kind: descriptor.KindExtension, Attrs: map[string]any{"name": "pkgs", "type": "package-manager", "handler": "nop"}},
		{Kind: descriptor.KindProperties, Attrs: map[string]any{"jobs": 4}},
	}))
	root.TargetQuintet = quintet.MustParse("linux:gcc:*:amd64:debug")

	child, err := model.NewWorkspace(descriptor.Record{Kind: descriptor.KindWorkspace, Attrs: map[string]any{
		"name":    "lib",
		"targets": map[string]any{"linux:*:*:*:*": []any{map[string]any{"name": "lib", "type": "static"}}},
	}})
	require.NoError(t, err)
	child.WorkspaceDir = "/src/lib"
	root.Components.Add(quintet.MustParse("linux:*:*:*:*"), child)
	root.Relink()
	return root
}

func TestWorkspaceRoundTrip(t *testing.T) {
	handlers := registry.NewWith(nopModule{})
	r := NewRegistry()
	r.Register(WorkspaceTag, WorkspaceCodec(handlers))

	data, err := r.Encode(WorkspaceTag, newTree(t))
	require.NoError(t, err)

	ws, err := DecodeAs[model.Workspace](r, data, WorkspaceTag)
	require.NoError(t, err)

	assert.Equal(t, "root", ws.Name)
	assert.Equal(t, "linux:gcc:*:amd64:debug", ws.TargetQuintet.String())
	require.Len(t, ws.Extensions, 1)
	assert.IsType(t, nopManager{}, ws.Extensions[0].Manager)

	app := ws.Targets.All()[0]
	assert.Same(t, ws, app.Parent)
	require.Len(t, app.Depends.All(), 1)
	assert.Equal(t, ":lib", app.Depends.All()[0].Label.Target)
	assert.Nil(t, app.Depends.All()[0].Target)

	entries := ws.Components.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "linux:*:*:*:*", entries[0].Pattern.String())
	child := entries[0].Values[0]
	assert.Same(t, ws, child.Parent)
	assert.Equal(t, "/src/lib", child.WorkspaceDir)
	lib := child.Targets.MatchingElements(ws.TargetQuintet)
	require.Len(t, lib, 1)
	assert.Equal(t, model.KindStatic, lib[0].Kind)
	assert.Same(t, child, lib[0].Parent)
}

func TestWorkspaceDecode_UnknownHandler(t *testing.T) {
	enc := NewRegistry()
	enc.Register(WorkspaceTag, WorkspaceCodec(nil))
	data, err := enc.Encode(WorkspaceTag, newTree(t))
	require.NoError(t, err)

	dec := NewRegistry()
	dec.Register(WorkspaceTag, WorkspaceCodec(registry.New()))
	_, err = DecodeAs[model.Workspace](dec, data, WorkspaceTag)
	var unknown *registry.UnknownHandlerError
	assert.True(t, errors.As(err, &unknown))
}

func TestRemoteError(t *testing.T) {
	r := NewRegistry()
	data, err := r.EncodeError(&model.DescriptorError{Kind: "target", Name: "x", Reason: "bad"})
	require.NoError(t, err)

	_, err = DecodeAs[model.Workspace](r, data, WorkspaceTag)
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "*model.DescriptorError", remote.Type)
	assert.Equal(t, `invalid target "x": bad`, remote.Error())
}

func TestRemoteError_RegisteredCauses(t *testing.T) {
	r := NewRegistry()
	r.RegisterError("error.descriptor", ErrorStruct[model.DescriptorError]())
	r.RegisterError("error.property", ErrorStruct[model.MissingPropertyError]())

	cause := &model.DescriptorError{Kind: "target", Name: "x", Reason: "bad"}
	data, err := r.EncodeError(fmt.Errorf("lib/build.hcl: %w", cause))
	require.NoError(t, err)

	_, err = DecodeAs[model.Workspace](r, data, WorkspaceTag)
	require.EqualError(t, err, `lib/build.hcl: invalid target "x": bad`)
	var derr *model.DescriptorError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, cause, derr)
	var perr *model.MissingPropertyError
	assert.False(t, errors.As(err, &perr))

	// A decoded error sent through another task keeps its causes.
	data, err = r.EncodeError(fmt.Errorf("component lib: %w", err))
	require.NoError(t, err)
	_, err = DecodeAs[model.Workspace](r, data, WorkspaceTag)
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "x", derr.Name)
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Len(t, remote.Causes, 1)
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()

	_, err := r.Encode("nope", 1)
	var unknown *UnknownTagError
	require.True(t, errors.As(err, &unknown))

	assert.Panics(t, func() { r.Register(ErrorTag, StructCodec[RemoteError]{}) })

	_, _, err = r.Decode([]byte{0xc1})
	assert.Error(t, err)

	_, err = r.Encode(ErrorTag, "not an error")
	assert.Error(t, err)
}
