// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/specialistvlad/buildgrid/internal/codec"
	"github.com/specialistvlad/buildgrid/internal/ctxlog"
	"github.com/specialistvlad/buildgrid/internal/descriptor"
	"github.com/specialistvlad/buildgrid/internal/filtered"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/quintet"
	"github.com/specialistvlad/buildgrid/internal/registry"
	"github.com/specialistvlad/buildgrid/internal/worker"
)

// Loader loads workspace trees.
type Loader struct {
	parsers  descriptor.Parsers
	handlers *registry.Registry
	codecs   *codec.Registry
	runtime  worker.Runtime
}

// New returns a Loader running at most workers component loads at a time.
// Extensions are bound to managers from handlers.
func New(parsers descriptor.Parsers, handlers *registry.Registry, workers int) *Loader {
	l := &Loader{parsers: parsers, handlers: handlers, codecs: codec.NewRegistry()}
	l.codecs.Register(InputTag, codec.StructCodec[Input]{})
	l.codecs.Register(OutputTag, codec.StructCodec[Output]{After: l.restore})
	registerErrors(l.codecs)
	l.runtime = worker.NewLocal(workers, l.handle)
	return l
}

// Load reads the root workspace described by in and every component below
// it. The returned workspace owns the file cache of the whole tree.
func (l *Loader) Load(ctx context.Context, in Input) (*model.Workspace, error) {
	abs, err := filepath.Abs(in.Filename)
	if err != nil {
		return nil, err
	}
	in.Filename = abs
	if in.RootDir == "" {
		in.RootDir = filepath.Dir(abs)
	}
	ws, err := l.load(ctx, in, model.NewFileCache())
	if err != nil {
		return nil, err
	}
	ws.Relink()
	if err := l.bind(ws); err != nil {
		return nil, err
	}
	return ws, nil
}

func (l *Loader) bind(ws *model.Workspace) error {
	if l.handlers == nil {
		return nil
	}
	return l.handlers.BindAll(ws)
}

func (l *Loader) load(ctx context.Context, in Input, files *model.FileCache) (*model.Workspace, error) {
	logger := ctxlog.FromContext(ctx).With("file", in.Filename)
	logger.Debug("Loading workspace.")

	records, err := l.parseFile(files, in.Filename)
	if err != nil {
		return nil, err
	}
	var wsRecords []descriptor.Record
	for _, rec := range records {
		if rec.Kind == descriptor.KindWorkspace {
			wsRecords = append(wsRecords, rec)
		}
	}
	if len(wsRecords) != 1 {
		return nil, fmt.Errorf("%s: %w", in.Filename, &model.DescriptorError{
			Kind:   descriptor.KindWorkspace,
			Reason: fmt.Sprintf("expected a single workspace definition, found %d", len(wsRecords)),
		})
	}

	ws, err := model.NewWorkspace(wsRecords[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Filename, err)
	}
	ws.RootDir = in.RootDir
	ws.BuiltinDir = in.BuiltinDir
	ws.HomeDir = in.HomeDir
	ws.WorkspaceDir = filepath.Dir(in.Filename)
	ws.BuildFile = filepath.Base(in.Filename)
	ws.Files = files
	if err := ws.Apply(records); err != nil {
		return nil, fmt.Errorf("%s: %w", in.Filename, err)
	}

	if in.Target == "" {
		ws.TargetQuintet = ws.DefaultTarget()
		logger.Debug("Target quintet detected.", "quintet", ws.TargetQuintet.String())
	} else if ws.TargetQuintet, err = quintet.Parse(in.Target); err != nil {
		return nil, err
	}

	if ws.Imports, err = l.loadImports(ws); err != nil {
		return nil, err
	}

	in.Chain = append(slices.Clone(in.Chain), in.Filename)
	ws.Components, err = filtered.TransformMatching(ctx, ws.ComponentNames, ws.TargetQuintet, func(ctx context.Context, name string) (*model.Workspace, error) {
		return l.loadComponent(ctx, ws, in.Chain, name)
	})
	if err != nil {
		return nil, err
	}
	ws.Relink()
	logger.Debug("Workspace loaded.", "name", ws.DisplayName(), "targets", len(ws.Targets.MatchingElements(ws.TargetQuintet)), "components", ws.Components.Len())
	return ws, nil
}

// loadImports applies every import matching the workspace quintet and
// returns the resolved file names.
func (l *Loader) loadImports(ws *model.Workspace) (filtered.Map[string], error) {
	return filtered.TransformMatchingSync(ws.ImportNames, ws.TargetQuintet, func(name string) (string, error) {
		filename := ws.ResolveFilename(name)
		records, err := l.parseFile(ws.Files, filename)
		if err != nil {
			return "", fmt.Errorf("import %s: %w", name, err)
		}
		if err := ws.Apply(records); err != nil {
			return "", fmt.Errorf("import %s: %w", filename, err)
		}
		return filename, nil
	})
}

func (l *Loader) loadComponent(ctx context.Context, parent *model.Workspace, chain []string, name string) (*model.Workspace, error) {
	filename := filepath.Clean(parent.ResolveFilename(name))
	if slices.Contains(chain, filename) {
		return nil, &ComponentCycleError{Chain: append(slices.Clone(chain), filename)}
	}

	data, err := l.codecs.Encode(InputTag, Input{
		Filename:   filename,
		Target:     parent.TargetQuintet.String(),
		RootDir:    parent.RootDir,
		BuiltinDir: parent.BuiltinDir,
		HomeDir:    parent.HomeDir,
		Chain:      chain,
	})
	if err != nil {
		return nil, err
	}
	reply, err := l.runtime.Spawn(ctx, data).Wait()
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", name, err)
	}
	out, err := codec.DecodeAs[Output](l.codecs, reply, OutputTag)
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", name, err)
	}

	added := parent.Files.MergeFrom(out.Files)
	child := out.Workspace
	child.Parent = parent
	child.Files = parent.Files
	child.Relink()
	ctxlog.FromContext(ctx).Debug("Component spliced.", "component", child.DisplayName(), "files_added", added)
	return child, nil
}

// handle is the body of a load task.
func (l *Loader) handle(ctx context.Context, data []byte) ([]byte, error) {
	in, err := codec.DecodeAs[Input](l.codecs, data, InputTag)
	if err != nil {
		return nil, err
	}
	files := model.NewFileCache()
	ws, err := l.load(ctx, *in, files)
	if err != nil {
		return l.codecs.EncodeError(err)
	}
	return l.codecs.Encode(OutputTag, &Output{Workspace: ws, Files: files.Snapshot()})
}

// restore rebuilds what the wire form of an Output leaves out.
func (l *Loader) restore(out *Output) error {
	if out.Workspace == nil {
		return fmt.Errorf("load task returned no workspace")
	}
	out.Workspace.Relink()
	return l.bind(out.Workspace)
}

func (l *Loader) parseFile(files *model.FileCache, filename string) ([]descriptor.Record, error) {
	if records, ok := files.Get(filename); ok {
		return records, nil
	}
	parser, err := l.parsers.For(filename)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, &descriptor.ParseError{Filename: filename, Err: err}
	}
	records, err := parser.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return files.Put(filename, records), nil
}
