// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package steps

import (
	"context"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/specialistvlad/buildgrid/internal/ctxlog"
	"github.com/specialistvlad/buildgrid/internal/fsutil"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/quintet"
)

// Synthesizer turns targets into build steps, reading input files through
// a fsutil.Matcher.
type Synthesizer struct {
	files fsutil.Matcher
}

// New returns a Synthesizer reading the file system through m.
func New(m fsutil.Matcher) *Synthesizer {
	return &Synthesizer{files: m}
}

// Synthesize computes the steps of every target in order, which must list
// dependencies before dependents. q is the root quintet.
func (s *Synthesizer) Synthesize(ctx context.Context, order []*model.Target, q quintet.Quintet) error {
	for _, t := range order {
		if err := s.TargetSteps(ctx, t, q); err != nil {
			return err
		}
	}
	return nil
}

// TargetSteps picks a toolchain for t and replaces t.Steps with the steps of
// its kind.
func (s *Synthesizer) TargetSteps(ctx context.Context, t *model.Target, q quintet.Quintet) error {
	logger := ctxlog.FromContext(ctx)
	specific := t.SpecificQuintet(q)
	tc, ok := t.Parent.ToolchainFor(specific)
	if !ok {
		return &NoViableToolchainError{Target: t.String(), Quintet: specific.String()}
	}
	logger.Debug("Using toolchain.", "target", t.String(), "toolchain", tc.Name)

	b := &builder{files: s.files, t: t, rootQ: q, q: specific, tc: tc}
	var (
		steps []*model.Step
		err   error
	)
	switch {
	case t.Kind.Links():
		steps, err = b.linkedSteps()
	case t.Kind.Archives():
		steps, err = b.archivedSteps()
	case t.Kind.Compiles():
		steps, err = b.compiledSteps()
	default:
		steps, err = b.headerOnlySteps()
	}
	if err != nil {
		return err
	}
	t.Steps = steps
	logger.Debug("Synthesized build steps.", "target", t.String(), "count", len(steps))
	return nil
}

// builder holds the inputs shared by the step functions of one target.
type builder struct {
	files fsutil.Matcher
	t     *model.Target
	tc    *model.Toolchain
	rootQ quintet.Quintet
	// q is the target's narrowed quintet.
	q quintet.Quintet
}

func (b *builder) dir() string {
	return b.t.Parent.WorkspaceDir
}

func (b *builder) match(include, exclude []string, skip []string) ([]string, error) {
	paths, err := fsutil.Paths(b.files, include, exclude, b.dir())
	if err != nil {
		return nil, err
	}
	if len(skip) == 0 {
		return paths, nil
	}
	return slices.DeleteFunc(paths, func(p string) bool { return slices.Contains(skip, p) }), nil
}

// exports returns the export specs of target t for its own quintet.
func (b *builder) exports(t *model.Target) []*model.ExportSpec {
	return t.Exports.MatchingElements(t.SpecificQuintet(b.rootQ))
}

// dependencies are the bound internal dependencies of the target.
func (b *builder) dependencies() []*model.Target {
	var deps []*model.Target
	for _, ref := range b.t.Depends.MatchingElements(b.q) {
		if ref.Target != nil {
			deps = append(deps, ref.Target)
		}
	}
	return deps
}

// resolutions are the resolved external dependencies of the target.
func (b *builder) resolutions() []*model.Resolution {
	var out []*model.Resolution
	for _, dep := range b.t.ExternalDeps.MatchingElements(b.q) {
		if dep.Resolution != nil {
			out = append(out, dep.Resolution)
		}
	}
	return out
}

func (b *builder) headerOnlySteps() ([]*model.Step, error) {
	var mappings []*model.NameMap
	for _, exp := range b.exports(b.t) {
		mappings = append(mappings, exp.Headers.MatchingElements(b.q)...)
	}
	var patterns []string
	for _, m := range mappings {
		patterns = append(patterns, m.Keys()...)
	}
	inputs, err := b.match(patterns, nil, nil)
	if err != nil {
		return nil, err
	}
	fwd, err := Rename(inputs, mappings)
	if err != nil {
		return nil, err
	}

	copyStep := model.NewStep(model.StepCopy, b.t, fwd)
	if copyStep.IsEmpty() {
		return nil, nil
	}
	return []*model.Step{copyStep}, nil
}

func (b *builder) compiledSteps() ([]*model.Step, error) {
	steps, err := b.headerOnlySteps()
	if err != nil {
		return nil, err
	}
	compileSteps, err := b.compileSteps()
	if err != nil {
		return nil, err
	}
	for _, copyStep := range steps {
		for _, c := range compileSteps {
			c.Link(copyStep)
		}
	}
	return append(steps, compileSteps...), nil
}

func (b *builder) compileSteps() ([]*model.Step, error) {
	commonExclusions, err := b.match(b.t.Excludes.MatchingElements(b.q), nil, nil)
	if err != nil {
		return nil, err
	}
	commonHeaders, err := b.match(b.t.Headers.MatchingElements(b.q), nil, commonExclusions)
	if err != nil {
		return nil, err
	}
	internalIncludes, depDefines, depFlags := b.internalCompileInputs()
	externalIncludes := b.externalIncludeDirs()
	mappings := b.tc.Compiler.NameMapping.MatchingElements(b.q)

	var steps []*model.Step
	for _, spec := range b.t.Sources.MatchingElements(b.q) {
		excludes := spec.Excludes.MatchingElements(b.q)
		sources, err := b.match(spec.Srcs.MatchingElements(b.q), excludes, commonExclusions)
		if err != nil {
			return nil, err
		}
		headers, err := b.match(spec.Headers.MatchingElements(b.q), excludes, commonExclusions)
		if err != nil {
			return nil, err
		}
		fwd, err := Rename(sources, mappings)
		if err != nil {
			return nil, err
		}

		step := model.NewStep(model.StepCompile, b.t, fwd)
		if step.IsEmpty() {
			continue
		}
		step.Tool = b.tc.Compiler
		step.TargetHeaders = append(headers, commonHeaders...)
		step.InternalIncludeDirs = internalIncludes
		step.ExternalIncludeDirs = externalIncludes
		step.Defines = concat(
			b.tc.Compiler.Defines.MatchingElements(b.q),
			depDefines,
			b.t.Defines.MatchingElements(b.q),
			spec.Defines.MatchingElements(b.q),
		)
		step.Flags = concat(
			b.tc.Compiler.Flags.MatchingElements(b.q),
			depFlags,
			b.t.CompilerFlags.MatchingElements(b.q),
			spec.Flags.MatchingElements(b.q),
		)
		steps = append(steps, step)
	}
	return steps, nil
}

// internalCompileInputs collects, from every internal dependency, the
// directories its exported headers are copied to and its exported defines
// and compiler flags.
func (b *builder) internalCompileInputs() (dirs, defines, flags []string) {
	for _, dep := range b.dependencies() {
		depQ := dep.SpecificQuintet(b.rootQ)
		for _, exp := range b.exports(dep) {
			for _, m := range exp.Headers.MatchingElements(depQ) {
				for _, out := range m.Outputs() {
					dirs = appendUnique(dirs, filepath.Join(dep.Parent.WorkspaceDir, filepath.FromSlash(path.Dir(out))))
				}
			}
			defines = append(defines, exp.Defines.MatchingElements(depQ)...)
			flags = append(flags, exp.CompilerFlags.MatchingElements(depQ)...)
		}
	}
	return dirs, defines, flags
}

func (b *builder) externalIncludeDirs() []string {
	var dirs []string
	for _, res := range b.resolutions() {
		for _, d := range res.HeaderDirs.MatchingElements(b.q) {
			dirs = appendUnique(dirs, d)
		}
	}
	return dirs
}

func (b *builder) linkedSteps() ([]*model.Step, error) {
	steps, err := b.compiledSteps()
	if err != nil {
		return nil, err
	}
	link := b.finalStep(model.StepLink, b.tc.Linker, steps)
	if link.IsEmpty() {
		return steps, nil
	}

	link.InternalLibs = b.internalLibs()
	if link.ExternalLibs, err = b.externalLibs(); err != nil {
		return nil, err
	}
	var depFlags []string
	for _, dep := range b.linkDependencies() {
		for _, exp := range b.exports(dep) {
			depFlags = append(depFlags, exp.LinkerFlags.MatchingElements(dep.SpecificQuintet(b.rootQ))...)
		}
	}
	link.Flags = concat(b.tc.Linker.Flags.MatchingElements(b.q), depFlags, b.t.LinkerFlags.MatchingElements(b.q))
	return append(steps, link), nil
}

func (b *builder) archivedSteps() ([]*model.Step, error) {
	steps, err := b.compiledSteps()
	if err != nil {
		return nil, err
	}
	archive := b.finalStep(model.StepArchive, b.tc.Archiver, steps)
	if archive.IsEmpty() {
		return steps, nil
	}
	archive.Flags = concat(b.tc.Archiver.Flags.MatchingElements(b.q), b.t.ArchiverFlags.MatchingElements(b.q))
	return append(steps, archive), nil
}

// finalStep maps every object of the target's compile steps to the output
// templates of tool, with the first `*` replaced by the workspace directory
// name, and makes the step need every compile step.
func (b *builder) finalStep(kind model.StepKind, tool *model.Tool, steps []*model.Step) *model.Step {
	var compiles, objects []string
	var compileSteps []*model.Step
	for _, s := range steps {
		if s.Kind == model.StepCompile {
			compileSteps = append(compileSteps, s)
			compiles = append(compiles, s.Outputs()...)
		}
	}
	for _, o := range compiles {
		objects = appendUnique(objects, o)
	}

	base := filepath.Base(b.dir())
	var names []string
	for _, m := range tool.NameMapping.MatchingElements(b.q) {
		for _, tmpl := range m.Outputs() {
			names = appendUnique(names, strings.Replace(tmpl, "*", base, 1))
		}
	}

	fwd := model.NewNameMap()
	if len(names) > 0 {
		for _, obj := range objects {
			fwd.Set(obj, model.Mapping{Inputs: objects, Outputs: names})
		}
	}
	step := model.NewStep(kind, b.t, fwd)
	step.Tool = tool
	if !step.IsEmpty() {
		for _, c := range compileSteps {
			step.Link(c)
		}
	}
	return step
}

// linkDependencies are the internal dependencies of the target and, in turn,
// theirs. Every target comes before the targets it depends on, which is the
// order a linker resolves static libraries in.
func (b *builder) linkDependencies() []*model.Target {
	seen := map[*model.Target]bool{}
	var post []*model.Target
	var visit func(t *model.Target, q quintet.Quintet)
	visit = func(t *model.Target, q quintet.Quintet) {
		for _, ref := range t.Depends.MatchingElements(q) {
			dep := ref.Target
			if dep == nil || seen[dep] {
				continue
			}
			seen[dep] = true
			visit(dep, dep.SpecificQuintet(b.rootQ))
			post = append(post, dep)
		}
	}
	visit(b.t, b.q)
	slices.Reverse(post)
	return post
}

// internalLibs are the outputs of the link or archive step of every
// transitive dependency, or of its compile steps when it has neither, under
// its workspace.
func (b *builder) internalLibs() []string {
	var libs []string
	for _, dep := range b.linkDependencies() {
		outputs := stepOutputs(dep, model.StepLink, model.StepArchive)
		if len(outputs) == 0 {
			outputs = stepOutputs(dep, model.StepCompile)
		}
		for _, o := range outputs {
			libs = appendUnique(libs, filepath.Join(dep.Parent.WorkspaceDir, filepath.FromSlash(o)))
		}
	}
	return libs
}

func (b *builder) externalLibs() ([]string, error) {
	var libs []string
	for _, res := range b.resolutions() {
		patterns := res.LibFiles.MatchingElements(b.q)
		for _, dir := range res.LibDirs.MatchingElements(b.q) {
			found, err := fsutil.Paths(b.files, patterns, nil, dir)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				libs = appendUnique(libs, filepath.Join(dir, filepath.FromSlash(f)))
			}
		}
	}
	return libs, nil
}

func stepOutputs(t *model.Target, kinds ...model.StepKind) []string {
	var out []string
	for _, s := range t.Steps {
		if slices.Contains(kinds, s.Kind) {
			out = append(out, s.Outputs()...)
		}
	}
	return out
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
