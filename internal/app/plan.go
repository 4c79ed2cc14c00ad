package app

import (
	"slices"

	"github.com/specialistvlad/buildgrid/internal/external"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/quintet"
)

// Plan is the outcome of a run: every target in build order with its steps.
type Plan struct {
	RunID     string       `yaml:"run_id" json:"run_id"`
	Workspace string       `yaml:"workspace" json:"workspace"`
	Quintet   string       `yaml:"quintet" json:"quintet"`
	Order     []string     `yaml:"order" json:"order"`
	Targets   []TargetPlan `yaml:"targets" json:"targets"`
	Warnings  []string     `yaml:"warnings,omitempty" json:"warnings,omitempty"`

	// Files are the descriptor files the tree was loaded from.
	Files []string `yaml:"-" json:"-"`
}

// TargetPlan is one target of a Plan.
type TargetPlan struct {
	Name    string     `yaml:"name" json:"name"`
	Kind    string     `yaml:"kind" json:"kind"`
	Quintet string     `yaml:"quintet" json:"quintet"`
	Steps   []StepPlan `yaml:"steps" json:"steps"`
}

// StepPlan is one step of a target.
type StepPlan struct {
	Kind        string   `yaml:"kind" json:"kind"`
	Tool        string   `yaml:"tool,omitempty" json:"tool,omitempty"`
	Inputs      []string `yaml:"inputs" json:"inputs"`
	Outputs     []string `yaml:"outputs" json:"outputs"`
	IncludeDirs []string `yaml:"include_dirs,omitempty" json:"include_dirs,omitempty"`
	Defines     []string `yaml:"defines,omitempty" json:"defines,omitempty"`
	Flags       []string `yaml:"flags,omitempty" json:"flags,omitempty"`
	Libs        []string `yaml:"libs,omitempty" json:"libs,omitempty"`
	Needs       []string `yaml:"needs,omitempty" json:"needs,omitempty"`
}

func newPlan(runID string, root *model.Workspace, q quintet.Quintet, order []*model.Target, missing []external.Missing) *Plan {
	p := &Plan{
		RunID:     runID,
		Workspace: root.DisplayName(),
		Quintet:   q.String(),
		Order:     labels(order),
		Targets:   make([]TargetPlan, 0, len(order)),
	}
	for _, t := range order {
		p.Targets = append(p.Targets, newTargetPlan(t, q))
	}
	for _, m := range missing {
		p.Warnings = append(p.Warnings, m.String())
	}
	if root.Files != nil {
		for name := range root.Files.Snapshot() {
			p.Files = append(p.Files, name)
		}
		slices.Sort(p.Files)
	}
	return p
}

func newTargetPlan(t *model.Target, q quintet.Quintet) TargetPlan {
	tp := TargetPlan{
		Name:    t.String(),
		Kind:    string(t.Kind),
		Quintet: t.SpecificQuintet(q).String(),
		Steps:   make([]StepPlan, 0, len(t.Steps)),
	}
	for _, s := range t.Steps {
		tp.Steps = append(tp.Steps, newStepPlan(s))
	}
	return tp
}

func newStepPlan(s *model.Step) StepPlan {
	sp := StepPlan{
		Kind:        string(s.Kind),
		Inputs:      s.InputsToOutputs.Keys(),
		Outputs:     s.Outputs(),
		IncludeDirs: concat(s.InternalIncludeDirs, s.ExternalIncludeDirs),
		Defines:     s.Defines,
		Flags:       s.Flags,
		Libs:        concat(s.InternalLibs, s.ExternalLibs),
	}
	if s.Tool != nil {
		sp.Tool = s.Tool.Executable
	}
	for _, dep := range s.Needs {
		if name := dep.String(); !slices.Contains(sp.Needs, name) {
			sp.Needs = append(sp.Needs, name)
		}
	}
	return sp
}

func concat(a, b []string) []string {
	if len(a)+len(b) == 0 {
		return nil
	}
	return append(slices.Clip(a), b...)
}
