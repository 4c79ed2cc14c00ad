package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	targetColor  = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
)

// Render writes plan to w in the given output format.
func Render(w io.Writer, plan *Plan, format string) error {
	switch format {
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return err
		}
		return enc.Close()
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case OutputText, "":
		return renderText(w, plan)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// RenderOrder writes one label per line.
func RenderOrder(w io.Writer, order []string) error {
	for _, name := range order {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

func renderText(w io.Writer, plan *Plan) error {
	var b strings.Builder
	headingColor.Fprintf(&b, "Workspace %s (%s)\n", plan.Workspace, plan.Quintet)
	for _, t := range plan.Targets {
		b.WriteString("\n")
		targetColor.Fprintf(&b, "%s", t.Name)
		fmt.Fprintf(&b, " [%s %s]\n", t.Kind, t.Quintet)
		for _, s := range t.Steps {
			tool := s.Tool
			if tool == "" {
				tool = "-"
			}
			fmt.Fprintf(&b, "  %-8s %s\n", s.Kind, tool)
			writeList(&b, "in", s.Inputs)
			writeList(&b, "out", s.Outputs)
			writeList(&b, "include", s.IncludeDirs)
			writeList(&b, "define", s.Defines)
			writeList(&b, "flags", s.Flags)
			writeList(&b, "libs", s.Libs)
			writeList(&b, "needs", s.Needs)
		}
	}
	if len(plan.Warnings) > 0 {
		b.WriteString("\n")
		for _, msg := range plan.Warnings {
			warningColor.Fprintf(&b, "warning: %s\n", msg)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, name string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "    %-8s %s\n", name+":", strings.Join(values, " "))
}
