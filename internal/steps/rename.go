// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package steps

import (
	"path"
	"regexp"
	"strings"

	"github.com/specialistvlad/buildgrid/internal/model"
)

// span is the half-open byte range of a run of `*` in a template.
type span struct{ start, end int }

func (s span) len() int { return s.end - s.start }

// wildcardSpans locates every run of consecutive `*`, including a trailing
// one.
func wildcardSpans(tmpl string) []span {
	var spans []span
	start := -1
	for i := 0; i < len(tmpl); i++ {
		switch {
		case tmpl[i] == '*' && start < 0:
			start = i
		case tmpl[i] != '*' && start >= 0:
			spans = append(spans, span{start, i})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(tmpl)})
	}
	return spans
}

// captureRegexp compiles an input template into a regexp with one group per
// wildcard run: `*` captures within a path segment, `**` across segments.
func captureRegexp(tmpl string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	last := 0
	for _, s := range wildcardSpans(tmpl) {
		b.WriteString(literal(tmpl[last:s.start]))
		if s.len() == 1 {
			b.WriteString("([^/]*)")
		} else {
			b.WriteString("(.*)")
		}
		last = s.end
	}
	b.WriteString(literal(tmpl[last:]))
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// literal quotes text, keeping `?` as a single-character wildcard.
func literal(text string) string {
	parts := strings.Split(text, "?")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(parts, "[^/]")
}

// Rename applies name mappings to inputs. Every (input template, output
// template) pair of every mapping is tried against every input; captured
// wildcard runs are substituted into the output template left to right.
// An input template without a `/` is matched against the input's base name.
// An empty input template with no inputs maps "" to its output templates.
func Rename(inputs []string, mappings []*model.NameMap) (*model.NameMap, error) {
	out := model.NewNameMap()
	for _, m := range mappings {
		var err error
		m.Each(func(_ string, pair *model.Mapping) {
			for _, from := range pair.Inputs {
				for _, to := range pair.Outputs {
					if err != nil {
						return
					}
					err = renameAll(out, inputs, from, to)
				}
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func renameAll(out *model.NameMap, inputs []string, from, to string) error {
	if from == "" && len(inputs) == 0 {
		out.AppendOutputs("", to)
		return nil
	}
	re, err := captureRegexp(from)
	if err != nil {
		return err
	}
	fromSpans, toSpans := wildcardSpans(from), wildcardSpans(to)
	matchBase := !strings.Contains(from, "/")

	for _, input := range inputs {
		subject := input
		if matchBase {
			subject = path.Base(input)
		}
		captures := re.FindStringSubmatch(subject)
		if captures == nil {
			continue
		}
		captures = captures[1:]

		var result strings.Builder
		j := 0
		for i := 0; i < len(captures) && i < len(fromSpans) && i < len(toSpans); i++ {
			if fromSpans[i].len() != toSpans[i].len() {
				return &UnsupportedRenameError{Input: input, From: from, To: to}
			}
			result.WriteString(to[j:toSpans[i].start])
			result.WriteString(captures[i])
			j = toSpans[i].end
		}
		result.WriteString(to[j:])
		out.AppendOutputs(input, result.String())
	}
	return nil
}
