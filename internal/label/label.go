// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package label

import (
	"path/filepath"
	"strings"
)

// String returns the label in its textual form.
func (l Label) String() string {
	return l.Base + l.Filename + l.Target
}

// IsAbsolute is true when all three parts are set.
func (l Label) IsAbsolute() bool {
	return l.Base != "" && l.Filename != "" && l.Target != ""
}

// Equal compares labels part by part.
func (l Label) Equal(other Label) bool {
	return l == other
}

// MakeAbsolute completes the missing parts of l from loc:
//   - a blank base becomes `//` plus the workspace directory relative to the
//     root, or `/` for the root itself so that its labels read `//build.hcl:x`;
//   - a blank file name becomes the default build file;
//   - a blank target becomes the last segment of the base, which is empty at
//     the root.
func (l Label) MakeAbsolute(loc Location) Label {
	if l.Base == "" {
		l.Base = RootBase
		if rel := relativeBase(loc.RootDir, loc.WorkspaceDir); rel != "" {
			l.Base = "//" + rel
		}
	}
	if l.Filename == "" {
		l.Filename = "/" + loc.BuildFile
	}
	if l.Target == "" {
		segments := strings.Split(strings.TrimRight(l.Base, "/"), "/")
		l.Target = ":" + segments[len(segments)-1]
	}
	return l
}

func relativeBase(root, dir string) string {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(dir))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel)
}
