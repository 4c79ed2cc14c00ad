package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/moby/patternmatcher"
)

// File is one match. Path is slash-separated and relative to the base
// directory of the search.
type File struct {
	Path string
	Info fs.FileInfo
}

// Matcher finds files under a directory.
type Matcher interface {
	Match(include, exclude []string, baseDir string) ([]File, error)
}

// Glob is the on-disk Matcher.
type Glob struct{}

var _ Matcher = Glob{}

// Match walks baseDir and returns, in lexical order, the regular files
// matching any include pattern and no exclude pattern. A missing baseDir
// yields no files.
func (Glob) Match(include, exclude []string, baseDir string) ([]File, error) {
	if len(include) == 0 {
		return nil, nil
	}
	inc, err := compile(include)
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	exc, err := compile(exclude)
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}

	var files []File
	err = filepath.WalkDir(baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == baseDir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		rel, err := filepath.Rel(baseDir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		excluded, err := exc.MatchesOrParentMatches(rel)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if excluded {
				return filepath.SkipDir
			}
			return nil
		}
		if excluded {
			return nil
		}
		included, err := inc.MatchesOrParentMatches(rel)
		if err != nil || !included {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, File{Path: rel, Info: info})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Paths runs m and returns only the matched paths.
func Paths(m Matcher, include, exclude []string, baseDir string) ([]string, error) {
	files, err := m.Match(include, exclude, baseDir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out, nil
}

// compile turns glob patterns into a patternmatcher, matching patterns
// without a separator against base names.
func compile(patterns []string) (*patternmatcher.PatternMatcher, error) {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimPrefix(path.Clean(filepath.ToSlash(strings.TrimSpace(p))), "./")
		if p == "" || p == "." {
			continue
		}
		if !strings.Contains(p, "/") {
			p = "**/" + p
		}
		normalized = append(normalized, filepath.FromSlash(p))
	}
	return patternmatcher.New(normalized)
}

// Exists reports whether name exists.
func Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
