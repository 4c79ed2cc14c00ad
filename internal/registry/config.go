// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/buildgrid/internal/filtered"
	"github.com/specialistvlad/buildgrid/internal/fsutil"
	"github.com/specialistvlad/buildgrid/internal/model"
)

// ConfigError reports a malformed extension config value.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config key %q: %s", e.Key, e.Reason)
}

// ConfigString reads an optional string value.
func ConfigString(config map[string]any, key string) (string, error) {
	raw, ok := config[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", &ConfigError{Key: key, Reason: fmt.Sprintf("expected a string, got %T", raw)}
	}
	return s, nil
}

// ConfigStrings reads an optional string or list of strings.
func ConfigStrings(config map[string]any, key string) ([]string, error) {
	raw, ok := config[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, &ConfigError{Key: key, Reason: fmt.Sprintf("expected strings, got %T", item)}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &ConfigError{Key: key, Reason: fmt.Sprintf("expected a string or list, got %T", raw)}
	}
}

// Layout describes a conventional install prefix: include, lib and bin
// directories below dir. Directories that do not exist are left out.
func Layout(dir string, libFiles []string) *model.Resolution {
	res := &model.Resolution{}
	if d := filepath.Join(dir, "include"); fsutil.Exists(d) {
		res.HeaderDirs = filtered.Of(d)
	}
	if d := filepath.Join(dir, "lib"); fsutil.Exists(d) {
		res.LibDirs = filtered.Of(d)
		res.LibFiles = filtered.Of(libFiles...)
	}
	if d := filepath.Join(dir, "bin"); fsutil.Exists(d) {
		res.BinDirs = filtered.Of(d)
	}
	return res
}
