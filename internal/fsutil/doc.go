// Package fsutil matches file patterns against the file system.
//
// Patterns follow the .dockerignore dialect of github.com/moby/patternmatcher:
// `*` and `?` stay inside one path segment, `**` crosses segments, and a
// pattern that matches a directory selects everything below it. A pattern
// without a `/` is matched against base names at any depth.
package fsutil
