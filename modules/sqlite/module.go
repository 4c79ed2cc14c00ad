// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package sqlite resolves external dependencies from a package index kept
// in an SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/specialistvlad/buildgrid/internal/filtered"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/quintet"
	"github.com/specialistvlad/buildgrid/internal/registry"
)

// Handler is the handler name extensions use to select this manager.
const Handler = "sqlite"

// DatabaseProperty is the workspace property consulted when the extension
// config has no `database`.
const DatabaseProperty = "package_index"

// Schema is the layout of the package index. `quintet` is a pattern matched
// against the active quintet; the first matching row wins. `lib_files` is a
// whitespace separated list of patterns.
const Schema = `
CREATE TABLE packages (
	name TEXT NOT NULL,
	version TEXT NOT NULL DEFAULT '',
	quintet TEXT NOT NULL DEFAULT '*:*:*:*:*',
	include_dir TEXT NOT NULL DEFAULT '',
	lib_dir TEXT NOT NULL DEFAULT '',
	bin_dir TEXT NOT NULL DEFAULT '',
	lib_files TEXT NOT NULL DEFAULT ''
);
`

const lookupQuery = `
	SELECT quintet, include_dir, lib_dir, bin_dir, lib_files
	FROM packages
	WHERE name = ? AND version = ?
	ORDER BY rowid`

// Module implements the registry.Module interface for this package.
type Module struct{}

// Manager queries the index. The database is opened read-only on first use.
type Manager struct {
	Database string

	once sync.Once
	db   *sql.DB
	err  error
}

var _ model.PackageManager = (*Manager)(nil)

// New builds a Manager from an extension config with an optional
// `database` path.
func New(config map[string]any) (model.PackageManager, error) {
	path, err := registry.ConfigString(config, "database")
	if err != nil {
		return nil, err
	}
	return &Manager{Database: path}, nil
}

// Open returns a Manager over an already opened database.
func Open(db *sql.DB) *Manager {
	m := &Manager{db: db}
	m.once.Do(func() {})
	return m
}

func (m *Manager) open(env model.HostEnv) (*sql.DB, error) {
	m.once.Do(func() {
		path := m.Database
		if path == "" {
			if path, m.err = env.Lookup(DatabaseProperty); m.err != nil {
				return
			}
		}
		db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
		if err != nil {
			m.err = fmt.Errorf("failed to open package index %s: %w", path, err)
			return
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			m.err = fmt.Errorf("failed to open package index %s: %w", path, err)
			return
		}
		m.db = db
	})
	return m.db, m.err
}

// Close closes the database if it was opened.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

// Resolve implements model.PackageManager.
func (m *Manager) Resolve(env model.HostEnv, dep *model.ExternalDependency, q quintet.Quintet) (*model.Resolution, error) {
	db, err := m.open(env)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(lookupQuery, dep.Name, dep.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to query package index: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pattern, include, lib, bin, libFiles string
		if err := rows.Scan(&pattern, &include, &lib, &bin, &libFiles); err != nil {
			return nil, fmt.Errorf("failed to read package index row: %w", err)
		}
		p, err := quintet.Parse(pattern)
		if err != nil {
			return nil, fmt.Errorf("package index entry %s: %w", dep.Key(), err)
		}
		if !p.Match(q) {
			continue
		}
		return row(include, lib, bin, libFiles), nil
	}
	return nil, rows.Err()
}

func row(include, lib, bin, libFiles string) *model.Resolution {
	res := &model.Resolution{}
	if include != "" {
		res.HeaderDirs = filtered.Of(include)
	}
	if lib != "" {
		res.LibDirs = filtered.Of(lib)
		res.LibFiles = filtered.Of(strings.Fields(libFiles)...)
	}
	if bin != "" {
		res.BinDirs = filtered.Of(bin)
	}
	return res
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(Handler, New)
}
