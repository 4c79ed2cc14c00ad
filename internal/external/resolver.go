// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package external

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/specialistvlad/buildgrid/internal/ctxlog"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/quintet"
)

// AnyProvider lets any applicable extension resolve a dependency.
const AnyProvider = "*"

// Resolver resolves external dependencies and remembers every attempt.
type Resolver struct {
	attempts *cache.Cache
}

// NewResolver returns a Resolver with an empty attempt cache.
func NewResolver() *Resolver {
	return &Resolver{attempts: cache.New(cache.NoExpiration, 0)}
}

// Attempts is the number of distinct provider::name::version triples tried.
func (r *Resolver) Attempts() int {
	return r.attempts.ItemCount()
}

// Extensions returns the package-manager extensions of the tree applicable
// to q, depth first from root in declaration order.
func Extensions(root *model.Workspace, q quintet.Quintet) []*model.Extension {
	var out []*model.Extension
	_ = root.Walk(q, func(ws *model.Workspace) error {
		for _, ext := range ws.Extensions {
			if ext.Type == model.ExtensionTypePackageManager && ext.Manager != nil && ext.IsApplicable(q) {
				out = append(out, ext)
			}
		}
		return nil
	})
	return out
}

// Resolve walks the tree and resolves every external dependency of every
// target matching the root quintet. Unresolved optional dependencies are
// logged and returned; unresolved required ones make a *MissingRequiredError.
// Extension failures and undeclared references abort immediately.
func (r *Resolver) Resolve(ctx context.Context, root *model.Workspace) ([]Missing, error) {
	logger := ctxlog.FromContext(ctx)
	q := root.TargetQuintet
	extensions := Extensions(root, q)
	logger.Debug("Collected package-manager extensions.", "count", len(extensions))

	var missing []Missing
	err := root.Walk(q, func(ws *model.Workspace) error {
		for _, t := range ws.Targets.MatchingElements(q) {
			specific := t.SpecificQuintet(q)
			for _, dep := range t.ExternalDeps.MatchingElements(specific) {
				if err := bindDeclaration(t, dep); err != nil {
					return err
				}
				providers := dep.Providers.MatchingElements(specific)
				if err := r.resolveDependency(ctx, ws, t, dep, providers, extensions); err != nil {
					return err
				}
				if dep.Resolution == nil {
					missing = append(missing, Missing{
						Workspace: ws.DisplayName(),
						Target:    t.AbsoluteName().String(),
						Name:      dep.Name,
						Version:   dep.Version,
						Optional:  dep.Optional,
						Providers: providers,
					})
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var warnings []Missing
	var required []Missing
	for _, m := range missing {
		if m.Optional {
			warnings = append(warnings, m)
		} else {
			required = append(required, m)
		}
	}
	for _, w := range warnings {
		logger.Warn("Optional external dependency was not fulfilled.", "detail", w.String())
	}
	if len(required) > 0 {
		return warnings, &MissingRequiredError{Missing: required}
	}
	return warnings, nil
}

func bindDeclaration(t *model.Target, dep *model.ExternalDependency) error {
	if !dep.Reference {
		return nil
	}
	decl, ok := t.Parent.LookupExternal(dep.Name)
	if !ok {
		return &UndeclaredError{Target: t.AbsoluteName().String(), Name: dep.Name}
	}
	dep.Adopt(decl)
	return nil
}

func (r *Resolver) resolveDependency(ctx context.Context, ws *model.Workspace, t *model.Target, dep *model.ExternalDependency, providers []string, extensions []*model.Extension) error {
	logger := ctxlog.FromContext(ctx).With("target", t.AbsoluteName().String(), "dependency", dep.Key())
	q := ws.Root().TargetQuintet
	env := NewEnv(ws, q)

	for _, p := range providers {
		if dep.Resolution != nil {
			return nil
		}
		key := p + "::" + dep.Key()
		if cached, ok := r.attempts.Get(key); ok {
			if res := cached.(*model.Resolution); res != nil {
				dep.Resolve(res)
				logger.Debug("Resolved from cache.", "key", key)
			}
			continue
		}

		var res *model.Resolution
		for _, ext := range extensions {
			if ext.Name != p && p != AnyProvider {
				continue
			}
			found, err := ext.Manager.Resolve(env, dep, q)
			if err != nil {
				return fmt.Errorf("extension %q resolving %s: %w", ext.Name, key, err)
			}
			if found != nil {
				logger.Debug("Resolved by extension.", "extension", ext.Name)
				res = found
				break
			}
			logger.Debug("Not resolved by extension.", "extension", ext.Name)
		}
		r.attempts.Set(key, res, cache.NoExpiration)
		if res != nil {
			dep.Resolve(res)
		} else {
			logger.Warn("External dependency was not fulfilled by provider.", "provider", p)
		}
	}
	return nil
}
