// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadata

import (
	"fmt"
	"sync"
)

// AssemblyResolver caches name-to-module bindings across a resolution
// session. It is pure and cache-owning: Resolve never mutates state on
// its own, callers populate the cache explicitly via Add (typically once
// per loaded dependency) before resolving references against it.
type AssemblyResolver struct {
	mu    sync.Mutex
	cache map[string]*Module
}

// NewAssemblyResolver returns an empty resolver.
func NewAssemblyResolver() *AssemblyResolver {
	return &AssemblyResolver{cache: make(map[string]*Module)}
}

// Add binds name to the given module for future Resolve calls.
func (r *AssemblyResolver) Add(name string, m *Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[name] = m
}

// Resolve looks up a previously-added module by assembly name. It reports
// false, not an error, when nothing is cached under that name — the
// caller decides whether an unresolved reference is fatal.
func (r *AssemblyResolver) Resolve(name string) (*Module, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.cache[name]
	return m, ok
}

// ResolveTypeRef follows a type reference's scope chain to the
// TypeDefinition it names: assembly ref or module ref scopes look up a
// top-level type by namespace+name in the target module; a type-ref scope
// (a nested type) resolves the enclosing type first, then searches its
// immediate nested types by name. If the target module has no such
// top-level type but its ExportedType table forwards that name to another
// assembly, resolution continues there.
func ResolveTypeRef(r *AssemblyResolver, owner *Module, ref TypeReference) (*TypeDefinition, *Module, error) {
	switch ref.Scope {
	case ScopeModule:
		return lookupTopLevel(r, owner, ref.Namespace, ref.Name)

	case ScopeAssemblyRef:
		if ref.ScopeIndex < 0 || ref.ScopeIndex >= len(owner.AssemblyRefs) {
			return nil, nil, fmt.Errorf("type ref %s.%s: assembly ref index %d out of range", ref.Namespace, ref.Name, ref.ScopeIndex)
		}
		target, ok := r.Resolve(owner.AssemblyRefs[ref.ScopeIndex].Name)
		if !ok {
			return nil, nil, fmt.Errorf("type ref %s.%s: assembly %q not resolved", ref.Namespace, ref.Name, owner.AssemblyRefs[ref.ScopeIndex].Name)
		}
		return lookupTopLevel(r, target, ref.Namespace, ref.Name)

	case ScopeModuleRef:
		// Multi-module assemblies share one TypeDef table namespace;
		// without a separate per-module split this resolves against the
		// owning assembly's own types.
		return lookupTopLevel(r, owner, ref.Namespace, ref.Name)

	case ScopeTypeRef:
		if ref.ScopeIndex < 0 || ref.ScopeIndex >= len(owner.TypeRefs) {
			return nil, nil, fmt.Errorf("type ref %s.%s: enclosing type ref index %d out of range", ref.Namespace, ref.Name, ref.ScopeIndex)
		}
		enclosingDef, enclosingModule, err := ResolveTypeRef(r, owner, owner.TypeRefs[ref.ScopeIndex])
		if err != nil {
			return nil, nil, err
		}
		for _, td := range enclosingModule.TypeDefs {
			if td.NestedIn == enclosingDef.Index && td.Name == ref.Name {
				return &td, enclosingModule, nil
			}
		}
		return nil, nil, fmt.Errorf("type ref %s: not found among nested types of %s", ref.Name, enclosingDef.Name)

	default:
		return nil, nil, fmt.Errorf("type ref %s.%s: unknown scope kind", ref.Namespace, ref.Name)
	}
}

func lookupTopLevel(r *AssemblyResolver, m *Module, namespace, name string) (*TypeDefinition, *Module, error) {
	for i := range m.TypeDefs {
		td := &m.TypeDefs[i]
		if td.NestedIn == -1 && td.Namespace == namespace && td.Name == name {
			return td, m, nil
		}
	}
	for _, et := range m.ExportedTypes {
		if et.Namespace != namespace || et.Name != name {
			continue
		}
		if et.Implementation.Kind != ImplAssemblyRef {
			continue
		}
		if et.Implementation.Index < 0 || et.Implementation.Index >= len(m.AssemblyRefs) {
			continue
		}
		forwarded, ok := r.Resolve(m.AssemblyRefs[et.Implementation.Index].Name)
		if !ok {
			return nil, nil, fmt.Errorf("type %s.%s: forwarded to unresolved assembly %q", namespace, name, m.AssemblyRefs[et.Implementation.Index].Name)
		}
		return lookupTopLevel(r, forwarded, namespace, name)
	}
	return nil, nil, fmt.Errorf("type %s.%s: not found in module %q", namespace, name, m.Name)
}
