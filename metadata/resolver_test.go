// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadata

import "testing"

func TestResolveTypeRefAssemblyScope(t *testing.T) {
	r := NewAssemblyResolver()
	target := &Module{
		Name: "Target",
		TypeDefs: []TypeDefinition{
			{Index: 0, Namespace: "NS", Name: "Foo", NestedIn: -1},
		},
	}
	r.Add("Target", target)

	owner := &Module{
		Name:         "Owner",
		AssemblyRefs: []AssemblyReference{{Name: "Target"}},
	}
	ref := TypeReference{Scope: ScopeAssemblyRef, ScopeIndex: 0, Namespace: "NS", Name: "Foo"}

	def, mod, err := ResolveTypeRef(r, owner, ref)
	if err != nil {
		t.Fatalf("ResolveTypeRef() error = %v", err)
	}
	if mod != target || def.Name != "Foo" {
		t.Errorf("got def=%+v mod=%v, want Foo in target", def, mod.Name)
	}
}

func TestResolveTypeRefUnresolvedAssembly(t *testing.T) {
	r := NewAssemblyResolver()
	owner := &Module{AssemblyRefs: []AssemblyReference{{Name: "Missing"}}}
	ref := TypeReference{Scope: ScopeAssemblyRef, ScopeIndex: 0, Namespace: "NS", Name: "Foo"}
	if _, _, err := ResolveTypeRef(r, owner, ref); err == nil {
		t.Errorf("expected an error for an unresolved assembly reference")
	}
}

func TestResolveTypeRefForwarded(t *testing.T) {
	r := NewAssemblyResolver()
	newHome := &Module{
		Name: "NewHome",
		TypeDefs: []TypeDefinition{
			{Index: 0, Namespace: "NS", Name: "Moved", NestedIn: -1},
		},
	}
	r.Add("NewHome", newHome)

	oldHome := &Module{
		Name:         "OldHome",
		AssemblyRefs: []AssemblyReference{{Name: "NewHome"}},
		ExportedTypes: []ExportedType{
			{Namespace: "NS", Name: "Moved", Implementation: Implementation{Kind: ImplAssemblyRef, Index: 0}},
		},
	}
	r.Add("OldHome", oldHome)

	owner := &Module{
		Name:         "Owner",
		AssemblyRefs: []AssemblyReference{{Name: "OldHome"}},
	}
	ref := TypeReference{Scope: ScopeAssemblyRef, ScopeIndex: 0, Namespace: "NS", Name: "Moved"}

	def, mod, err := ResolveTypeRef(r, owner, ref)
	if err != nil {
		t.Fatalf("ResolveTypeRef() error = %v", err)
	}
	if mod != newHome || def.Name != "Moved" {
		t.Errorf("got mod=%v def=%+v, want Moved resolved in NewHome", mod.Name, def)
	}
}

func TestResolveTypeRefNestedType(t *testing.T) {
	r := NewAssemblyResolver()
	owner := &Module{
		Name: "Owner",
		TypeDefs: []TypeDefinition{
			{Index: 0, Namespace: "NS", Name: "Outer", NestedIn: -1},
			{Index: 1, Namespace: "", Name: "Inner", NestedIn: 0},
		},
		TypeRefs: []TypeReference{
			{Scope: ScopeModule, ScopeIndex: -1, Namespace: "NS", Name: "Outer"},
		},
	}
	ref := TypeReference{Scope: ScopeTypeRef, ScopeIndex: 0, Name: "Inner"}

	def, mod, err := ResolveTypeRef(r, owner, ref)
	if err != nil {
		t.Fatalf("ResolveTypeRef() error = %v", err)
	}
	if mod != owner || def.Name != "Inner" {
		t.Errorf("got def=%+v, want Inner", def)
	}
}

func TestResolveTypeRefModuleScopeNotFound(t *testing.T) {
	r := NewAssemblyResolver()
	owner := &Module{Name: "Owner"}
	ref := TypeReference{Scope: ScopeModule, Namespace: "NS", Name: "Missing"}
	if _, _, err := ResolveTypeRef(r, owner, ref); err == nil {
		t.Errorf("expected an error for a type absent from its own module")
	}
}

func TestAssemblyResolverAddAndResolve(t *testing.T) {
	r := NewAssemblyResolver()
	m := &Module{Name: "X"}
	if _, ok := r.Resolve("X"); ok {
		t.Fatalf("expected nothing resolved before Add")
	}
	r.Add("X", m)
	got, ok := r.Resolve("X")
	if !ok || got != m {
		t.Errorf("Resolve() = %v, %v, want %v, true", got, ok, m)
	}
}
