// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadata

import (
	"testing"

	"github.com/saferwall/clrpe/signature"
)

func TestAssembliesEqualExactVersion(t *testing.T) {
	a := AssemblyReference{Name: "mscorlib", MajorVersion: 4, PublicKeyOrToken: []byte{1, 2}}
	b := AssemblyReference{Name: "mscorlib", MajorVersion: 4, PublicKeyOrToken: []byte{1, 2}}
	c := SignatureComparer{}
	if !c.AssembliesEqual(a, b) {
		t.Errorf("expected equal")
	}
	b.MajorVersion = 5
	if c.AssembliesEqual(a, b) {
		t.Errorf("expected version mismatch to break equality")
	}
}

func TestAssembliesEqualVersionAgnostic(t *testing.T) {
	a := AssemblyReference{Name: "mscorlib", MajorVersion: 4}
	b := AssemblyReference{Name: "mscorlib", MajorVersion: 5}
	c := SignatureComparer{VersionAgnostic: true}
	if !c.AssembliesEqual(a, b) {
		t.Errorf("expected version-agnostic equality")
	}
}

func TestAssembliesEqualRetargetable(t *testing.T) {
	a := AssemblyReference{Name: "mscorlib", MajorVersion: 4, Flags: 0x100}
	b := AssemblyReference{Name: "mscorlib", MajorVersion: 9}
	c := SignatureComparer{}
	if !c.AssembliesEqual(a, b) {
		t.Errorf("expected retargetable flag to relax version check")
	}
}

func TestAssemblyHashConsistentWithEquality(t *testing.T) {
	a := AssemblyReference{Name: "System", MajorVersion: 4, Culture: "neutral"}
	b := AssemblyReference{Name: "System", MajorVersion: 4, Culture: "neutral"}
	c := SignatureComparer{}
	if !c.AssembliesEqual(a, b) {
		t.Fatalf("expected equal")
	}
	if c.AssemblyHash(a) != c.AssemblyHash(b) {
		t.Errorf("equal assemblies hashed differently")
	}
}

func TestSignaturesEqualPrimitive(t *testing.T) {
	c := SignatureComparer{}
	a := signature.Type{ElementType: signature.I4}
	b := signature.Type{ElementType: signature.I4}
	if !c.SignaturesEqual(a, b) {
		t.Errorf("expected equal primitives")
	}
	b.ElementType = signature.I8
	if c.SignaturesEqual(a, b) {
		t.Errorf("expected different primitives to differ")
	}
}

func TestSignaturesEqualGenericInst(t *testing.T) {
	c := SignatureComparer{}
	base := &signature.Type{ElementType: signature.Class, Token: signature.Token{Row: 1}}
	a := signature.Type{ElementType: signature.GenericInst, GenericType: base, GenericArgs: []signature.Type{{ElementType: signature.I4}}}
	b := signature.Type{ElementType: signature.GenericInst, GenericType: base, GenericArgs: []signature.Type{{ElementType: signature.I4}}}
	if !c.SignaturesEqual(a, b) {
		t.Errorf("expected equal generic instantiations")
	}
	b.GenericArgs[0] = signature.Type{ElementType: signature.String}
	if c.SignaturesEqual(a, b) {
		t.Errorf("expected mismatched type argument to differ")
	}
}

func TestSignaturesEqualArrayShape(t *testing.T) {
	c := SignatureComparer{}
	elem := &signature.Type{ElementType: signature.I4}
	a := signature.Type{ElementType: signature.Array, Element: elem, Shape: &signature.ArrayShape{Rank: 2, Sizes: []uint32{3, 4}}}
	b := signature.Type{ElementType: signature.Array, Element: elem, Shape: &signature.ArrayShape{Rank: 2, Sizes: []uint32{3, 4}}}
	if !c.SignaturesEqual(a, b) {
		t.Errorf("expected equal array shapes")
	}
	b.Shape.Rank = 3
	if c.SignaturesEqual(a, b) {
		t.Errorf("expected rank mismatch to differ")
	}
}

func TestMethodSignaturesEqual(t *testing.T) {
	c := SignatureComparer{}
	a := signature.MethodSignature{
		HasThis: true,
		RetType: signature.Param{Type: signature.Type{ElementType: signature.Void}},
		Params:  []signature.Param{{Type: signature.Type{ElementType: signature.I4}}},
	}
	b := a
	if !c.MethodSignaturesEqual(a, b) {
		t.Errorf("expected equal method signatures")
	}
	b.Params = []signature.Param{{Type: signature.Type{ElementType: signature.String}}}
	if c.MethodSignaturesEqual(a, b) {
		t.Errorf("expected differing parameter types to differ")
	}
}

func TestMethodsEqual(t *testing.T) {
	c := SignatureComparer{}
	decl := AssemblyReference{Name: "MyAssembly"}
	sig := signature.MethodSignature{RetType: signature.Param{Type: signature.Type{ElementType: signature.Void}}}
	a := MethodDefinition{Name: "DoWork", Signature: sig}
	b := MethodDefinition{Name: "DoWork", Signature: sig}
	if !c.MethodsEqual(a, decl, b, decl) {
		t.Errorf("expected equal methods")
	}
	b.Name = "DoOtherWork"
	if c.MethodsEqual(a, decl, b, decl) {
		t.Errorf("expected differing names to differ")
	}
}
