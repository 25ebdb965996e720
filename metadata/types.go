// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package metadata layers typed descriptors, resolution, and a structural
// comparer over a parsed CLI metadata directory: the same relationship the
// ECMA-335 "tables + heaps" binary format has to the managed reflection
// object model it backs.
package metadata

import "github.com/saferwall/clrpe/signature"

// ScopeKind discriminates which table a TypeReference's resolution scope
// points into.
type ScopeKind int

// The four kinds of resolution scope a TypeRef row's coded index can name.
const (
	ScopeAssemblyRef ScopeKind = iota
	ScopeModuleRef
	ScopeTypeRef
	ScopeModule
)

// AssemblyReference is a decoded AssemblyRef row: the identity of an
// external assembly a module depends on.
type AssemblyReference struct {
	Name             string
	MajorVersion     uint16
	MinorVersion     uint16
	BuildNumber      uint16
	RevisionNumber   uint16
	Culture          string
	PublicKeyOrToken []byte
	Flags            uint32
}

// VersionAgnostic reports whether the AssemblyRef's Flags mark it
// retargetable, i.e. version is not part of its identity.
func (r AssemblyReference) VersionAgnostic() bool {
	const retargetable = 0x100
	return r.Flags&retargetable != 0
}

// ModuleReference is a decoded ModuleRef row: the name of another module
// within the same assembly (typically backing a P/Invoke declaration).
type ModuleReference struct {
	Name string
}

// TypeReference is a decoded TypeRef row: a name resolved against one of
// four possible scopes.
type TypeReference struct {
	Scope         ScopeKind
	ScopeIndex    int // 0-based row index into the scope's table, or -1 when the scope coded index is null
	Namespace     string
	Name          string
}

// TypeDefinition is a decoded TypeDef row plus the field/method runs the
// tables stream's contiguous-run convention attaches to it.
type TypeDefinition struct {
	Index         int
	Namespace     string
	Name          string
	Attributes    uint32
	Extends       *TypeDefOrRef
	Fields        []FieldDefinition
	Methods       []MethodDefinition
	NestedIn      int // 0-based index of the enclosing TypeDef, or -1 if top-level
}

// TypeDefOrRef is a resolved TypeDefOrRef coded index: exactly one of
// TypeDef, TypeRef, or TypeSpec is meaningful, selected by Kind.
type TypeDefOrRef struct {
	Kind  TypeDefOrRefKind
	Index int // 0-based row index into the table Kind names
}

// TypeDefOrRefKind names which table a TypeDefOrRef coded index selects.
type TypeDefOrRefKind int

// The three tables a TypeDefOrRef coded index can address.
const (
	KindTypeDef TypeDefOrRefKind = iota
	KindTypeRef
	KindTypeSpec
)

// FieldDefinition is a decoded Field row together with its declaring type
// and decoded signature.
type FieldDefinition struct {
	DeclaringType int
	Name          string
	Flags         uint16
	Signature     signature.FieldSignature
}

// MethodDefinition is a decoded MethodDef row together with its declaring
// type and decoded signature.
type MethodDefinition struct {
	DeclaringType int
	Name          string
	Flags         uint16
	ImplFlags     uint16
	RVA           uint32
	Signature     signature.MethodSignature
}
