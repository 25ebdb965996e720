// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package tables holds the ECMA-335 metadata tables-stream schema,
// independent of any parsed PE file: column kinds for all 45 tables,
// coded-index tag sets (ECMA-335 II.24.2.6), layout computation from row
// counts and heap-size flags, and generic row encode/decode. A parser
// over a real file supplies the row counts and heap widths; this package
// turns those into concrete per-table column byte offsets.
package tables

// TableIndex identifies one of the 45 fixed-schema metadata tables by
// its ECMA-335 II.22 table number. Values match the table-index
// constants the container package dispatches on, since both describe
// the same fixed, standardized schema.
type TableIndex int

// The 45 metadata table indices, in ECMA-335 II.22 order.
const (
	Module TableIndex = iota
	TypeRef
	TypeDef
	FieldPtr
	Field
	MethodPtr
	MethodDef
	ParamPtr
	Param
	InterfaceImpl
	MemberRef
	Constant
	CustomAttribute
	FieldMarshal
	DeclSecurity
	ClassLayout
	FieldLayout
	StandAloneSig
	EventMap
	EventPtr
	Event
	PropertyMap
	PropertyPtr
	Property
	MethodSemantics
	MethodImpl
	ModuleRef
	TypeSpec
	ImplMap
	FieldRVA
	ENCLog
	ENCMap
	Assembly
	AssemblyProcessor
	AssemblyOS
	AssemblyRef
	AssemblyRefProcessor
	AssemblyRefOS
	FileTable
	ExportedType
	ManifestResource
	NestedClass
	GenericParam
	MethodSpec
	GenericParamConstraint

	// TableCount is the number of fixed-schema tables ECMA-335 defines.
	TableCount
)

// HeapKind identifies which of the three heaps a heap-index column
// addresses.
type HeapKind int

// The three heaps a table row can index into.
const (
	StringHeap HeapKind = iota
	GUIDHeap
	BlobHeap
)

// ColumnKind discriminates the shape of a single row column.
type ColumnKind int

// Column shapes a table's rows are built from.
const (
	// Fixed2 is a plain 2-byte unsigned value (flags, small counters).
	Fixed2 ColumnKind = iota
	// Fixed4 is a plain 4-byte unsigned value.
	Fixed4
	// SimpleIndexColumn is a row index into a single other table.
	SimpleIndexColumn
	// CodedIndexColumn is a tagged index into one of several tables.
	CodedIndexColumn
	// HeapIndexColumn is an offset/index into one of the three heaps.
	HeapIndexColumn
)

// Column describes one column of one table row. Exactly one of Simple,
// Coded, or Heap is meaningful, selected by Kind.
type Column struct {
	Name  string
	Kind  ColumnKind
	Simple TableIndex     // valid when Kind == SimpleIndexColumn
	Coded  CodedIndexKind // valid when Kind == CodedIndexColumn
	Heap   HeapKind       // valid when Kind == HeapIndexColumn
}

// CodedIndexKind is a tag set a coded-index column draws from: the
// number of tag bits and the ordered list of tables the tag selects
// among, per ECMA-335 II.24.2.6.
type CodedIndexKind struct {
	Name    string
	TagBits uint
	Tables  []TableIndex
}

// The 13 coded-index tag sets ECMA-335 II.24.2.6 defines.
var (
	TypeDefOrRef        = CodedIndexKind{"TypeDefOrRef", 2, []TableIndex{TypeDef, TypeRef, TypeSpec}}
	HasConstant         = CodedIndexKind{"HasConstant", 2, []TableIndex{Field, Param, Property}}
	HasCustomAttribute  = CodedIndexKind{"HasCustomAttribute", 5, []TableIndex{
		MethodDef, Field, TypeRef, TypeDef, Param, InterfaceImpl, MemberRef, Module,
		DeclSecurity, Property, Event, StandAloneSig, ModuleRef, TypeSpec, Assembly,
		AssemblyRef, FileTable, ExportedType, ManifestResource, GenericParam,
		GenericParamConstraint, MethodSpec,
	}}
	HasFieldMarshal     = CodedIndexKind{"HasFieldMarshal", 1, []TableIndex{Field, Param}}
	HasDeclSecurity     = CodedIndexKind{"HasDeclSecurity", 2, []TableIndex{TypeDef, MethodDef, Assembly}}
	MemberRefParent     = CodedIndexKind{"MemberRefParent", 3, []TableIndex{TypeDef, TypeRef, ModuleRef, MethodDef, TypeSpec}}
	HasSemantics        = CodedIndexKind{"HasSemantics", 1, []TableIndex{Event, Property}}
	MethodDefOrRef      = CodedIndexKind{"MethodDefOrRef", 1, []TableIndex{MethodDef, MemberRef}}
	MemberForwarded     = CodedIndexKind{"MemberForwarded", 1, []TableIndex{Field, MethodDef}}
	Implementation      = CodedIndexKind{"Implementation", 2, []TableIndex{FileTable, AssemblyRef, ExportedType}}
	CustomAttributeType = CodedIndexKind{"CustomAttributeType", 3, []TableIndex{
		// the first two tags are reserved/unused per ECMA-335
		Module, Module, MethodDef, MemberRef, Module,
	}}
	ResolutionScope = CodedIndexKind{"ResolutionScope", 2, []TableIndex{Module, ModuleRef, AssemblyRef, TypeRef}}
	TypeOrMethodDef = CodedIndexKind{"TypeOrMethodDef", 1, []TableIndex{TypeDef, MethodDef}}
)
