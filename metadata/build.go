// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadata

import (
	"fmt"

	pe "github.com/saferwall/clrpe"
	"github.com/saferwall/clrpe/signature"
	"github.com/saferwall/clrpe/tables"
)

// Module is the typed descriptor tree built from one parsed file's CLI
// metadata directory: its own identity, the assemblies and modules it
// references, and its type/method/field definitions.
type Module struct {
	Name               string
	Mvid               [16]byte
	AssemblyRefs       []AssemblyReference
	ModuleRefs         []ModuleReference
	TypeRefs           []TypeReference
	TypeDefs           []TypeDefinition
	ExportedTypes      []ExportedType
}

// ExportedType is a decoded ExportedType row: a type forwarded to, or
// otherwise exposed from, another module of the same assembly.
type ExportedType struct {
	Namespace      string
	Name           string
	Implementation Implementation
}

// Implementation is a resolved Implementation coded index.
type Implementation struct {
	Kind  ImplementationKind
	Index int
}

// ImplementationKind names which table an Implementation coded index
// selects.
type ImplementationKind int

// The three tables an Implementation coded index can address.
const (
	ImplFile ImplementationKind = iota
	ImplAssemblyRef
	ImplExportedType
)

// Build walks a parsed file's metadata tables and heaps into a typed
// Module. The Module, TypeRef, TypeDef, Field, and MethodDef tables are
// read unconditionally: an absent one yields an empty list, and content
// of the wrong row type is an error. AssemblyRef, ModuleRef, and
// ExportedType are read if present and left empty otherwise.
func Build(f *pe.File) (*Module, error) {
	m := &Module{}

	modRows, err := tableContent[pe.ModuleTableRow](f, pe.Module)
	if err != nil {
		return nil, err
	}
	if len(modRows) > 0 {
		if m.Name, err = f.ResolveString(modRows[0].Name); err != nil {
			return nil, fmt.Errorf("module name: %w", err)
		}
		if guid, err := f.ResolveGUID(modRows[0].Mvid); err == nil {
			m.Mvid = guid
		}
	}

	if rows, err := tableContent[pe.AssemblyRefTableRow](f, pe.AssemblyRef); err == nil {
		m.AssemblyRefs = make([]AssemblyReference, len(rows))
		for i, r := range rows {
			ref := AssemblyReference{
				MajorVersion:   r.MajorVersion,
				MinorVersion:   r.MinorVersion,
				BuildNumber:    r.BuildNumber,
				RevisionNumber: r.RevisionNumber,
				Flags:          r.Flags,
			}
			if ref.Name, err = f.ResolveString(r.Name); err != nil {
				return nil, fmt.Errorf("assembly ref %d name: %w", i, err)
			}
			if r.Culture != 0 {
				if ref.Culture, err = f.ResolveString(r.Culture); err != nil {
					return nil, fmt.Errorf("assembly ref %d culture: %w", i, err)
				}
			}
			if r.PublicKeyOrToken != 0 {
				if ref.PublicKeyOrToken, err = f.ResolveBlob(r.PublicKeyOrToken); err != nil {
					return nil, fmt.Errorf("assembly ref %d public key: %w", i, err)
				}
			}
			m.AssemblyRefs[i] = ref
		}
	}

	if rows, err := tableContent[pe.ModuleRefTableRow](f, pe.ModuleRef); err == nil {
		m.ModuleRefs = make([]ModuleReference, len(rows))
		for i, r := range rows {
			if m.ModuleRefs[i].Name, err = f.ResolveString(r.Name); err != nil {
				return nil, fmt.Errorf("module ref %d name: %w", i, err)
			}
		}
	}

	typeRefRows, err := tableContent[pe.TypeRefTableRow](f, pe.TypeRef)
	if err != nil {
		return nil, err
	}
	m.TypeRefs = make([]TypeReference, len(typeRefRows))
	for i, r := range typeRefRows {
		ref := TypeReference{ScopeIndex: -1}
		if ref.Namespace, err = f.ResolveString(r.TypeNamespace); err != nil {
			return nil, fmt.Errorf("type ref %d namespace: %w", i, err)
		}
		if ref.Name, err = f.ResolveString(r.TypeName); err != nil {
			return nil, fmt.Errorf("type ref %d name: %w", i, err)
		}
		if table, row, ok := tables.DecodeCodedIndex(tables.ResolutionScope, r.ResolutionScope); ok && row > 0 {
			ref.ScopeIndex = int(row) - 1
			switch table {
			case tables.AssemblyRef:
				ref.Scope = ScopeAssemblyRef
			case tables.ModuleRef:
				ref.Scope = ScopeModuleRef
			case tables.TypeRef:
				ref.Scope = ScopeTypeRef
			case tables.Module:
				ref.Scope = ScopeModule
			}
		}
		m.TypeRefs[i] = ref
	}

	fieldRows, err := tableContent[pe.FieldTableRow](f, pe.Field)
	if err != nil {
		return nil, err
	}
	fields := make([]FieldDefinition, len(fieldRows))
	for i, r := range fieldRows {
		fd := FieldDefinition{Flags: r.Flags}
		if fd.Name, err = f.ResolveString(r.Name); err != nil {
			return nil, fmt.Errorf("field %d name: %w", i, err)
		}
		if blob, err := f.ResolveBlob(r.Signature); err == nil {
			fd.Signature, _ = signature.ParseField(blob)
		}
		fields[i] = fd
	}

	methodRows, err := tableContent[pe.MethodDefTableRow](f, pe.MethodDef)
	if err != nil {
		return nil, err
	}
	methods := make([]MethodDefinition, len(methodRows))
	for i, r := range methodRows {
		md := MethodDefinition{Flags: r.Flags, ImplFlags: r.ImplFlags, RVA: r.RVA}
		if md.Name, err = f.ResolveString(r.Name); err != nil {
			return nil, fmt.Errorf("method %d name: %w", i, err)
		}
		if blob, err := f.ResolveBlob(r.Signature); err == nil {
			md.Signature, _ = signature.ParseMethod(blob)
		}
		methods[i] = md
	}

	typeDefRows, err := tableContent[pe.TypeDefTableRow](f, pe.TypeDef)
	if err != nil {
		return nil, err
	}
	m.TypeDefs = make([]TypeDefinition, len(typeDefRows))
	for i, r := range typeDefRows {
		td := TypeDefinition{Index: i, Attributes: r.Flags, NestedIn: -1}
		if td.Namespace, err = f.ResolveString(r.TypeNamespace); err != nil {
			return nil, fmt.Errorf("type def %d namespace: %w", i, err)
		}
		if td.Name, err = f.ResolveString(r.TypeName); err != nil {
			return nil, fmt.Errorf("type def %d name: %w", i, err)
		}
		if table, row, ok := tables.DecodeCodedIndex(tables.TypeDefOrRef, r.Extends); ok && row > 0 {
			td.Extends = &TypeDefOrRef{Kind: typeDefOrRefKind(table), Index: int(row) - 1}
		}

		fieldEnd := len(fieldRows)
		if i+1 < len(typeDefRows) {
			fieldEnd = int(typeDefRows[i+1].FieldList) - 1
		}
		for fi := int(r.FieldList) - 1; fi >= 0 && fi < fieldEnd && fi < len(fields); fi++ {
			fields[fi].DeclaringType = i
			td.Fields = append(td.Fields, fields[fi])
		}

		methodEnd := len(methodRows)
		if i+1 < len(typeDefRows) {
			methodEnd = int(typeDefRows[i+1].MethodList) - 1
		}
		for mi := int(r.MethodList) - 1; mi >= 0 && mi < methodEnd && mi < len(methods); mi++ {
			methods[mi].DeclaringType = i
			td.Methods = append(td.Methods, methods[mi])
		}

		m.TypeDefs[i] = td
	}

	if rows, err := tableContent[pe.NestedClassTableRow](f, pe.NestedClass); err == nil {
		for _, r := range rows {
			nested := int(r.NestedClass) - 1
			enclosing := int(r.EnclosingClass) - 1
			if nested >= 0 && nested < len(m.TypeDefs) {
				m.TypeDefs[nested].NestedIn = enclosing
			}
		}
	}

	if rows, err := tableContent[pe.ExportedTypeTableRow](f, pe.ExportedType); err == nil {
		m.ExportedTypes = make([]ExportedType, len(rows))
		for i, r := range rows {
			et := ExportedType{}
			if et.Namespace, err = f.ResolveString(r.TypeNamespace); err != nil {
				return nil, fmt.Errorf("exported type %d namespace: %w", i, err)
			}
			if et.Name, err = f.ResolveString(r.TypeName); err != nil {
				return nil, fmt.Errorf("exported type %d name: %w", i, err)
			}
			if table, row, ok := tables.DecodeCodedIndex(tables.Implementation, r.Implementation); ok && row > 0 {
				et.Implementation = Implementation{Kind: implementationKind(table), Index: int(row) - 1}
			}
			m.ExportedTypes[i] = et
		}
	}

	return m, nil
}

func typeDefOrRefKind(t tables.TableIndex) TypeDefOrRefKind {
	switch t {
	case tables.TypeRef:
		return KindTypeRef
	case tables.TypeSpec:
		return KindTypeSpec
	default:
		return KindTypeDef
	}
}

func implementationKind(t tables.TableIndex) ImplementationKind {
	switch t {
	case tables.AssemblyRef:
		return ImplAssemblyRef
	case tables.ExportedType:
		return ImplExportedType
	default:
		return ImplFile
	}
}

// tableContent type-asserts a parsed table's Content to its concrete row
// slice, returning an empty slice (not an error) when the table is absent
// from the file.
func tableContent[T any](f *pe.File, index int) ([]T, error) {
	table, ok := f.CLR.MetadataTables[index]
	if !ok || table == nil {
		return nil, nil
	}
	rows, ok := table.Content.([]T)
	if !ok {
		return nil, fmt.Errorf("metadata table %d: unexpected content type %T", index, table.Content)
	}
	return rows, nil
}
