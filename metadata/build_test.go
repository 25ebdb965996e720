// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadata

import (
	"testing"

	pe "github.com/saferwall/clrpe"
	"github.com/saferwall/clrpe/tables"
)

// buildStringHeap lays out strs back-to-back as NUL-terminated entries in
// a `#Strings`-shaped buffer, offset 0 reserved for the empty string, and
// returns each string's offset in input order.
func buildStringHeap(strs ...string) ([]byte, []uint32) {
	raw := []byte{0}
	offsets := make([]uint32, len(strs))
	for i, s := range strs {
		offsets[i] = uint32(len(raw))
		raw = append(raw, []byte(s)...)
		raw = append(raw, 0)
	}
	return raw, offsets
}

func codedIndex(t *testing.T, kind tables.CodedIndexKind, table tables.TableIndex, row uint32) uint32 {
	t.Helper()
	raw, ok := tables.EncodeCodedIndex(kind, table, row)
	if !ok {
		t.Fatalf("EncodeCodedIndex(%s, %v, %d): table not in tag set", kind.Name, table, row)
	}
	return raw
}

// TestBuildEndToEnd exercises Build over a hand-assembled module: one
// TypeRef resolving System.Object in an external assembly, a pseudo
// <Module> TypeDef owning nothing, and a second TypeDef that extends the
// TypeRef and owns one field and one method.
func TestBuildEndToEnd(t *testing.T) {
	strs, off := buildStringHeap(
		"MainModule", // 0
		"System",     // 1
		"Object",     // 2
		"<Module>",   // 3
		"MyApp",      // 4
		"Program",    // 5
		"count",      // 6
		"Main",       // 7
		"mscorlib",   // 8
	)

	f := &pe.File{}
	f.CLR.MetadataStreams = map[string][]byte{"#Strings": strs}
	f.CLR.MetadataTables = map[int]*pe.MetadataTable{
		pe.Module: {Content: []pe.ModuleTableRow{
			{Name: off[0]},
		}},
		pe.TypeRef: {Content: []pe.TypeRefTableRow{
			{
				ResolutionScope: codedIndex(t, tables.ResolutionScope, tables.AssemblyRef, 1),
				TypeNamespace:   off[1],
				TypeName:        off[2],
			},
		}},
		pe.TypeDef: {Content: []pe.TypeDefTableRow{
			{
				TypeNamespace: 0,
				TypeName:      off[3],
				FieldList:     1,
				MethodList:    1,
			},
			{
				TypeNamespace: off[4],
				TypeName:      off[5],
				Extends:       codedIndex(t, tables.TypeDefOrRef, tables.TypeRef, 1),
				FieldList:     1,
				MethodList:    1,
			},
		}},
		pe.Field: {Content: []pe.FieldTableRow{
			{Name: off[6]},
		}},
		pe.MethodDef: {Content: []pe.MethodDefTableRow{
			{Name: off[7], RVA: 0x2050},
		}},
		pe.AssemblyRef: {Content: []pe.AssemblyRefTableRow{
			{Name: off[8], MajorVersion: 4},
		}},
	}

	m, err := Build(f)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if m.Name != "MainModule" {
		t.Errorf("Name = %q, want MainModule", m.Name)
	}

	if len(m.AssemblyRefs) != 1 || m.AssemblyRefs[0].Name != "mscorlib" {
		t.Fatalf("AssemblyRefs = %+v", m.AssemblyRefs)
	}

	if len(m.TypeRefs) != 1 {
		t.Fatalf("TypeRefs = %+v", m.TypeRefs)
	}
	ref := m.TypeRefs[0]
	if ref.Namespace != "System" || ref.Name != "Object" {
		t.Errorf("TypeRefs[0] = %+v, want System.Object", ref)
	}
	if ref.Scope != ScopeAssemblyRef || ref.ScopeIndex != 0 {
		t.Errorf("TypeRefs[0] scope = %v/%d, want ScopeAssemblyRef/0", ref.Scope, ref.ScopeIndex)
	}

	if len(m.TypeDefs) != 2 {
		t.Fatalf("TypeDefs = %+v", m.TypeDefs)
	}
	module := m.TypeDefs[0]
	if module.Name != "<Module>" || len(module.Fields) != 0 || len(module.Methods) != 0 {
		t.Errorf("TypeDefs[0] = %+v, want empty <Module>", module)
	}
	program := m.TypeDefs[1]
	if program.Namespace != "MyApp" || program.Name != "Program" {
		t.Errorf("TypeDefs[1] = %+v, want MyApp.Program", program)
	}
	if program.Extends == nil || program.Extends.Kind != KindTypeRef || program.Extends.Index != 0 {
		t.Fatalf("TypeDefs[1].Extends = %+v, want TypeRef 0", program.Extends)
	}
	if len(program.Fields) != 1 || program.Fields[0].Name != "count" {
		t.Fatalf("TypeDefs[1].Fields = %+v", program.Fields)
	}
	if program.Fields[0].DeclaringType != 1 {
		t.Errorf("count.DeclaringType = %d, want 1", program.Fields[0].DeclaringType)
	}
	if len(program.Methods) != 1 || program.Methods[0].Name != "Main" {
		t.Fatalf("TypeDefs[1].Methods = %+v", program.Methods)
	}
	if program.Methods[0].RVA != 0x2050 {
		t.Errorf("Main.RVA = %#x, want 0x2050", program.Methods[0].RVA)
	}

	if len(m.ModuleRefs) != 0 {
		t.Errorf("ModuleRefs = %+v, want none", m.ModuleRefs)
	}
	if len(m.ExportedTypes) != 0 {
		t.Errorf("ExportedTypes = %+v, want none", m.ExportedTypes)
	}
}

// TestBuildMalformedRequiredTableErrors checks that Build surfaces a clear
// error rather than panicking when a table it unconditionally reads
// (TypeRef here) holds content of the wrong row type.
func TestBuildMalformedRequiredTableErrors(t *testing.T) {
	f := &pe.File{}
	f.CLR.MetadataStreams = map[string][]byte{"#Strings": {0}}
	f.CLR.MetadataTables = map[int]*pe.MetadataTable{
		pe.TypeRef: {Content: "not a []pe.TypeRefTableRow"},
	}

	if _, err := Build(f); err == nil {
		t.Errorf("expected an error for a malformed TypeRef table content")
	}
}
