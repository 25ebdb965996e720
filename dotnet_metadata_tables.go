// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "github.com/saferwall/clrpe/tables"

// the struct definition and comments are from the ECMA-335 spec 6th edition
// https://www.ecma-international.org/wp-content/uploads/ECMA-335_6th_edition_june_2012.pdf

// Module 0x00
type ModuleTableRow struct {
	// a 2-byte value, reserved, shall be zero
	Generation uint16 `json:"generation"`
	// an index into the String heap
	Name uint32 `json:"name"`
	// an index into the Guid heap; simply a Guid used to distinguish between
	// two versions of the same module
	Mvid uint32 `json:"mvid"`
	// an index into the Guid heap; reserved, shall be zero
	EncID uint32 `json:"enc_id"`
	// an index into the Guid heap; reserved, shall be zero
	EncBaseID uint32 `json:"enc_base_id"`
}

// TypeRef 0x01
type TypeRefTableRow struct {
	// an index into a Module, ModuleRef, AssemblyRef or TypeRef table, or null;
	// more precisely, a ResolutionScope (§II.24.2.6) coded index.
	ResolutionScope uint32 `json:"resolution_scope"`
	// an index into the String heap
	TypeName uint32 `json:"type_name"`
	// an index into the String heap
	TypeNamespace uint32 `json:"type_namespace"`
}

// TypeDef 0x02
type TypeDefTableRow struct {
	// a 4-byte bitmask of type TypeAttributes, §II.23.1.15
	Flags uint32 `json:"flags"`
	// an index into the String heap
	TypeName uint32 `json:"type_name"`
	// an index into the String heap
	TypeNamespace uint32 `json:"type_namespace"`
	// an index into the TypeDef, TypeRef, or TypeSpec table; more precisely,
	// a TypeDefOrRef (§II.24.2.6) coded index
	Extends uint32 `json:"extends"`
	// an index into the Field table; it marks the first of a contiguous run
	// of Fields owned by this Type
	FieldList uint32 `json:"field_list"`
	// an index into the MethodDef table; it marks the first of a contiguous
	// run of Methods owned by this Type
	MethodList uint32 `json:"method_list"`
}

// FieldPtr 0x03. Indirection table used only by un-optimized (`#-`)
// metadata; absent from an optimized `#~` stream.
type FieldPtrTableRow struct {
	Field uint32 `json:"field"` // an index into the Field table
}

// Field 0x04
type FieldTableRow struct {
	// a 2-byte bitmask of type FieldAttributes, §II.23.1.5
	Flags uint16 `json:"flags"`
	// an index into the String heap
	Name uint32 `json:"name"`
	// an index into the Blob heap
	Signature uint32 `json:"signature"`
}

// MethodPtr 0x05. See FieldPtr.
type MethodPtrTableRow struct {
	Method uint32 `json:"method"` // an index into the MethodDef table
}

// MethodDef 0x06
type MethodDefTableRow struct {
	// a 4-byte constant
	RVA uint32 `json:"rva"`
	// a 2-byte bitmask of type MethodImplAttributes, §II.23.1.10
	ImplFlags uint16 `json:"impl_flags"`
	// a 2-byte bitmask of type MethodAttributes, §II.23.1.10
	Flags uint16 `json:"flags"`
	// an index into the String heap
	Name uint32 `json:"name"`
	// an index into the Blob heap
	Signature uint32 `json:"signature"`
	// an index into the Param table
	ParamList uint32 `json:"param_list"`
}

// ParamPtr 0x07. See FieldPtr.
type ParamPtrTableRow struct {
	Param uint32 `json:"param"` // an index into the Param table
}

// Param 0x08
type ParamTableRow struct {
	// a 2-byte bitmask of type ParamAttributes, §II.23.1.13
	Flags uint16 `json:"flags"`
	// a 2-byte constant
	Sequence uint16 `json:"sequence"`
	// an index into the String heap
	Name uint32 `json:"name"`
}

// InterfaceImpl 0x09
type InterfaceImplTableRow struct {
	// an index into the TypeDef table
	Class uint32 `json:"class"`
	// an index into the TypeDef, TypeRef, or TypeSpec table; more precisely,
	// a TypeDefOrRef (§II.24.2.6) coded index
	Interface uint32 `json:"interface"`
}

// MembersRef 0x0a
type MemberRefTableRow struct {
	// an index into the MethodDef, ModuleRef,TypeDef, TypeRef, or TypeSpec
	// tables; more precisely, a MemberRefParent (§II.24.2.6) coded index
	Class uint32 `json:"class"`
	// an index into the String heap
	Name uint32 `json:"name"`
	// an index into the Blob heap
	Signature uint32 `json:"signature"`
}

// Constant 0x0b
type ConstantTableRow struct {
	// a 1-byte constant, followed by a 1-byte padding zero
	Type uint8 `json:"type"`
	// padding zero
	Padding uint8 `json:"padding"`
	// an index into the Param, Field, or Property table; more precisely,
	// a HasConstant (§II.24.2.6) coded index
	Parent uint32 `json:"parent"`
	// an index into the Blob heap
	Value uint32 `json:"value"`
}

// CustomAttribute 0x0c
type CustomAttributeTableRow struct {
	// an index into a metadata table that has an associated HasCustomAttribute
	// (§II.24.2.6) coded index
	Parent uint32 `json:"parent"`
	// an index into the MethodDef or MemberRef table; more precisely,
	// a CustomAttributeType (§II.24.2.6) coded index
	Type uint32 `json:"type"`
	// an index into the Blob heap
	Value uint32 `json:"value"`
}

// FieldMarshal 0x0d
type FieldMarshalTableRow struct {
	// an index into Field or Param table; more precisely,
	// a HasFieldMarshal (§II.24.2.6) coded index
	Parent uint32 `json:"parent"`
	// an index into the Blob heap
	NativeType uint32 `json:"native_type"`
}

// DeclSecurity 0x0e
type DeclSecurityTableRow struct {
	// a 2-byte value
	Action uint16 `json:"action"`
	// an index into the TypeDef, MethodDef, or Assembly table;
	// more precisely, a HasDeclSecurity (§II.24.2.6) coded index
	Parent uint32 `json:"parent"`
	// an index into the Blob heap
	PermissionSet uint32 `json:"permission_set"`
}

// ClassLayout 0x0f
type ClassLayoutTableRow struct {
	// a 2-byte constant
	PackingSize uint16 `json:"packing_size"`
	// a 4-byte constant
	ClassSize uint32 `json:"class_size"`
	// an index into the TypeDef table
	Parent uint32 `json:"parent"`
}

// FieldLayout 0x10
type FieldLayoutTableRow struct {
	Offset uint32 `json:"offset"` // a 4-byte constant
	Field  uint32 `json:"field"`  // an index into the Field table
}

// StandAloneSig 0x11
type StandAloneSigTableRow struct {
	Signature uint32 `json:"signature"` // an index into the Blob heap
}

// EventMap 0x12
type EventMapTableRow struct {
	// an index into the TypeDef table
	Parent uint32 `json:"parent"`
	// an index into the Event table
	EventList uint32 `json:"event_list"`
}

// EventPtr 0x13. See FieldPtr.
type EventPtrTableRow struct {
	Event uint32 `json:"event"` // an index into the Event table
}

// Event 0x14
type EventTableRow struct {
	// a 2-byte bitmask of type EventAttributes, §II.23.1.4
	EventFlags uint16 `json:"event_flags"`
	// an index into the String heap
	Name uint32 `json:"name"`
	// an index into a TypeDef, a TypeRef, or TypeSpec table; more precisely,
	// a TypeDefOrRef (§II.24.2.6) coded index)
	EventType uint32 `json:"event_type"`
}

// PropertyMap 0x15
type PropertyMapTableRow struct {
	// an index into the TypeDef table
	Parent uint32 `json:"parent"`
	// an index into the Property table
	PropertyList uint32 `json:"property_list"`
}

// PropertyPtr 0x16. See FieldPtr.
type PropertyPtrTableRow struct {
	Property uint32 `json:"property"` // an index into the Property table
}

// Property 0x17
type PropertyTableRow struct {
	// a 2-byte bitmask of type PropertyAttributes, §II.23.1.14
	Flags uint16 `json:"flags"`
	// an index into the String heap
	Name uint32 `json:"name"`
	// an index into the Blob heap
	Type uint32 `json:"type"`
}

// MethodSemantics 0x18
type MethodSemanticsTableRow struct {
	// a 2-byte bitmask of type MethodSemanticsAttributes, §II.23.1.12
	Semantics uint16 `json:"semantics"`
	// an index into the MethodDef table
	Method uint32 `json:"method"`
	// an index into the Event or Property table; more precisely,
	// a HasSemantics (§II.24.2.6) coded index
	Association uint32 `json:"association"`
}

// MethodImpl 0x19
type MethodImplTableRow struct {
	// an index into the TypeDef table
	Class uint32 `json:"class"`
	// an index into the MethodDef or MemberRef table; more precisely, a
	// MethodDefOrRef (§II.24.2.6) coded index
	MethodBody uint32 `json:"method_body"`
	// an index into the MethodDef or MemberRef table; more precisely, a
	// MethodDefOrRef (§II.24.2.6) coded index
	MethodDeclaration uint32 `json:"method_declaration"`
}

// ModuleRef 0x1a
type ModuleRefTableRow struct {
	// an index into the String heap
	Name uint32 `json:"name"`
}

// TypeSpec 0x1b
type TypeSpecTableRow struct {
	// an index into the Blob heap
	Signature uint32 `json:"signature"`
}

// ImplMap 0x1c
type ImplMapTableRow struct {
	// a 2-byte bitmask of type PInvokeAttributes, §23.1.8
	MappingFlags uint16 `json:"mapping_flags"`
	// an index into the Field or MethodDef table; more precisely,
	// a MemberForwarded (§II.24.2.6) coded index)
	MemberForwarded uint32 `json:"member_forwarded"`
	// an index into the String heap
	ImportName uint32 `json:"import_name"`
	// an index into the ModuleRef table
	ImportScope uint32 `json:"import_scope"`
}

// FieldRVA 0x1d
type FieldRVATableRow struct {
	// 4-byte constant
	RVA uint32 `json:"rva"`
	// an index into Field table
	Field uint32 `json:"field"`
}

// ENCLog and ENCMap hold Edit-and-Continue delta information; both are
// plain 4-byte columns, never heap or table indices.

// ENCLog 0x1e
type ENCLogTableRow struct {
	Token    uint32 `json:"token"`
	FuncCode uint32 `json:"func_code"`
}

// ENCMap 0x1f
type ENCMapTableRow struct {
	Token uint32 `json:"token"`
}

// Assembly 0x20
type AssemblyTableRow struct {
	// a 4-byte constant of type AssemblyHashAlgorithm, §II.23.1.1
	HashAlgId uint32 `json:"hash_alg_id"`
	// a 2-byte constant
	MajorVersion uint16 `json:"major_version"`
	// a 2-byte constant
	MinorVersion uint16 `json:"minor_version"`
	// a 2-byte constant
	BuildNumber uint16 `json:"build_number"`
	// a 2-byte constant
	RevisionNumber uint16 `json:"revision_number"`
	// a 4-byte bitmask of type AssemblyFlags, §II.23.1.2
	Flags uint32 `json:"flags"`
	// an index into the Blob heap
	PublicKey uint32 `json:"public_key"`
	// an index into the String heap
	Name uint32 `json:"name"`
	// an index into the String heap
	Culture uint32 `json:"culture"`
}

// AssemblyProcessor 0x21. Unused by any CLR implementation in the wild,
// but still part of the fixed schema.
type AssemblyProcessorTableRow struct {
	Processor uint32 `json:"processor"` // a 4-byte constant
}

// AssemblyOS 0x22. Unused, see AssemblyProcessor.
type AssemblyOSTableRow struct {
	OSPlatformID   uint32 `json:"os_platform_id"`   // a 4-byte constant
	OSMajorVersion uint32 `json:"os_major_version"` // a 4-byte constant
	OSMinorVersion uint32 `json:"os_minor_version"` // a 4-byte constant
}

// AssemblyRef 0x23
type AssemblyRefTableRow struct {
	MajorVersion     uint16 `json:"major_version"`       // a 2-byte constant
	MinorVersion     uint16 `json:"minor_version"`       // a 2-byte constant
	BuildNumber      uint16 `json:"build_number"`        // a 2-byte constant
	RevisionNumber   uint16 `json:"revision_number"`     // a 2-byte constant
	Flags            uint32 `json:"flags"`               // a 4-byte bitmask of type AssemblyFlags, §II.23.1.2
	PublicKeyOrToken uint32 `json:"public_key_or_token"` // an index into the Blob heap, indicating the public key or token that identifies the author of this Assembly
	Name             uint32 `json:"name"`                // an index into the String heap
	Culture          uint32 `json:"culture"`              // an index into the String heap
	HashValue        uint32 `json:"hash_value"`          // an index into the Blob heap
}

// AssemblyRefProcessor 0x24. Unused, see AssemblyProcessor.
type AssemblyRefProcessorTableRow struct {
	Processor   uint32 `json:"processor"`    // a 4-byte constant
	AssemblyRef uint32 `json:"assembly_ref"` // an index into the AssemblyRef table
}

// AssemblyRefOS 0x25. Unused, see AssemblyProcessor.
type AssemblyRefOSTableRow struct {
	OSPlatformID   uint32 `json:"os_platform_id"`   // a 4-byte constant
	OSMajorVersion uint32 `json:"os_major_version"` // a 4-byte constant
	OSMinorVersion uint32 `json:"os_minor_version"` // a 4-byte constant
	AssemblyRef    uint32 `json:"assembly_ref"`     // an index into the AssemblyRef table
}

// File 0x26
type FileTableRow struct {
	Flags     uint32 `json:"flags"`      // a 4-byte bitmask of type FileAttributes, §II.23.1.6
	Name      uint32 `json:"name"`       // an index into the String heap
	HashValue uint32 `json:"hash_value"` // an index into the Blob heap
}

// ExportedType 0x27
type ExportedTypeTableRow struct {
	Flags          uint32 `json:"flags"`          // a 4-byte bitmask of type TypeAttributes, §II.23.1.15
	TypeDefId      uint32 `json:"type_def_id"`    // a 4-byte index into a TypeDef table of another module in this Assembly
	TypeName       uint32 `json:"type_name"`      // an index into the String heap
	TypeNamespace  uint32 `json:"type_namespace"` // an index into the String heap
	Implementation uint32 `json:"implementation"` // an index, more precisely an Implementation (§II.24.2.6) coded index
}

// ManifestResource 0x28
type ManifestResourceTableRow struct {
	Offset         uint32 `json:"offset"`         // a 4-byte constant
	Flags          uint32 `json:"flags"`          // a 4-byte bitmask of type ManifestResourceAttributes, §II.23.1.9
	Name           uint32 `json:"name"`           // an index into the String heap
	Implementation uint32 `json:"implementation"` // an index into a File table, an AssemblyRef table, or null; more precisely, an Implementation (§II.24.2.6) coded index
}

// NestedClass 0x29
type NestedClassTableRow struct {
	NestedClass    uint32 `json:"nested_class"`    // an index into the TypeDef table
	EnclosingClass uint32 `json:"enclosing_class"` // an index into the TypeDef table
}

// GenericParam 0x2a
type GenericParamTableRow struct {
	Number uint16 `json:"number"` // the 2-byte index of the generic parameter, numbered left-to-right, from zero
	Flags  uint16 `json:"flags"`  // a 2-byte bitmask of type GenericParamAttributes, §II.23.1.7
	Owner  uint32 `json:"owner"`  // an index into the TypeDef or MethodDef table; more precisely, a TypeOrMethodDef (§II.24.2.6) coded index
	Name   uint32 `json:"name"`   // a non-null index into the String heap
}

// MethodSpec 0x2b
type MethodSpecTableRow struct {
	Method        uint32 `json:"method"`        // an index into the MethodDef or MemberRef table; more precisely, a MethodDefOrRef (§II.24.2.6) coded index
	Instantiation uint32 `json:"instantiation"` // an index into the Blob heap
}

// GenericParamConstraint 0x2c
type GenericParamConstraintTableRow struct {
	Owner      uint32 `json:"owner"`      // an index into the GenericParam table
	Constraint uint32 `json:"constraint"` // an index into the TypeDef, TypeRef, or TypeSpec tables; more precisely, a TypeDefOrRef (§II.24.2.6) coded index
}

// decodeTableRows projects one table's generically-decoded rows (built by
// tables.DecodeRow against the schema in tables.TableSchemas, see
// parseCLRHeaderDirectory) into the table's concrete row slice. Every
// table's columns line up 1:1 with its row struct's fields in declaration
// order, with one exception: Constant packs its Type and Padding fields
// into a single 2-byte column, split out by hand below.
func decodeTableRows(index int, rows []tables.Row) (interface{}, error) {
	switch index {
	case Module:
		out := make([]ModuleTableRow, len(rows))
		for i, r := range rows {
			out[i] = ModuleTableRow{
				Generation: uint16(r[0]),
				Name:       r[1],
				Mvid:       r[2],
				EncID:      r[3],
				EncBaseID:  r[4],
			}
		}
		return out, nil
	case TypeRef:
		out := make([]TypeRefTableRow, len(rows))
		for i, r := range rows {
			out[i] = TypeRefTableRow{ResolutionScope: r[0], TypeName: r[1], TypeNamespace: r[2]}
		}
		return out, nil
	case TypeDef:
		out := make([]TypeDefTableRow, len(rows))
		for i, r := range rows {
			out[i] = TypeDefTableRow{
				Flags: r[0], TypeName: r[1], TypeNamespace: r[2],
				Extends: r[3], FieldList: r[4], MethodList: r[5],
			}
		}
		return out, nil
	case FieldPtr:
		out := make([]FieldPtrTableRow, len(rows))
		for i, r := range rows {
			out[i] = FieldPtrTableRow{Field: r[0]}
		}
		return out, nil
	case Field:
		out := make([]FieldTableRow, len(rows))
		for i, r := range rows {
			out[i] = FieldTableRow{Flags: uint16(r[0]), Name: r[1], Signature: r[2]}
		}
		return out, nil
	case MethodPtr:
		out := make([]MethodPtrTableRow, len(rows))
		for i, r := range rows {
			out[i] = MethodPtrTableRow{Method: r[0]}
		}
		return out, nil
	case MethodDef:
		out := make([]MethodDefTableRow, len(rows))
		for i, r := range rows {
			out[i] = MethodDefTableRow{
				RVA: r[0], ImplFlags: uint16(r[1]), Flags: uint16(r[2]),
				Name: r[3], Signature: r[4], ParamList: r[5],
			}
		}
		return out, nil
	case ParamPtr:
		out := make([]ParamPtrTableRow, len(rows))
		for i, r := range rows {
			out[i] = ParamPtrTableRow{Param: r[0]}
		}
		return out, nil
	case Param:
		out := make([]ParamTableRow, len(rows))
		for i, r := range rows {
			out[i] = ParamTableRow{Flags: uint16(r[0]), Sequence: uint16(r[1]), Name: r[2]}
		}
		return out, nil
	case InterfaceImpl:
		out := make([]InterfaceImplTableRow, len(rows))
		for i, r := range rows {
			out[i] = InterfaceImplTableRow{Class: r[0], Interface: r[1]}
		}
		return out, nil
	case MemberRef:
		out := make([]MemberRefTableRow, len(rows))
		for i, r := range rows {
			out[i] = MemberRefTableRow{Class: r[0], Name: r[1], Signature: r[2]}
		}
		return out, nil
	case Constant:
		out := make([]ConstantTableRow, len(rows))
		for i, r := range rows {
			out[i] = ConstantTableRow{
				Type: uint8(r[0] & 0xFF), Padding: uint8((r[0] >> 8) & 0xFF),
				Parent: r[1], Value: r[2],
			}
		}
		return out, nil
	case CustomAttribute:
		out := make([]CustomAttributeTableRow, len(rows))
		for i, r := range rows {
			out[i] = CustomAttributeTableRow{Parent: r[0], Type: r[1], Value: r[2]}
		}
		return out, nil
	case FieldMarshal:
		out := make([]FieldMarshalTableRow, len(rows))
		for i, r := range rows {
			out[i] = FieldMarshalTableRow{Parent: r[0], NativeType: r[1]}
		}
		return out, nil
	case DeclSecurity:
		out := make([]DeclSecurityTableRow, len(rows))
		for i, r := range rows {
			out[i] = DeclSecurityTableRow{Action: uint16(r[0]), Parent: r[1], PermissionSet: r[2]}
		}
		return out, nil
	case ClassLayout:
		out := make([]ClassLayoutTableRow, len(rows))
		for i, r := range rows {
			out[i] = ClassLayoutTableRow{PackingSize: uint16(r[0]), ClassSize: r[1], Parent: r[2]}
		}
		return out, nil
	case FieldLayout:
		out := make([]FieldLayoutTableRow, len(rows))
		for i, r := range rows {
			out[i] = FieldLayoutTableRow{Offset: r[0], Field: r[1]}
		}
		return out, nil
	case StandAloneSig:
		out := make([]StandAloneSigTableRow, len(rows))
		for i, r := range rows {
			out[i] = StandAloneSigTableRow{Signature: r[0]}
		}
		return out, nil
	case EventMap:
		out := make([]EventMapTableRow, len(rows))
		for i, r := range rows {
			out[i] = EventMapTableRow{Parent: r[0], EventList: r[1]}
		}
		return out, nil
	case EventPtr:
		out := make([]EventPtrTableRow, len(rows))
		for i, r := range rows {
			out[i] = EventPtrTableRow{Event: r[0]}
		}
		return out, nil
	case Event:
		out := make([]EventTableRow, len(rows))
		for i, r := range rows {
			out[i] = EventTableRow{EventFlags: uint16(r[0]), Name: r[1], EventType: r[2]}
		}
		return out, nil
	case PropertyMap:
		out := make([]PropertyMapTableRow, len(rows))
		for i, r := range rows {
			out[i] = PropertyMapTableRow{Parent: r[0], PropertyList: r[1]}
		}
		return out, nil
	case PropertyPtr:
		out := make([]PropertyPtrTableRow, len(rows))
		for i, r := range rows {
			out[i] = PropertyPtrTableRow{Property: r[0]}
		}
		return out, nil
	case Property:
		out := make([]PropertyTableRow, len(rows))
		for i, r := range rows {
			out[i] = PropertyTableRow{Flags: uint16(r[0]), Name: r[1], Type: r[2]}
		}
		return out, nil
	case MethodSemantics:
		out := make([]MethodSemanticsTableRow, len(rows))
		for i, r := range rows {
			out[i] = MethodSemanticsTableRow{Semantics: uint16(r[0]), Method: r[1], Association: r[2]}
		}
		return out, nil
	case MethodImpl:
		out := make([]MethodImplTableRow, len(rows))
		for i, r := range rows {
			out[i] = MethodImplTableRow{Class: r[0], MethodBody: r[1], MethodDeclaration: r[2]}
		}
		return out, nil
	case ModuleRef:
		out := make([]ModuleRefTableRow, len(rows))
		for i, r := range rows {
			out[i] = ModuleRefTableRow{Name: r[0]}
		}
		return out, nil
	case TypeSpec:
		out := make([]TypeSpecTableRow, len(rows))
		for i, r := range rows {
			out[i] = TypeSpecTableRow{Signature: r[0]}
		}
		return out, nil
	case ImplMap:
		out := make([]ImplMapTableRow, len(rows))
		for i, r := range rows {
			out[i] = ImplMapTableRow{
				MappingFlags: uint16(r[0]), MemberForwarded: r[1],
				ImportName: r[2], ImportScope: r[3],
			}
		}
		return out, nil
	case FieldRVA:
		out := make([]FieldRVATableRow, len(rows))
		for i, r := range rows {
			out[i] = FieldRVATableRow{RVA: r[0], Field: r[1]}
		}
		return out, nil
	case ENCLog:
		out := make([]ENCLogTableRow, len(rows))
		for i, r := range rows {
			out[i] = ENCLogTableRow{Token: r[0], FuncCode: r[1]}
		}
		return out, nil
	case ENCMap:
		out := make([]ENCMapTableRow, len(rows))
		for i, r := range rows {
			out[i] = ENCMapTableRow{Token: r[0]}
		}
		return out, nil
	case Assembly:
		out := make([]AssemblyTableRow, len(rows))
		for i, r := range rows {
			out[i] = AssemblyTableRow{
				HashAlgId: r[0], MajorVersion: uint16(r[1]), MinorVersion: uint16(r[2]),
				BuildNumber: uint16(r[3]), RevisionNumber: uint16(r[4]), Flags: r[5],
				PublicKey: r[6], Name: r[7], Culture: r[8],
			}
		}
		return out, nil
	case AssemblyProcessor:
		out := make([]AssemblyProcessorTableRow, len(rows))
		for i, r := range rows {
			out[i] = AssemblyProcessorTableRow{Processor: r[0]}
		}
		return out, nil
	case AssemblyOS:
		out := make([]AssemblyOSTableRow, len(rows))
		for i, r := range rows {
			out[i] = AssemblyOSTableRow{OSPlatformID: r[0], OSMajorVersion: r[1], OSMinorVersion: r[2]}
		}
		return out, nil
	case AssemblyRef:
		out := make([]AssemblyRefTableRow, len(rows))
		for i, r := range rows {
			out[i] = AssemblyRefTableRow{
				MajorVersion: uint16(r[0]), MinorVersion: uint16(r[1]),
				BuildNumber: uint16(r[2]), RevisionNumber: uint16(r[3]), Flags: r[4],
				PublicKeyOrToken: r[5], Name: r[6], Culture: r[7], HashValue: r[8],
			}
		}
		return out, nil
	case AssemblyRefProcessor:
		out := make([]AssemblyRefProcessorTableRow, len(rows))
		for i, r := range rows {
			out[i] = AssemblyRefProcessorTableRow{Processor: r[0], AssemblyRef: r[1]}
		}
		return out, nil
	case AssemblyRefOS:
		out := make([]AssemblyRefOSTableRow, len(rows))
		for i, r := range rows {
			out[i] = AssemblyRefOSTableRow{
				OSPlatformID: r[0], OSMajorVersion: r[1], OSMinorVersion: r[2], AssemblyRef: r[3],
			}
		}
		return out, nil
	case FileMD:
		out := make([]FileTableRow, len(rows))
		for i, r := range rows {
			out[i] = FileTableRow{Flags: r[0], Name: r[1], HashValue: r[2]}
		}
		return out, nil
	case ExportedType:
		out := make([]ExportedTypeTableRow, len(rows))
		for i, r := range rows {
			out[i] = ExportedTypeTableRow{
				Flags: r[0], TypeDefId: r[1], TypeName: r[2],
				TypeNamespace: r[3], Implementation: r[4],
			}
		}
		return out, nil
	case ManifestResource:
		out := make([]ManifestResourceTableRow, len(rows))
		for i, r := range rows {
			out[i] = ManifestResourceTableRow{Offset: r[0], Flags: r[1], Name: r[2], Implementation: r[3]}
		}
		return out, nil
	case NestedClass:
		out := make([]NestedClassTableRow, len(rows))
		for i, r := range rows {
			out[i] = NestedClassTableRow{NestedClass: r[0], EnclosingClass: r[1]}
		}
		return out, nil
	case GenericParam:
		out := make([]GenericParamTableRow, len(rows))
		for i, r := range rows {
			out[i] = GenericParamTableRow{Number: uint16(r[0]), Flags: uint16(r[1]), Owner: r[2], Name: r[3]}
		}
		return out, nil
	case MethodSpec:
		out := make([]MethodSpecTableRow, len(rows))
		for i, r := range rows {
			out[i] = MethodSpecTableRow{Method: r[0], Instantiation: r[1]}
		}
		return out, nil
	case GenericParamConstraint:
		out := make([]GenericParamConstraintTableRow, len(rows))
		for i, r := range rows {
			out[i] = GenericParamConstraintTableRow{Owner: r[0], Constraint: r[1]}
		}
		return out, nil
	default:
		return nil, nil
	}
}

// encodeTableRows is the write-side mirror of decodeTableRows: it turns a
// table's typed row slice (as produced by decodeTableRows, or appended to
// by a caller building new metadata) back into generic tables.Row values
// EncodeRow can serialize.
func encodeTableRows(index int, content interface{}) []tables.Row {
	switch index {
	case Module:
		rows := content.([]ModuleTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{uint32(r.Generation), r.Name, r.Mvid, r.EncID, r.EncBaseID}
		}
		return out
	case TypeRef:
		rows := content.([]TypeRefTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.ResolutionScope, r.TypeName, r.TypeNamespace}
		}
		return out
	case TypeDef:
		rows := content.([]TypeDefTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Flags, r.TypeName, r.TypeNamespace, r.Extends, r.FieldList, r.MethodList}
		}
		return out
	case FieldPtr:
		rows := content.([]FieldPtrTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Field}
		}
		return out
	case Field:
		rows := content.([]FieldTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{uint32(r.Flags), r.Name, r.Signature}
		}
		return out
	case MethodPtr:
		rows := content.([]MethodPtrTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Method}
		}
		return out
	case MethodDef:
		rows := content.([]MethodDefTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.RVA, uint32(r.ImplFlags), uint32(r.Flags), r.Name, r.Signature, r.ParamList}
		}
		return out
	case ParamPtr:
		rows := content.([]ParamPtrTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Param}
		}
		return out
	case Param:
		rows := content.([]ParamTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{uint32(r.Flags), uint32(r.Sequence), r.Name}
		}
		return out
	case InterfaceImpl:
		rows := content.([]InterfaceImplTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Class, r.Interface}
		}
		return out
	case MemberRef:
		rows := content.([]MemberRefTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Class, r.Name, r.Signature}
		}
		return out
	case Constant:
		rows := content.([]ConstantTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{uint32(r.Type) | uint32(r.Padding)<<8, r.Parent, r.Value}
		}
		return out
	case CustomAttribute:
		rows := content.([]CustomAttributeTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Parent, r.Type, r.Value}
		}
		return out
	case FieldMarshal:
		rows := content.([]FieldMarshalTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Parent, r.NativeType}
		}
		return out
	case DeclSecurity:
		rows := content.([]DeclSecurityTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{uint32(r.Action), r.Parent, r.PermissionSet}
		}
		return out
	case ClassLayout:
		rows := content.([]ClassLayoutTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{uint32(r.PackingSize), r.ClassSize, r.Parent}
		}
		return out
	case FieldLayout:
		rows := content.([]FieldLayoutTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Offset, r.Field}
		}
		return out
	case StandAloneSig:
		rows := content.([]StandAloneSigTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Signature}
		}
		return out
	case EventMap:
		rows := content.([]EventMapTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Parent, r.EventList}
		}
		return out
	case EventPtr:
		rows := content.([]EventPtrTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Event}
		}
		return out
	case Event:
		rows := content.([]EventTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{uint32(r.EventFlags), r.Name, r.EventType}
		}
		return out
	case PropertyMap:
		rows := content.([]PropertyMapTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Parent, r.PropertyList}
		}
		return out
	case PropertyPtr:
		rows := content.([]PropertyPtrTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Property}
		}
		return out
	case Property:
		rows := content.([]PropertyTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{uint32(r.Flags), r.Name, r.Type}
		}
		return out
	case MethodSemantics:
		rows := content.([]MethodSemanticsTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{uint32(r.Semantics), r.Method, r.Association}
		}
		return out
	case MethodImpl:
		rows := content.([]MethodImplTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Class, r.MethodBody, r.MethodDeclaration}
		}
		return out
	case ModuleRef:
		rows := content.([]ModuleRefTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Name}
		}
		return out
	case TypeSpec:
		rows := content.([]TypeSpecTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Signature}
		}
		return out
	case ImplMap:
		rows := content.([]ImplMapTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{uint32(r.MappingFlags), r.MemberForwarded, r.ImportName, r.ImportScope}
		}
		return out
	case FieldRVA:
		rows := content.([]FieldRVATableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.RVA, r.Field}
		}
		return out
	case ENCLog:
		rows := content.([]ENCLogTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Token, r.FuncCode}
		}
		return out
	case ENCMap:
		rows := content.([]ENCMapTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Token}
		}
		return out
	case Assembly:
		rows := content.([]AssemblyTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{
				r.HashAlgId, uint32(r.MajorVersion), uint32(r.MinorVersion),
				uint32(r.BuildNumber), uint32(r.RevisionNumber), r.Flags,
				r.PublicKey, r.Name, r.Culture,
			}
		}
		return out
	case AssemblyProcessor:
		rows := content.([]AssemblyProcessorTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Processor}
		}
		return out
	case AssemblyOS:
		rows := content.([]AssemblyOSTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.OSPlatformID, r.OSMajorVersion, r.OSMinorVersion}
		}
		return out
	case AssemblyRef:
		rows := content.([]AssemblyRefTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{
				uint32(r.MajorVersion), uint32(r.MinorVersion),
				uint32(r.BuildNumber), uint32(r.RevisionNumber), r.Flags,
				r.PublicKeyOrToken, r.Name, r.Culture, r.HashValue,
			}
		}
		return out
	case AssemblyRefProcessor:
		rows := content.([]AssemblyRefProcessorTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Processor, r.AssemblyRef}
		}
		return out
	case AssemblyRefOS:
		rows := content.([]AssemblyRefOSTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.OSPlatformID, r.OSMajorVersion, r.OSMinorVersion, r.AssemblyRef}
		}
		return out
	case FileMD:
		rows := content.([]FileTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Flags, r.Name, r.HashValue}
		}
		return out
	case ExportedType:
		rows := content.([]ExportedTypeTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Flags, r.TypeDefId, r.TypeName, r.TypeNamespace, r.Implementation}
		}
		return out
	case ManifestResource:
		rows := content.([]ManifestResourceTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Offset, r.Flags, r.Name, r.Implementation}
		}
		return out
	case NestedClass:
		rows := content.([]NestedClassTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.NestedClass, r.EnclosingClass}
		}
		return out
	case GenericParam:
		rows := content.([]GenericParamTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{uint32(r.Number), uint32(r.Flags), r.Owner, r.Name}
		}
		return out
	case MethodSpec:
		rows := content.([]MethodSpecTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Method, r.Instantiation}
		}
		return out
	case GenericParamConstraint:
		rows := content.([]GenericParamConstraintTableRow)
		out := make([]tables.Row, len(rows))
		for i, r := range rows {
			out[i] = tables.Row{r.Owner, r.Constraint}
		}
		return out
	default:
		return nil
	}
}
