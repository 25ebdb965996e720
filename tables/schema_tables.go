// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package tables

// str, guid, blob are the three heap-index column shapes, and simple
// builds a simple-index column; they exist only to keep TableSchemas
// readable.
func str(name string) Column  { return Column{Name: name, Kind: HeapIndexColumn, Heap: StringHeap} }
func guid(name string) Column { return Column{Name: name, Kind: HeapIndexColumn, Heap: GUIDHeap} }
func blob(name string) Column { return Column{Name: name, Kind: HeapIndexColumn, Heap: BlobHeap} }
func fixed2(name string) Column { return Column{Name: name, Kind: Fixed2} }
func fixed4(name string) Column { return Column{Name: name, Kind: Fixed4} }
func simple(name string, t TableIndex) Column {
	return Column{Name: name, Kind: SimpleIndexColumn, Simple: t}
}
func coded(name string, k CodedIndexKind) Column {
	return Column{Name: name, Kind: CodedIndexColumn, Coded: k}
}

// TableSchemas returns the column layout of every one of the 45
// fixed-schema metadata tables, per ECMA-335 II.22. Tables with no
// rows ever present in a well-formed assembly (AssemblyOS,
// AssemblyRefOS, ...) still get a schema, since a layout computation
// should not special-case an empty table.
func TableSchemas() [TableCount][]Column {
	var s [TableCount][]Column

	s[Module] = []Column{
		fixed2("Generation"), str("Name"), guid("Mvid"), guid("EncId"), guid("EncBaseId"),
	}
	s[TypeRef] = []Column{
		coded("ResolutionScope", ResolutionScope), str("TypeName"), str("TypeNamespace"),
	}
	s[TypeDef] = []Column{
		fixed4("Flags"), str("TypeName"), str("TypeNamespace"),
		coded("Extends", TypeDefOrRef), simple("FieldList", Field), simple("MethodList", MethodDef),
	}
	s[FieldPtr] = []Column{simple("Field", Field)}
	s[Field] = []Column{fixed2("Flags"), str("Name"), blob("Signature")}
	s[MethodPtr] = []Column{simple("Method", MethodDef)}
	s[MethodDef] = []Column{
		fixed4("RVA"), fixed2("ImplFlags"), fixed2("Flags"),
		str("Name"), blob("Signature"), simple("ParamList", Param),
	}
	s[ParamPtr] = []Column{simple("Param", Param)}
	s[Param] = []Column{fixed2("Flags"), fixed2("Sequence"), str("Name")}
	s[InterfaceImpl] = []Column{
		simple("Class", TypeDef), coded("Interface", TypeDefOrRef),
	}
	s[MemberRef] = []Column{
		coded("Class", MemberRefParent), str("Name"), blob("Signature"),
	}
	s[Constant] = []Column{
		fixed2("Type"), // low byte type, high byte padding zero
		coded("Parent", HasConstant), blob("Value"),
	}
	s[CustomAttribute] = []Column{
		coded("Parent", HasCustomAttribute), coded("Type", CustomAttributeType), blob("Value"),
	}
	s[FieldMarshal] = []Column{
		coded("Parent", HasFieldMarshal), blob("NativeType"),
	}
	s[DeclSecurity] = []Column{
		fixed2("Action"), coded("Parent", HasDeclSecurity), blob("PermissionSet"),
	}
	s[ClassLayout] = []Column{
		fixed2("PackingSize"), fixed4("ClassSize"), simple("Parent", TypeDef),
	}
	s[FieldLayout] = []Column{fixed4("Offset"), simple("Field", Field)}
	s[StandAloneSig] = []Column{blob("Signature")}
	s[EventMap] = []Column{simple("Parent", TypeDef), simple("EventList", Event)}
	s[EventPtr] = []Column{simple("Event", Event)}
	s[Event] = []Column{
		fixed2("EventFlags"), str("Name"), coded("EventType", TypeDefOrRef),
	}
	s[PropertyMap] = []Column{simple("Parent", TypeDef), simple("PropertyList", Property)}
	s[PropertyPtr] = []Column{simple("Property", Property)}
	s[Property] = []Column{fixed2("Flags"), str("Name"), blob("Type")}
	s[MethodSemantics] = []Column{
		fixed2("Semantics"), simple("Method", MethodDef), coded("Association", HasSemantics),
	}
	s[MethodImpl] = []Column{
		simple("Class", TypeDef),
		coded("MethodBody", MethodDefOrRef),
		coded("MethodDeclaration", MethodDefOrRef),
	}
	s[ModuleRef] = []Column{str("Name")}
	s[TypeSpec] = []Column{blob("Signature")}
	s[ImplMap] = []Column{
		fixed2("MappingFlags"), coded("MemberForwarded", MemberForwarded),
		str("ImportName"), simple("ImportScope", ModuleRef),
	}
	s[FieldRVA] = []Column{fixed4("RVA"), simple("Field", Field)}
	s[ENCLog] = []Column{fixed4("Token"), fixed4("FuncCode")}
	s[ENCMap] = []Column{fixed4("Token")}
	s[Assembly] = []Column{
		fixed4("HashAlgId"), fixed2("MajorVersion"), fixed2("MinorVersion"),
		fixed2("BuildNumber"), fixed2("RevisionNumber"), fixed4("Flags"),
		blob("PublicKey"), str("Name"), str("Culture"),
	}
	s[AssemblyProcessor] = []Column{fixed4("Processor")}
	s[AssemblyOS] = []Column{
		fixed4("OSPlatformId"), fixed4("OSMajorVersion"), fixed4("OSMinorVersion"),
	}
	s[AssemblyRef] = []Column{
		fixed2("MajorVersion"), fixed2("MinorVersion"), fixed2("BuildNumber"), fixed2("RevisionNumber"),
		fixed4("Flags"), blob("PublicKeyOrToken"), str("Name"), str("Culture"), blob("HashValue"),
	}
	s[AssemblyRefProcessor] = []Column{fixed4("Processor"), simple("AssemblyRef", AssemblyRef)}
	s[AssemblyRefOS] = []Column{
		fixed4("OSPlatformId"), fixed4("OSMajorVersion"), fixed4("OSMinorVersion"),
		simple("AssemblyRef", AssemblyRef),
	}
	s[FileTable] = []Column{fixed4("Flags"), str("Name"), blob("HashValue")}
	s[ExportedType] = []Column{
		fixed4("Flags"), fixed4("TypeDefId"), str("TypeName"), str("TypeNamespace"),
		coded("Implementation", Implementation),
	}
	s[ManifestResource] = []Column{
		fixed4("Offset"), fixed4("Flags"), str("Name"), coded("Implementation", Implementation),
	}
	s[NestedClass] = []Column{simple("NestedClass", TypeDef), simple("EnclosingClass", TypeDef)}
	s[GenericParam] = []Column{
		fixed2("Number"), fixed2("Flags"), coded("Owner", TypeOrMethodDef), str("Name"),
	}
	s[MethodSpec] = []Column{coded("Method", MethodDefOrRef), blob("Instantiation")}
	s[GenericParamConstraint] = []Column{
		simple("Owner", GenericParam), coded("Constraint", TypeDefOrRef),
	}

	return s
}
