// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

const maxExportNameLength = 0x200

// ImageExportDirectory represents the IMAGE_EXPORT_DIRECTORY structure,
// which lies at the start of the export data directory.
type ImageExportDirectory struct {
	// Reserved, must be 0.
	Characteristics uint32 `json:"characteristics"`

	// The time and date that the export data was created.
	TimeDateStamp uint32 `json:"time_date_stamp"`

	// The major version number. The major and minor version numbers can
	// be set by the user.
	MajorVersion uint16 `json:"major_version"`

	// The minor version number.
	MinorVersion uint16 `json:"minor_version"`

	// The address of the ASCII string that contains the name of the DLL.
	// This address is relative to the image base.
	Name uint32 `json:"name"`

	// The starting ordinal number for exported functions in this image.
	// This field specifies the starting ordinal number for the export
	// address table. It is usually set to 1.
	Base uint32 `json:"base"`

	// The number of entries in the export address table.
	NumberOfFunctions uint32 `json:"number_of_functions"`

	// The number of entries in the name pointer table. This is also the
	// number of entries in the ordinal table.
	NumberOfNames uint32 `json:"number_of_names"`

	// The address of the export address table, relative to the image
	// base.
	AddressOfFunctions uint32 `json:"address_of_functions"`

	// The address of the export name pointer table, relative to the
	// image base. The table size is given by NumberOfNames.
	AddressOfNames uint32 `json:"address_of_names"`

	// The address of the ordinal table, relative to the image base.
	AddressOfNameOrdinals uint32 `json:"address_of_name_ordinals"`
}

// ExportFunction represents an exported function, resolved by ordinal
// and, when the DLL also exports it by name, by name too.
type ExportFunction struct {
	// Ordinal is the function's position in the export address table,
	// Base-relative.
	Ordinal uint32 `json:"ordinal"`

	// FunctionRVA is the address of the exported symbol, relative to the
	// image base, when the entry is not a forwarder.
	FunctionRVA uint32 `json:"function_rva"`

	// NameRVA is the address of the exported symbol's name, relative to
	// the image base, when the entry has a name.
	NameRVA uint32 `json:"name_rva"`

	// Name is the exported symbol's name, when present.
	Name string `json:"name"`

	// Forwarder, when non-empty, is the "DLLName.FunctionName" string
	// this entry forwards to instead of pointing at executable code.
	Forwarder string `json:"forwarder"`

	// ForwarderRVA is the address of the forwarder string, relative to
	// the image base, when this entry is a forwarder.
	ForwarderRVA uint32 `json:"forwarder_rva"`
}

// Export wraps the semantic view of a PE export directory: the raw
// header struct, the module's own exported name, and the resolved
// function table.
type Export struct {
	Struct    ImageExportDirectory `json:"struct,omitempty"`
	Name      string               `json:"name,omitempty"`
	Functions []ExportFunction     `json:"functions,omitempty"`
}

// parseExportDirectory parses the export directory at the given RVA,
// populating pe.Export with the module name and every entry in the
// export address table, resolving names and forwarders for the subset
// of ordinals the name pointer table covers.
func (pe *File) parseExportDirectory(rva, size uint32) error {
	var exportDir ImageExportDirectory
	exportDirOffset := pe.GetOffsetFromRva(rva)
	exportDirSize := uint32(exportDirectorySize())
	if err := pe.structUnpack(&exportDir, exportDirOffset, exportDirSize); err != nil {
		return err
	}

	moduleName := pe.getStringAtRVA(exportDir.Name, maxExportNameLength)

	nameOrdinals := make(map[uint32]uint32, exportDir.NumberOfNames)
	namesByOrdinal := make(map[uint32]string, exportDir.NumberOfNames)
	namePtrTableOffset := pe.GetOffsetFromRva(exportDir.AddressOfNames)
	ordinalTableOffset := pe.GetOffsetFromRva(exportDir.AddressOfNameOrdinals)
	for i := uint32(0); i < exportDir.NumberOfNames; i++ {
		nameRVA, err := pe.ReadUint32(namePtrTableOffset + i*4)
		if err != nil {
			break
		}
		ordinalIdx, err := pe.ReadUint16(ordinalTableOffset + i*2)
		if err != nil {
			break
		}
		nameOrdinals[uint32(ordinalIdx)] = nameRVA
		namesByOrdinal[uint32(ordinalIdx)] = pe.getStringAtRVA(nameRVA, maxExportNameLength)
	}

	functions := make([]ExportFunction, 0, exportDir.NumberOfFunctions)
	addrTableOffset := pe.GetOffsetFromRva(exportDir.AddressOfFunctions)
	for i := uint32(0); i < exportDir.NumberOfFunctions; i++ {
		funcRVA, err := pe.ReadUint32(addrTableOffset + i*4)
		if err != nil {
			break
		}

		fn := ExportFunction{
			Ordinal: exportDir.Base + i,
		}

		// An address inside the export directory's own RVA range is a
		// forwarder string, not code.
		if funcRVA >= rva && funcRVA < rva+size {
			fn.ForwarderRVA = funcRVA
			fn.Forwarder = pe.getStringAtRVA(funcRVA, maxExportNameLength)
		} else {
			fn.FunctionRVA = funcRVA
		}

		if nameRVA, ok := nameOrdinals[i]; ok {
			fn.NameRVA = nameRVA
			fn.Name = namesByOrdinal[i]
		}

		functions = append(functions, fn)
	}

	pe.Export = Export{
		Struct:    exportDir,
		Name:      moduleName,
		Functions: functions,
	}
	return nil
}

// ExportedSymbol is the input AppendExportedSymbol needs to add a new,
// named, non-forwarder entry to an export table.
type ExportedSymbol struct {
	RVA  uint32
	Name string
}

// AppendExportedSymbol adds symbol to the in-memory export table,
// assigning it the next ordinal after whatever is already present. The
// module must already have an Export (parsed, or built up by hand) for
// the new entry's ordinal and counts to be assigned correctly.
func (pe *File) AppendExportedSymbol(symbol ExportedSymbol) {
	ordinal := pe.Export.Struct.Base + uint32(len(pe.Export.Functions))
	pe.Export.Functions = append(pe.Export.Functions, ExportFunction{
		Ordinal:     ordinal,
		FunctionRVA: symbol.RVA,
		NameRVA:     0,
		Name:        symbol.Name,
	})
	pe.Export.Struct.NumberOfFunctions = uint32(len(pe.Export.Functions))
	named := uint32(0)
	for _, fn := range pe.Export.Functions {
		if fn.Name != "" {
			named++
		}
	}
	pe.Export.Struct.NumberOfNames = named
}

// BuildExportDirectory serializes pe.Export - including any symbol added
// through AppendExportedSymbol - back into the directory, address table,
// name pointer table, ordinal table, and name-string layout
// parseExportDirectory reads, preserving every existing entry's order.
//
// baseRVA is where the caller intends to place the returned bytes; every
// RVA the directory stores is computed relative to it, the way a linker
// lays out a freshly built directory.
func (pe *File) BuildExportDirectory(baseRVA uint32) []byte {
	dirSize := exportDirectorySize()
	addrTableSize := uint32(len(pe.Export.Functions)) * 4

	type namedEntry struct {
		addrIndex uint32
		name      string
	}
	var names []namedEntry
	for i, fn := range pe.Export.Functions {
		if fn.Name != "" {
			names = append(names, namedEntry{uint32(i), fn.Name})
		}
	}
	namePtrTableSize := uint32(len(names)) * 4
	ordinalTableSize := uint32(len(names)) * 2

	addrTableRVA := baseRVA + dirSize
	namePtrTableRVA := addrTableRVA + addrTableSize
	ordinalTableRVA := namePtrTableRVA + namePtrTableSize
	stringsRVA := ordinalTableRVA + ordinalTableSize

	var strTable []byte
	internString := func(s string) uint32 {
		rva := stringsRVA + uint32(len(strTable))
		strTable = append(strTable, []byte(s)...)
		strTable = append(strTable, 0)
		return rva
	}

	moduleNameRVA := internString(pe.Export.Name)

	funcRVAs := make([]uint32, len(pe.Export.Functions))
	for i, fn := range pe.Export.Functions {
		if fn.Forwarder != "" {
			funcRVAs[i] = internString(fn.Forwarder)
		} else {
			funcRVAs[i] = fn.FunctionRVA
		}
	}
	nameRVAs := make([]uint32, len(names))
	for i, n := range names {
		nameRVAs[i] = internString(n.name)
	}

	dir := pe.Export.Struct
	dir.Name = moduleNameRVA
	dir.NumberOfFunctions = uint32(len(pe.Export.Functions))
	dir.NumberOfNames = uint32(len(names))
	dir.AddressOfFunctions = addrTableRVA
	dir.AddressOfNames = namePtrTableRVA
	dir.AddressOfNameOrdinals = ordinalTableRVA

	var out []byte
	out = appendU32(out, dir.Characteristics)
	out = appendU32(out, dir.TimeDateStamp)
	out = appendU16(out, dir.MajorVersion)
	out = appendU16(out, dir.MinorVersion)
	out = appendU32(out, dir.Name)
	out = appendU32(out, dir.Base)
	out = appendU32(out, dir.NumberOfFunctions)
	out = appendU32(out, dir.NumberOfNames)
	out = appendU32(out, dir.AddressOfFunctions)
	out = appendU32(out, dir.AddressOfNames)
	out = appendU32(out, dir.AddressOfNameOrdinals)

	for _, rva := range funcRVAs {
		out = appendU32(out, rva)
	}
	for _, rva := range nameRVAs {
		out = appendU32(out, rva)
	}
	for _, n := range names {
		out = appendU16(out, uint16(n.addrIndex))
	}
	out = append(out, strTable...)

	pe.Export.Struct = dir
	return out
}

func exportDirectorySize() uint32 {
	// Characteristics, TimeDateStamp: 4 bytes each. MajorVersion,
	// MinorVersion: 2 bytes each. Name, Base, NumberOfFunctions,
	// NumberOfNames, AddressOfFunctions, AddressOfNames,
	// AddressOfNameOrdinals: 4 bytes each.
	return 4 + 4 + 2 + 2 + 4 + 4 + 4 + 4 + 4 + 4 + 4
}
