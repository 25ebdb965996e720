// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/saferwall/clrpe/bio"
	"github.com/saferwall/clrpe/tables"
)

// decodedMetadataRoot is a minimal, from-scratch reader for the bytes
// BuildMetadataDirectory produces, used so the round trip below doesn't
// depend on a real mmap-backed File.
type decodedMetadataRoot struct {
	version string
	streams map[string][]byte
}

func decodeMetadataRoot(t *testing.T, raw []byte) decodedMetadataRoot {
	t.Helper()

	sig := binary.LittleEndian.Uint32(raw)
	if sig != metadataRootSignature {
		t.Fatalf("signature = %#x, want %#x", sig, metadataRootSignature)
	}
	versionLen := binary.LittleEndian.Uint32(raw[12:])
	version := string(bytes.TrimRight(raw[16:16+versionLen], "\x00"))

	offset := 16 + versionLen
	flagsAndPad := offset
	offset = flagsAndPad + 2
	streamCount := binary.LittleEndian.Uint16(raw[offset:])
	offset += 2

	streams := make(map[string][]byte, streamCount)
	for i := uint16(0); i < streamCount; i++ {
		streamOffset := binary.LittleEndian.Uint32(raw[offset:])
		streamSize := binary.LittleEndian.Uint32(raw[offset+4:])
		offset += 8
		nameStart := offset
		for raw[offset] != 0 {
			offset++
		}
		name := string(raw[nameStart:offset])
		offset = AlignUp(offset+1, 4)
		streams[name] = raw[streamOffset : streamOffset+streamSize]
	}

	return decodedMetadataRoot{version: version, streams: streams}
}

// TestBuildMetadataDirectoryCustomStreamRoundTrip mirrors adding an
// unrecognized heap stream to an existing module, re-emitting the
// metadata directory, and confirming the new stream survives untouched.
func TestBuildMetadataDirectoryCustomStreamRoundTrip(t *testing.T) {
	f := &File{}
	f.CLR.MetadataStreams = map[string][]byte{}
	f.CLR.MetadataTables = map[int]*MetadataTable{
		Module: {Content: []ModuleTableRow{{Name: 0}}},
	}

	custom := []byte{1, 2, 3, 4}
	f.AddCustomStream("#Test", custom)

	const baseRVA = 0x2000
	heaps := f.LoadMetadataHeaps()
	raw, err := f.BuildMetadataDirectory(heaps, baseRVA)
	if err != nil {
		t.Fatalf("BuildMetadataDirectory() error = %v", err)
	}

	if f.CLR.CLRHeader.MetaData.VirtualAddress != baseRVA || f.CLR.CLRHeader.MetaData.Size != uint32(len(raw)) {
		t.Errorf("CLRHeader.MetaData = %+v, want {%#x %d}", f.CLR.CLRHeader.MetaData, baseRVA, len(raw))
	}

	decoded := decodeMetadataRoot(t, raw)
	got, ok := decoded.streams["#Test"]
	if !ok {
		t.Fatalf("streams = %v, missing #Test", mapKeys(decoded.streams))
	}
	if !bytes.Equal(got, custom) {
		t.Errorf("#Test bytes = %v, want %v", got, custom)
	}

	if _, ok := decoded.streams["#~"]; !ok {
		t.Errorf("tables stream missing from rebuilt directory")
	}

	// BuildMetadataDirectory must also commit the stream back onto
	// pe.CLR.MetadataStreams so a caller can hand the File straight to
	// another BuildMetadataDirectory call without re-parsing.
	if !bytes.Equal(f.CLR.MetadataStreams["#Test"], custom) {
		t.Errorf("pe.CLR.MetadataStreams[#Test] not updated in place")
	}
}

// TestBuildMetadataDirectoryTablesStreamRoundTrip checks that the tables
// stream BuildMetadataDirectory emits decodes back to the same rows via
// the ordinary read-side codec (tables.ComputeLayout + tables.DecodeRow).
func TestBuildMetadataDirectoryTablesStreamRoundTrip(t *testing.T) {
	f := &File{}
	f.CLR.MetadataStreams = map[string][]byte{}
	f.CLR.MetadataTables = map[int]*MetadataTable{
		Module: {Content: []ModuleTableRow{{Generation: 0, Name: 5, Mvid: 1}}},
		TypeRef: {Content: []TypeRefTableRow{
			{ResolutionScope: 0, TypeNamespace: 1, TypeName: 2},
			{ResolutionScope: 0, TypeNamespace: 3, TypeName: 4},
		}},
	}

	heaps := f.LoadMetadataHeaps()
	raw, err := f.BuildMetadataDirectory(heaps, 0x2000)
	if err != nil {
		t.Fatalf("BuildMetadataDirectory() error = %v", err)
	}

	decoded := decodeMetadataRoot(t, raw)
	tableStream := decoded.streams["#~"]

	maskValid := binary.LittleEndian.Uint64(tableStream[8:])
	wantMask := uint64(1)<<uint(Module) | uint64(1)<<uint(TypeRef)
	if maskValid != wantMask {
		t.Fatalf("MaskValid = %#x, want %#x", maskValid, wantMask)
	}

	offset := uint32(24)
	rowCounts := make(map[int]uint32)
	for i := 0; i < tables.TableCount; i++ {
		if maskValid&(uint64(1)<<uint(i)) != 0 {
			rowCounts[i] = binary.LittleEndian.Uint32(tableStream[offset:])
			offset += 4
		}
	}
	if rowCounts[Module] != 1 || rowCounts[TypeRef] != 2 {
		t.Fatalf("rowCounts = %+v, want Module=1 TypeRef=2", rowCounts)
	}

	var fullRowCounts [tables.TableCount]uint32
	for i, c := range rowCounts {
		fullRowCounts[i] = c
	}
	layout := tables.ComputeLayout(tables.TableSchemas(), fullRowCounts, false, false, false, false)

	cur := bio.NewAt(tableStream, offset)
	moduleRows := make([]tables.Row, rowCounts[Module])
	for i := range moduleRows {
		moduleRows[i], err = tables.DecodeRow(cur, layout.Tables[Module])
		if err != nil {
			t.Fatalf("DecodeRow(Module) error = %v", err)
		}
	}
	decodedModule, err := decodeTableRows(Module, moduleRows)
	if err != nil {
		t.Fatalf("decodeTableRows(Module) error = %v", err)
	}
	modRows := decodedModule.([]ModuleTableRow)
	if len(modRows) != 1 || modRows[0].Name != 5 || modRows[0].Mvid != 1 {
		t.Errorf("Module rows = %+v, want Name=5 Mvid=1", modRows)
	}

	typeRefRows := make([]tables.Row, rowCounts[TypeRef])
	for i := range typeRefRows {
		typeRefRows[i], err = tables.DecodeRow(cur, layout.Tables[TypeRef])
		if err != nil {
			t.Fatalf("DecodeRow(TypeRef) error = %v", err)
		}
	}
	decodedTypeRef, err := decodeTableRows(TypeRef, typeRefRows)
	if err != nil {
		t.Fatalf("decodeTableRows(TypeRef) error = %v", err)
	}
	refRows := decodedTypeRef.([]TypeRefTableRow)
	if len(refRows) != 2 || refRows[0].TypeNamespace != 1 || refRows[1].TypeName != 4 {
		t.Errorf("TypeRef rows = %+v, want [{_,2,1} {_,4,3}]", refRows)
	}
}

func mapKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
