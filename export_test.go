// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"encoding/binary"
	"testing"
)

// buildExportImage lays out a minimal export directory, name table,
// ordinal table, address table, and name strings directly at matching
// RVA/offset pairs (no sections), relying on GetOffsetFromRva's no-section
// fallback of treating the RVA as a raw file offset.
func buildExportImage() (data []byte, dirRVA, dirSize uint32) {
	const (
		moduleNameRVA = 0x100
		funcAddrRVA   = 0x200
		namePtrRVA    = 0x210
		ordinalRVA    = 0x214
		funcNameRVA   = 0x300
		forwarderRVA  = 0x310
		dirBase       = 0x40
	)

	data = make([]byte, 0x400)
	copy(data[moduleNameRVA:], "EXAMPLE.dll\x00")
	copy(data[funcNameRVA:], "DoThing\x00")
	copy(data[forwarderRVA:], "NTDLL.RtlDoThing\x00")

	le := binary.LittleEndian
	le.PutUint32(data[funcAddrRVA:], 0x1234)      // ordinal 0 (Base+0): real code
	le.PutUint32(data[funcAddrRVA+4:], forwarderRVA) // ordinal 1 (Base+1): forwarder

	le.PutUint32(data[namePtrRVA:], funcNameRVA)
	le.PutUint16(data[ordinalRVA:], 0) // "DoThing" names ordinal index 0

	dir := ImageExportDirectory{
		Name:                  moduleNameRVA,
		Base:                  1,
		NumberOfFunctions:     2,
		NumberOfNames:         1,
		AddressOfFunctions:    funcAddrRVA,
		AddressOfNames:        namePtrRVA,
		AddressOfNameOrdinals: ordinalRVA,
	}
	buf := data[dirBase:]
	le.PutUint32(buf[0:], dir.Characteristics)
	le.PutUint32(buf[4:], dir.TimeDateStamp)
	le.PutUint16(buf[8:], dir.MajorVersion)
	le.PutUint16(buf[10:], dir.MinorVersion)
	le.PutUint32(buf[12:], dir.Name)
	le.PutUint32(buf[16:], dir.Base)
	le.PutUint32(buf[20:], dir.NumberOfFunctions)
	le.PutUint32(buf[24:], dir.NumberOfNames)
	le.PutUint32(buf[28:], dir.AddressOfFunctions)
	le.PutUint32(buf[32:], dir.AddressOfNames)
	le.PutUint32(buf[36:], dir.AddressOfNameOrdinals)

	return data, dirBase, uint32(exportDirectorySize())
}

func TestParseExportDirectory(t *testing.T) {
	data, dirRVA, _ := buildExportImage()
	f, err := NewBytes(data, &Options{Fast: true})
	if err != nil {
		t.Fatalf("NewBytes() error = %v", err)
	}

	if err := f.parseExportDirectory(dirRVA, uint32(len(data))-dirRVA); err != nil {
		t.Fatalf("parseExportDirectory() error = %v", err)
	}

	if f.Export.Name != "EXAMPLE.dll" {
		t.Errorf("Export.Name = %q, want EXAMPLE.dll", f.Export.Name)
	}
	if len(f.Export.Functions) != 2 {
		t.Fatalf("len(Export.Functions) = %d, want 2", len(f.Export.Functions))
	}

	named := f.Export.Functions[0]
	if named.Ordinal != 1 || named.Name != "DoThing" || named.FunctionRVA != 0x1234 {
		t.Errorf("Functions[0] = %+v, want ordinal 1, name DoThing, rva 0x1234", named)
	}

	forwarded := f.Export.Functions[1]
	if forwarded.Ordinal != 2 || forwarded.Forwarder != "NTDLL.RtlDoThing" {
		t.Errorf("Functions[1] = %+v, want ordinal 2, forwarder NTDLL.RtlDoThing", forwarded)
	}
}

// TestAppendExportedSymbolRoundTrip appends a new named export to an
// already-parsed directory, re-emits it with BuildExportDirectory, and
// re-parses the result, checking the original entries and the appended
// one all come back in order.
func TestAppendExportedSymbolRoundTrip(t *testing.T) {
	data, dirRVA, _ := buildExportImage()
	f, err := NewBytes(data, &Options{Fast: true})
	if err != nil {
		t.Fatalf("NewBytes() error = %v", err)
	}
	if err := f.parseExportDirectory(dirRVA, uint32(len(data))-dirRVA); err != nil {
		t.Fatalf("parseExportDirectory() error = %v", err)
	}

	f.AppendExportedSymbol(ExportedSymbol{RVA: 0x13371337, Name: "MySymbol"})

	const rebuiltBaseRVA = 0x1000
	rebuilt := f.BuildExportDirectory(rebuiltBaseRVA)

	image := make([]byte, rebuiltBaseRVA+uint32(len(rebuilt)))
	copy(image[rebuiltBaseRVA:], rebuilt)

	f2, err := NewBytes(image, &Options{Fast: true})
	if err != nil {
		t.Fatalf("NewBytes() (rebuilt) error = %v", err)
	}
	if err := f2.parseExportDirectory(rebuiltBaseRVA, uint32(len(rebuilt))); err != nil {
		t.Fatalf("parseExportDirectory() (rebuilt) error = %v", err)
	}

	if f2.Export.Name != "EXAMPLE.dll" {
		t.Errorf("Export.Name = %q, want EXAMPLE.dll", f2.Export.Name)
	}
	if len(f2.Export.Functions) != 3 {
		t.Fatalf("len(Export.Functions) = %d, want 3", len(f2.Export.Functions))
	}

	if f2.Export.Functions[0].Name != "DoThing" || f2.Export.Functions[0].FunctionRVA != 0x1234 {
		t.Errorf("Functions[0] = %+v, want DoThing/0x1234", f2.Export.Functions[0])
	}
	if f2.Export.Functions[1].Forwarder != "NTDLL.RtlDoThing" {
		t.Errorf("Functions[1] = %+v, want forwarder NTDLL.RtlDoThing", f2.Export.Functions[1])
	}
	last := f2.Export.Functions[2]
	if last.Name != "MySymbol" || last.FunctionRVA != 0x13371337 {
		t.Errorf("Functions[2] = %+v, want MySymbol/0x13371337", last)
	}
}
