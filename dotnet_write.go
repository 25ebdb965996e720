// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"encoding/binary"

	"github.com/saferwall/clrpe/heap"
	"github.com/saferwall/clrpe/tables"
)

// metadataRootSignature is the 4-byte "BSJB" magic every metadata root
// starts with (see MetadataHeader.Signature).
const metadataRootSignature = 0x424A5342

// wellKnownHeapStreamNames are the streams BuildMetadataDirectory always
// emits itself from the four heaps plus the tables stream; any other
// entry in pe.CLR.MetadataStreams is a custom stream carried through
// verbatim.
var wellKnownHeapStreamNames = map[string]bool{
	"#Strings": true, "#US": true, "#GUID": true, "#Blob": true,
	"#~": true, "#-": true,
}

// MetadataHeaps bundles the four well-known heap streams in their
// mutable, append-aware form. LoadMetadataHeaps wraps whatever was
// already read into pe.CLR.MetadataStreams; a module built from scratch
// starts from a zero-value MetadataHeaps instead.
type MetadataHeaps struct {
	Strings *heap.StringHeap
	US      *heap.UserStringHeap
	GUID    *heap.GUIDHeap
	Blob    *heap.BlobHeap
}

// LoadMetadataHeaps wraps the four heap streams already parsed into
// pe.CLR.MetadataStreams so new entries can be appended ahead of a
// BuildMetadataDirectory call.
func (pe *File) LoadMetadataHeaps() *MetadataHeaps {
	return &MetadataHeaps{
		Strings: heap.NewStringHeap(pe.CLR.MetadataStreams["#Strings"]),
		US:      heap.NewUserStringHeap(pe.CLR.MetadataStreams["#US"]),
		GUID:    heap.NewGUIDHeap(pe.CLR.MetadataStreams["#GUID"]),
		Blob:    heap.NewBlobHeap(pe.CLR.MetadataStreams["#Blob"]),
	}
}

// AddCustomStream stashes raw bytes under an arbitrary stream name so
// BuildMetadataDirectory carries them through byte-for-byte. Tools that
// tag an assembly with their own stream (a debugger's breakpoint map, an
// obfuscator's marker) use this instead of one of the four well-known
// heaps.
func (pe *File) AddCustomStream(name string, data []byte) {
	if pe.CLR.MetadataStreams == nil {
		pe.CLR.MetadataStreams = make(map[string][]byte)
	}
	pe.CLR.MetadataStreams[name] = data
}

// tablesStreamRowCounts walks every table currently populated in
// pe.CLR.MetadataTables through encodeTableRows - the write-side mirror
// of the generic row decode parseCLRHeaderDirectory uses - and returns
// each table's row count plus the MaskValid bit vector the tables stream
// header and ComputeLayout both need.
func (pe *File) tablesStreamRowCounts() (rowCounts [tables.TableCount]uint32, maskValid uint64) {
	for i := 0; i < tables.TableCount; i++ {
		table, ok := pe.CLR.MetadataTables[i]
		if !ok || table == nil || table.Content == nil {
			continue
		}
		rows := encodeTableRows(i, table.Content)
		if len(rows) == 0 {
			continue
		}
		rowCounts[i] = uint32(len(rows))
		maskValid |= uint64(1) << uint(i)
	}
	return rowCounts, maskValid
}

// BuildMetadataDirectory serializes the CLI metadata directory - the
// metadata root header, stream headers, the four heaps in heaps, any
// custom stream added via AddCustomStream, and the tables stream
// re-encoded from pe.CLR.MetadataTables - back into the layout ECMA-335
// II.24 describes. It also refreshes pe.CLR.StringStreamIndexSize,
// GUIDStreamIndexSize, BlobStreamIndexSize and Layout so a caller that
// re-parses the returned bytes sees a consistent CLRData, and points
// pe.CLR.CLRHeader.MetaData at baseRVA - the RVA the caller intends to
// place the returned bytes at, the same contract BuildExportDirectory
// uses for the export directory.
//
// The caller still owns copying the returned bytes into the section (or
// new section) backing baseRVA; UpdateHeaders' section relocation and
// overlay placement already show the pattern for growing a region and
// keeping a data directory's RVA in sync.
func (pe *File) BuildMetadataDirectory(heaps *MetadataHeaps, baseRVA uint32) ([]byte, error) {
	rowCounts, maskValid := pe.tablesStreamRowCounts()

	stringBig := len(heaps.Strings.Bytes()) > 0xFFFF
	guidBig := len(heaps.GUID.Bytes()) > 0xFFFF
	blobBig := len(heaps.Blob.Bytes()) > 0xFFFF

	pe.CLR.StringStreamIndexSize = indexSize(stringBig || pe.CLR.WideIndices)
	pe.CLR.GUIDStreamIndexSize = indexSize(guidBig || pe.CLR.WideIndices)
	pe.CLR.BlobStreamIndexSize = indexSize(blobBig || pe.CLR.WideIndices)

	layout := tables.ComputeLayout(tables.TableSchemas(), rowCounts, stringBig, guidBig, blobBig, pe.CLR.WideIndices)
	pe.CLR.Layout = layout

	tablesStreamName := "#~"
	if pe.CLR.EncMode || (pe.opts != nil && pe.opts.BuildEncMetadata) {
		tablesStreamName = "#-"
	}
	tablesStream := pe.encodeTablesStream(rowCounts, maskValid, stringBig, guidBig, blobBig, layout)

	type namedStream struct {
		name string
		data []byte
	}
	streams := []namedStream{
		{"#Strings", heaps.Strings.Bytes()},
		{"#US", heaps.US.Bytes()},
		{"#GUID", heaps.GUID.Bytes()},
		{"#Blob", heaps.Blob.Bytes()},
		{tablesStreamName, tablesStream},
	}
	for name, data := range pe.CLR.MetadataStreams {
		if wellKnownHeapStreamNames[name] {
			continue
		}
		streams = append(streams, namedStream{name, data})
	}

	header := pe.CLR.MetadataHeader
	if header.Signature == 0 {
		header.Signature = metadataRootSignature
		header.MajorVersion = 1
		header.MinorVersion = 1
	}
	if header.Version == "" {
		header.Version = "v4.0.30319"
	}
	versionBytes := padCString(header.Version)

	var out []byte
	out = appendU32(out, header.Signature)
	out = appendU16(out, header.MajorVersion)
	out = appendU16(out, header.MinorVersion)
	out = appendU32(out, header.ExtraData)
	out = appendU32(out, uint32(len(versionBytes)))
	out = append(out, versionBytes...)
	out = append(out, header.Flags, 0)
	out = appendU16(out, uint16(len(streams)))

	streamNameBytes := make([][]byte, len(streams))
	headersSize := uint32(0)
	for i, s := range streams {
		streamNameBytes[i] = padCString(s.name)
		headersSize += 8 + uint32(len(streamNameBytes[i]))
	}

	streamOffsets := make([]uint32, len(streams))
	bodyOffset := uint32(len(out)) + headersSize
	for i, s := range streams {
		streamOffsets[i] = bodyOffset
		bodyOffset += AlignUp(uint32(len(s.data)), 4)
	}

	for i, s := range streams {
		out = appendU32(out, streamOffsets[i])
		out = appendU32(out, uint32(len(s.data)))
		out = append(out, streamNameBytes[i]...)
	}
	for _, s := range streams {
		out = append(out, s.data...)
		if pad := AlignUp(uint32(len(s.data)), 4) - uint32(len(s.data)); pad > 0 {
			out = append(out, make([]byte, pad)...)
		}
	}

	pe.CLR.CLRHeader.MetaData = ImageDataDirectory{
		VirtualAddress: baseRVA,
		Size:           uint32(len(out)),
	}

	pe.CLR.MetadataHeader = header
	pe.CLR.MetadataStreams = make(map[string][]byte, len(streams))
	pe.CLR.MetadataStreamHeaders = make([]MetadataStreamHeader, len(streams))
	for i, s := range streams {
		pe.CLR.MetadataStreams[s.name] = s.data
		pe.CLR.MetadataStreamHeaders[i] = MetadataStreamHeader{
			Offset: streamOffsets[i],
			Size:   uint32(len(s.data)),
			Name:   s.name,
		}
	}

	return out, nil
}

// encodeTablesStream serializes the tables-stream header, the row-count
// array, and every table's rows - re-encoded by encodeTableRows and
// tables.EncodeRow - strictly in ascending table-index order, mirroring
// parseCLRHeaderDirectory's decode loop in reverse.
func (pe *File) encodeTablesStream(rowCounts [tables.TableCount]uint32, maskValid uint64, stringBig, guidBig, blobBig bool, layout tables.Layout) []byte {
	var heapsFlag uint8
	if stringBig {
		heapsFlag |= 0x01
	}
	if guidBig {
		heapsFlag |= 0x02
	}
	if blobBig {
		heapsFlag |= 0x04
	}
	if pe.CLR.EncMode {
		heapsFlag |= 0x20
	}

	var out []byte
	out = appendU32(out, 0) // Reserved
	out = append(out, 2, 0) // MajorVersion, MinorVersion
	out = append(out, heapsFlag, 1) // Heaps, RID
	out = appendU64(out, maskValid)
	out = appendU64(out, 0) // Sorted: left unset, matching an unsorted rebuild

	for i := 0; i < tables.TableCount; i++ {
		if maskValid&(uint64(1)<<uint(i)) != 0 {
			out = appendU32(out, rowCounts[i])
		}
	}

	for i := 0; i < tables.TableCount; i++ {
		if maskValid&(uint64(1)<<uint(i)) == 0 {
			continue
		}
		rows := encodeTableRows(i, pe.CLR.MetadataTables[i].Content)
		for _, row := range rows {
			out = tables.EncodeRow(out, row, layout.Tables[i])
		}
	}

	return out
}

func indexSize(big bool) int {
	if big {
		return 4
	}
	return 2
}

// padCString NUL-terminates s and pads it to the next 4-byte boundary,
// matching how a stream header's name field is laid out on disk.
func padCString(s string) []byte {
	b := append([]byte(s), 0)
	if pad := AlignUp(uint32(len(b)), 4) - uint32(len(b)); pad > 0 {
		b = append(b, make([]byte, pad)...)
	}
	return b
}

func appendU16(b []byte, v uint16) []byte {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return append(b, buf[:]...)
}

func appendU32(b []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}

func appendU64(b []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(b, buf[:]...)
}
