// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package heap decodes and builds the four metadata heap streams
// (`#Strings`, `#US`, `#GUID`, `#Blob`) that back CLI metadata tokens.
// Every heap reserves offset (or index) 0 as its empty value, and a
// writer deduplicates identical content to the same offset, matching
// how every managed compiler emits these streams.
package heap

import (
	"github.com/saferwall/clrpe/bio"
	"github.com/saferwall/clrpe/clrerr"
	"golang.org/x/text/encoding/unicode"
)

// StringHeap is the `#Strings` stream: NUL-terminated UTF-8 strings,
// offset 0 reserved for the empty string.
type StringHeap struct {
	raw   []byte
	index map[string]uint32
}

// NewStringHeap wraps the raw `#Strings` stream bytes for reading.
func NewStringHeap(raw []byte) *StringHeap { return &StringHeap{raw: raw} }

// Get decodes the NUL-terminated string starting at offset.
func (h *StringHeap) Get(offset uint32) (string, error) {
	if offset == 0 || int(offset) >= len(h.raw) {
		return "", nil
	}
	c := bio.NewAt(h.raw, offset)
	s, err := c.ReadCString()
	if err != nil {
		return "", clrerr.Wrap(clrerr.InsufficientData, "#Strings heap", err)
	}
	return s, nil
}

// Append adds s to the heap, returning its offset. A string appended
// earlier through this heap value returns that earlier offset instead of
// being duplicated; strings already in the wrapped raw bytes are not
// matched.
func (h *StringHeap) Append(s string) uint32 {
	if s == "" {
		return 0
	}
	if h.index == nil {
		h.index = map[string]uint32{}
		h.raw = append(h.raw, 0) // reserve offset 0 for the empty string
	}
	if off, ok := h.index[s]; ok {
		return off
	}
	off := uint32(len(h.raw))
	h.raw = append(h.raw, []byte(s)...)
	h.raw = append(h.raw, 0)
	h.index[s] = off
	return off
}

// Bytes returns the heap's serialized form.
func (h *StringHeap) Bytes() []byte { return h.raw }

// GUIDHeap is the `#GUID` stream: a packed array of 16-byte GUIDs,
// addressed by a 1-based index; index 0 means "no GUID".
type GUIDHeap struct {
	raw   []byte
	index map[[16]byte]uint32
}

// NewGUIDHeap wraps the raw `#GUID` stream bytes for reading.
func NewGUIDHeap(raw []byte) *GUIDHeap { return &GUIDHeap{raw: raw} }

// Get returns the 16-byte GUID at the given 1-based index.
func (h *GUIDHeap) Get(index uint32) ([16]byte, error) {
	var g [16]byte
	if index == 0 {
		return g, nil
	}
	offset := (index - 1) * 16
	if int(offset)+16 > len(h.raw) {
		return g, clrerr.New(clrerr.InsufficientData, "#GUID heap")
	}
	copy(g[:], h.raw[offset:offset+16])
	return g, nil
}

// Append adds g to the heap, returning its 1-based index. A GUID appended
// earlier through this heap value returns that earlier index instead of
// being duplicated; GUIDs already in the wrapped raw bytes are not
// matched.
func (h *GUIDHeap) Append(g [16]byte) uint32 {
	if h.index == nil {
		h.index = map[[16]byte]uint32{}
	}
	if idx, ok := h.index[g]; ok {
		return idx
	}
	idx := uint32(len(h.raw)/16) + 1
	h.raw = append(h.raw, g[:]...)
	h.index[g] = idx
	return idx
}

// Bytes returns the heap's serialized form.
func (h *GUIDHeap) Bytes() []byte { return h.raw }

// BlobHeap is the `#Blob` stream: each entry is a compressed-length
// prefix followed by that many raw bytes, offset 0 reserved for the
// zero-length blob.
type BlobHeap struct {
	raw   []byte
	index map[string]uint32
}

// NewBlobHeap wraps the raw `#Blob` stream bytes for reading.
func NewBlobHeap(raw []byte) *BlobHeap { return &BlobHeap{raw: raw} }

// Get decodes the length-prefixed blob starting at offset.
func (h *BlobHeap) Get(offset uint32) ([]byte, error) {
	if offset == 0 || int(offset) >= len(h.raw) {
		return nil, nil
	}
	c := bio.NewAt(h.raw, offset)
	length, err := c.ReadCompressedUint()
	if err != nil {
		return nil, clrerr.Wrap(clrerr.MalformedEncoding, "#Blob heap length", err)
	}
	b, err := c.ReadBytes(length)
	if err != nil {
		return nil, clrerr.Wrap(clrerr.InsufficientData, "#Blob heap content", err)
	}
	return b, nil
}

// Append adds b to the heap, returning its offset. A blob appended
// earlier through this heap value returns that earlier offset instead of
// being duplicated; blobs already in the wrapped raw bytes are not
// matched.
func (h *BlobHeap) Append(b []byte) uint32 {
	if len(b) == 0 {
		return 0
	}
	if h.index == nil {
		h.index = map[string]uint32{}
		h.raw = append(h.raw, 0) // reserve offset 0 for the empty blob
	}
	key := string(b)
	if off, ok := h.index[key]; ok {
		return off
	}
	off := uint32(len(h.raw))
	h.raw = append(h.raw, encodeCompressedUint(uint32(len(b)))...)
	h.raw = append(h.raw, b...)
	h.index[key] = off
	return off
}

// Bytes returns the heap's serialized form.
func (h *BlobHeap) Bytes() []byte { return h.raw }

// UserStringHeap is the `#US` stream: length-prefixed UTF-16LE strings,
// each followed by one trailing byte flagging whether the string
// contains a character outside the printable-ASCII range (tab, LF and
// CR do not set the flag), offset 0 reserved for the empty string.
type UserStringHeap struct {
	raw   []byte
	index map[string]uint32
}

// NewUserStringHeap wraps the raw `#US` stream bytes for reading.
func NewUserStringHeap(raw []byte) *UserStringHeap { return &UserStringHeap{raw: raw} }

// Get decodes the UTF-16LE string starting at offset.
func (h *UserStringHeap) Get(offset uint32) (string, error) {
	if offset == 0 || int(offset) >= len(h.raw) {
		return "", nil
	}
	c := bio.NewAt(h.raw, offset)
	length, err := c.ReadCompressedUint()
	if err != nil {
		return "", clrerr.Wrap(clrerr.MalformedEncoding, "#US heap length", err)
	}
	if length == 0 {
		return "", nil
	}
	// The trailing byte is a has-special-chars flag, not part of the
	// UTF-16 payload.
	payload, err := c.ReadBytes(length - 1)
	if err != nil {
		return "", clrerr.Wrap(clrerr.InsufficientData, "#US heap content", err)
	}
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).
		NewDecoder().Bytes(payload)
	if err != nil {
		return "", clrerr.Wrap(clrerr.MalformedEncoding, "#US heap UTF-16", err)
	}
	return string(decoded), nil
}

// Append adds s to the heap, returning its offset. A string appended
// earlier through this heap value returns that earlier offset instead of
// being duplicated; strings already in the wrapped raw bytes are not
// matched.
func (h *UserStringHeap) Append(s string) uint32 {
	if s == "" {
		return 0
	}
	if h.index == nil {
		h.index = map[string]uint32{}
		h.raw = append(h.raw, 0) // reserve offset 0 for the empty string
	}
	if off, ok := h.index[s]; ok {
		return off
	}
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).
		NewEncoder().Bytes([]byte(s))
	if err != nil {
		return 0
	}
	flag := byte(0)
	for _, r := range s {
		if r > 0x7E || (r < 0x20 && r != 0x09 && r != 0x0A && r != 0x0D) {
			flag = 1
			break
		}
	}
	off := uint32(len(h.raw))
	h.raw = append(h.raw, encodeCompressedUint(uint32(len(encoded)+1))...)
	h.raw = append(h.raw, encoded...)
	h.raw = append(h.raw, flag)
	h.index[s] = off
	return off
}

// Bytes returns the heap's serialized form.
func (h *UserStringHeap) Bytes() []byte { return h.raw }

// encodeCompressedUint encodes v using the narrowest of the three
// ECMA-335 II.23.2 compressed-unsigned-integer widths.
func encodeCompressedUint(v uint32) []byte {
	switch {
	case v <= 0x7F:
		return []byte{byte(v)}
	case v <= 0x3FFF:
		return []byte{byte(0x80 | (v >> 8)), byte(v)}
	case v <= 0x1FFFFFFF:
		return []byte{
			byte(0xC0 | (v >> 24)),
			byte(v >> 16),
			byte(v >> 8),
			byte(v),
		}
	default:
		// Out of range for the format; callers never build blobs this
		// large. 0xFF does not match any of the three valid lead-byte
		// patterns, so a decoder rejects it as malformed rather than
		// silently misreading a truncated length.
		return []byte{0xFF}
	}
}
