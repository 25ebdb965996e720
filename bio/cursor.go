// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package bio provides a bounds-checked byte cursor shared by the heap,
// tables, and signature packages. It generalizes the bounds-checked
// ReadUint8/16/32/64 style reads the container package uses directly on
// its own backing buffer, into a standalone reader that heaps and blobs
// can sub-slice and fork independently of any *pe.File.
package bio

import (
	"encoding/binary"
	"errors"
)

// ErrOutsideBoundary is returned when a read would run past the end of
// the cursor's buffer.
var ErrOutsideBoundary = errors.New("bio: read outside buffer boundary")

// ErrMalformedCompressed is returned when a compressed integer's leading
// byte pattern does not match any of the three encodings ECMA-335 II.23.2
// defines.
var ErrMalformedCompressed = errors.New("bio: malformed compressed integer")

// Cursor is a read-only, bounds-checked view over a byte slice with an
// advancing offset. It never copies the underlying buffer; Fork and Sub
// both alias it.
type Cursor struct {
	buf []byte
	off uint32
}

// New wraps buf in a Cursor starting at offset 0.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// NewAt wraps buf in a Cursor starting at the given offset.
func NewAt(buf []byte, offset uint32) *Cursor {
	return &Cursor{buf: buf, off: offset}
}

// Offset returns the cursor's current position.
func (c *Cursor) Offset() uint32 { return c.off }

// Len returns the total length of the backing buffer.
func (c *Cursor) Len() uint32 { return uint32(len(c.buf)) }

// Remaining returns the number of unread bytes left in the buffer.
func (c *Cursor) Remaining() uint32 {
	if c.off >= uint32(len(c.buf)) {
		return 0
	}
	return uint32(len(c.buf)) - c.off
}

// Seek moves the cursor to an absolute offset. It does not itself bounds
// check against the buffer length; the next read does.
func (c *Cursor) Seek(offset uint32) { c.off = offset }

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n uint32) { c.off += n }

func (c *Cursor) require(n uint32) error {
	total := c.off + n
	if (total > c.off) != (n > 0) {
		return ErrOutsideBoundary
	}
	if total > uint32(len(c.buf)) {
		return ErrOutsideBoundary
	}
	return nil
}

// ReadU8 reads one byte and advances the cursor.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

// ReadU16 reads a little-endian uint16 and advances the cursor.
func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32 and advances the cursor.
func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v, nil
}

// ReadU64 reads a little-endian uint64 and advances the cursor.
func (c *Cursor) ReadU64() (uint64, error) {
	if err := c.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v, nil
}

// ReadBytes reads n raw bytes and advances the cursor. The returned slice
// aliases the cursor's backing buffer.
func (c *Cursor) ReadBytes(n uint32) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// ReadCString reads a NUL-terminated byte string starting at the cursor
// and advances past the terminator. The terminator itself is not part of
// the returned string.
func (c *Cursor) ReadCString() (string, error) {
	start := c.off
	for {
		if c.off >= uint32(len(c.buf)) {
			return "", ErrOutsideBoundary
		}
		if c.buf[c.off] == 0 {
			s := string(c.buf[start:c.off])
			c.off++
			return s, nil
		}
		c.off++
	}
}

// Align rounds the cursor forward to the next multiple of n, which must
// be a power of two.
func (c *Cursor) Align(n uint32) {
	if rem := c.off % n; rem != 0 {
		c.off += n - rem
	}
}

// Fork returns a new Cursor over the same buffer, positioned at this
// cursor's current offset. Reads through the fork do not advance the
// original.
func (c *Cursor) Fork() *Cursor {
	return &Cursor{buf: c.buf, off: c.off}
}

// Sub returns a new Cursor scoped to the n bytes starting at this
// cursor's current offset, itself starting at offset 0, and advances
// this cursor past those n bytes. It is used to hand a bounded view of
// a heap or table region to a sub-parser without letting it read past
// its own section.
func (c *Cursor) Sub(n uint32) (*Cursor, error) {
	b, err := c.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return &Cursor{buf: b}, nil
}

// ReadCompressedUint decodes an unsigned compressed integer per ECMA-335
// II.23.2: a 1-byte encoding for values 0..0x7F, a 2-byte encoding for
// 0x80..0x3FFF, and a 4-byte encoding for 0x4000..0x1FFFFFFF.
func (c *Cursor) ReadCompressedUint() (uint32, error) {
	b0, err := c.ReadU8()
	if err != nil {
		return 0, err
	}
	switch {
	case b0&0x80 == 0:
		return uint32(b0), nil
	case b0&0xC0 == 0x80:
		b1, err := c.ReadU8()
		if err != nil {
			return 0, err
		}
		return (uint32(b0&0x3F) << 8) | uint32(b1), nil
	case b0&0xE0 == 0xC0:
		rest, err := c.ReadBytes(3)
		if err != nil {
			return 0, err
		}
		return (uint32(b0&0x1F) << 24) | (uint32(rest[0]) << 16) |
			(uint32(rest[1]) << 8) | uint32(rest[2]), nil
	default:
		return 0, ErrMalformedCompressed
	}
}

// ReadCompressedInt decodes a signed compressed integer per ECMA-335
// II.23.2: the value is first decoded as an unsigned compressed integer
// of the matching width, with the sign bit held in its least significant
// bit, then rotated right by one and negated if that bit was set.
func (c *Cursor) ReadCompressedInt() (int32, error) {
	b0, err := c.ReadU8()
	if err != nil {
		return 0, err
	}
	switch {
	case b0&0x80 == 0:
		v := int32(b0 >> 1)
		if b0&1 != 0 {
			v = -(0x40 - v)
		}
		return v, nil
	case b0&0xC0 == 0x80:
		b1, err := c.ReadU8()
		if err != nil {
			return 0, err
		}
		u := (uint32(b0&0x3F) << 8) | uint32(b1)
		v := int32(u >> 1)
		if u&1 != 0 {
			v = -(0x2000 - v)
		}
		return v, nil
	case b0&0xE0 == 0xC0:
		rest, err := c.ReadBytes(3)
		if err != nil {
			return 0, err
		}
		u := (uint32(b0&0x1F) << 24) | (uint32(rest[0]) << 16) |
			(uint32(rest[1]) << 8) | uint32(rest[2])
		v := int32(u >> 1)
		if u&1 != 0 {
			v = -(0x10000000 - v)
		}
		return v, nil
	default:
		return 0, ErrMalformedCompressed
	}
}
