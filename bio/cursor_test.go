// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bio

import "testing"

func TestReadFixedWidth(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	c := New(buf)

	u8, err := c.ReadU8()
	if err != nil || u8 != 0x01 {
		t.Fatalf("ReadU8() = %v, %v, want 0x01, nil", u8, err)
	}
	u16, err := c.ReadU16()
	if err != nil || u16 != 0x0302 {
		t.Fatalf("ReadU16() = %#x, %v, want 0x0302, nil", u16, err)
	}
	u32, err := c.ReadU32()
	if err != nil || u32 != 0x07060504 {
		t.Fatalf("ReadU32() = %#x, %v, want 0x07060504, nil", u32, err)
	}
}

func TestReadOutsideBoundary(t *testing.T) {
	c := New([]byte{0x01, 0x02})
	if _, err := c.ReadU32(); err != ErrOutsideBoundary {
		t.Errorf("ReadU32() err = %v, want ErrOutsideBoundary", err)
	}
}

func TestReadCString(t *testing.T) {
	c := New([]byte("hello\x00world\x00"))
	s, err := c.ReadCString()
	if err != nil || s != "hello" {
		t.Fatalf("ReadCString() = %q, %v, want hello, nil", s, err)
	}
	s, err = c.ReadCString()
	if err != nil || s != "world" {
		t.Fatalf("ReadCString() = %q, %v, want world, nil", s, err)
	}
}

func TestReadCStringUnterminated(t *testing.T) {
	c := New([]byte("nonul"))
	if _, err := c.ReadCString(); err != ErrOutsideBoundary {
		t.Errorf("ReadCString() err = %v, want ErrOutsideBoundary", err)
	}
}

func TestAlign(t *testing.T) {
	tests := []struct {
		start uint32
		n     uint32
		want  uint32
	}{
		{0, 4, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 4, 8},
	}
	for _, tt := range tests {
		c := &Cursor{buf: make([]byte, 16), off: tt.start}
		c.Align(tt.n)
		if c.Offset() != tt.want {
			t.Errorf("Align(%d) from %d = %d, want %d", tt.n, tt.start, c.Offset(), tt.want)
		}
	}
}

func TestForkIsIndependent(t *testing.T) {
	c := New([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	c.Skip(1)
	fork := c.Fork()
	if _, err := fork.ReadU16(); err != nil {
		t.Fatalf("fork.ReadU16() error = %v", err)
	}
	if c.Offset() != 1 {
		t.Errorf("original cursor offset = %d, want unchanged at 1", c.Offset())
	}
	if fork.Offset() != 3 {
		t.Errorf("fork offset = %d, want 3", fork.Offset())
	}
}

func TestSubScopesToRegion(t *testing.T) {
	c := New([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	c.Skip(1)
	sub, err := c.Sub(2)
	if err != nil {
		t.Fatalf("Sub() error = %v", err)
	}
	if c.Offset() != 3 {
		t.Errorf("parent offset after Sub() = %d, want 3", c.Offset())
	}
	b, err := sub.ReadU16()
	if err != nil || b != 0x0302 {
		t.Fatalf("sub.ReadU16() = %#x, %v, want 0x0302, nil", b, err)
	}
	if _, err := sub.ReadU8(); err != ErrOutsideBoundary {
		t.Errorf("sub read past its own region err = %v, want ErrOutsideBoundary", err)
	}
}

func TestReadCompressedUint(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want uint32
	}{
		{"1-byte zero", []byte{0x00}, 0x00},
		{"1-byte max", []byte{0x7F}, 0x7F},
		{"2-byte min", []byte{0x80, 0x80}, 0x80},
		{"2-byte max", []byte{0xBF, 0xFF}, 0x3FFF},
		{"4-byte min", []byte{0xC0, 0x00, 0x40, 0x00}, 0x4000},
		{"4-byte max", []byte{0xDF, 0xFF, 0xFF, 0xFF}, 0x1FFFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.in)
			got, err := c.ReadCompressedUint()
			if err != nil {
				t.Fatalf("ReadCompressedUint() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadCompressedUint() = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestReadCompressedUintMalformed(t *testing.T) {
	c := New([]byte{0xF8})
	if _, err := c.ReadCompressedUint(); err != ErrMalformedCompressed {
		t.Errorf("ReadCompressedUint() err = %v, want ErrMalformedCompressed", err)
	}
}

func TestReadCompressedInt(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want int32
	}{
		{"positive small", []byte{0x06}, 3},
		{"negative small", []byte{0x79}, -4},
		{"positive 2-byte", []byte{0x80, 0x80}, 64},
		{"negative 2-byte", []byte{0x80, 0x01}, -8192},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.in)
			got, err := c.ReadCompressedInt()
			if err != nil {
				t.Fatalf("ReadCompressedInt() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadCompressedInt() = %d, want %d", got, tt.want)
			}
		})
	}
}
