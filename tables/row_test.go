// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package tables

import (
	"bytes"
	"testing"

	"github.com/saferwall/clrpe/bio"
)

func TestRowRoundTrip(t *testing.T) {
	schemas := TableSchemas()
	var rowCounts [TableCount]uint32
	layout := ComputeLayout(schemas, rowCounts, false, false, false, false)
	fieldLayout := layout.Tables[Field]

	raw := []byte{
		0x11, 0x22, // Flags
		0x01, 0x00, // Name
		0x02, 0x00, // Signature
	}
	c := bio.New(raw)
	row, err := DecodeRow(c, fieldLayout)
	if err != nil {
		t.Fatalf("DecodeRow() error = %v", err)
	}
	want := Row{0x2211, 0x0001, 0x0002}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d = %#x, want %#x", i, row[i], want[i])
		}
	}

	encoded := EncodeRow(nil, row, fieldLayout)
	if !bytes.Equal(encoded, raw) {
		t.Errorf("EncodeRow() = %v, want %v", encoded, raw)
	}
}

func TestCodedIndexRoundTripThroughRow(t *testing.T) {
	raw, ok := EncodeCodedIndex(MemberRefParent, TypeRef, 42)
	if !ok {
		t.Fatal("EncodeCodedIndex failed")
	}
	table, row, ok := DecodeCodedIndex(MemberRefParent, raw)
	if !ok || table != TypeRef || row != 42 {
		t.Errorf("DecodeCodedIndex = (%v, %d, %v), want (TypeRef, 42, true)", table, row, ok)
	}
}
