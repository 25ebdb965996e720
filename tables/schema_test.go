// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package tables

import "testing"

func TestTableSchemasCoversEveryTable(t *testing.T) {
	schemas := TableSchemas()
	for i := TableIndex(0); i < TableCount; i++ {
		if len(schemas[i]) == 0 {
			t.Errorf("table %d has no column schema", i)
		}
	}
}

func TestDecodeCodedIndexRoundTrip(t *testing.T) {
	kind := TypeDefOrRef
	for _, tbl := range kind.Tables {
		raw, ok := EncodeCodedIndex(kind, tbl, 7)
		if !ok {
			t.Fatalf("EncodeCodedIndex(%v) ok = false", tbl)
		}
		gotTable, gotRow, ok := DecodeCodedIndex(kind, raw)
		if !ok || gotTable != tbl || gotRow != 7 {
			t.Errorf("round trip for %v: got (%v, %d, %v)", tbl, gotTable, gotRow, ok)
		}
	}
}

func TestDecodeCodedIndexRejectsUnknownTag(t *testing.T) {
	// CustomAttributeType reserves 3 tag bits (8 possible tags) but only
	// defines 5 table slots, so tag 7 must be rejected as malformed.
	_, _, ok := DecodeCodedIndex(CustomAttributeType, 0x7)
	if ok {
		t.Errorf("DecodeCodedIndex with out-of-range tag = ok, want rejected")
	}
}
