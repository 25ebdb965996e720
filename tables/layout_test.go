// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package tables

import "testing"

func TestComputeLayoutSmallIndices(t *testing.T) {
	schemas := TableSchemas()
	var rowCounts [TableCount]uint32
	rowCounts[Field] = 10
	rowCounts[MethodDef] = 5

	layout := ComputeLayout(schemas, rowCounts, false, false, false, false)

	fieldRow := layout.Tables[Field]
	// Field: Flags(2) + Name(heap, small=2) + Signature(heap, small=2) = 6
	if fieldRow.RowSize != 6 {
		t.Errorf("Field.RowSize = %d, want 6", fieldRow.RowSize)
	}

	methodDefRow := layout.Tables[MethodDef]
	// RVA(4) + ImplFlags(2) + Flags(2) + Name(2) + Signature(2) + ParamList(simple->Param, small=2)
	if methodDefRow.RowSize != 14 {
		t.Errorf("MethodDef.RowSize = %d, want 14", methodDefRow.RowSize)
	}
}

func TestComputeLayoutWidensOnBigHeap(t *testing.T) {
	schemas := TableSchemas()
	var rowCounts [TableCount]uint32

	small := ComputeLayout(schemas, rowCounts, false, false, false, false)
	big := ComputeLayout(schemas, rowCounts, true, false, false, false)

	if small.Tables[Field].RowSize >= big.Tables[Field].RowSize {
		t.Errorf("big string heap did not widen Field row: small=%d big=%d",
			small.Tables[Field].RowSize, big.Tables[Field].RowSize)
	}
}

func TestComputeLayoutWidensOnManyRows(t *testing.T) {
	schemas := TableSchemas()
	var rowCounts [TableCount]uint32
	rowCounts[Field] = 0x10000 // exceeds 16-bit simple-index range

	layout := ComputeLayout(schemas, rowCounts, false, false, false, false)
	fieldListCol := layout.Tables[TypeDef].Columns[4] // FieldList
	if fieldListCol.Size != 4 {
		t.Errorf("FieldList column size = %d, want 4 once Field has >2^16-1 rows", fieldListCol.Size)
	}
}

func TestComputeLayoutWideForcesFourBytes(t *testing.T) {
	schemas := TableSchemas()
	var rowCounts [TableCount]uint32

	layout := ComputeLayout(schemas, rowCounts, false, false, false, true)
	for _, col := range layout.Tables[Field].Columns {
		if col.Kind != Fixed2 && col.Size != 4 {
			t.Errorf("column %s in wide mode has size %d, want 4", col.Name, col.Size)
		}
	}
}

func TestComputeLayoutCodedIndexWidensOnTagSetRowCount(t *testing.T) {
	schemas := TableSchemas()
	var rowCounts [TableCount]uint32
	// TypeDefOrRef reserves 2 tag bits, leaving 14 bits (16383 rows) before
	// widening; push TypeSpec past that.
	rowCounts[TypeSpec] = 1 << 14

	layout := ComputeLayout(schemas, rowCounts, false, false, false, false)
	extendsCol := layout.Tables[TypeDef].Columns[3] // Extends, TypeDefOrRef
	if extendsCol.Size != 4 {
		t.Errorf("Extends column size = %d, want 4", extendsCol.Size)
	}
}
