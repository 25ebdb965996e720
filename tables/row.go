// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package tables

import "github.com/saferwall/clrpe/bio"

// Row is one decoded table row: one value per column, in the same
// order as the owning TableLayout's Columns. A coded-index column
// decodes to its raw on-disk value (tag bits and row index packed
// together); use DecodeCodedIndex to split it.
type Row []uint32

// DecodeRow reads one row's columns from c according to layout,
// advancing c past the row.
func DecodeRow(c *bio.Cursor, layout TableLayout) (Row, error) {
	row := make(Row, len(layout.Columns))
	for i, col := range layout.Columns {
		if col.Size == 2 {
			v, err := c.ReadU16()
			if err != nil {
				return nil, err
			}
			row[i] = uint32(v)
			continue
		}
		v, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

// EncodeRow appends row's columns to buf according to layout,
// returning the extended slice. Round-tripping a Row decoded by
// DecodeRow through EncodeRow reproduces the original bytes exactly,
// since both sides agree on column widths from the same TableLayout.
func EncodeRow(buf []byte, row Row, layout TableLayout) []byte {
	for i, col := range layout.Columns {
		v := row[i]
		if col.Size == 2 {
			buf = append(buf, byte(v), byte(v>>8))
			continue
		}
		buf = append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return buf
}

// DecodeCodedIndex splits a raw coded-index column value into the
// table it selects and the 1-based row index within that table, per
// ECMA-335 II.24.2.6: the low TagBits bits select the table from
// kind.Tables, the remaining high bits are the row index.
func DecodeCodedIndex(kind CodedIndexKind, raw uint32) (table TableIndex, row uint32, ok bool) {
	tagMask := uint32(1)<<kind.TagBits - 1
	tag := raw & tagMask
	if int(tag) >= len(kind.Tables) {
		return 0, 0, false
	}
	return kind.Tables[tag], raw >> kind.TagBits, true
}

// EncodeCodedIndex packs a table and 1-based row index back into a raw
// coded-index column value. ok is false if table does not appear in
// kind's tag set.
func EncodeCodedIndex(kind CodedIndexKind, table TableIndex, row uint32) (raw uint32, ok bool) {
	for tag, t := range kind.Tables {
		if t == table {
			return (row << kind.TagBits) | uint32(tag), true
		}
	}
	return 0, false
}
