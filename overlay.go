// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"errors"
	"io"
)

// error
var (
	ErrNoOverlayFound = errors.New("pe does not have overlay data")
)

// NewOverlayReader returns a new ReadSeeker reading the PE overlay data.
func (pe *File) NewOverlayReader() (*io.SectionReader, error) {
	if pe.data == nil {
		return nil, errors.New("pe: file reader is nil")
	}
	return io.NewSectionReader(pe.f, pe.OverlayOffset, 1<<63-1), nil
}

// Overlay returns the overlay of the PE file.
func (pe *File) Overlay() ([]byte, error) {
	sr, err := pe.NewOverlayReader()
	if err != nil {
		return nil, err
	}

	overlay := make([]byte, int64(pe.size)-pe.OverlayOffset)
	n, err := sr.ReadAt(overlay, 0)
	if n == len(overlay) {
		pe.HasOverlay = true
		err = nil
	}

	return overlay, err
}

func (pe *File) OverlayLength() int64 {
	return int64(pe.size) - pe.OverlayOffset
}

// OverlaySegment wraps the trailing bytes appended after the last section
// as a Segment, so UpdateHeaders can place it at the end of the physical
// file without caring whether it came from a capture-and-append fuzzing
// pass or from a genuine installer payload. It carries no RVA: overlay
// data is never mapped.
type OverlaySegment struct {
	Raw    []byte
	Offset uint32
}

// PhysicalSize implements Segment.
func (o *OverlaySegment) PhysicalSize() uint32 { return uint32(len(o.Raw)) }

// VirtualSize implements Segment. Overlay data is not mapped, so this is
// always zero.
func (o *OverlaySegment) VirtualSize() uint32 { return 0 }

// Relocate implements Segment, claiming the next file offset without
// advancing the RVA cursor.
func (o *OverlaySegment) Relocate(params *RelocParams) error {
	o.Offset = params.FileCursor
	params.FileCursor += o.PhysicalSize()
	return nil
}
