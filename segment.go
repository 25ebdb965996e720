// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// Segment is implemented by every file-offset/RVA addressable region of
// the image: sections, the header/first-section gap (rich header and
// padding), and the CLI metadata writer's stream blocks. UpdateHeaders
// walks the segment chain in file order, handing each one the cursor
// positions its own contents start at.
type Segment interface {
	// PhysicalSize is the segment's size on disk, before FileAlignment
	// padding is applied by the caller.
	PhysicalSize() uint32

	// VirtualSize is the segment's size once mapped, before
	// SectionAlignment padding is applied by the caller.
	VirtualSize() uint32

	// Relocate assigns the segment's new file offset and RVA from the
	// cursors in params, then advances both cursors in params by this
	// segment's aligned physical and virtual sizes so the next segment
	// in the chain starts past it.
	Relocate(params *RelocParams) error
}

// RelocParams carries the running state of a single UpdateHeaders pass:
// the preferred load address of the image, and the file-offset/RVA
// cursors that advance as each Segment in turn claims the next slice of
// the file and of the mapped image.
type RelocParams struct {
	// ImageBase is the preferred load address carried in the optional
	// header; segments that embed absolute VAs (as opposed to RVAs)
	// need it to recompute those VAs after a move.
	ImageBase uint64

	// FileCursor is the next unclaimed file offset, advanced by each
	// segment's PhysicalSize aligned to FileAlignment.
	FileCursor uint32

	// RVACursor is the next unclaimed RVA, advanced by each segment's
	// VirtualSize aligned to SectionAlignment.
	RVACursor uint32

	// Is64Bit selects PE32 vs PE32+ sizing for any segment whose
	// physical layout depends on pointer width (e.g. a segment holding
	// an image-relative VA table).
	Is64Bit bool

	// FileAlignment and SectionAlignment come from the optional header
	// and govern how FileCursor and RVACursor round forward between
	// segments.
	FileAlignment    uint32
	SectionAlignment uint32
}

// AlignUp rounds v forward to the next multiple of align, which must be
// a power of two. align == 0 is treated as 1 (no padding).
func AlignUp(v, align uint32) uint32 {
	if align == 0 {
		return v
	}
	if rem := v % align; rem != 0 {
		return v + (align - rem)
	}
	return v
}

// AdvanceFile rounds p.FileCursor forward to FileAlignment and then adds
// size, returning the offset the caller's segment starts at.
func (p *RelocParams) AdvanceFile(size uint32) uint32 {
	p.FileCursor = AlignUp(p.FileCursor, p.FileAlignment)
	start := p.FileCursor
	p.FileCursor += size
	return start
}

// AdvanceRVA rounds p.RVACursor forward to SectionAlignment and then
// adds size, returning the RVA the caller's segment starts at.
func (p *RelocParams) AdvanceRVA(size uint32) uint32 {
	p.RVACursor = AlignUp(p.RVACursor, p.SectionAlignment)
	start := p.RVACursor
	p.RVACursor += size
	return start
}

// extraData is a raw, already-formatted block of bytes sitting between
// the headers and the first section, or attached as trailing EOF data,
// generalized into a Segment. It carries no internal structure of its
// own, so Relocate only needs to record where the caller placed it.
type extraData struct {
	raw    []byte
	offset uint32
	rva    uint32
}

func (e *extraData) PhysicalSize() uint32 { return uint32(len(e.raw)) }
func (e *extraData) VirtualSize() uint32  { return uint32(len(e.raw)) }

func (e *extraData) Relocate(params *RelocParams) error {
	e.offset = params.AdvanceFile(e.PhysicalSize())
	e.rva = params.AdvanceRVA(e.VirtualSize())
	return nil
}
