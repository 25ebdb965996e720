// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "encoding/binary"

// dosHeaderSize is the fixed, format-mandated size of ImageDOSHeader; the
// rich header, when present, occupies the gap between it and the NT header.
const dosHeaderSize = 0x40

// UpdateHeaders recomputes the file header, optional header, and section
// table after pe.Sections (and, when present, pe.RichHeader and an
// overlay) have been added to, removed from, or resized. It never fails
// except by returning a malformed-image error; callers that only append
// sections with sane alignment will not hit that path.
//
// The steps mirror how a linker lays out a freshly built image:
//  1. relocate the rich header, if present, right after the fixed DOS
//     header, and push the NT header offset past it if it no longer fits
//     where the source file had it;
//  2. compute the physical sizes of the file header, optional header and
//     section table;
//  3. set NumberOfSections and SizeOfOptionalHeader from them;
//  4. compute SizeOfHeaders as that header block aligned to
//     FileAlignment, including any rich-header/padding gap;
//  5. walk the sections in order, advancing the file cursor by each
//     section's physical size aligned to FileAlignment and the RVA
//     cursor by its virtual size aligned to SectionAlignment;
//  6. realign every data directory whose RVA falls inside a section
//     whose RVA moved, by the same delta;
//  7. set SizeOfImage to the last section's RVA plus its aligned virtual
//     size;
//  8. attach the overlay, if any, at the end of the physical file.
func (pe *File) UpdateHeaders(overlay []byte) error {
	fileAlignment, sectionAlignment, err := pe.alignments()
	if err != nil {
		return err
	}

	oldRVAs := make([]uint32, len(pe.Sections))
	for i, s := range pe.Sections {
		oldRVAs[i] = s.Header.VirtualAddress
	}

	ntHeaderOffset := pe.DOSHeader.AddressOfNewEXEHeader
	if pe.HasRichHdr {
		richParams := &RelocParams{FileCursor: dosHeaderSize}
		if err := pe.RichHeader.Relocate(richParams); err != nil {
			return err
		}
		if richParams.FileCursor > ntHeaderOffset {
			ntHeaderOffset = richParams.FileCursor
		}
	}
	pe.DOSHeader.AddressOfNewEXEHeader = ntHeaderOffset

	var optionalHeaderSize uint32
	if pe.Is64 {
		optionalHeaderSize = uint32(binary.Size(ImageOptionalHeader64{}))
	} else {
		optionalHeaderSize = uint32(binary.Size(ImageOptionalHeader32{}))
	}
	sectionHeaderSize := uint32(binary.Size(ImageSectionHeader{}))

	pe.NtHeader.FileHeader.NumberOfSections = uint16(len(pe.Sections))
	pe.NtHeader.FileHeader.SizeOfOptionalHeader = uint16(optionalHeaderSize)

	headerBlock := ntHeaderOffset + 4 + uint32(binary.Size(pe.NtHeader.FileHeader)) +
		optionalHeaderSize + sectionHeaderSize*uint32(len(pe.Sections))
	sizeOfHeaders := AlignUp(headerBlock, fileAlignment)

	params := &RelocParams{
		FileCursor:       sizeOfHeaders,
		RVACursor:        AlignUp(sizeOfHeaders, sectionAlignment),
		Is64Bit:          pe.Is64,
		FileAlignment:    fileAlignment,
		SectionAlignment: sectionAlignment,
	}

	var lastRVA, lastVirtualSize uint32
	for i := range pe.Sections {
		if err := pe.Sections[i].Relocate(params); err != nil {
			return err
		}
		pe.Sections[i].Header.SizeOfRawData = AlignUp(
			pe.Sections[i].Header.SizeOfRawData, fileAlignment)
		lastRVA = pe.Sections[i].Header.VirtualAddress
		lastVirtualSize = AlignUp(pe.Sections[i].Header.VirtualSize, sectionAlignment)
	}

	pe.realignDataDirectories(oldRVAs)

	sizeOfImage := AlignUp(sizeOfHeaders, sectionAlignment)
	if len(pe.Sections) > 0 {
		sizeOfImage = lastRVA + lastVirtualSize
	}

	pe.setOptionalHeaderSizes(sizeOfHeaders, sizeOfImage)

	if len(overlay) > 0 {
		ov := &OverlaySegment{Raw: overlay}
		if err := ov.Relocate(params); err != nil {
			return err
		}
		pe.OverlayOffset = int64(ov.Offset)
	}

	return nil
}

func (pe *File) alignments() (fileAlignment, sectionAlignment uint32, err error) {
	switch pe.Is64 {
	case true:
		oh, ok := pe.NtHeader.OptionalHeader.(ImageOptionalHeader64)
		if !ok {
			return 0, 0, ErrImageNtOptionalHeaderMagicNotFound
		}
		return oh.FileAlignment, oh.SectionAlignment, nil
	default:
		oh, ok := pe.NtHeader.OptionalHeader.(ImageOptionalHeader32)
		if !ok {
			return 0, 0, ErrImageNtOptionalHeaderMagicNotFound
		}
		return oh.FileAlignment, oh.SectionAlignment, nil
	}
}

// realignDataDirectories shifts every data directory whose RVA falls
// inside a section whose RVA just moved by the same delta, so that a
// directory owned by a relocated section keeps pointing at its content.
func (pe *File) realignDataDirectories(oldRVAs []uint32) {
	for i, section := range pe.Sections {
		oldStart := oldRVAs[i]
		oldEnd := oldStart + section.Header.VirtualSize
		newStart := section.Header.VirtualAddress
		delta := int64(newStart) - int64(oldStart)
		if delta == 0 {
			continue
		}
		for d := range pe.DataDirectories {
			dir := &pe.DataDirectories[d]
			if dir.VirtualAddress == 0 {
				continue
			}
			if dir.VirtualAddress >= oldStart && dir.VirtualAddress < oldEnd {
				dir.VirtualAddress = uint32(int64(dir.VirtualAddress) + delta)
			}
		}
	}
}

func (pe *File) setOptionalHeaderSizes(sizeOfHeaders, sizeOfImage uint32) {
	switch pe.Is64 {
	case true:
		oh := pe.NtHeader.OptionalHeader.(ImageOptionalHeader64)
		oh.SizeOfHeaders = sizeOfHeaders
		oh.SizeOfImage = sizeOfImage
		for i, dir := range pe.DataDirectories {
			oh.DataDirectory[i] = DataDirectory{
				VirtualAddress: dir.VirtualAddress,
				Size:           dir.Size,
			}
		}
		pe.NtHeader.OptionalHeader = oh
	default:
		oh := pe.NtHeader.OptionalHeader.(ImageOptionalHeader32)
		oh.SizeOfHeaders = sizeOfHeaders
		oh.SizeOfImage = sizeOfImage
		for i, dir := range pe.DataDirectories {
			oh.DataDirectory[i] = DataDirectory{
				VirtualAddress: dir.VirtualAddress,
				Size:           dir.Size,
			}
		}
		pe.NtHeader.OptionalHeader = oh
	}
}
