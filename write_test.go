// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func newTestFile32() *File {
	f := &File{}
	f.Is32 = true
	f.DOSHeader.AddressOfNewEXEHeader = 0x80
	f.NtHeader.OptionalHeader = ImageOptionalHeader32{
		FileAlignment:    0x200,
		SectionAlignment: 0x1000,
	}
	f.Sections = []Section{
		{Header: ImageSectionHeader{
			VirtualAddress: 0x1000,
			VirtualSize:    0x50,
			SizeOfRawData:  0x200,
		}},
		{Header: ImageSectionHeader{
			VirtualAddress: 0x2000,
			VirtualSize:    0x1800,
			SizeOfRawData:  0x1a00,
		}},
	}
	f.DataDirectories[ImageDirectoryEntryCLR] = ImageDataDirectory{
		VirtualAddress: 0x2008,
		Size:           0x48,
	}
	return f
}

func TestUpdateHeadersLayout(t *testing.T) {
	f := newTestFile32()
	if err := f.UpdateHeaders(nil); err != nil {
		t.Fatalf("UpdateHeaders() error = %v", err)
	}

	if got := f.NtHeader.FileHeader.NumberOfSections; got != 2 {
		t.Errorf("NumberOfSections = %d, want 2", got)
	}

	for i, s := range f.Sections {
		if s.Header.PointerToRawData%0x200 != 0 {
			t.Errorf("section %d PointerToRawData %#x not aligned to FileAlignment", i, s.Header.PointerToRawData)
		}
		if s.Header.VirtualAddress%0x1000 != 0 {
			t.Errorf("section %d VirtualAddress %#x not aligned to SectionAlignment", i, s.Header.VirtualAddress)
		}
	}

	if f.Sections[1].Header.VirtualAddress <= f.Sections[0].Header.VirtualAddress {
		t.Errorf("section 1 RVA %#x did not move past section 0 RVA %#x",
			f.Sections[1].Header.VirtualAddress, f.Sections[0].Header.VirtualAddress)
	}

	oh := f.NtHeader.OptionalHeader.(ImageOptionalHeader32)
	wantImageSize := f.Sections[1].Header.VirtualAddress + AlignUp(0x1800, 0x1000)
	if oh.SizeOfImage != wantImageSize {
		t.Errorf("SizeOfImage = %#x, want %#x", oh.SizeOfImage, wantImageSize)
	}
}

func TestUpdateHeadersRealignsDataDirectory(t *testing.T) {
	f := newTestFile32()
	// Leave a gap before section 1 so UpdateHeaders moves it down to
	// 0x2000 and the CLR directory inside it has to follow.
	f.Sections[1].Header.VirtualAddress = 0x3000
	f.DataDirectories[ImageDirectoryEntryCLR].VirtualAddress = 0x3008
	oldSectionRVA := f.Sections[1].Header.VirtualAddress
	oldDirRVA := f.DataDirectories[ImageDirectoryEntryCLR].VirtualAddress
	offsetIntoSection := oldDirRVA - oldSectionRVA

	if err := f.UpdateHeaders(nil); err != nil {
		t.Fatalf("UpdateHeaders() error = %v", err)
	}

	newSectionRVA := f.Sections[1].Header.VirtualAddress
	want := newSectionRVA + offsetIntoSection
	got := f.DataDirectories[ImageDirectoryEntryCLR].VirtualAddress
	if got != want {
		t.Errorf("CLR directory RVA = %#x, want %#x (section moved from %#x to %#x)",
			got, want, oldSectionRVA, newSectionRVA)
	}

	oh := f.NtHeader.OptionalHeader.(ImageOptionalHeader32)
	if oh.DataDirectory[ImageDirectoryEntryCLR].VirtualAddress != want {
		t.Errorf("optional header CLR directory RVA = %#x, want %#x",
			oh.DataDirectory[ImageDirectoryEntryCLR].VirtualAddress, want)
	}
}

func TestUpdateHeadersRelocatesRichHeader(t *testing.T) {
	f := newTestFile32()
	f.DOSHeader.AddressOfNewEXEHeader = 0x48 // too small to fit a rich header after the DOS header
	f.HasRichHdr = true
	f.RichHeader = RichHeader{Raw: make([]byte, 0x50)}

	if err := f.UpdateHeaders(nil); err != nil {
		t.Fatalf("UpdateHeaders() error = %v", err)
	}

	if f.RichHeader.DansOffset != dosHeaderSize {
		t.Errorf("RichHeader.DansOffset = %#x, want %#x", f.RichHeader.DansOffset, dosHeaderSize)
	}
	wantNtHeaderOffset := uint32(dosHeaderSize + 0x50)
	if f.DOSHeader.AddressOfNewEXEHeader != wantNtHeaderOffset {
		t.Errorf("AddressOfNewEXEHeader = %#x, want %#x", f.DOSHeader.AddressOfNewEXEHeader, wantNtHeaderOffset)
	}
}

func TestUpdateHeadersAttachesOverlay(t *testing.T) {
	f := newTestFile32()
	overlay := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if err := f.UpdateHeaders(overlay); err != nil {
		t.Fatalf("UpdateHeaders() error = %v", err)
	}
	if f.OverlayOffset == 0 {
		t.Errorf("OverlayOffset not set after attaching overlay")
	}
}
