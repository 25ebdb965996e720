package pe

// Fuzz parses data as a PE image, then runs UpdateHeaders(nil) on the
// resulting section/data-directory layout and panics if any section's
// RVA differs from the one parsed. It compares section RVAs only: the
// image is not re-parsed and SizeOfImage is not checked.
func Fuzz(data []byte) int {
	f, err := NewBytes(data, &Options{Fast: false, SectionEntropy: true})
	if err != nil {
		return 0
	}
	if err := f.Parse(); err != nil {
		return 0
	}

	oldRVAs := make([]uint32, len(f.Sections))
	for i, s := range f.Sections {
		oldRVAs[i] = s.Header.VirtualAddress
	}

	if err := f.UpdateHeaders(nil); err != nil {
		return 0
	}

	for i, s := range f.Sections {
		if s.Header.VirtualAddress != oldRVAs[i] {
			panic("UpdateHeaders moved an already-aligned section")
		}
	}

	return 1
}
