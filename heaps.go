// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"sync"

	"github.com/saferwall/clrpe/heap"
)

// heapCache lazily builds the four decoded heap views over a parsed
// CLI metadata directory's raw stream bytes. Each heap is built at most
// once no matter how many goroutines call the accessor concurrently.
type heapCache struct {
	stringOnce sync.Once
	string_    *heap.StringHeap

	userStringOnce sync.Once
	userString     *heap.UserStringHeap

	guidOnce sync.Once
	guid     *heap.GUIDHeap

	blobOnce sync.Once
	blob     *heap.BlobHeap
}

// StringHeap returns the decoded `#Strings` heap, building it from the
// raw stream bytes on first use.
func (pe *File) StringHeap() *heap.StringHeap {
	pe.heaps.stringOnce.Do(func() {
		pe.heaps.string_ = heap.NewStringHeap(pe.CLR.MetadataStreams["#Strings"])
	})
	return pe.heaps.string_
}

// UserStringHeap returns the decoded `#US` heap, building it from the
// raw stream bytes on first use.
func (pe *File) UserStringHeap() *heap.UserStringHeap {
	pe.heaps.userStringOnce.Do(func() {
		pe.heaps.userString = heap.NewUserStringHeap(pe.CLR.MetadataStreams["#US"])
	})
	return pe.heaps.userString
}

// GUIDHeap returns the decoded `#GUID` heap, building it from the raw
// stream bytes on first use.
func (pe *File) GUIDHeap() *heap.GUIDHeap {
	pe.heaps.guidOnce.Do(func() {
		pe.heaps.guid = heap.NewGUIDHeap(pe.CLR.MetadataStreams["#GUID"])
	})
	return pe.heaps.guid
}

// BlobHeap returns the decoded `#Blob` heap, building it from the raw
// stream bytes on first use.
func (pe *File) BlobHeap() *heap.BlobHeap {
	pe.heaps.blobOnce.Do(func() {
		pe.heaps.blob = heap.NewBlobHeap(pe.CLR.MetadataStreams["#Blob"])
	})
	return pe.heaps.blob
}

// ResolveString resolves a metadata-table string-heap offset to its
// decoded value.
func (pe *File) ResolveString(offset uint32) (string, error) {
	return pe.StringHeap().Get(offset)
}

// ResolveBlob resolves a metadata-table blob-heap offset to its decoded
// bytes.
func (pe *File) ResolveBlob(offset uint32) ([]byte, error) {
	return pe.BlobHeap().Get(offset)
}

// ResolveGUID resolves a metadata-table GUID-heap index to its decoded
// value.
func (pe *File) ResolveGUID(index uint32) ([16]byte, error) {
	return pe.GUIDHeap().Get(index)
}
