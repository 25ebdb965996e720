// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package heap

import "testing"

func TestStringHeapRoundTrip(t *testing.T) {
	h := NewStringHeap(nil)
	if off := h.Append(""); off != 0 {
		t.Errorf("Append(\"\") = %d, want 0", off)
	}
	off := h.Append("System.Object")
	dup := h.Append("System.Object")
	if off != dup {
		t.Errorf("Append of a duplicate string returned a new offset: %d vs %d", off, dup)
	}

	r := NewStringHeap(h.Bytes())
	got, err := r.Get(off)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "System.Object" {
		t.Errorf("Get(%d) = %q, want System.Object", off, got)
	}
	empty, err := r.Get(0)
	if err != nil || empty != "" {
		t.Errorf("Get(0) = %q, %v, want empty string, nil", empty, err)
	}
}

func TestGUIDHeapRoundTrip(t *testing.T) {
	h := NewGUIDHeap(nil)
	var g [16]byte
	for i := range g {
		g[i] = byte(i)
	}
	idx := h.Append(g)
	if idx != 1 {
		t.Errorf("first Append() index = %d, want 1", idx)
	}
	if dup := h.Append(g); dup != idx {
		t.Errorf("Append of a duplicate GUID returned a new index: %d vs %d", dup, idx)
	}

	r := NewGUIDHeap(h.Bytes())
	got, err := r.Get(idx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != g {
		t.Errorf("Get(%d) = %v, want %v", idx, got, g)
	}

	nilGUID, err := r.Get(0)
	if err != nil || nilGUID != ([16]byte{}) {
		t.Errorf("Get(0) = %v, %v, want zero GUID, nil", nilGUID, err)
	}
}

func TestBlobHeapRoundTrip(t *testing.T) {
	h := NewBlobHeap(nil)
	if off := h.Append(nil); off != 0 {
		t.Errorf("Append(nil) = %d, want 0", off)
	}
	payload := []byte{0x20, 0x00, 0x01, 0x02, 0x03}
	off := h.Append(payload)
	if dup := h.Append(payload); dup != off {
		t.Errorf("Append of a duplicate blob returned a new offset: %d vs %d", dup, off)
	}

	r := NewBlobHeap(h.Bytes())
	got, err := r.Get(off)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Get(%d) = %v, want %v", off, got, payload)
	}
}

func TestBlobHeapLargePayload(t *testing.T) {
	h := NewBlobHeap(nil)
	payload := make([]byte, 200)
	for i := range payload {
		payload[i] = byte(i)
	}
	off := h.Append(payload)

	r := NewBlobHeap(h.Bytes())
	got, err := r.Get(off)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != len(payload) {
		t.Fatalf("Get() length = %d, want %d", len(got), len(payload))
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], payload[i])
		}
	}
}

func TestUserStringHeapRoundTrip(t *testing.T) {
	h := NewUserStringHeap(nil)
	if off := h.Append(""); off != 0 {
		t.Errorf("Append(\"\") = %d, want 0", off)
	}
	off := h.Append("hello")

	r := NewUserStringHeap(h.Bytes())
	got, err := r.Get(off)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("Get(%d) = %q, want hello", off, got)
	}
}
