// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package clrerr defines the tagged error variant returned by the parsing
// and emitting paths of the CLI container and metadata model, in place of
// bare sentinel errors, so callers can branch on Kind without string
// matching.
package clrerr

import "fmt"

// Kind classifies why a parse, decode, or resolution step failed.
type Kind int

// Recognized error kinds.
const (
	// InvalidPE means the byte stream does not describe a well-formed PE
	// container (bad signature, truncated header, impossible size).
	InvalidPE Kind = iota

	// InsufficientData means a read ran past the bounds of the buffer it
	// was reading from.
	InsufficientData

	// MalformedEncoding means a value was structurally present but its
	// encoding violates the format (an over-long compressed integer, an
	// odd UTF-16LE user-string, a bad coded-index tag).
	MalformedEncoding

	// UnknownElementType means a signature blob used an ELEMENT_TYPE
	// opcode this package does not recognize.
	UnknownElementType

	// MissingStream means a required named stream (`#Strings`, `#GUID`,
	// `#Blob`, the tables stream) is absent from the metadata root.
	MissingStream

	// InvalidToken means a metadata token's table tag or row index does
	// not resolve to any row.
	InvalidToken

	// ResolutionFailure means a reference (type, assembly, member) could
	// not be resolved against the supplied resolver.
	ResolutionFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidPE:
		return "invalid PE"
	case InsufficientData:
		return "insufficient data"
	case MalformedEncoding:
		return "malformed encoding"
	case UnknownElementType:
		return "unknown element type"
	case MissingStream:
		return "missing stream"
	case InvalidToken:
		return "invalid token"
	case ResolutionFailure:
		return "resolution failure"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by this module's parsing and emitting
// operations. Context carries the offset, stream name, or token at fault,
// whichever applies.
type Error struct {
	Kind    Kind
	Context string
	Err     error
}

func (e *Error) Error() string {
	if e.Context == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, clrerr.New(kind, "")) match on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an Error of the given kind with a context string.
func New(kind Kind, context string) *Error {
	return &Error{Kind: kind, Context: context}
}

// Wrap builds an Error of the given kind, preserving err as the cause.
func Wrap(kind Kind, context string, err error) *Error {
	return &Error{Kind: kind, Context: context, Err: err}
}
