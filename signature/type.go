// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package signature

// TableTag identifies which of the three tables a TypeDefOrRefEncoded
// token (ECMA-335 II.23.2.8) addresses: the low 2 bits of the encoded
// value, distinct from (and narrower than) a full tables-stream coded
// index since a signature blob only ever needs these three.
type TableTag int

// The three tables a TypeDefOrRefEncoded token can select.
const (
	TypeDefTag TableTag = iota
	TypeRefTag
	TypeSpecTag
)

// Token is a decoded TypeDefOrRefEncoded value: a table and a 1-based
// row index within it.
type Token struct {
	Table TableTag
	Row   uint32
}

// CustomMod is a required or optional custom modifier attached to a
// type, field, or parameter (ECMA-335 II.23.2.7).
type CustomMod struct {
	Required bool
	Type     Token
}

// ArrayShape describes a multi-dimensional array's rank and optional
// per-dimension sizes and lower bounds (ECMA-335 II.23.2.13).
type ArrayShape struct {
	Rank     uint32
	Sizes    []uint32
	LoBounds []int32
}

// Type is one decoded type within a signature blob. Exactly the fields
// relevant to ElementType are meaningful; see ECMA-335 II.23.2.12.
type Type struct {
	ElementType ElementType

	// Token is set for ValueType and Class.
	Token Token

	// Number is the generic parameter index for Var and MVar.
	Number uint32

	// Element is the pointee/element type for Ptr, ByRef, Array, and
	// SzArray.
	Element *Type

	// CustomMods are the modifiers preceding Ptr's or SzArray's element
	// type, or a Param's/field's/return type's own type.
	CustomMods []CustomMod

	// Shape is set for Array.
	Shape *ArrayShape

	// GenericType and GenericArgs are set for GenericInst: GenericType
	// is either Class or ValueType, GenericArgs are its type arguments.
	GenericType *Type
	GenericArgs []Type

	// Method is set for FnPtr.
	Method *MethodSignature
}

// CallingConvention is the low nibble of a signature's leading byte,
// per ECMA-335 II.23.2.3.
type CallingConvention byte

// The calling-convention kinds a method signature's leading byte
// encodes in its low nibble.
const (
	Default  CallingConvention = 0x0
	CCall    CallingConvention = 0x1
	StdCall  CallingConvention = 0x2
	ThisCall CallingConvention = 0x3
	FastCall CallingConvention = 0x4
	VarArg   CallingConvention = 0x5
	Generic  CallingConvention = 0x10
)

// Leading-byte flag bits that sit alongside the calling-convention
// nibble, or replace it entirely for non-method signatures.
const (
	flagHasThis      byte = 0x20
	flagExplicitThis byte = 0x40
	flagGeneric      byte = 0x10
	callKindMask     byte = 0x0f

	fieldSig    byte = 0x06
	localSig    byte = 0x07
	propertySig byte = 0x08
)

// Param is one parameter, return type, or field type: optional custom
// modifiers, an optional BYREF marker, and the underlying type.
type Param struct {
	CustomMods []CustomMod
	ByRef      bool
	Type       Type
}

// MethodSignature is a decoded MethodDefSig or MethodRefSig (ECMA-335
// II.23.2.1/II.23.2.2).
type MethodSignature struct {
	HasThis           bool
	ExplicitThis      bool
	CallingConvention CallingConvention
	GenParamCount     uint32
	RetType           Param
	Params            []Param

	// SentinelIndex is the index within Params where a VARARG call's
	// fixed/optional argument boundary falls, or -1 if there is none.
	SentinelIndex int
}

// FieldSignature is a decoded FieldSig (ECMA-335 II.23.2.4).
type FieldSignature struct {
	CustomMods []CustomMod
	Type       Type
}

// PropertySignature is a decoded PropertySig (ECMA-335 II.23.2.5).
type PropertySignature struct {
	HasThis    bool
	CustomMods []CustomMod
	Type       Type
	Params     []Param
}

// LocalVarSignature is a decoded LocalVarSig (ECMA-335 II.23.2.6).
type LocalVarSignature struct {
	Locals []LocalVar
}

// LocalVar is one entry of a LocalVarSig: either TYPEDBYREF, or a
// (possibly pinned, possibly byref) type.
type LocalVar struct {
	TypedByRef bool
	Pinned     bool
	ByRef      bool
	CustomMods []CustomMod
	Type       Type
}
