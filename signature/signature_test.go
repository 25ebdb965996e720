// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package signature

import (
	"bytes"
	"testing"
)

func TestFieldSignatureRoundTrip(t *testing.T) {
	sig := FieldSignature{Type: Type{ElementType: I4}}
	blob := EncodeField(sig)
	got, err := ParseField(blob)
	if err != nil {
		t.Fatalf("ParseField() error = %v", err)
	}
	if got.Type.ElementType != I4 {
		t.Errorf("Type = %v, want I4", got.Type.ElementType)
	}
}

func TestFieldSignatureWithClassToken(t *testing.T) {
	sig := FieldSignature{
		Type: Type{ElementType: Class, Token: Token{Table: TypeRefTag, Row: 12}},
	}
	blob := EncodeField(sig)
	got, err := ParseField(blob)
	if err != nil {
		t.Fatalf("ParseField() error = %v", err)
	}
	if got.Type.Token != (Token{Table: TypeRefTag, Row: 12}) {
		t.Errorf("Token = %+v, want {TypeRefTag 12}", got.Type.Token)
	}
}

func TestMethodSignatureRoundTrip(t *testing.T) {
	sig := MethodSignature{
		HasThis:           true,
		CallingConvention: Default,
		RetType:           Param{Type: Type{ElementType: Void}},
		Params: []Param{
			{Type: Type{ElementType: I4}},
			{Type: Type{ElementType: String}},
			{ByRef: true, Type: Type{ElementType: Boolean}},
		},
		SentinelIndex: -1,
	}
	blob := EncodeMethod(sig)
	got, err := ParseMethod(blob)
	if err != nil {
		t.Fatalf("ParseMethod() error = %v", err)
	}
	if !got.HasThis || got.RetType.Type.ElementType != Void || len(got.Params) != 3 {
		t.Fatalf("got = %+v", got)
	}
	if !got.Params[2].ByRef || got.Params[2].Type.ElementType != Boolean {
		t.Errorf("Params[2] = %+v, want ByRef bool", got.Params[2])
	}
}

func TestMethodSignatureGeneric(t *testing.T) {
	sig := MethodSignature{
		CallingConvention: Default,
		GenParamCount:     2,
		RetType:           Param{Type: Type{ElementType: MVar, Number: 0}},
		Params: []Param{
			{Type: Type{ElementType: Var, Number: 1}},
		},
		SentinelIndex: -1,
	}
	blob := EncodeMethod(sig)
	got, err := ParseMethod(blob)
	if err != nil {
		t.Fatalf("ParseMethod() error = %v", err)
	}
	if got.GenParamCount != 2 {
		t.Errorf("GenParamCount = %d, want 2", got.GenParamCount)
	}
	if got.RetType.Type.ElementType != MVar || got.RetType.Type.Number != 0 {
		t.Errorf("RetType = %+v, want MVar(0)", got.RetType.Type)
	}
	if got.Params[0].Type.ElementType != Var || got.Params[0].Type.Number != 1 {
		t.Errorf("Params[0] = %+v, want Var(1)", got.Params[0].Type)
	}
}

func TestMethodSignatureVararg(t *testing.T) {
	sig := MethodSignature{
		CallingConvention: VarArg,
		RetType:           Param{Type: Type{ElementType: Void}},
		Params: []Param{
			{Type: Type{ElementType: I4}},
			{Type: Type{ElementType: String}},
		},
		SentinelIndex: 1,
	}
	blob := EncodeMethod(sig)
	got, err := ParseMethod(blob)
	if err != nil {
		t.Fatalf("ParseMethod() error = %v", err)
	}
	if got.SentinelIndex != 1 {
		t.Errorf("SentinelIndex = %d, want 1", got.SentinelIndex)
	}
	if len(got.Params) != 2 {
		t.Fatalf("len(Params) = %d, want 2", len(got.Params))
	}
}

func TestSzArraySignatureRoundTrip(t *testing.T) {
	sig := FieldSignature{
		Type: Type{ElementType: SzArray, Element: &Type{ElementType: U1}},
	}
	blob := EncodeField(sig)
	got, err := ParseField(blob)
	if err != nil {
		t.Fatalf("ParseField() error = %v", err)
	}
	if got.Type.ElementType != SzArray || got.Type.Element.ElementType != U1 {
		t.Errorf("got = %+v", got.Type)
	}
}

func TestArraySignatureRoundTrip(t *testing.T) {
	sig := FieldSignature{
		Type: Type{
			ElementType: Array,
			Element:     &Type{ElementType: I4},
			Shape: &ArrayShape{
				Rank:     2,
				Sizes:    []uint32{3, 4},
				LoBounds: []int32{0, -1},
			},
		},
	}
	blob := EncodeField(sig)
	got, err := ParseField(blob)
	if err != nil {
		t.Fatalf("ParseField() error = %v", err)
	}
	if got.Type.Shape.Rank != 2 || got.Type.Shape.LoBounds[1] != -1 {
		t.Errorf("got shape = %+v", got.Type.Shape)
	}
}

func TestPtrSignatureRoundTrip(t *testing.T) {
	sig := FieldSignature{
		Type: Type{ElementType: Ptr, Element: &Type{ElementType: U1}},
	}
	blob := EncodeField(sig)
	got, err := ParseField(blob)
	if err != nil {
		t.Fatalf("ParseField() error = %v", err)
	}
	if got.Type.ElementType != Ptr || got.Type.Element.ElementType != U1 {
		t.Errorf("got = %+v", got.Type)
	}
}

func TestGenericInstSignatureRoundTrip(t *testing.T) {
	sig := FieldSignature{
		Type: Type{
			ElementType: GenericInst,
			GenericType: &Type{ElementType: Class, Token: Token{Table: TypeDefTag, Row: 5}},
			GenericArgs: []Type{{ElementType: I4}, {ElementType: String}},
		},
	}
	blob := EncodeField(sig)
	got, err := ParseField(blob)
	if err != nil {
		t.Fatalf("ParseField() error = %v", err)
	}
	if len(got.Type.GenericArgs) != 2 || got.Type.GenericArgs[1].ElementType != String {
		t.Errorf("got = %+v", got.Type)
	}
}

func TestCustomModRoundTrip(t *testing.T) {
	sig := FieldSignature{
		CustomMods: []CustomMod{{Required: true, Type: Token{Table: TypeRefTag, Row: 3}}},
		Type:       Type{ElementType: I4},
	}
	blob := EncodeField(sig)
	got, err := ParseField(blob)
	if err != nil {
		t.Fatalf("ParseField() error = %v", err)
	}
	if len(got.CustomMods) != 1 || !got.CustomMods[0].Required || got.CustomMods[0].Type.Row != 3 {
		t.Errorf("got = %+v", got.CustomMods)
	}
}

func TestPropertySignatureRoundTrip(t *testing.T) {
	sig := PropertySignature{
		HasThis: true,
		Type:    Type{ElementType: I4},
		Params:  []Param{{Type: Type{ElementType: String}}},
	}
	blob := EncodeProperty(sig)
	got, err := ParseProperty(blob)
	if err != nil {
		t.Fatalf("ParseProperty() error = %v", err)
	}
	if !got.HasThis || got.Type.ElementType != I4 || len(got.Params) != 1 {
		t.Errorf("got = %+v", got)
	}
}

func TestLocalVarSignatureRoundTrip(t *testing.T) {
	sig := LocalVarSignature{
		Locals: []LocalVar{
			{Type: Type{ElementType: I4}},
			{TypedByRef: true},
			{Pinned: true, Type: Type{ElementType: Object}},
		},
	}
	blob := EncodeLocalVars(sig)
	got, err := ParseLocalVars(blob)
	if err != nil {
		t.Fatalf("ParseLocalVars() error = %v", err)
	}
	if len(got.Locals) != 3 {
		t.Fatalf("len(Locals) = %d, want 3", len(got.Locals))
	}
	if !got.Locals[1].TypedByRef {
		t.Errorf("Locals[1].TypedByRef = false, want true")
	}
	if !got.Locals[2].Pinned || got.Locals[2].Type.ElementType != Object {
		t.Errorf("Locals[2] = %+v", got.Locals[2])
	}
}

func TestElementTypeString(t *testing.T) {
	if I4.String() != "int32" {
		t.Errorf("I4.String() = %q, want int32", I4.String())
	}
}

func TestEncodedBytesAreDeterministic(t *testing.T) {
	sig := FieldSignature{Type: Type{ElementType: Boolean}}
	a := EncodeField(sig)
	b := EncodeField(sig)
	if !bytes.Equal(a, b) {
		t.Errorf("EncodeField is not deterministic: %v vs %v", a, b)
	}
}
