// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package signature

import (
	"github.com/saferwall/clrpe/bio"
	"github.com/saferwall/clrpe/clrerr"
)

// ParseMethod decodes a MethodDefSig or MethodRefSig blob.
func ParseMethod(blob []byte) (MethodSignature, error) {
	c := bio.New(blob)
	return parseMethodSignature(c)
}

// ParseField decodes a FieldSig blob.
func ParseField(blob []byte) (FieldSignature, error) {
	c := bio.New(blob)
	lead, err := c.ReadU8()
	if err != nil {
		return FieldSignature{}, clrerr.Wrap(clrerr.InsufficientData, "field signature", err)
	}
	if lead != fieldSig {
		return FieldSignature{}, clrerr.New(clrerr.MalformedEncoding, "field signature: missing FIELD tag")
	}
	mods, err := parseCustomMods(c)
	if err != nil {
		return FieldSignature{}, err
	}
	t, err := parseType(c)
	if err != nil {
		return FieldSignature{}, err
	}
	return FieldSignature{CustomMods: mods, Type: t}, nil
}

// ParseProperty decodes a PropertySig blob.
func ParseProperty(blob []byte) (PropertySignature, error) {
	c := bio.New(blob)
	lead, err := c.ReadU8()
	if err != nil {
		return PropertySignature{}, clrerr.Wrap(clrerr.InsufficientData, "property signature", err)
	}
	if lead&^flagHasThis != propertySig {
		return PropertySignature{}, clrerr.New(clrerr.MalformedEncoding, "property signature: missing PROPERTY tag")
	}
	sig := PropertySignature{HasThis: lead&flagHasThis != 0}
	paramCount, err := c.ReadCompressedUint()
	if err != nil {
		return sig, clrerr.Wrap(clrerr.InsufficientData, "property signature param count", err)
	}
	if sig.CustomMods, err = parseCustomMods(c); err != nil {
		return sig, err
	}
	if sig.Type, err = parseType(c); err != nil {
		return sig, err
	}
	sig.Params = make([]Param, paramCount)
	for i := range sig.Params {
		if sig.Params[i], err = parseParam(c); err != nil {
			return sig, err
		}
	}
	return sig, nil
}

// ParseLocalVars decodes a LocalVarSig blob (the signature a
// StandAloneSig row points at for a method body's local variables).
func ParseLocalVars(blob []byte) (LocalVarSignature, error) {
	c := bio.New(blob)
	lead, err := c.ReadU8()
	if err != nil {
		return LocalVarSignature{}, clrerr.Wrap(clrerr.InsufficientData, "local var signature", err)
	}
	if lead != localSig {
		return LocalVarSignature{}, clrerr.New(clrerr.MalformedEncoding, "local var signature: missing LOCAL_SIG tag")
	}
	count, err := c.ReadCompressedUint()
	if err != nil {
		return LocalVarSignature{}, clrerr.Wrap(clrerr.InsufficientData, "local var count", err)
	}
	sig := LocalVarSignature{Locals: make([]LocalVar, count)}
	for i := range sig.Locals {
		if sig.Locals[i], err = parseLocalVar(c); err != nil {
			return sig, err
		}
	}
	return sig, nil
}

func parseMethodSignature(c *bio.Cursor) (MethodSignature, error) {
	lead, err := c.ReadU8()
	if err != nil {
		return MethodSignature{}, clrerr.Wrap(clrerr.InsufficientData, "method signature", err)
	}
	sig := MethodSignature{
		HasThis:           lead&flagHasThis != 0,
		ExplicitThis:      lead&flagExplicitThis != 0,
		CallingConvention: CallingConvention(lead & callKindMask),
		SentinelIndex:     -1,
	}
	if lead&flagGeneric != 0 {
		if sig.GenParamCount, err = c.ReadCompressedUint(); err != nil {
			return sig, clrerr.Wrap(clrerr.InsufficientData, "method generic param count", err)
		}
	}
	paramCount, err := c.ReadCompressedUint()
	if err != nil {
		return sig, clrerr.Wrap(clrerr.InsufficientData, "method param count", err)
	}
	if sig.RetType, err = parseParam(c); err != nil {
		return sig, err
	}
	sig.Params = make([]Param, 0, paramCount)
	for i := uint32(0); i < paramCount; i++ {
		if c.Remaining() > 0 {
			peek := c.Fork()
			b, _ := peek.ReadU8()
			if ElementType(b) == Sentinel {
				c.Skip(1)
				sig.SentinelIndex = len(sig.Params)
			}
		}
		p, err := parseParam(c)
		if err != nil {
			return sig, err
		}
		sig.Params = append(sig.Params, p)
	}
	return sig, nil
}

// parseParam decodes one Param: custom modifiers, an optional BYREF,
// then either VOID/TYPEDBYREF (return-type-only shapes) or a full Type.
func parseParam(c *bio.Cursor) (Param, error) {
	var p Param
	mods, err := parseCustomMods(c)
	if err != nil {
		return p, err
	}
	p.CustomMods = mods

	b, err := c.ReadU8()
	if err != nil {
		return p, clrerr.Wrap(clrerr.InsufficientData, "param type", err)
	}
	if ElementType(b) == ByRef {
		p.ByRef = true
		b, err = c.ReadU8()
		if err != nil {
			return p, clrerr.Wrap(clrerr.InsufficientData, "byref param type", err)
		}
	}
	t, err := parseTypeFromLead(c, ElementType(b))
	if err != nil {
		return p, err
	}
	p.Type = t
	return p, nil
}

func parseLocalVar(c *bio.Cursor) (LocalVar, error) {
	var lv LocalVar
	b, err := c.ReadU8()
	if err != nil {
		return lv, clrerr.Wrap(clrerr.InsufficientData, "local var", err)
	}
	if ElementType(b) == TypedByRef {
		lv.TypedByRef = true
		return lv, nil
	}
	// Custom mods and PINNED can precede the type; b has already
	// consumed the first byte, so re-drive the same loop by hand.
	for {
		switch ElementType(b) {
		case CModReqd:
			tok, err := parseTypeDefOrRefEncoded(c)
			if err != nil {
				return lv, err
			}
			lv.CustomMods = append(lv.CustomMods, CustomMod{Required: true, Type: tok})
		case CModOpt:
			tok, err := parseTypeDefOrRefEncoded(c)
			if err != nil {
				return lv, err
			}
			lv.CustomMods = append(lv.CustomMods, CustomMod{Required: false, Type: tok})
		case Pinned:
			lv.Pinned = true
		case ByRef:
			lv.ByRef = true
		default:
			t, err := parseTypeFromLead(c, ElementType(b))
			if err != nil {
				return lv, err
			}
			lv.Type = t
			return lv, nil
		}
		if b, err = c.ReadU8(); err != nil {
			return lv, clrerr.Wrap(clrerr.InsufficientData, "local var", err)
		}
	}
}

// parseType reads the next type's leading opcode, then dispatches.
func parseType(c *bio.Cursor) (Type, error) {
	b, err := c.ReadU8()
	if err != nil {
		return Type{}, clrerr.Wrap(clrerr.InsufficientData, "type", err)
	}
	return parseTypeFromLead(c, ElementType(b))
}

// parseTypeFromLead dispatches on an already-read leading opcode byte,
// so callers that must peek a byte first (BYREF, custom mods) don't
// need to push it back onto the cursor.
func parseTypeFromLead(c *bio.Cursor, et ElementType) (Type, error) {
	switch et {
	case Void, Boolean, Char, I1, U1, I2, U2, I4, U4, I8, U8, R4, R8,
		String, Object, I, U, TypedByRef:
		return Type{ElementType: et}, nil

	case ValueType, Class:
		tok, err := parseTypeDefOrRefEncoded(c)
		if err != nil {
			return Type{}, err
		}
		return Type{ElementType: et, Token: tok}, nil

	case Var, MVar:
		n, err := c.ReadCompressedUint()
		if err != nil {
			return Type{}, clrerr.Wrap(clrerr.InsufficientData, "generic var number", err)
		}
		return Type{ElementType: et, Number: n}, nil

	case Ptr:
		mods, err := parseCustomMods(c)
		if err != nil {
			return Type{}, err
		}
		b, err := c.ReadU8()
		if err != nil {
			return Type{}, clrerr.Wrap(clrerr.InsufficientData, "ptr element", err)
		}
		if ElementType(b) == Void {
			return Type{ElementType: Ptr, CustomMods: mods, Element: &Type{ElementType: Void}}, nil
		}
		elem, err := parseTypeFromLead(c, ElementType(b))
		if err != nil {
			return Type{}, err
		}
		return Type{ElementType: Ptr, CustomMods: mods, Element: &elem}, nil

	case ByRef:
		elem, err := parseType(c)
		if err != nil {
			return Type{}, err
		}
		return Type{ElementType: ByRef, Element: &elem}, nil

	case SzArray:
		mods, err := parseCustomMods(c)
		if err != nil {
			return Type{}, err
		}
		elem, err := parseType(c)
		if err != nil {
			return Type{}, err
		}
		return Type{ElementType: SzArray, CustomMods: mods, Element: &elem}, nil

	case Array:
		elem, err := parseType(c)
		if err != nil {
			return Type{}, err
		}
		shape, err := parseArrayShape(c)
		if err != nil {
			return Type{}, err
		}
		return Type{ElementType: Array, Element: &elem, Shape: &shape}, nil

	case GenericInst:
		b, err := c.ReadU8()
		if err != nil {
			return Type{}, clrerr.Wrap(clrerr.InsufficientData, "generic inst base", err)
		}
		base, err := parseTypeFromLead(c, ElementType(b))
		if err != nil {
			return Type{}, err
		}
		argCount, err := c.ReadCompressedUint()
		if err != nil {
			return Type{}, clrerr.Wrap(clrerr.InsufficientData, "generic inst arg count", err)
		}
		args := make([]Type, argCount)
		for i := range args {
			if args[i], err = parseType(c); err != nil {
				return Type{}, err
			}
		}
		return Type{ElementType: GenericInst, GenericType: &base, GenericArgs: args}, nil

	case FnPtr:
		sig, err := parseMethodSignature(c)
		if err != nil {
			return Type{}, err
		}
		return Type{ElementType: FnPtr, Method: &sig}, nil

	case CModReqd, CModOpt:
		// A bare custom mod appearing where a Type is expected (inside
		// a Ptr/SzArray element position some compilers emit) is folded
		// into the following type's CustomMods.
		tok, err := parseTypeDefOrRefEncoded(c)
		if err != nil {
			return Type{}, err
		}
		inner, err := parseType(c)
		if err != nil {
			return Type{}, err
		}
		inner.CustomMods = append([]CustomMod{{Required: et == CModReqd, Type: tok}}, inner.CustomMods...)
		return inner, nil

	default:
		return Type{}, clrerr.New(clrerr.UnknownElementType, et.String())
	}
}

func parseCustomMods(c *bio.Cursor) ([]CustomMod, error) {
	var mods []CustomMod
	for {
		if c.Remaining() == 0 {
			return mods, nil
		}
		peek := c.Fork()
		b, err := peek.ReadU8()
		if err != nil {
			return mods, nil
		}
		et := ElementType(b)
		if et != CModReqd && et != CModOpt {
			return mods, nil
		}
		c.Skip(1)
		tok, err := parseTypeDefOrRefEncoded(c)
		if err != nil {
			return mods, err
		}
		mods = append(mods, CustomMod{Required: et == CModReqd, Type: tok})
	}
}

// parseTypeDefOrRefEncoded decodes a compressed TypeDefOrRefEncoded
// token: the low 2 bits select the table, the rest is a 1-based row
// index (ECMA-335 II.23.2.8).
func parseTypeDefOrRefEncoded(c *bio.Cursor) (Token, error) {
	v, err := c.ReadCompressedUint()
	if err != nil {
		return Token{}, clrerr.Wrap(clrerr.InsufficientData, "TypeDefOrRefEncoded", err)
	}
	return Token{Table: TableTag(v & 0x3), Row: v >> 2}, nil
}

func parseArrayShape(c *bio.Cursor) (ArrayShape, error) {
	var shape ArrayShape
	var err error
	if shape.Rank, err = c.ReadCompressedUint(); err != nil {
		return shape, clrerr.Wrap(clrerr.InsufficientData, "array rank", err)
	}
	numSizes, err := c.ReadCompressedUint()
	if err != nil {
		return shape, clrerr.Wrap(clrerr.InsufficientData, "array num sizes", err)
	}
	shape.Sizes = make([]uint32, numSizes)
	for i := range shape.Sizes {
		if shape.Sizes[i], err = c.ReadCompressedUint(); err != nil {
			return shape, clrerr.Wrap(clrerr.InsufficientData, "array size", err)
		}
	}
	numLoBounds, err := c.ReadCompressedUint()
	if err != nil {
		return shape, clrerr.Wrap(clrerr.InsufficientData, "array num lo bounds", err)
	}
	shape.LoBounds = make([]int32, numLoBounds)
	for i := range shape.LoBounds {
		if shape.LoBounds[i], err = c.ReadCompressedInt(); err != nil {
			return shape, clrerr.Wrap(clrerr.InsufficientData, "array lo bound", err)
		}
	}
	return shape, nil
}
