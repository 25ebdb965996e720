// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package signature

// EncodeMethod serializes a MethodSignature back to blob bytes.
func EncodeMethod(sig MethodSignature) []byte {
	var buf []byte
	lead := byte(sig.CallingConvention)
	if sig.HasThis {
		lead |= flagHasThis
	}
	if sig.ExplicitThis {
		lead |= flagExplicitThis
	}
	if sig.GenParamCount > 0 {
		lead |= flagGeneric
	}
	buf = append(buf, lead)
	if sig.GenParamCount > 0 {
		buf = appendCompressedUint(buf, sig.GenParamCount)
	}
	buf = appendCompressedUint(buf, uint32(len(sig.Params)))
	buf = encodeParam(buf, sig.RetType)
	for i, p := range sig.Params {
		if i == sig.SentinelIndex {
			buf = append(buf, byte(Sentinel))
		}
		buf = encodeParam(buf, p)
	}
	return buf
}

// EncodeField serializes a FieldSignature back to blob bytes.
func EncodeField(sig FieldSignature) []byte {
	buf := []byte{fieldSig}
	buf = encodeCustomMods(buf, sig.CustomMods)
	buf = encodeType(buf, sig.Type)
	return buf
}

// EncodeProperty serializes a PropertySignature back to blob bytes.
func EncodeProperty(sig PropertySignature) []byte {
	lead := propertySig
	if sig.HasThis {
		lead |= flagHasThis
	}
	buf := []byte{lead}
	buf = appendCompressedUint(buf, uint32(len(sig.Params)))
	buf = encodeCustomMods(buf, sig.CustomMods)
	buf = encodeType(buf, sig.Type)
	for _, p := range sig.Params {
		buf = encodeParam(buf, p)
	}
	return buf
}

// EncodeLocalVars serializes a LocalVarSignature back to blob bytes.
func EncodeLocalVars(sig LocalVarSignature) []byte {
	buf := []byte{localSig}
	buf = appendCompressedUint(buf, uint32(len(sig.Locals)))
	for _, lv := range sig.Locals {
		buf = encodeLocalVar(buf, lv)
	}
	return buf
}

func encodeLocalVar(buf []byte, lv LocalVar) []byte {
	if lv.TypedByRef {
		return append(buf, byte(TypedByRef))
	}
	buf = encodeCustomMods(buf, lv.CustomMods)
	if lv.Pinned {
		buf = append(buf, byte(Pinned))
	}
	if lv.ByRef {
		buf = append(buf, byte(ByRef))
	}
	return encodeType(buf, lv.Type)
}

func encodeParam(buf []byte, p Param) []byte {
	buf = encodeCustomMods(buf, p.CustomMods)
	if p.ByRef {
		buf = append(buf, byte(ByRef))
	}
	return encodeType(buf, p.Type)
}

func encodeCustomMods(buf []byte, mods []CustomMod) []byte {
	for _, m := range mods {
		if m.Required {
			buf = append(buf, byte(CModReqd))
		} else {
			buf = append(buf, byte(CModOpt))
		}
		buf = encodeTypeDefOrRefEncoded(buf, m.Type)
	}
	return buf
}

func encodeTypeDefOrRefEncoded(buf []byte, tok Token) []byte {
	return appendCompressedUint(buf, (tok.Row<<2)|uint32(tok.Table))
}

func encodeType(buf []byte, t Type) []byte {
	buf = append(buf, byte(t.ElementType))
	switch t.ElementType {
	case ValueType, Class:
		return encodeTypeDefOrRefEncoded(buf, t.Token)

	case Var, MVar:
		return appendCompressedUint(buf, t.Number)

	case Ptr:
		buf = encodeCustomMods(buf, t.CustomMods)
		return encodeType(buf, *t.Element)

	case ByRef, SzArray:
		if t.ElementType == SzArray {
			buf = encodeCustomMods(buf, t.CustomMods)
		}
		return encodeType(buf, *t.Element)

	case Array:
		buf = encodeType(buf, *t.Element)
		return encodeArrayShape(buf, *t.Shape)

	case GenericInst:
		buf = encodeType(buf, *t.GenericType)
		buf = appendCompressedUint(buf, uint32(len(t.GenericArgs)))
		for _, arg := range t.GenericArgs {
			buf = encodeType(buf, arg)
		}
		return buf

	case FnPtr:
		return append(buf, EncodeMethod(*t.Method)...)

	default:
		return buf
	}
}

func encodeArrayShape(buf []byte, shape ArrayShape) []byte {
	buf = appendCompressedUint(buf, shape.Rank)
	buf = appendCompressedUint(buf, uint32(len(shape.Sizes)))
	for _, size := range shape.Sizes {
		buf = appendCompressedUint(buf, size)
	}
	buf = appendCompressedUint(buf, uint32(len(shape.LoBounds)))
	for _, lo := range shape.LoBounds {
		buf = appendCompressedInt(buf, lo)
	}
	return buf
}

// appendCompressedUint appends v's ECMA-335 II.23.2 compressed-unsigned
// encoding to buf.
func appendCompressedUint(buf []byte, v uint32) []byte {
	switch {
	case v <= 0x7F:
		return append(buf, byte(v))
	case v <= 0x3FFF:
		return append(buf, byte(0x80|(v>>8)), byte(v))
	default:
		return append(buf, byte(0xC0|(v>>24)), byte(v>>16), byte(v>>8), byte(v))
	}
}

// appendCompressedInt appends v's ECMA-335 II.23.2 compressed-signed
// encoding to buf: the two's-complement bit pattern of v, at the
// narrowest width that fits, rotated left by one so the sign bit lands
// in the new low bit.
func appendCompressedInt(buf []byte, v int32) []byte {
	switch {
	case v >= -0x40 && v <= 0x3F:
		u := uint32(v) & 0x7F
		rotated := ((u << 1) | (u >> 6)) & 0x7F
		return append(buf, byte(rotated))
	case v >= -0x2000 && v <= 0x1FFF:
		u := uint32(v) & 0x3FFF
		rotated := ((u << 1) | (u >> 13)) & 0x3FFF
		return append(buf, byte(0x80|(rotated>>8)), byte(rotated))
	default:
		u := uint32(v) & 0x1FFFFFFF
		rotated := ((u << 1) | (u >> 28)) & 0x1FFFFFFF
		return append(buf, byte(0xC0|(rotated>>24)), byte(rotated>>16), byte(rotated>>8), byte(rotated))
	}
}
