// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metadata

import (
	"hash/fnv"

	"github.com/saferwall/clrpe/signature"
)

// SignatureComparer compares descriptors structurally rather than by
// pointer identity: two references built from independently parsed
// modules are equal when they name the same assembly, type, or method.
type SignatureComparer struct {
	// VersionAgnostic makes assembly and type-reference equality (and
	// their hashes) ignore an AssemblyRef's version, so reference sets
	// deduplicate across differing cor-lib versions.
	VersionAgnostic bool
}

// AssembliesEqual compares two assembly references: name and culture and
// public-key-or-token always, version unless VersionAgnostic or either
// side is marked retargetable.
func (c SignatureComparer) AssembliesEqual(a, b AssemblyReference) bool {
	if a.Name != b.Name || a.Culture != b.Culture {
		return false
	}
	if !bytesEqual(a.PublicKeyOrToken, b.PublicKeyOrToken) {
		return false
	}
	if c.VersionAgnostic || a.VersionAgnostic() || b.VersionAgnostic() {
		return true
	}
	return a.MajorVersion == b.MajorVersion && a.MinorVersion == b.MinorVersion &&
		a.BuildNumber == b.BuildNumber && a.RevisionNumber == b.RevisionNumber
}

// AssemblyHash returns a hash consistent with AssembliesEqual. The
// version is left out, since AssembliesEqual ignores it whenever either
// side is version-agnostic.
func (c SignatureComparer) AssemblyHash(a AssemblyReference) uint64 {
	h := fnv.New64a()
	h.Write([]byte(a.Name))
	h.Write([]byte(a.Culture))
	h.Write(a.PublicKeyOrToken)
	return h.Sum64()
}

// TypeRefsEqual compares two type references: namespace (null and empty
// treated as equal) and name exact, and the two resolution scopes, given
// as the AssemblyReference each reference resolves against, compared with
// AssembliesEqual. Two references sharing a name whose scopes are equal
// assembly references are therefore equal.
func (c SignatureComparer) TypeRefsEqual(a, b TypeReference, scopeA, scopeB AssemblyReference) bool {
	if a.Namespace != b.Namespace || a.Name != b.Name {
		return false
	}
	return c.AssembliesEqual(scopeA, scopeB)
}

// TypeDefEqualsRef reports whether a type definition (identified by its
// declaring assembly) matches a type reference resolved against the same
// scope: names match and the declaring assembly equals the reference's
// resolution scope. Forwarder transparency means this holds against the
// type the reference ultimately resolves to, not necessarily the
// assembly the reference's own scope names textually.
func (c SignatureComparer) TypeDefEqualsRef(def TypeDefinition, declaring AssemblyReference, ref TypeReference, refScope AssemblyReference) bool {
	if def.Namespace != ref.Namespace || def.Name != ref.Name {
		return false
	}
	return c.AssembliesEqual(declaring, refScope)
}

// SignaturesEqual compares two decoded types structurally.
func (c SignatureComparer) SignaturesEqual(a, b signature.Type) bool {
	if a.ElementType != b.ElementType {
		return false
	}
	switch a.ElementType {
	case signature.ValueType, signature.Class:
		return a.Token == b.Token

	case signature.Var, signature.MVar:
		return a.Number == b.Number

	case signature.Ptr, signature.ByRef, signature.SzArray:
		return elementsEqual(c, a.Element, b.Element)

	case signature.Array:
		if !elementsEqual(c, a.Element, b.Element) {
			return false
		}
		return arrayShapesEqual(a.Shape, b.Shape)

	case signature.GenericInst:
		if !elementsEqual(c, a.GenericType, b.GenericType) {
			return false
		}
		if len(a.GenericArgs) != len(b.GenericArgs) {
			return false
		}
		for i := range a.GenericArgs {
			if !c.SignaturesEqual(a.GenericArgs[i], b.GenericArgs[i]) {
				return false
			}
		}
		return true

	case signature.FnPtr:
		if a.Method == nil || b.Method == nil {
			return a.Method == b.Method
		}
		return c.MethodSignaturesEqual(*a.Method, *b.Method)

	default:
		return true
	}
}

func elementsEqual(c SignatureComparer, a, b *signature.Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return c.SignaturesEqual(*a, *b)
}

func arrayShapesEqual(a, b *signature.ArrayShape) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Rank != b.Rank || len(a.Sizes) != len(b.Sizes) || len(a.LoBounds) != len(b.LoBounds) {
		return false
	}
	for i := range a.Sizes {
		if a.Sizes[i] != b.Sizes[i] {
			return false
		}
	}
	for i := range a.LoBounds {
		if a.LoBounds[i] != b.LoBounds[i] {
			return false
		}
	}
	return true
}

// MethodSignaturesEqual compares two method signatures: calling
// convention, this-ness, return type, and every parameter in order. A
// generic method's instantiated MethodSpec is never compared here as
// equal to its uninstantiated base — that distinction lives one level up,
// at the MethodDefinition/MethodSpec boundary, since MethodSignature
// itself carries no instantiation arguments.
func (c SignatureComparer) MethodSignaturesEqual(a, b signature.MethodSignature) bool {
	if a.HasThis != b.HasThis || a.CallingConvention != b.CallingConvention {
		return false
	}
	if a.GenParamCount != b.GenParamCount {
		return false
	}
	if !c.paramsEqual(a.RetType, b.RetType) {
		return false
	}
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !c.paramsEqual(a.Params[i], b.Params[i]) {
			return false
		}
	}
	return true
}

func (c SignatureComparer) paramsEqual(a, b signature.Param) bool {
	if a.ByRef != b.ByRef {
		return false
	}
	return c.SignaturesEqual(a.Type, b.Type)
}

// MethodsEqual compares two method definitions: declaring type identity
// (the passed-in declaring assemblies, compared with AssembliesEqual),
// name, and signature.
func (c SignatureComparer) MethodsEqual(a MethodDefinition, declA AssemblyReference, b MethodDefinition, declB AssemblyReference) bool {
	if a.Name != b.Name {
		return false
	}
	if !c.AssembliesEqual(declA, declB) {
		return false
	}
	return c.MethodSignaturesEqual(a.Signature, b.Signature)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func writeUint16(h interface{ Write([]byte) (int, error) }, v uint16) {
	h.Write([]byte{byte(v), byte(v >> 8)})
}
