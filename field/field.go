// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package field provides the scalar-field element type the tree operates
// over (the BN254 scalar field) and the little-endian byte codec used to
// turn field elements into NodeKeys.
package field

import (
	"errors"
	"math/big"

	"github.com/iden3/go-iden3-crypto/ff"
)

// Element is a scalar field element. It is a thin alias over ff.Element
// (itself generated the same way gnark-crypto generates fr.Element for
// BN254), so arithmetic and equality follow the field's own reduced
// representation rather than raw big.Int comparison.
type Element = ff.Element

// ErrOverflow is returned when a value does not fit in [0, Size).
var ErrOverflow = errors.New("field: value is not in [0, field size)")

// Size is the BN254 scalar field modulus, spelled out in spec.md §3.
var Size, _ = new(big.Int).SetString(
	"21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)

// InRange reports whether v is a valid field element: 0 <= v < Size.
func InRange(v *big.Int) bool {
	return v.Sign() >= 0 && v.Cmp(Size) < 0
}

// FromBigInt converts v into an Element, rejecting values outside [0, Size).
func FromBigInt(v *big.Int) (Element, error) {
	if !InRange(v) {
		return Element{}, ErrOverflow
	}
	var e Element
	e.SetBigInt(v)
	return e, nil
}

// ToBigInt returns the canonical big.Int representation of e.
func ToBigInt(e Element) *big.Int {
	var b big.Int
	e.ToBigIntRegular(&b)
	return &b
}

// One is the field constant 1, used as the leaf-hash domain separator.
func One() Element {
	var e Element
	e.SetOne()
	return e
}

// Zero is the additive identity.
func Zero() Element {
	return Element{}
}

// LEBytes returns the little-endian, fixed 32-byte encoding of e.
//
// ff.Element (like gnark-crypto's fr.Element) marshals big-endian; the
// tree's NodeKey format is little-endian (spec.md §3), so the bytes are
// reversed here rather than re-deriving the encoding from scratch.
func LEBytes(e Element) [32]byte {
	be := e.Bytes()
	var le [32]byte
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le
}

// FromLEBytes parses a little-endian 32-byte encoding back into an Element.
// Bytes are reduced modulo Size, consistent with ff.Element.SetBytes.
func FromLEBytes(b [32]byte) Element {
	var be [32]byte
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	var e Element
	e.SetBytes(be[:])
	return e
}
