// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package poseidon is the default hash.Hasher: the arity-2/3 Poseidon
// permutation over the BN254 scalar field, as used throughout the
// zero-knowledge identity stacks this tree targets.
package poseidon

import (
	"fmt"
	"math/big"

	ipo "github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/zkidentity/smt/field"
)

// Hasher implements hash.Hasher using github.com/iden3/go-iden3-crypto's
// Poseidon permutation.
type Hasher struct{}

// New returns the default Poseidon hash.Hasher.
func New() Hasher {
	return Hasher{}
}

// Hash2 implements hash.Hasher.
func (Hasher) Hash2(a, b field.Element) field.Element {
	return mustHash(a, b)
}

// Hash3 implements hash.Hasher.
func (Hasher) Hash3(a, b, c field.Element) field.Element {
	return mustHash(a, b, c)
}

func mustHash(elems ...field.Element) field.Element {
	inputs := make([]*big.Int, len(elems))
	for i, e := range elems {
		inputs[i] = field.ToBigInt(e)
	}
	out, err := ipo.Hash(inputs)
	if err != nil {
		// Hash only fails on arity or pre-computed-constant mismatches,
		// neither of which the fixed arity-2/3 calls above can trigger.
		panic(fmt.Sprintf("poseidon: unexpected hash failure for %d inputs: %v", len(elems), err))
	}
	r, err := field.FromBigInt(out)
	if err != nil {
		panic(fmt.Sprintf("poseidon: hash output out of field range: %v", err))
	}
	return r
}
