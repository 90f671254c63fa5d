// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package tree

import (
	stdio "io"

	"github.com/consensys/gnark-crypto/ecc"

	"github.com/zkidentity/smt/encoding"
)

// circomProofField is the curve tag every CBOR-serialized proof in this
// package is stamped with: node keys are BN254 scalar-field elements
// (spec.md §3), so a payload produced under a different curve is
// rejected by Deserialize rather than silently misread.
const circomProofField = ecc.BN254

// WriteCircomVerifierProof CBOR-encodes p, tagged with the BN254 scalar
// field, and writes it to path. This is the on-disk counterpart to the
// fixed-width wire.go layout: wire.go targets a circuit's calldata,
// this targets a Go-to-Go handoff (e.g. caching a proof for later
// re-verification) where self-describing, field-tagged framing matters
// more than a minimal byte count.
func WriteCircomVerifierProof(path string, p *CircomVerifierProof) error {
	return encoding.Write(path, p, circomProofField)
}

// ReadCircomVerifierProof reverses WriteCircomVerifierProof.
func ReadCircomVerifierProof(path string) (*CircomVerifierProof, error) {
	var p CircomVerifierProof
	if err := encoding.Read(path, &p, circomProofField); err != nil {
		return nil, err
	}
	return &p, nil
}

// SerializeCircomProcessorProof CBOR-encodes p, tagged with the BN254
// scalar field, to w.
func SerializeCircomProcessorProof(w stdio.Writer, p *CircomProcessorProof) error {
	return encoding.Serialize(w, p, circomProofField)
}

// DeserializeCircomProcessorProof reverses SerializeCircomProcessorProof.
func DeserializeCircomProcessorProof(r stdio.Reader) (*CircomProcessorProof, error) {
	var p CircomProcessorProof
	if err := encoding.Deserialize(r, &p, circomProofField); err != nil {
		return nil, err
	}
	return &p, nil
}
