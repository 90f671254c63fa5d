// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package hash declares the field-native hash contract the tree is built
// against. spec.md treats the concrete hash primitive as an injected
// collaborator (§1, §4.6); this package is the seam — implementations
// live elsewhere (see hash/poseidon for the default one) and are wired
// in at tree construction time.
package hash

import "github.com/zkidentity/smt/field"

// Hasher is the two/three-input field hash the tree is built on.
// Implementations MUST be deterministic and domain-separated from any
// user data format; the tree never hashes raw bytes, only field elements.
type Hasher interface {
	// Hash2 combines two field elements, used for internal node keys.
	Hash2(a, b field.Element) field.Element
	// Hash3 combines three field elements, used for leaf keys (k, v, 1).
	Hash3(a, b, c field.Element) field.Element
}
