// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package tree

import "github.com/zkidentity/smt/field"

// path is the deterministic bit-path a key takes from the root, per
// spec.md §4.1: the low maxLevels bits of k, least-significant bit
// first. path[i] == true selects the right child at depth i.
type path []bool

func computePath(k field.Element, maxLevels int) path {
	le := field.LEBytes(k)
	p := make(path, maxLevels)
	for i := 0; i < maxLevels; i++ {
		byteIdx := i / 8
		bitIdx := uint(i % 8)
		p[i] = (le[byteIdx]>>bitIdx)&1 == 1
	}
	return p
}
