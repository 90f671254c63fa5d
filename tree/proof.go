// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package tree

import (
	"math/big"

	"github.com/bits-and-blooms/bitset"

	"github.com/zkidentity/smt/field"
	"github.com/zkidentity/smt/hash"
)

// NodeAux carries the other leaf's (k', v') pair a non-membership proof
// terminated on, per spec.md §4.4.
type NodeAux struct {
	Key   NodeKey
	Value NodeKey
}

// Proof is a membership or non-membership witness for one key against one
// root, compressed per spec.md §4.4: Siblings omits ZeroHash entries,
// NotEmpties has a bit set for each depth whose sibling is kept.
type Proof struct {
	Existence  bool
	Depth      int
	Siblings   []NodeKey
	NotEmpties *bitset.BitSet
	NodeAux    *NodeAux
}

// GenerateProof walks path(k) from rootKey (the tree's current root if
// rootKey is the zero key), returning a compressed Proof and the value
// found at the terminal leaf (0 if the path ended at Empty).
func (t *Tree) GenerateProof(k *big.Int, rootKey NodeKey) (*Proof, *big.Int, error) {
	kE, err := elementInField(k)
	if err != nil {
		return nil, nil, err
	}
	if rootKey.IsZero() {
		rootKey = t.root
	}

	p := computePath(kE, t.maxLevels)
	proof := &Proof{NotEmpties: bitset.New(uint(t.maxLevels))}
	nextKey := rootKey
	depth := 0
	for {
		if depth >= t.maxLevels {
			return nil, nil, ErrReachedMaxLevel
		}
		n, err := t.getNode(nextKey)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case n.IsEmpty():
			proof.Depth = depth
			return proof, big.NewInt(0), nil
		case n.IsLeaf():
			proof.Depth = depth
			ek, ev := n.Entry()
			if ek.Equal(&kE) {
				proof.Existence = true
				return proof, field.ToBigInt(ev), nil
			}
			proof.NodeAux = &NodeAux{Key: keyFromElement(ek), Value: keyFromElement(ev)}
			return proof, field.ToBigInt(ev), nil
		case n.IsInternal():
			childL, childR := n.Children()
			var sibling NodeKey
			if p[depth] {
				nextKey = childR
				sibling = childL
			} else {
				nextKey = childL
				sibling = childR
			}
			if !sibling.IsZero() {
				proof.NotEmpties.Set(uint(depth))
				proof.Siblings = append(proof.Siblings, sibling)
			}
			depth++
		default:
			return nil, nil, ErrInvalidNodeFound
		}
	}
}

// rootFromProof replays proof's sibling chain upward from a terminal
// node's key, recomputing what the root would be if proof is genuine.
func (proof *Proof) rootFromProof(h hash.Hasher, terminal NodeKey, kE field.Element, maxLevels int) NodeKey {
	p := computePath(kE, maxLevels)
	current := terminal
	sibIdx := len(proof.Siblings) - 1
	for lvl := proof.Depth - 1; lvl >= 0; lvl-- {
		var sib NodeKey
		if proof.NotEmpties.Test(uint(lvl)) {
			sib = proof.Siblings[sibIdx]
			sibIdx--
		}
		var n Node
		if p[lvl] {
			n = NewInternalNode(sib, current)
		} else {
			n = NewInternalNode(current, sib)
		}
		current = n.Key(h)
	}
	return current
}

// Verify checks proof against rootKey for the claim that k maps to v
// (Existence) or that k is absent (!Existence).
func (proof *Proof) Verify(h hash.Hasher, rootKey NodeKey, k, v *big.Int, maxLevels int) (bool, error) {
	kE, err := elementInField(k)
	if err != nil {
		return false, err
	}

	if proof.Existence {
		vE, err := elementInField(v)
		if err != nil {
			return false, err
		}
		terminal := NewLeafNode(kE, vE).Key(h)
		return proof.rootFromProof(h, terminal, kE, maxLevels) == rootKey, nil
	}

	var terminal NodeKey
	if proof.NodeAux != nil {
		if proof.NodeAux.Key == keyFromElement(kE) {
			return false, errNodeAuxMatchesQuery
		}
		terminal = NewLeafNode(proof.NodeAux.Key.Element(), proof.NodeAux.Value.Element()).Key(h)
	}
	return proof.rootFromProof(h, terminal, kE, maxLevels) == rootKey, nil
}
