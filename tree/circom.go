// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package tree

import (
	"math/big"

	"github.com/bits-and-blooms/bitset"
)

// CircomVerifierProof mirrors a read-only membership/non-membership
// witness shaped for a fixed-iteration-count arithmetic circuit verifier
// (spec.md §4.5). Siblings is always exactly maxLevels+1 long.
type CircomVerifierProof struct {
	Root     NodeKey
	Siblings []NodeKey
	OldKey   NodeKey
	OldValue NodeKey
	Key      NodeKey
	Value    NodeKey
	Fnc      int // 0 = membership, 1 = non-membership
}

// CircomProcessorProof mirrors a single mutation's before/after witness
// shaped for a circuit verifier (spec.md §4.5). Siblings is always
// exactly maxLevels+1 long.
type CircomProcessorProof struct {
	OldRoot  NodeKey
	NewRoot  NodeKey
	OldKey   NodeKey
	OldValue NodeKey
	NewKey   NodeKey
	NewValue NodeKey
	Siblings []NodeKey
	IsOld0   bool
	Fnc      int // 0 = noop, 1 = update, 2 = insert, 3 = delete
}

// circomSiblingsFromSiblings right-pads sibs with ZeroHash out to
// maxLevels+1 entries, the fixed length a circuit's unrolled loop expects.
func circomSiblingsFromSiblings(sibs []NodeKey, maxLevels int) []NodeKey {
	out := make([]NodeKey, maxLevels+1)
	copy(out, sibs)
	return out
}

// inflateSiblings re-expands a compressed sibling list plus its
// NotEmpties bitmap back into `depth` entries, ZeroHash standing in for
// every omitted depth (spec.md §4.4).
func inflateSiblings(compressed []NodeKey, notEmpties *bitset.BitSet, depth int) []NodeKey {
	out := make([]NodeKey, depth)
	idx := 0
	for i := 0; i < depth; i++ {
		if notEmpties.Test(uint(i)) {
			out[i] = compressed[idx]
			idx++
		}
	}
	return out
}

// GenerateCircomVerifierProof generates a read-only proof and reshapes it
// into the fixed-length form a circuit verifier consumes.
func (t *Tree) GenerateCircomVerifierProof(k *big.Int, rootKey NodeKey) (*CircomVerifierProof, error) {
	proof, v, err := t.GenerateProof(k, rootKey)
	if err != nil {
		return nil, err
	}
	if rootKey.IsZero() {
		rootKey = t.root
	}

	kE, err := elementInField(k)
	if err != nil {
		return nil, err
	}
	vE, err := elementInField(v)
	if err != nil {
		return nil, err
	}

	cvp := &CircomVerifierProof{
		Root:     rootKey,
		Siblings: circomSiblingsFromSiblings(inflateSiblings(proof.Siblings, proof.NotEmpties, proof.Depth), t.maxLevels),
		Key:      keyFromElement(kE),
		Value:    keyFromElement(vE),
	}
	if proof.Existence {
		cvp.Fnc = 0
		return cvp, nil
	}
	cvp.Fnc = 1
	if proof.NodeAux != nil {
		cvp.OldKey = proof.NodeAux.Key
		cvp.OldValue = proof.NodeAux.Value
	}
	return cvp, nil
}

// AddAndGetCircomProof inserts (k, v) and returns the insertion's
// before/after witness. Per spec.md §4.5, the lookup that populates
// OldKey/OldValue/IsOld0/Siblings happens before the insert is applied.
func (t *Tree) AddAndGetCircomProof(k, v *big.Int) (*CircomProcessorProof, error) {
	if !t.writable {
		return nil, ErrNotWritable
	}
	kE, err := elementInField(k)
	if err != nil {
		return nil, err
	}
	vE, err := elementInField(v)
	if err != nil {
		return nil, err
	}

	cp := &CircomProcessorProof{Fnc: 2, OldRoot: t.root}
	p := computePath(kE, t.maxLevels)
	oldNode, siblings, err := t.descend(kE, p)
	if err != nil {
		return nil, err
	}
	cp.Siblings = circomSiblingsFromSiblings(siblings, t.maxLevels)
	switch {
	case oldNode.IsEmpty():
		cp.IsOld0 = true
	case oldNode.IsLeaf():
		ek, ev := oldNode.Entry()
		cp.OldKey = keyFromElement(ek)
		cp.OldValue = keyFromElement(ev)
	}
	cp.NewKey = keyFromElement(kE)
	cp.NewValue = keyFromElement(vE)

	if err := t.Add(k, v); err != nil {
		return nil, err
	}
	cp.NewRoot = t.root
	return cp, nil
}

// DeleteAndGetCircomProof removes k and returns the deletion's
// before/after witness.
func (t *Tree) DeleteAndGetCircomProof(k *big.Int) (*CircomProcessorProof, error) {
	if !t.writable {
		return nil, ErrNotWritable
	}
	kE, err := elementInField(k)
	if err != nil {
		return nil, err
	}

	oldRoot := t.root
	p := computePath(kE, t.maxLevels)
	n, siblings, err := t.descend(kE, p)
	if err != nil {
		return nil, err
	}
	if n.IsEmpty() {
		return nil, ErrKeyNotFound
	}
	ek, ev := n.Entry()
	if !ek.Equal(&kE) {
		return nil, ErrKeyNotFound
	}

	cp := &CircomProcessorProof{
		Fnc:      3,
		OldRoot:  oldRoot,
		OldKey:   keyFromElement(ek),
		OldValue: keyFromElement(ev),
		Siblings: circomSiblingsFromSiblings(siblings, t.maxLevels),
	}

	newRoot, err := t.rmAndUpload(p, siblings)
	if err != nil {
		return nil, err
	}
	if err := t.storage.SetRoot(newRoot); err != nil {
		return nil, err
	}
	t.root = newRoot
	cp.NewRoot = newRoot
	return cp, nil
}
