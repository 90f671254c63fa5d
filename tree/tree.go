// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package tree implements the Sparse Merkle Tree engine: path-indexed
// insertion with on-demand subtree splitting, update, deletion,
// membership/non-membership proof generation, and circuit-oriented proof
// shaping. See spec.md §4.3 for the algorithms this file implements.
package tree

import (
	"errors"
	"math/big"

	"github.com/zkidentity/smt/field"
	"github.com/zkidentity/smt/hash"
	"github.com/zkidentity/smt/logger"
)

// Tree is a single-writer Sparse Merkle Tree backed by a Storage
// collaborator and a Hasher collaborator (spec.md §6). maxLevels is fixed
// for the tree's lifetime.
type Tree struct {
	storage   Storage
	hasher    hash.Hasher
	writable  bool
	maxLevels int
	root      NodeKey
}

// New loads a tree over storage. If storage already holds a root, it is
// adopted; a fresh store starts at ZeroHash.
func New(storage Storage, hasher hash.Hasher, writable bool, maxLevels int) (*Tree, error) {
	root, err := storage.GetRoot()
	if err != nil {
		return nil, err
	}
	return &Tree{
		storage:   storage,
		hasher:    hasher,
		writable:  writable,
		maxLevels: maxLevels,
		root:      root,
	}, nil
}

// Root returns the tree's current root key.
func (t *Tree) Root() NodeKey { return t.root }

// MaxLevels returns the tree's fixed maximum depth.
func (t *Tree) MaxLevels() int { return t.maxLevels }

// Writable reports whether mutating operations are permitted.
func (t *Tree) Writable() bool { return t.writable }

func (t *Tree) getNode(key NodeKey) (Node, error) {
	if key.IsZero() {
		return NewEmptyNode(), nil
	}
	n, err := t.storage.Get(key)
	if err != nil {
		return Node{}, err
	}
	return n, nil
}

// persist writes n to storage (a no-op for Empty, which is never
// persisted — spec.md §3 invariant 1) and returns its content-addressed
// key.
func (t *Tree) persist(n Node) (NodeKey, error) {
	key := n.Key(t.hasher)
	if n.IsEmpty() {
		return key, nil
	}
	if err := t.storage.Put(key, n); err != nil {
		return ZeroHash, err
	}
	return key, nil
}

func elementInField(v *big.Int) (field.Element, error) {
	e, err := field.FromBigInt(v)
	if err != nil {
		return field.Element{}, ErrFieldOverflow
	}
	return e, nil
}

// Add inserts a new leaf (k, v). It fails with ErrEntryIndexAlreadyExists
// if a leaf with the same k already exists, ErrReachedMaxLevel if the
// split would exceed maxLevels, and ErrNotWritable on a read-only tree.
func (t *Tree) Add(k, v *big.Int) error {
	if !t.writable {
		return ErrNotWritable
	}
	kE, err := elementInField(k)
	if err != nil {
		return err
	}
	vE, err := elementInField(v)
	if err != nil {
		return err
	}

	p := computePath(kE, t.maxLevels)
	newRoot, err := t.addLeaf(NewLeafNode(kE, vE), t.root, 0, p)
	if err != nil {
		return err
	}
	if err := t.storage.SetRoot(newRoot); err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

func (t *Tree) addLeaf(newLeaf Node, key NodeKey, lvl int, p path) (NodeKey, error) {
	if lvl > t.maxLevels-1 {
		return ZeroHash, ErrReachedMaxLevel
	}
	n, err := t.getNode(key)
	if err != nil {
		return ZeroHash, err
	}
	switch {
	case n.IsEmpty():
		return t.persist(newLeaf)
	case n.IsLeaf():
		existingK, _ := n.Entry()
		newK, _ := newLeaf.Entry()
		if existingK.Equal(&newK) {
			return ZeroHash, ErrEntryIndexAlreadyExists
		}
		oldPath := computePath(existingK, t.maxLevels)
		log := logger.Logger()
		log.Debug().Int("level", lvl).Msg("smt: splitting leaf on insert collision")
		return t.pushLeaf(newLeaf, n, lvl, p, oldPath)
	case n.IsInternal():
		childL, childR := n.Children()
		if p[lvl] {
			nextKey, err := t.addLeaf(newLeaf, childR, lvl+1, p)
			if err != nil {
				return ZeroHash, err
			}
			return t.persist(NewInternalNode(childL, nextKey))
		}
		nextKey, err := t.addLeaf(newLeaf, childL, lvl+1, p)
		if err != nil {
			return ZeroHash, err
		}
		return t.persist(NewInternalNode(nextKey, childR))
	default:
		return ZeroHash, ErrInvalidNodeFound
	}
}

// pushLeaf recursively pushes oldLeaf down until its path diverges from
// newLeaf's, per spec.md §4.3: while the two paths agree, it wraps a
// single child in an Internal node with a ZeroHash sibling; once they
// diverge, both leaves become direct children of one Internal node.
func (t *Tree) pushLeaf(newLeaf, oldLeaf Node, lvl int, pNew, pOld path) (NodeKey, error) {
	if lvl > t.maxLevels-2 {
		return ZeroHash, ErrReachedMaxLevel
	}
	if pNew[lvl] == pOld[lvl] {
		nextKey, err := t.pushLeaf(newLeaf, oldLeaf, lvl+1, pNew, pOld)
		if err != nil {
			return ZeroHash, err
		}
		if pNew[lvl] {
			return t.persist(NewInternalNode(ZeroHash, nextKey))
		}
		return t.persist(NewInternalNode(nextKey, ZeroHash))
	}

	oldKey, err := t.persist(oldLeaf)
	if err != nil {
		return ZeroHash, err
	}
	newKey, err := t.persist(newLeaf)
	if err != nil {
		return ZeroHash, err
	}
	if pNew[lvl] {
		return t.persist(NewInternalNode(oldKey, newKey))
	}
	return t.persist(NewInternalNode(newKey, oldKey))
}

// descend walks path(k) from the root, gathering the uncompressed
// sibling at every Internal node crossed, stopping at the first Empty or
// Leaf node reached.
func (t *Tree) descend(kE field.Element, p path) (Node, []NodeKey, error) {
	var siblings []NodeKey
	nextKey := t.root
	for lvl := 0; lvl < t.maxLevels; lvl++ {
		n, err := t.getNode(nextKey)
		if err != nil {
			return Node{}, nil, err
		}
		switch {
		case n.IsEmpty(), n.IsLeaf():
			return n, siblings, nil
		case n.IsInternal():
			childL, childR := n.Children()
			if p[lvl] {
				nextKey = childR
				siblings = append(siblings, childL)
			} else {
				nextKey = childL
				siblings = append(siblings, childR)
			}
		default:
			return Node{}, nil, ErrInvalidNodeFound
		}
	}
	return Node{}, nil, ErrReachedMaxLevel
}

// recalculatePathUntilRoot rebuilds Internal nodes from current, pairing
// it with each sibling in reverse (deepest first), per spec.md §4.3.
func (t *Tree) recalculatePathUntilRoot(p path, current NodeKey, siblings []NodeKey) (NodeKey, error) {
	for i := len(siblings) - 1; i >= 0; i-- {
		var n Node
		if p[i] {
			n = NewInternalNode(siblings[i], current)
		} else {
			n = NewInternalNode(current, siblings[i])
		}
		key, err := t.persist(n)
		if err != nil {
			return ZeroHash, err
		}
		current = key
	}
	return current, nil
}

// Get walks to the bottom of path(k). It returns (0, 0, siblings) if the
// path ends at Empty, or (k', v', siblings) at a Leaf — the caller
// inspects k' to distinguish presence from a non-membership witness.
func (t *Tree) Get(k *big.Int) (kOut, vOut *big.Int, siblings []NodeKey, err error) {
	kE, err := elementInField(k)
	if err != nil {
		return nil, nil, nil, err
	}
	p := computePath(kE, t.maxLevels)
	n, sibs, err := t.descend(kE, p)
	if err != nil {
		return nil, nil, nil, err
	}
	if n.IsEmpty() {
		return big.NewInt(0), big.NewInt(0), sibs, nil
	}
	ek, ev := n.Entry()
	return field.ToBigInt(ek), field.ToBigInt(ev), sibs, nil
}

// Update replaces the value of the existing leaf at k. It fails with
// ErrKeyNotFound if absent, ErrNotWritable if read-only, and
// ErrFieldOverflow if k or v is out of range.
func (t *Tree) Update(k, v *big.Int) (*CircomProcessorProof, error) {
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

	oldRoot := t.root
	p := computePath(kE, t.maxLevels)
	n, siblings, err := t.descend(kE, p)
	if err != nil {
		return nil, err
	}
	if !n.IsLeaf() {
		return nil, ErrKeyNotFound
	}
	ek, ev := n.Entry()
	if !ek.Equal(&kE) {
		return nil, ErrKeyNotFound
	}

	newLeafKey, err := t.persist(NewLeafNode(kE, vE))
	if err != nil {
		return nil, err
	}
	newRoot, err := t.recalculatePathUntilRoot(p, newLeafKey, siblings)
	if err != nil {
		return nil, err
	}
	if err := t.storage.SetRoot(newRoot); err != nil {
		return nil, err
	}
	t.root = newRoot

	return &CircomProcessorProof{
		OldRoot:  oldRoot,
		NewRoot:  newRoot,
		OldKey:   keyFromElement(ek),
		OldValue: keyFromElement(ev),
		NewKey:   keyFromElement(kE),
		NewValue: keyFromElement(vE),
		Siblings: circomSiblingsFromSiblings(siblings, t.maxLevels),
		IsOld0:   false,
		Fnc:      1,
	}, nil
}

// Delete removes the leaf at k, collapsing the path as spec.md §4.3
// describes so that invariant 3 (no Internal node with a ZeroHash
// co-child of a Leaf) keeps holding.
func (t *Tree) Delete(k *big.Int) error {
	if !t.writable {
		return ErrNotWritable
	}
	kE, err := elementInField(k)
	if err != nil {
		return err
	}
	p := computePath(kE, t.maxLevels)
	n, siblings, err := t.descend(kE, p)
	if err != nil {
		return err
	}
	if n.IsEmpty() {
		return ErrKeyNotFound
	}
	ek, _ := n.Entry()
	if !ek.Equal(&kE) {
		return ErrKeyNotFound
	}

	newRoot, err := t.rmAndUpload(p, siblings)
	if err != nil {
		return err
	}
	if err := t.storage.SetRoot(newRoot); err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

func (t *Tree) rmAndUpload(p path, siblings []NodeKey) (NodeKey, error) {
	if len(siblings) == 0 {
		return ZeroHash, nil
	}

	toUpload := siblings[len(siblings)-1]
	uploadNode, err := t.getNode(toUpload)
	if err != nil {
		return ZeroHash, err
	}
	if uploadNode.IsInternal() {
		return t.recalculatePathUntilRoot(p, ZeroHash, siblings)
	}

	if len(siblings) < 2 {
		return toUpload, nil
	}

	for i := len(siblings) - 2; i >= 0; i-- {
		if !siblings[i].IsZero() {
			var n Node
			if p[i] {
				n = NewInternalNode(siblings[i], toUpload)
			} else {
				n = NewInternalNode(toUpload, siblings[i])
			}
			newKey, err := t.persist(n)
			if err != nil {
				return ZeroHash, err
			}
			log := logger.Logger()
			log.Debug().Int("lonesiblingDepth", len(siblings)-1).Int("collapseDepth", i).
				Msg("smt: lifted lone sibling past empty co-children on delete")
			return t.recalculatePathUntilRoot(p, newKey, siblings[:i])
		}
	}

	return toUpload, nil
}

var errNodeAuxMatchesQuery = errors.New("smt: non-existence proof's nodeAux key equals the queried key")
