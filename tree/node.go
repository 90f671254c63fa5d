// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package tree

import (
	stdio "io"

	"github.com/zkidentity/smt/field"
	"github.com/zkidentity/smt/hash"
	smtio "github.com/zkidentity/smt/io"
)

// Node implements smtio.BinaryDumper so a tree.Dump/BuildFromLeaves
// snapshot can be streamed to and from a file.
var _ smtio.BinaryDumper = (*Node)(nil)

// NodeKey is the 32-byte little-endian encoding of a field element, used
// as both a node's identity and its storage address (spec.md §3).
type NodeKey [32]byte

// ZeroHash is the all-zero key. It denotes both the empty subtree and an
// unset sibling; Empty nodes are never persisted under it.
var ZeroHash NodeKey

// IsZero reports whether k is the zero hash.
func (k NodeKey) IsZero() bool {
	return k == ZeroHash
}

// Element reinterprets k's bytes as a field element, used to feed a
// NodeKey back into the hash function (internal node keys hash their
// children's keys, not raw bytes — spec.md §4.6).
func (k NodeKey) Element() field.Element {
	return field.FromLEBytes(k)
}

func keyFromElement(e field.Element) NodeKey {
	return NodeKey(field.LEBytes(e))
}

type nodeType uint8

const (
	typeEmpty nodeType = iota
	typeLeaf
	typeInternal
)

// Node is the tagged union of the three node variants spec.md §3 defines.
// The zero Node is the Empty variant.
type Node struct {
	typ            nodeType
	k, v           field.Element
	childL, childR NodeKey
}

// NewEmptyNode returns the Empty node.
func NewEmptyNode() Node {
	return Node{typ: typeEmpty}
}

// NewLeafNode returns a Leaf(k, v) node.
func NewLeafNode(k, v field.Element) Node {
	return Node{typ: typeLeaf, k: k, v: v}
}

// NewInternalNode returns an Internal(childL, childR) node.
func NewInternalNode(childL, childR NodeKey) Node {
	return Node{typ: typeInternal, childL: childL, childR: childR}
}

// IsEmpty reports whether n is the Empty variant.
func (n Node) IsEmpty() bool { return n.typ == typeEmpty }

// IsLeaf reports whether n is a Leaf.
func (n Node) IsLeaf() bool { return n.typ == typeLeaf }

// IsInternal reports whether n is an Internal node.
func (n Node) IsInternal() bool { return n.typ == typeInternal }

// Entry returns the (k, v) pair of a Leaf node. It is only meaningful
// when IsLeaf() is true.
func (n Node) Entry() (k, v field.Element) { return n.k, n.v }

// Children returns the (childL, childR) keys of an Internal node. It is
// only meaningful when IsInternal() is true.
func (n Node) Children() (childL, childR NodeKey) { return n.childL, n.childR }

// MarshalBinary encodes n for storage backends that need raw bytes
// (store.LevelDB): a tag byte, followed by Leaf's (k, v) or Internal's
// (childL, childR), each a 32-byte little-endian field/NodeKey encoding.
func (n Node) MarshalBinary() ([]byte, error) {
	switch n.typ {
	case typeEmpty:
		return []byte{byte(typeEmpty)}, nil
	case typeLeaf:
		out := make([]byte, 1+32+32)
		out[0] = byte(typeLeaf)
		kb := field.LEBytes(n.k)
		vb := field.LEBytes(n.v)
		copy(out[1:33], kb[:])
		copy(out[33:65], vb[:])
		return out, nil
	case typeInternal:
		out := make([]byte, 1+32+32)
		out[0] = byte(typeInternal)
		copy(out[1:33], n.childL[:])
		copy(out[33:65], n.childR[:])
		return out, nil
	default:
		return nil, ErrInvalidNodeFound
	}
}

// UnmarshalBinary decodes the format MarshalBinary writes.
func (n *Node) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return ErrInvalidNodeFound
	}
	switch nodeType(data[0]) {
	case typeEmpty:
		*n = NewEmptyNode()
		return nil
	case typeLeaf:
		if len(data) != 65 {
			return ErrInvalidNodeFound
		}
		var kb, vb [32]byte
		copy(kb[:], data[1:33])
		copy(vb[:], data[33:65])
		*n = NewLeafNode(field.FromLEBytes(kb), field.FromLEBytes(vb))
		return nil
	case typeInternal:
		if len(data) != 65 {
			return ErrInvalidNodeFound
		}
		var l, r NodeKey
		copy(l[:], data[1:33])
		copy(r[:], data[33:65])
		*n = NewInternalNode(l, r)
		return nil
	default:
		return ErrInvalidNodeFound
	}
}

// WriteDump implements smtio.BinaryDumper, writing n's MarshalBinary form.
func (n Node) WriteDump(w stdio.Writer) error {
	data, err := n.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadDump implements smtio.BinaryDumper, reversing WriteDump.
func (n *Node) ReadDump(r stdio.Reader) error {
	var tag [1]byte
	if _, err := stdio.ReadFull(r, tag[:]); err != nil {
		return err
	}
	switch nodeType(tag[0]) {
	case typeEmpty:
		*n = NewEmptyNode()
		return nil
	case typeLeaf, typeInternal:
		rest := make([]byte, 64)
		if _, err := stdio.ReadFull(r, rest); err != nil {
			return err
		}
		return n.UnmarshalBinary(append(tag[:], rest...))
	default:
		return ErrInvalidNodeFound
	}
}

// Key computes the content-addressing key of n under h, per spec.md §3:
// Empty -> ZeroHash, Leaf(k,v) -> H(k,v,1), Internal(l,r) -> H(l,r).
func (n Node) Key(h hash.Hasher) NodeKey {
	switch n.typ {
	case typeEmpty:
		return ZeroHash
	case typeLeaf:
		return keyFromElement(h.Hash3(n.k, n.v, field.One()))
	case typeInternal:
		return keyFromElement(h.Hash2(n.childL.Element(), n.childR.Element()))
	default:
		return ZeroHash
	}
}
