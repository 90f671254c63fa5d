// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package tree

import (
	"fmt"
	"io"

	"github.com/zkidentity/smt/field"
	"github.com/zkidentity/smt/hash"
)

// Walk visits every node reachable from rootKey (the tree's current root
// if rootKey is the zero key) exactly once, via an explicit stack —
// spec.md §9 flags self-recursive traversal as a known bug for deep
// trees, so this one is iterative.
func (t *Tree) Walk(rootKey NodeKey, visit func(Node) error) error {
	if rootKey.IsZero() {
		rootKey = t.root
	}
	stack := []NodeKey{rootKey}
	for len(stack) > 0 {
		key := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, err := t.getNode(key)
		if err != nil {
			return err
		}
		if err := visit(n); err != nil {
			return err
		}
		if n.IsInternal() {
			childL, childR := n.Children()
			stack = append(stack, childL, childR)
		}
	}
	return nil
}

// LeafEntry is one (k, v) pair captured by Dump.
type LeafEntry struct {
	K, V NodeKey
}

// Dump collects every live (k, v) pair reachable from rootKey (the
// tree's current root if rootKey is the zero key). It is the source
// operation for the compaction path spec.md §9 recommends in place of
// ever garbage-collecting superseded nodes in place.
func (t *Tree) Dump(rootKey NodeKey) ([]LeafEntry, error) {
	var out []LeafEntry
	err := t.Walk(rootKey, func(n Node) error {
		if n.IsLeaf() {
			k, v := n.Entry()
			out = append(out, LeafEntry{K: keyFromElement(k), V: keyFromElement(v)})
		}
		return nil
	})
	return out, err
}

// BuildFromLeaves replays a dump into a fresh tree over storage. Per
// spec.md §8 (invariant 2), the resulting root is independent of the
// order leaves are replayed in.
func BuildFromLeaves(storage Storage, hasher hash.Hasher, maxLevels int, leaves []LeafEntry) (*Tree, error) {
	t, err := New(storage, hasher, true, maxLevels)
	if err != nil {
		return nil, err
	}
	for _, e := range leaves {
		k := field.ToBigInt(e.K.Element())
		v := field.ToBigInt(e.V.Element())
		if err := t.Add(k, v); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// DumpToWriter streams every live leaf node reachable from rootKey (the
// tree's current root if rootKey is the zero key) to w via Node's
// smtio.BinaryDumper implementation, one leaf at a time.
func (t *Tree) DumpToWriter(w io.Writer, rootKey NodeKey) error {
	return t.Walk(rootKey, func(n Node) error {
		if !n.IsLeaf() {
			return nil
		}
		return n.WriteDump(w)
	})
}

// LoadLeavesFromReader reads a stream DumpToWriter wrote until r is
// exhausted, replaying each leaf into a fresh tree over storage.
func LoadLeavesFromReader(r io.Reader, storage Storage, hasher hash.Hasher, maxLevels int) (*Tree, error) {
	t, err := New(storage, hasher, true, maxLevels)
	if err != nil {
		return nil, err
	}
	for {
		var n Node
		if err := n.ReadDump(r); err != nil {
			if err == io.EOF {
				return t, nil
			}
			return nil, err
		}
		k, v := n.Entry()
		if err := t.Add(field.ToBigInt(k), field.ToBigInt(v)); err != nil {
			return nil, err
		}
	}
}

// GraphViz writes a DOT-format rendering of the tree reachable from
// rootKey (the tree's current root if rootKey is the zero key) to w.
func (t *Tree) GraphViz(w io.Writer, rootKey NodeKey) error {
	fmt.Fprint(w, "digraph hierarchy {\nnode [fontname=Monospace,fontsize=10,shape=box]\n")
	emptyCount := 0
	err := t.Walk(rootKey, func(n Node) error {
		switch {
		case n.IsLeaf():
			fmt.Fprintf(w, "\"%x\" [style=filled]\n", n.Key(t.hasher))
		case n.IsInternal():
			childL, childR := n.Children()
			var labels [2]string
			var pending string
			for i, c := range [2]NodeKey{childL, childR} {
				if c.IsZero() {
					labels[i] = fmt.Sprintf("empty%d", emptyCount)
					pending += fmt.Sprintf("\"%s\" [style=dashed,label=0]\n", labels[i])
					emptyCount++
				} else {
					labels[i] = fmt.Sprintf("%x", c)
				}
			}
			fmt.Fprintf(w, "\"%x\" -> {\"%s\" \"%s\"}\n", n.Key(t.hasher), labels[0], labels[1])
			fmt.Fprint(w, pending)
		}
		return nil
	})
	fmt.Fprint(w, "}\n")
	return err
}
