// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package store provides tree.Storage implementations: an in-memory map
// for tests and ephemeral trees, and a durable github.com/syndtr/goleveldb
// backend (spec.md §4.7).
package store

import (
	"sync"

	"github.com/zkidentity/smt/tree"
)

// Memory is a map-backed tree.Storage. Each Get/Put/GetRoot/SetRoot call
// is guarded by a mutex; the tree on top of it still assumes a single
// writer (spec.md §5).
type Memory struct {
	mu    sync.RWMutex
	nodes map[tree.NodeKey]tree.Node
	root  tree.NodeKey
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{nodes: make(map[tree.NodeKey]tree.Node)}
}

// Get implements tree.Storage.
func (m *Memory) Get(key tree.NodeKey) (tree.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[key]
	if !ok {
		return tree.Node{}, tree.ErrNotFound
	}
	return n, nil
}

// Put implements tree.Storage.
func (m *Memory) Put(key tree.NodeKey, node tree.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[key] = node
	return nil
}

// GetRoot implements tree.Storage.
func (m *Memory) GetRoot() (tree.NodeKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root, nil
}

// SetRoot implements tree.Storage.
func (m *Memory) SetRoot(key tree.NodeKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.root = key
	return nil
}

// Len reports how many nodes are currently stored, including orphaned
// ones retained from superseded trees (spec.md §9).
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}
