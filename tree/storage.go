// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package tree

// Storage is the external, content-addressed key-value collaborator the
// tree is built on (spec.md §4.2). Concrete implementations live in the
// sibling store package. Storage MUST be durable across a single
// committed operation boundary; concurrent writers are not supported —
// the tree assumes exclusive write access (spec.md §5).
type Storage interface {
	// Get looks up a node by its NodeKey. It returns ErrNotFound if key
	// is not present.
	Get(key NodeKey) (Node, error)
	// Put idempotently persists node under key. Repeated puts of the
	// same (key, node) pair are permitted and MUST be no-ops.
	Put(key NodeKey, node Node) error
	// GetRoot returns the current root pointer, or ZeroHash for a fresh
	// store.
	GetRoot() (NodeKey, error)
	// SetRoot atomically writes the current root pointer. This is the
	// commit point for a mutating operation (spec.md §5).
	SetRoot(key NodeKey) error
}
