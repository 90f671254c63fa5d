// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package tree

import "errors"

// The closed error set from spec.md §7. All errors surface to the caller
// unchanged; the tree never attempts internal recovery.
var (
	// ErrKeyNotFound is returned when a descent for update/delete
	// reaches Empty or a mismatching leaf. Get does not return it; it
	// reports absence through its return values.
	ErrKeyNotFound = errors.New("smt: key not found")

	// ErrEntryIndexAlreadyExists is returned by Add when a leaf with the
	// same key already exists.
	ErrEntryIndexAlreadyExists = errors.New("smt: entry index already exists")

	// ErrReachedMaxLevel is returned when the required split depth would
	// exceed maxLevels.
	ErrReachedMaxLevel = errors.New("smt: reached maximum level of the tree")

	// ErrInvalidNodeFound is returned when a persisted node has an
	// unrecognized tag.
	ErrInvalidNodeFound = errors.New("smt: found an invalid node in storage")

	// ErrNotFound is returned when storage reports a NodeKey missing that
	// the tree expected to be present (root/storage inconsistency).
	ErrNotFound = errors.New("smt: node not found in storage")

	// ErrNotWritable is returned by mutating calls on a read-only tree.
	ErrNotWritable = errors.New("smt: tree is not writable")

	// ErrFieldOverflow is returned when a key or value is outside
	// [0, field.Size).
	ErrFieldOverflow = errors.New("smt: key or value outside the scalar field")
)
