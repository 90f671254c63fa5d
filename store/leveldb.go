// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package store

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/zkidentity/smt/tree"
)

// rootKey is the single reserved LevelDB key the current root pointer
// lives under; it can never collide with a NodeKey because NodeKeys are
// fixed at 32 bytes and rootKey is shorter.
var rootKey = []byte("smt:root")

// LevelDB is a durable tree.Storage backed by github.com/syndtr/goleveldb
// (spec.md §4.7). A single writer is assumed, matching the tree's own
// concurrency model (spec.md §5).
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if absent) a LevelDB store at path.
func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

// Close releases the underlying database handle.
func (s *LevelDB) Close() error {
	return s.db.Close()
}

// Get implements tree.Storage.
func (s *LevelDB) Get(key tree.NodeKey) (tree.Node, error) {
	data, err := s.db.Get(key[:], nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return tree.Node{}, tree.ErrNotFound
	}
	if err != nil {
		return tree.Node{}, err
	}
	var n tree.Node
	if err := n.UnmarshalBinary(data); err != nil {
		return tree.Node{}, err
	}
	return n, nil
}

// Put implements tree.Storage. It is a plain, unbatched write; the
// atomic pairing with SetRoot a mutating tree operation needs is
// provided by Batch (see NewBatch) instead.
func (s *LevelDB) Put(key tree.NodeKey, node tree.Node) error {
	data, err := node.MarshalBinary()
	if err != nil {
		return err
	}
	return s.db.Put(key[:], data, nil)
}

// GetRoot implements tree.Storage.
func (s *LevelDB) GetRoot() (tree.NodeKey, error) {
	data, err := s.db.Get(rootKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return tree.ZeroHash, nil
	}
	if err != nil {
		return tree.ZeroHash, err
	}
	var key tree.NodeKey
	copy(key[:], data)
	return key, nil
}

// SetRoot implements tree.Storage.
func (s *LevelDB) SetRoot(key tree.NodeKey) error {
	return s.db.Put(rootKey, key[:], nil)
}

// Batch buffers writes for a single mutating tree operation so that
// every intermediate node lands in the same LevelDB write batch as the
// root pointer update, satisfying spec.md §5's ordering requirement
// ("every intermediate node MUST be persisted before the root pointer
// is updated") as one atomic commit instead of two ordered ones.
type Batch struct {
	s     *LevelDB
	batch *leveldb.Batch
}

// NewBatch starts a batch against s.
func (s *LevelDB) NewBatch() *Batch {
	return &Batch{s: s, batch: new(leveldb.Batch)}
}

// Get implements tree.Storage, reading through to the underlying
// database (the batch only buffers writes).
func (b *Batch) Get(key tree.NodeKey) (tree.Node, error) {
	return b.s.Get(key)
}

// Put implements tree.Storage by buffering the write.
func (b *Batch) Put(key tree.NodeKey, node tree.Node) error {
	data, err := node.MarshalBinary()
	if err != nil {
		return err
	}
	b.batch.Put(key[:], data)
	return nil
}

// GetRoot implements tree.Storage, reading through to the underlying
// database.
func (b *Batch) GetRoot() (tree.NodeKey, error) {
	return b.s.GetRoot()
}

// SetRoot implements tree.Storage by buffering the root pointer write.
func (b *Batch) SetRoot(key tree.NodeKey) error {
	b.batch.Put(rootKey, key[:])
	return nil
}

// Commit flushes every buffered node put and the root pointer update as
// a single atomic LevelDB write.
func (b *Batch) Commit() error {
	return b.s.db.Write(b.batch, nil)
}
