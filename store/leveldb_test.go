// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package store

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkidentity/smt/field"
	"github.com/zkidentity/smt/hash/poseidon"
	"github.com/zkidentity/smt/tree"
)

var testHasher = poseidon.New()

func fieldElem(t *testing.T, v int64) field.Element {
	t.Helper()
	e, err := field.FromBigInt(big.NewInt(v))
	require.NoError(t, err)
	return e
}

func openTestLevelDB(t *testing.T) *LevelDB {
	t.Helper()
	s, err := OpenLevelDB(filepath.Join(t.TempDir(), "smt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLevelDBPutGetRoundTrip(t *testing.T) {
	s := openTestLevelDB(t)

	leaf := tree.NewLeafNode(fieldElem(t, 1), fieldElem(t, 2))
	key := leaf.Key(testHasher)
	require.NoError(t, s.Put(key, leaf))

	got, err := s.Get(key)
	require.NoError(t, err)
	k, v := got.Entry()
	ek, ev := leaf.Entry()
	require.True(t, k.Equal(&ek))
	require.True(t, v.Equal(&ev))
}

func TestLevelDBGetMissing(t *testing.T) {
	s := openTestLevelDB(t)
	_, err := s.Get(tree.NodeKey{3})
	require.ErrorIs(t, err, tree.ErrNotFound)
}

func TestLevelDBRootDefaultsToZero(t *testing.T) {
	s := openTestLevelDB(t)
	root, err := s.GetRoot()
	require.NoError(t, err)
	require.True(t, root.IsZero())
}

func TestLevelDBBatchCommitsAtomically(t *testing.T) {
	s := openTestLevelDB(t)
	batch := s.NewBatch()

	leaf := tree.NewLeafNode(fieldElem(t, 5), fieldElem(t, 6))
	key := leaf.Key(testHasher)
	require.NoError(t, batch.Put(key, leaf))
	require.NoError(t, batch.SetRoot(key))

	// Uncommitted: neither the node nor the root are visible yet.
	_, err := s.Get(key)
	require.ErrorIs(t, err, tree.ErrNotFound)
	root, err := s.GetRoot()
	require.NoError(t, err)
	require.True(t, root.IsZero())

	require.NoError(t, batch.Commit())

	_, err = s.Get(key)
	require.NoError(t, err)
	root, err = s.GetRoot()
	require.NoError(t, err)
	require.Equal(t, key, root)
}
