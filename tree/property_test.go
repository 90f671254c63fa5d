// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package tree

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/zkidentity/smt/hash/poseidon"
)

func buildTree(keys []uint32) (*Tree, error) {
	tr, err := New(newMemStorage(), poseidon.New(), true, testMaxLevels)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint32]bool)
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		if err := tr.Add(big.NewInt(int64(k)), big.NewInt(int64(k)+1)); err != nil {
			return nil, err
		}
	}
	return tr, nil
}

// TestRootIndependentOfInsertionOrder exercises spec.md §8 property 1:
// the final root depends only on the set of (k, v) pairs inserted, not
// the order they were added in.
func TestRootIndependentOfInsertionOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	properties.Property("permuting insertion order does not change the root", prop.ForAll(
		func(keys []uint32) bool {
			if len(keys) == 0 {
				return true
			}
			t1, err := buildTree(keys)
			if err != nil {
				return false
			}

			shuffled := append([]uint32(nil), keys...)
			rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			t2, err := buildTree(shuffled)
			if err != nil {
				return false
			}

			return t1.Root() == t2.Root()
		},
		gen.SliceOf(gen.UInt32Range(0, 5000)),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestGeneratedProofsAlwaysVerify exercises spec.md §8 property 6: every
// proof GenerateProof returns against the tree's current root verifies.
func TestGeneratedProofsAlwaysVerify(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	properties.Property("GenerateProof output always verifies against the tree's root", prop.ForAll(
		func(keys []uint32, query uint32) bool {
			tr, err := buildTree(keys)
			if err != nil {
				return false
			}
			proof, v, err := tr.GenerateProof(big.NewInt(int64(query)), ZeroHash)
			if err != nil {
				return false
			}
			var vArg *big.Int
			if proof.Existence {
				vArg = v
			}
			ok, err := proof.Verify(poseidon.New(), tr.Root(), big.NewInt(int64(query)), vArg, testMaxLevels)
			return err == nil && ok
		},
		gen.SliceOf(gen.UInt32Range(0, 5000)),
		gen.UInt32Range(0, 5000),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestAddThenDeleteRestoresRoot exercises spec.md §8 property 2 (for the
// single-key case): deleting every key Added since a checkpoint restores
// the checkpoint's root.
func TestAddThenDeleteRestoresRoot(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	properties.Property("add(k,v) then delete(k) restores the prior root", prop.ForAll(
		func(base []uint32, k uint32, v uint32) bool {
			tr, err := buildTree(base)
			if err != nil {
				return false
			}
			before := tr.Root()

			kB, vB := big.NewInt(int64(k)), big.NewInt(int64(v))
			if err := tr.Add(kB, vB); err != nil {
				// k collided with an already-present key; skip rather
				// than treat as a failure.
				return err == ErrEntryIndexAlreadyExists
			}
			if err := tr.Delete(kB); err != nil {
				return false
			}
			return tr.Root() == before
		},
		gen.SliceOf(gen.UInt32Range(0, 5000)),
		gen.UInt32Range(0, 5000),
		gen.UInt32Range(0, 5000),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
