// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/zkidentity/smt/field"
)

// diffNodes reports a structural diff between two Node values, reaching
// into its unexported tag/k/v/child fields the way MarshalBinary does —
// this is the table-driven Node-diffing use SPEC_FULL.md's test tooling
// section calls for, in place of testify's shallower require.Equal.
func diffNodes(t *testing.T, want, got Node) string {
	t.Helper()
	return cmp.Diff(want, got, cmp.AllowUnexported(Node{}))
}

func TestNodeMarshalUnmarshalBinaryRoundTrip(t *testing.T) {
	cases := map[string]Node{
		"empty":    NewEmptyNode(),
		"leaf":     NewLeafNode(field.One(), field.One()),
		"internal": NewInternalNode(ZeroHash, keyFromElement(field.One())),
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := want.MarshalBinary()
			require.NoError(t, err)

			var got Node
			require.NoError(t, got.UnmarshalBinary(data))

			if diff := diffNodes(t, want, got); diff != "" {
				t.Fatalf("Node round-trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
