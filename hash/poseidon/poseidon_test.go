// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package poseidon

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkidentity/smt/field"
)

func elem(t *testing.T, v int64) field.Element {
	t.Helper()
	e, err := field.FromBigInt(big.NewInt(v))
	require.NoError(t, err)
	return e
}

func TestHash2Deterministic(t *testing.T) {
	h := New()
	a, b := elem(t, 3), elem(t, 7)
	got1 := h.Hash2(a, b)
	got2 := h.Hash2(a, b)
	require.True(t, got1.Equal(&got2))
}

func TestHash2DomainSeparatedFromHash3(t *testing.T) {
	h := New()
	a, b := elem(t, 3), elem(t, 7)
	h2 := h.Hash2(a, b)
	h3 := h.Hash3(a, b, field.One())
	require.False(t, h2.Equal(&h3))
}

func TestHash2OrderSensitive(t *testing.T) {
	h := New()
	a, b := elem(t, 3), elem(t, 7)
	ab := h.Hash2(a, b)
	ba := h.Hash2(b, a)
	require.False(t, ab.Equal(&ba))
}

func TestHash3Deterministic(t *testing.T) {
	h := New()
	k, v, one := elem(t, 11), elem(t, 22), field.One()
	got1 := h.Hash3(k, v, one)
	got2 := h.Hash3(k, v, one)
	require.True(t, got1.Equal(&got2))
}
