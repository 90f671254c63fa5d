// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package tree

import (
	"bytes"
	"encoding/binary"

	"github.com/bits-and-blooms/bitset"
	"github.com/icza/bitio"
)

// EncodeCircomVerifierProof writes the fixed-width byte layout spec.md §6
// names for consumers who roll their own wire format: root (32 bytes
// LE), siblings (maxLevels+1 × 32 bytes LE), key, value, oldKey,
// oldValue (32 bytes LE each), then a single fnc byte.
func EncodeCircomVerifierProof(p *CircomVerifierProof) []byte {
	buf := make([]byte, 0, 32+len(p.Siblings)*32+32*4+1)
	buf = append(buf, p.Root[:]...)
	for _, s := range p.Siblings {
		buf = append(buf, s[:]...)
	}
	buf = append(buf, p.Key[:]...)
	buf = append(buf, p.Value[:]...)
	buf = append(buf, p.OldKey[:]...)
	buf = append(buf, p.OldValue[:]...)
	buf = append(buf, byte(p.Fnc))
	return buf
}

// DecodeCircomVerifierProof parses the layout EncodeCircomVerifierProof
// writes, for a tree fixed at maxLevels.
func DecodeCircomVerifierProof(data []byte, maxLevels int) (*CircomVerifierProof, error) {
	want := 32 + (maxLevels+1)*32 + 32*4 + 1
	if len(data) != want {
		return nil, ErrInvalidNodeFound
	}
	p := &CircomVerifierProof{Siblings: make([]NodeKey, maxLevels+1)}
	off := 0
	readKey := func() NodeKey {
		var k NodeKey
		copy(k[:], data[off:off+32])
		off += 32
		return k
	}
	p.Root = readKey()
	for i := range p.Siblings {
		p.Siblings[i] = readKey()
	}
	p.Key = readKey()
	p.Value = readKey()
	p.OldKey = readKey()
	p.OldValue = readKey()
	p.Fnc = int(data[off])
	return p, nil
}

// packNotEmpties bit-packs nb's first maxLevels bits into
// ceil(maxLevels/8) bytes, per spec.md §6.
func packNotEmpties(nb *bitset.BitSet, maxLevels int) []byte {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for i := 0; i < maxLevels; i++ {
		w.WriteBool(nb.Test(uint(i)))
	}
	w.Close()
	return buf.Bytes()
}

// unpackNotEmpties reverses packNotEmpties.
func unpackNotEmpties(data []byte, maxLevels int) (*bitset.BitSet, error) {
	r := bitio.NewReader(bytes.NewReader(data))
	nb := bitset.New(uint(maxLevels))
	for i := 0; i < maxLevels; i++ {
		bit, err := r.ReadBool()
		if err != nil {
			return nil, ErrInvalidNodeFound
		}
		if bit {
			nb.Set(uint(i))
		}
	}
	return nb, nil
}

// EncodeProof serializes a compressed Proof to bytes: a one-byte
// existence flag, a little-endian uint16 depth, the packed notEmpties
// bitmap, the compressed siblings, and (for non-membership proofs with a
// terminal leaf) the nodeAux key/value pair.
func EncodeProof(p *Proof, maxLevels int) []byte {
	var buf bytes.Buffer
	if p.Existence {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	var depth [2]byte
	binary.LittleEndian.PutUint16(depth[:], uint16(p.Depth))
	buf.Write(depth[:])
	buf.Write(packNotEmpties(p.NotEmpties, maxLevels))
	for _, s := range p.Siblings {
		buf.Write(s[:])
	}
	if p.NodeAux != nil {
		buf.WriteByte(1)
		buf.Write(p.NodeAux.Key[:])
		buf.Write(p.NodeAux.Value[:])
	} else {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// DecodeProof reverses EncodeProof for a tree fixed at maxLevels.
func DecodeProof(data []byte, maxLevels int) (*Proof, error) {
	bitmapLen := (maxLevels + 7) / 8
	if len(data) < 1+2+bitmapLen {
		return nil, ErrInvalidNodeFound
	}
	p := &Proof{Existence: data[0] == 1}
	p.Depth = int(binary.LittleEndian.Uint16(data[1:3]))
	off := 3
	nb, err := unpackNotEmpties(data[off:off+bitmapLen], maxLevels)
	if err != nil {
		return nil, err
	}
	p.NotEmpties = nb
	off += bitmapLen

	count := 0
	for i := 0; i < p.Depth; i++ {
		if nb.Test(uint(i)) {
			count++
		}
	}
	if len(data) < off+count*32+1 {
		return nil, ErrInvalidNodeFound
	}
	for i := 0; i < count; i++ {
		var k NodeKey
		copy(k[:], data[off:off+32])
		p.Siblings = append(p.Siblings, k)
		off += 32
	}
	if data[off] == 1 {
		off++
		if len(data) < off+64 {
			return nil, ErrInvalidNodeFound
		}
		var aux NodeAux
		copy(aux.Key[:], data[off:off+32])
		copy(aux.Value[:], data[off+32:off+64])
		p.NodeAux = &aux
	}
	return p, nil
}
