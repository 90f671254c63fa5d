// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package encoding offers (de)serialization helpers for tree proofs.
// It uses CBOR, is schema-less, and tags every payload with the scalar
// field it was produced under so a reader can reject a payload encoded
// under a different curve before it silently misinterprets field elements.
package encoding

import (
	"errors"
	"io"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/fxamacker/cbor/v2"
)

var errInvalidField = errors.New("encoding: payload was serialized under a different scalar field")

type envelope struct {
	Field ecc.ID
	Body  cbor.RawMessage
}

// Write serializes from into the file at path, tagged with field.
func Write(path string, from interface{}, field ecc.ID) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return Serialize(f, from, field)
}

// Read reads and deserializes the file at path into into, which must be a pointer.
func Read(path string, into interface{}, expectedField ecc.ID) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return Deserialize(f, into, expectedField)
}

// Serialize encodes from into writer, prefixed with field.
func Serialize(writer io.Writer, from interface{}, field ecc.ID) error {
	body, err := cbor.Marshal(from)
	if err != nil {
		return err
	}
	return cbor.NewEncoder(writer).Encode(envelope{Field: field, Body: body})
}

// PeekField reads the field tag from the file at path without decoding the body.
func PeekField(path string) (ecc.ID, error) {
	f, err := os.Open(path)
	if err != nil {
		return ecc.UNKNOWN, err
	}
	defer f.Close()

	var env envelope
	if err := cbor.NewDecoder(f).Decode(&env); err != nil {
		return ecc.UNKNOWN, err
	}
	return env.Field, nil
}

// Deserialize reads bytes from reader, checks the field tag against expectedField,
// and decodes the body into into.
func Deserialize(reader io.Reader, into interface{}, expectedField ecc.ID) error {
	var env envelope
	if err := cbor.NewDecoder(reader).Decode(&env); err != nil {
		return err
	}
	if env.Field != expectedField {
		return errInvalidField
	}
	return cbor.Unmarshal(env.Body, into)
}
