package encoding

import (
	"bytes"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"

	"github.com/leanovate/gopter/gen"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
)

func TestRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("deserialization(serialization(string)) == string", prop.ForAll(
		func(a string) bool {
			var buff bytes.Buffer
			Serialize(&buff, a, ecc.BN254)
			var result string
			Deserialize(&buff, &result, ecc.BN254)
			return a == result
		},
		gen.AnyString(),
	))

	properties.Property("deserialization(serialization(uint64)) == uint64", prop.ForAll(
		func(a uint64) bool {
			var buff bytes.Buffer
			Serialize(&buff, a, ecc.BN254)
			var result uint64
			Deserialize(&buff, &result, ecc.BN254)
			return a == result
		},
		gen.UInt64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFieldMismatch(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	curves := []ecc.ID{ecc.BN254, ecc.BLS12_381, ecc.BLS12_377, ecc.BW6_761}

	properties := gopter.NewProperties(parameters)
	properties.Property("using a different field in Serialize and Deserialize should fail", prop.ForAll(
		func(a uint64) bool {
			field := curves[a%uint64(len(curves))]
			other := curves[(a+1)%uint64(len(curves))]
			var buff bytes.Buffer
			Serialize(&buff, a, field)
			var result uint64
			err := Deserialize(&buff, &result, other)
			return err == errInvalidField
		},
		gen.UInt64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
