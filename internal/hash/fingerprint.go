// Package hash provides the schema fingerprint primitives.
//
// Fingerprint32 is the wire-stable fingerprint used in traces, recency
// caches and container schema indexes. ID64 is a stronger 64-bit identity
// used to detect 32-bit fingerprint collisions without comparing content.
package hash

import (
	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// Fingerprint32 computes the 32-bit MurmurHash3 (x86 variant, seed 0) of a
// finalized schema stream. The schema's length headers are little-endian on
// the wire, so the fingerprint is stable across machines.
func Fingerprint32(schema []byte) uint32 {
	return murmur3.Sum32WithSeed(schema, 0)
}

// ID64 computes the xxHash64 of the given bytes.
func ID64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// ID64String computes the xxHash64 of the given string.
func ID64String(data string) uint64 {
	return xxhash.Sum64String(data)
}
