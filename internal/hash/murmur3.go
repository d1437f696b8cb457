// Package hash computes the 32-bit keyword hash used by the express-mode
// keyword table.
package hash

import "github.com/spaolacci/murmur3"

// Seed is the fixed MurmurHash3 x86-32 seed MDict uses for keyword hashing.
const Seed uint32 = 0xFE176

// ID computes the MurmurHash3 x86-32 hash of an already case/punctuation
// adapted keyword, using the fixed seed MDict requires.
func ID(adaptedKey string) uint32 {
	return murmur3.Sum32WithSeed([]byte(adaptedKey), Seed)
}
