// Package crypto implements MDict's keyword-index decryption, a RIPEMD-128
// keyed byte-rotation cipher. Header-section encryption (Encrypted bit 0) is
// out of scope — it requires an external registration key this reader does
// not possess.
package crypto

import "github.com/gomdict/mdict/crypto/ripemd128"

// passkeySuffix is appended to the 4-byte block checksum to form the 8-byte
// passkey hashed into the derived decryption key.
var passkeySuffix = [4]byte{0x95, 0x36, 0x00, 0x00}

// DeriveKey hashes the 8-byte passkey (checksum || passkeySuffix) with
// RIPEMD-128 to produce the 16-byte key used by DecryptKeywordIndex.
func DeriveKey(checksum [4]byte) [ripemd128.Size]byte {
	var passkey [8]byte
	copy(passkey[:4], checksum[:])
	copy(passkey[4:], passkeySuffix[:])

	return ripemd128.Sum(passkey[:])
}

// DecryptKeywordIndex reverses MDict's keyword-index cipher in place.
//
// For each byte at position i (prev initialized to 0x36):
//
//	nibbleSwapped = ((b >> 4) | (b << 4)) & 0xFF
//	out           = nibbleSwapped XOR prev XOR (i & 0xFF) XOR key[i % 16]
//	prev          = b (the original, undecrypted byte)
//
// The transform is its own structural mirror for encryption, but only
// decryption is needed by a reader.
func DecryptKeywordIndex(data []byte, checksum [4]byte) {
	key := DeriveKey(checksum)

	var prev byte = 0x36
	for i, b := range data {
		nibbleSwapped := ((b >> 4) | (b << 4)) & 0xFF
		out := nibbleSwapped ^ prev ^ byte(i&0xFF) ^ key[i%len(key)]
		prev = b
		data[i] = out
	}
}
