// Package ripemd128 implements the RIPEMD-128 cryptographic hash function.
//
// MDict's keyword-index decryptor (crypto.DecryptKeywordIndex) derives its
// per-block key by hashing an 8-byte passkey with RIPEMD-128. No third-party
// Go module in the retrieval corpus implements RIPEMD-128 — golang.org/x/crypto
// carries only RIPEMD-160 — so this package is a from-scratch, from-the-algorithm
// implementation rather than an adaptation of an existing one; see the root
// DESIGN.md for the full justification.
//
// The implementation follows the reference specification (Dobbertin, Bosselaers,
// Preneel, 1996): a Merkle–Damgård construction over 64-byte blocks with two
// parallel compression lines whose results are combined at the end of each
// block, producing a 128-bit (16-byte) digest.
package ripemd128

import "encoding/binary"

// Size is the digest size of RIPEMD-128 in bytes.
const Size = 16

// BlockSize is the block size of RIPEMD-128 in bytes.
const BlockSize = 64

const (
	s0 = 0x67452301
	s1 = 0xefcdab89
	s2 = 0x98badcfe
	s3 = 0x10325476
)

// digest implements hash.Hash for RIPEMD-128.
type digest struct {
	s   [4]uint32
	x   [BlockSize]byte
	nx  int
	len uint64
}

// New returns a new hash computing the RIPEMD-128 checksum.
func New() *digest { //nolint:revive // unexported-return mirrors stdlib hash constructors
	d := &digest{}
	d.Reset()

	return d
}

func (d *digest) Reset() {
	d.s[0], d.s[1], d.s[2], d.s[3] = s0, s1, s2, s3
	d.nx = 0
	d.len = 0
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return BlockSize }

func (d *digest) Write(p []byte) (n int, err error) {
	n = len(p)
	d.len += uint64(n)

	if d.nx > 0 {
		c := copy(d.x[d.nx:], p)
		d.nx += c
		p = p[c:]
		if d.nx == BlockSize {
			block(d, d.x[:])
			d.nx = 0
		}
	}

	for len(p) >= BlockSize {
		block(d, p[:BlockSize])
		p = p[BlockSize:]
	}

	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}

	return n, nil
}

func (d *digest) Sum(in []byte) []byte {
	d0 := *d
	hash := d0.checkSum()

	return append(in, hash[:]...)
}

func (d *digest) checkSum() [Size]byte {
	length := d.len

	var tmp [BlockSize]byte
	tmp[0] = 0x80

	if length%64 < 56 {
		d.Write(tmp[0 : 56-length%64])
	} else {
		d.Write(tmp[0 : 64+56-length%64])
	}

	length <<= 3

	binary.LittleEndian.PutUint64(tmp[:8], length)
	d.Write(tmp[0:8])

	if d.nx != 0 {
		panic("ripemd128: d.nx != 0")
	}

	var digest [Size]byte
	binary.LittleEndian.PutUint32(digest[0:4], d.s[0])
	binary.LittleEndian.PutUint32(digest[4:8], d.s[1])
	binary.LittleEndian.PutUint32(digest[8:12], d.s[2])
	binary.LittleEndian.PutUint32(digest[12:16], d.s[3])

	return digest
}

// Sum returns the RIPEMD-128 checksum of data.
func Sum(data []byte) [Size]byte {
	d := New()
	_, _ = d.Write(data)

	return d.checkSum()
}
