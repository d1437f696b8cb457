package ripemd128

import (
	"encoding/binary"
	"math/bits"
)

// Message word selection order per round (16 entries each), left and right lines.
var nLeft = [4][16]uint{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{7, 4, 13, 1, 10, 6, 15, 3, 12, 0, 9, 5, 2, 14, 11, 8},
	{3, 10, 14, 4, 9, 15, 8, 1, 2, 7, 0, 6, 13, 11, 5, 12},
	{1, 9, 11, 10, 0, 8, 12, 4, 13, 3, 7, 15, 14, 5, 6, 2},
}

var nRight = [4][16]uint{
	{5, 14, 7, 0, 9, 2, 11, 4, 13, 6, 15, 8, 1, 10, 3, 12},
	{6, 11, 3, 7, 0, 13, 5, 10, 14, 15, 8, 12, 4, 9, 1, 2},
	{15, 5, 1, 3, 7, 14, 6, 9, 11, 8, 12, 2, 10, 0, 4, 13},
	{8, 6, 4, 1, 3, 11, 15, 0, 5, 12, 2, 13, 9, 7, 10, 14},
}

// Rotation amounts per round, left and right lines.
var rLeft = [4][16]uint{
	{11, 14, 15, 12, 5, 8, 7, 9, 11, 13, 14, 15, 6, 7, 9, 8},
	{7, 6, 8, 13, 11, 9, 7, 15, 7, 12, 15, 9, 11, 7, 13, 12},
	{11, 13, 6, 7, 14, 9, 13, 15, 14, 8, 13, 6, 5, 12, 7, 5},
	{11, 12, 14, 15, 14, 15, 9, 8, 9, 14, 5, 6, 8, 6, 5, 12},
}

var rRight = [4][16]uint{
	{8, 9, 9, 11, 13, 15, 15, 5, 7, 7, 8, 11, 14, 14, 12, 6},
	{9, 13, 15, 7, 12, 8, 9, 11, 7, 7, 12, 7, 6, 15, 13, 11},
	{9, 7, 15, 11, 8, 6, 6, 14, 12, 13, 5, 14, 13, 13, 7, 5},
	{15, 5, 8, 11, 14, 14, 6, 14, 6, 9, 12, 9, 12, 5, 15, 8},
}

// Round constants, left and right lines.
var kLeft = [4]uint32{0x00000000, 0x5a827999, 0x6ed9eba1, 0x8f1bbcdc}
var kRight = [4]uint32{0x50a28be6, 0x5c4dd124, 0x6d703ef3, 0x00000000}

func f1(x, y, z uint32) uint32 { return x ^ y ^ z }
func f2(x, y, z uint32) uint32 { return (x & y) | (^x & z) }
func f3(x, y, z uint32) uint32 { return (x | ^y) ^ z }
func f4(x, y, z uint32) uint32 { return (x & z) | (y & ^z) }

// fLeft[round] is the nonlinear function used in that round of the left line.
var fLeft = [4]func(x, y, z uint32) uint32{f1, f2, f3, f4}

// fRight[round] mirrors fLeft in reverse order, per the RIPEMD-128 specification.
var fRight = [4]func(x, y, z uint32) uint32{f4, f3, f2, f1}

// block processes one or more 64-byte chunks from p, updating d.s.
func block(d *digest, p []byte) {
	var x [16]uint32

	for len(p) >= BlockSize {
		for i := 0; i < 16; i++ {
			x[i] = binary.LittleEndian.Uint32(p[i*4:])
		}

		a, b, c, dd := d.s[0], d.s[1], d.s[2], d.s[3]
		aa, bb, cc, ddd := d.s[0], d.s[1], d.s[2], d.s[3]

		for round := 0; round < 4; round++ {
			f := fLeft[round]
			k := kLeft[round]
			for i := 0; i < 16; i++ {
				t := bits.RotateLeft32(a+f(b, c, dd)+x[nLeft[round][i]]+k, int(rLeft[round][i]))
				a, dd, c, b = dd, c, b, t
			}
		}

		for round := 0; round < 4; round++ {
			f := fRight[round]
			k := kRight[round]
			for i := 0; i < 16; i++ {
				t := bits.RotateLeft32(aa+f(bb, cc, ddd)+x[nRight[round][i]]+k, int(rRight[round][i]))
				aa, ddd, cc, bb = ddd, cc, bb, t
			}
		}

		t := d.s[1] + c + ddd
		d.s[1] = d.s[2] + dd + aa
		d.s[2] = d.s[3] + a + bb
		d.s[3] = d.s[0] + b + cc
		d.s[0] = t

		p = p[BlockSize:]
	}
}
