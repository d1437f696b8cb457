package ripemd128

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum_KnownVectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "cdf26213a150dc3ecb610f18f6b38b46"},
		{"a", "86be7afa339d0fc7cfc785e72f578d33"},
		{"abc", "c14a12199c66e4ba84636b0f69144c77"},
		{"message digest", "9e327b3d6e523062afc1132d7df9d1b8"},
		{"abcdefghijklmnopqrstuvwxyz", "fd2aa607f71dc8f510714922b371834e"},
	}

	for _, tc := range cases {
		got := Sum([]byte(tc.in))
		require.Equal(t, tc.want, hex.EncodeToString(got[:]), "input %q", tc.in)
	}
}

func TestSum_MillionAs(t *testing.T) {
	got := Sum([]byte(strings.Repeat("a", 1_000_000)))
	require.Equal(t, "4a7f5723f954eba1216c9d8f6320431f", hex.EncodeToString(got[:]))
}

func TestWrite_Streaming(t *testing.T) {
	input := "message digest"
	d := New()
	for _, b := range []byte(input) {
		_, err := d.Write([]byte{b})
		require.NoError(t, err)
	}
	sum := d.Sum(nil)
	require.Equal(t, "9e327b3d6e523062afc1132d7df9d1b8", hex.EncodeToString(sum))
}
