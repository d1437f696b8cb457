// Package compress provides the two block decompressors MDict uses: raw
// deflate and LZO1X. Both are invoked by internal/scanner when it encounters
// a compressed block header; neither is exposed for general-purpose use
// outside this module.
package compress

import (
	"fmt"

	"github.com/gomdict/mdict/format"
)

// Decompressor decompresses a single MDict block payload (the bytes after the
// 8-byte compression-tag/checksum preamble).
//
// expectedLen is the decompressed size declared by the surrounding index entry
// when known, or 0 when it is not (v1 keyword indices don't declare it up
// front); implementations may use it to preallocate the output buffer but
// must not treat a mismatch as fatal themselves — the caller validates it.
type Decompressor interface {
	Decompress(data []byte, expectedLen int) ([]byte, error)
}

// Get returns the Decompressor for the given on-disk compression tag.
func Get(tag format.CompressionTag) (Decompressor, error) {
	switch tag {
	case format.CompressionNone:
		return noopDecompressor{}, nil
	case format.CompressionDeflate:
		return deflateDecompressor{}, nil
	case format.CompressionLZO:
		return lzoDecompressor{}, nil
	default:
		return nil, fmt.Errorf("compress: unknown compression tag %d", tag)
	}
}
