package compress

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
)

// flateReaderPool pools klauspost/compress/flate readers; flate.NewReader
// allocates a sizable internal window that benefits from reuse across blocks.
var flateReaderPool = sync.Pool{
	New: func() any {
		return flate.NewReader(bytes.NewReader(nil))
	},
}

// deflateDecompressor handles compression tag 2: raw (headerless) deflate,
// as produced by MDict's writers. Decoding goes through klauspost/compress,
// which both the teacher repo and the wider retrieval corpus depend on for
// deflate-family codecs, rather than the slower standard library flate.
type deflateDecompressor struct{}

func (deflateDecompressor) Decompress(data []byte, expectedLen int) ([]byte, error) {
	fr, _ := flateReaderPool.Get().(flate.Resetter)
	if err := fr.Reset(bytes.NewReader(data), nil); err != nil {
		return nil, err
	}
	defer flateReaderPool.Put(fr)

	r, _ := fr.(io.Reader)

	var out bytes.Buffer
	if expectedLen > 0 {
		out.Grow(expectedLen)
	}

	if _, err := io.Copy(&out, r); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
