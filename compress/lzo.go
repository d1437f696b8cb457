package compress

import (
	"errors"

	"github.com/woozymasta/lzo"
)

// lzoDecompressor handles compression tag 1: LZO1X, as produced by MDict's
// writers with a 4 KiB working-window hint. The corpus's only LZO
// implementation is github.com/woozymasta/lzo, whose Decompress requires the
// exact output length up front since it allocates a fixed-size destination
// buffer. Keyword and record block index entries normally declare this size;
// when it isn't known (a v1 keyword index doesn't pre-declare its decompressed
// length), probe with a growing buffer and retry on ErrOutputOverrun.
type lzoDecompressor struct{}

const maxLZOProbeBytes = 128 * 1024 * 1024 // 128MiB safety limit

func (lzoDecompressor) Decompress(data []byte, expectedLen int) ([]byte, error) {
	if expectedLen > 0 {
		return lzo.Decompress(data, &lzo.DecompressOptions{OutLen: expectedLen})
	}

	probe := len(data) * 8
	if probe < 4096 {
		probe = 4096
	}

	for probe <= maxLZOProbeBytes {
		out, err := lzo.Decompress(data, &lzo.DecompressOptions{OutLen: probe})
		if err == nil {
			return out, nil
		}
		if errors.Is(err, lzo.ErrOutputOverrun) {
			probe *= 2

			continue
		}

		return nil, err
	}

	return nil, lzo.ErrOutputOverrun
}
