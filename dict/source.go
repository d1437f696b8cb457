package dict

import (
	"context"
	"fmt"
	"io"

	"github.com/gomdict/mdict/errs"
)

// source wraps the caller's io.ReaderAt with context cancellation, so each
// parse step or lookup can request an arbitrary byte range without the
// caller managing offsets into a giant in-memory file image.
type source struct {
	r    io.ReaderAt
	size int64
}

func newSource(r io.ReaderAt, size int64) *source {
	return &source{r: r, size: size}
}

// readAt returns a freshly-owned copy of the n bytes at offset. ctx is
// checked before issuing the read so a cancelled lookup never starts a new
// suspension point.
func (s *source) readAt(ctx context.Context, offset int64, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 || n < 0 || offset+int64(n) > s.size {
		return nil, fmt.Errorf("%w: read [%d,%d) exceeds file size %d", errs.ErrIO, offset, offset+int64(n), s.size)
	}

	out := make([]byte, n)
	if _, err := s.r.ReadAt(out, offset); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	return out, nil
}
