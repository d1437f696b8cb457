// Package mdict provides a convenient top-level API for opening and
// querying MDict (.mdx/.mdd) dictionary files, built around io.ReaderAt so
// callers can back a Dictionary with an *os.File, a memory-mapped region, or
// any other random-access source.
//
// # Basic usage
//
//	h, err := mdict.OpenFile(ctx, "oald.mdx")
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	defs, err := h.Lookup(ctx, "apple")
//
// For custom io.ReaderAt sources, use the dict package directly.
package mdict

import (
	"context"
	"os"
	"strings"

	"github.com/gomdict/mdict/dict"
	"github.com/gomdict/mdict/format"
)

// Re-exported so callers configuring Open need only import this package.
type (
	Dictionary = dict.Dictionary
	Definition = dict.Definition
	OpenOption = dict.OpenOption
)

var (
	WithKind        = dict.WithKind
	WithScanMode    = dict.WithScanMode
	WithExpressMode = dict.WithExpressMode
	WithCacheSize   = dict.WithCacheSize
	WithMetrics     = dict.WithMetrics
)

// Handle pairs an opened Dictionary with the file backing it, so a single
// Close releases both.
type Handle struct {
	*Dictionary

	file *os.File
}

// Close releases the Dictionary and closes the underlying file.
func (h *Handle) Close() error {
	if err := h.Dictionary.Close(); err != nil {
		h.file.Close()

		return err
	}

	return h.file.Close()
}

// OpenFile opens path as an mdx or mdd dictionary. Kind is inferred from the
// file extension (.mdd vs anything else) unless overridden with WithKind.
func OpenFile(ctx context.Context, path string, opts ...OpenOption) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()

		return nil, err
	}

	allOpts := make([]OpenOption, 0, len(opts)+1)
	allOpts = append(allOpts, WithKind(inferKind(path)))
	allOpts = append(allOpts, opts...)

	d, err := dict.Open(ctx, f, info.Size(), allOpts...)
	if err != nil {
		f.Close()

		return nil, err
	}

	return &Handle{Dictionary: d, file: f}, nil
}

func inferKind(path string) format.Kind {
	if strings.HasSuffix(strings.ToLower(path), ".mdd") {
		return format.KindMDD
	}

	return format.KindMDX
}
