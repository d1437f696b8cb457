// Package compress implements MDict's two block compression schemes.
//
// Unlike the teacher codebase this package's layout descends from, MDict's
// wire format fixes the compression choice per block to one of exactly three
// tags (none, LZO1X, raw deflate) rather than offering a pluggable set of
// general-purpose codecs, so this package exposes a single Decompressor
// interface selected by Get(tag) instead of a Compressor/Codec pair.
package compress
