// Package errs defines the sentinel error values returned by the mdict packages.
//
// Callers should compare against these values with errors.Is, since the errors
// this module returns for dictionary failures wrap one of them with additional
// context via fmt.Errorf and the %w verb. A cancelled or expired context's error
// is returned as is.
package errs

import "errors"

var (
	// ErrBadHeader is returned when the dictionary header cannot be parsed: the
	// declared length is implausible, the embedded XML is malformed, or the
	// Dictionary/Library_Data element is missing.
	ErrBadHeader = errors.New("mdict: bad header")

	// ErrMalformedBlock is returned when a compressed block has an unknown
	// compression tag, is truncated, fails codec decompression, or its
	// decompressed size disagrees with the declared size.
	ErrMalformedBlock = errors.New("mdict: malformed block")

	// ErrDecryption is returned when the dictionary declares header-section
	// encryption (Encrypted bit 0), which requires an external registration
	// key this reader does not support.
	ErrDecryption = errors.New("mdict: header encryption not supported")

	// ErrNotFound is returned when no keyword matches a query after collision
	// resolution.
	ErrNotFound = errors.New("mdict: keyword not found")

	// ErrLinkCycle is returned when an @@@LINK= redirect chain exceeds the
	// maximum resolution depth.
	ErrLinkCycle = errors.New("mdict: link cycle exceeded maximum depth")

	// ErrIO is returned when the underlying file source fails or returns a
	// short read.
	ErrIO = errors.New("mdict: io error")

	// ErrOffsetOverflow is returned when a v2 64-bit field has non-zero high
	// bits in strict mode, or a computed offset would exceed the 4 GiB
	// addressing limit this reader supports.
	ErrOffsetOverflow = errors.New("mdict: offset exceeds 32-bit addressing limit")

	// ErrClosed reports use of a closed dictionary. Dictionary.Close does not
	// mark the Dictionary closed, and no operation in this module returns
	// ErrClosed.
	ErrClosed = errors.New("mdict: dictionary is closed")
)
