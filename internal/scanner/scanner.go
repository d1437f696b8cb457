// Package scanner implements the cursor over an in-memory MDict byte buffer
// described in the core design: big-endian integers, sized and
// NUL-terminated text in the dictionary's configured encoding, and
// compressed/encrypted sub-blocks. Scanners are cheap; callers spawn a new one
// per parsed region rather than sharing state across unrelated reads.
package scanner

import (
	"fmt"

	"github.com/gomdict/mdict/compress"
	"github.com/gomdict/mdict/endian"
	"github.com/gomdict/mdict/errs"
	"github.com/gomdict/mdict/format"
	"github.com/gomdict/mdict/internal/charset"
	"github.com/gomdict/mdict/internal/pool"
)

var beEngine = endian.GetBigEndianEngine()

// Config carries the version- and encoding-dependent behavior every Scanner
// needs: whether the dictionary is a v2 (GeneratedByEngineVersion >= 2.0) file
// and its text encoding. Decryptors are passed per call to ReadBlock.
type Config struct {
	// V2 selects the wider wire widths: 64-bit numbers (low 32 bits
	// significant), 16-bit shorts, and one code unit of tail padding after
	// text fields.
	V2 bool
	// Encoding selects the text codec for ReadText and ReadTextSized.
	Encoding format.Encoding
}

// BytesPerUnit returns the width of one text unit: 2 for UTF-16, 1 otherwise.
func (c Config) BytesPerUnit() int { return c.Encoding.BytesPerUnit() }

// Tail returns the padding, in bytes, following a text field: one code unit
// in v2 files, none in v1.
func (c Config) Tail() int {
	if c.V2 {
		return c.BytesPerUnit()
	}

	return 0
}

// Decryptor decrypts an encrypted block payload in place, deriving its key
// from the block's 4-byte checksum. Implemented by crypto.DecryptKeywordIndex.
type Decryptor func(data []byte, checksum [4]byte)

// Scanner is a positioned cursor over an immutable byte buffer.
type Scanner struct {
	buf []byte
	pos int
	cfg Config
}

// New returns a Scanner positioned at the start of buf.
func New(buf []byte, cfg Config) *Scanner {
	return &Scanner{buf: buf, cfg: cfg}
}

// Pos returns the current cursor position.
func (s *Scanner) Pos() int { return s.pos }

// Len returns the number of unread bytes.
func (s *Scanner) Len() int { return len(s.buf) - s.pos }

// Config returns the scanner's configuration.
func (s *Scanner) Config() Config { return s.cfg }

func (s *Scanner) require(n int) error {
	if s.Len() < n {
		return fmt.Errorf("%w: need %d bytes, have %d", errs.ErrIO, n, s.Len())
	}

	return nil
}

// ReadU8 reads one byte.
func (s *Scanner) ReadU8() (uint8, error) {
	if err := s.require(1); err != nil {
		return 0, err
	}

	v := s.buf[s.pos]
	s.pos++

	return v, nil
}

// ReadU16 reads a big-endian uint16.
func (s *Scanner) ReadU16() (uint16, error) {
	if err := s.require(2); err != nil {
		return 0, err
	}

	v := beEngine.Uint16(s.buf[s.pos : s.pos+2])
	s.pos += 2

	return v, nil
}

// ReadU32 reads a big-endian uint32.
func (s *Scanner) ReadU32() (uint32, error) {
	if err := s.require(4); err != nil {
		return 0, err
	}

	v := beEngine.Uint32(s.buf[s.pos : s.pos+4])
	s.pos += 4

	return v, nil
}

// ReadU64 reads a big-endian uint64.
func (s *Scanner) ReadU64() (uint64, error) {
	if err := s.require(8); err != nil {
		return 0, err
	}

	v := beEngine.Uint64(s.buf[s.pos : s.pos+8])
	s.pos += 8

	return v, nil
}

// ReadNum reads a version-aware "number": 32-bit in v1, or the low 32 bits of
// a 64-bit field in v2. Returns errs.ErrOffsetOverflow if the high 32 bits of
// a v2 number are non-zero and strict is true; by default (strict=false) the
// high bits are silently discarded, matching source semantics.
func (s *Scanner) ReadNum(strict bool) (uint32, error) {
	if !s.cfg.V2 {
		return s.ReadU32()
	}

	v, err := s.ReadU64()
	if err != nil {
		return 0, err
	}

	if strict && v>>32 != 0 {
		return 0, fmt.Errorf("%w: high bits set in v2 number %#x", errs.ErrOffsetOverflow, v)
	}

	return uint32(v), nil
}

// ReadShort reads a version-aware "short": 8-bit in v1, 16-bit in v2.
func (s *Scanner) ReadShort() (uint16, error) {
	if s.cfg.V2 {
		return s.ReadU16()
	}

	v, err := s.ReadU8()

	return uint16(v), err
}

// ReadRaw returns a view over the next n bytes and advances past them. The
// returned slice aliases the scanner's buffer and must not be retained beyond
// the buffer's lifetime if the caller mutates it.
func (s *Scanner) ReadRaw(n int) ([]byte, error) {
	if err := s.require(n); err != nil {
		return nil, err
	}

	v := s.buf[s.pos : s.pos+n]
	s.pos += n

	return v, nil
}

// Checksum advances 4 bytes without validating them (checksums are not
// verified by this reader, per Non-goals).
func (s *Scanner) Checksum() error {
	_, err := s.ReadU32()

	return err
}

// ReadUTF16LE decodes lenBytes bytes as fixed UTF-16LE text, independent of
// the scanner's configured Encoding (used for the XML header, which is always
// UTF-16LE regardless of the dictionary's declared text encoding).
func (s *Scanner) ReadUTF16LE(lenBytes int) (string, error) {
	raw, err := s.ReadRaw(lenBytes)
	if err != nil {
		return "", err
	}

	return charset.Decode(raw, format.EncodingUTF16)
}

// nulWidth returns the width, in bytes, of this scanner's NUL terminator: 2
// for UTF-16, 1 for single-byte-unit encodings.
func (s *Scanner) nulWidth() int {
	return s.cfg.BytesPerUnit()
}

func isNulAt(buf []byte, pos, width int) bool {
	if pos+width > len(buf) {
		return false
	}

	for i := 0; i < width; i++ {
		if buf[pos+i] != 0 {
			return false
		}
	}

	return true
}

// ReadText scans forward for a NUL terminator (one unit wide), decodes the
// prefix in the scanner's configured encoding, consumes the terminator, and
// advances past one unit of tail padding in v2 files.
func (s *Scanner) ReadText() (string, error) {
	width := s.nulWidth()
	start := s.pos

	i := start
	for {
		if i+width > len(s.buf) {
			return "", fmt.Errorf("%w: unterminated text field", errs.ErrMalformedBlock)
		}
		if isNulAt(s.buf, i, width) {
			break
		}
		i += width
	}

	raw := s.buf[start:i]
	text, err := charset.Decode(raw, s.cfg.Encoding)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrMalformedBlock, err)
	}

	s.pos = i + width + s.cfg.Tail()
	if s.pos > len(s.buf) {
		return "", fmt.Errorf("%w: text tail padding overruns buffer", errs.ErrMalformedBlock)
	}

	return text, nil
}

// ReadTextSized decodes exactly countUnits*BytesPerUnit bytes as text, then
// advances past the tail padding.
func (s *Scanner) ReadTextSized(countUnits int) (string, error) {
	n := countUnits * s.cfg.BytesPerUnit()

	raw, err := s.ReadRaw(n)
	if err != nil {
		return "", err
	}

	text, err := charset.Decode(raw, s.cfg.Encoding)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrMalformedBlock, err)
	}

	if tail := s.cfg.Tail(); tail > 0 {
		if _, err := s.ReadRaw(tail); err != nil {
			return "", err
		}
	}

	return text, nil
}

// ReadBlock reads the 8-byte block preamble (compression tag, checksum) and
// returns a fresh Scanner over the decompressed payload. compressedLen is the
// total length of the block including the 8-byte preamble. decryptor, if
// non-nil, is applied to the ciphertext before decompression. expectedDecompLen
// is used to validate deflate/LZO output size when known (pass 0 to skip the
// check, as v1 keyword indices don't declare it up front).
func (s *Scanner) ReadBlock(compressedLen int, expectedDecompLen int, decryptor Decryptor) (*Scanner, error) {
	if compressedLen < 8 {
		return nil, fmt.Errorf("%w: block length %d shorter than preamble", errs.ErrMalformedBlock, compressedLen)
	}

	tagRaw, err := s.ReadU32()
	if err != nil {
		return nil, err
	}

	var checksum [4]byte
	checksumRaw, err := s.ReadRaw(4)
	if err != nil {
		return nil, err
	}
	copy(checksum[:], checksumRaw)

	payloadLen := compressedLen - 8
	payload, err := s.ReadRaw(payloadLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrMalformedBlock, err)
	}

	tag := format.CompressionTag(tagRaw)
	if tag == format.CompressionNone {
		return New(payload, s.cfg), nil
	}

	plain := payload
	if decryptor != nil {
		// ReadRaw aliases the scanner's underlying buffer, so stage the
		// ciphertext in a pooled buffer before decrypting in place; the
		// buffer is returned once Decompress has produced its own
		// freshly-allocated output below.
		bb := pool.GetBlobBuffer()
		defer pool.PutBlobBuffer(bb)

		bb.Grow(len(payload))
		bb.SetLength(len(payload))
		copy(bb.Bytes(), payload)

		plain = bb.Bytes()
		decryptor(plain, checksum)
	}

	codec, err := compress.Get(tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrMalformedBlock, err)
	}

	decompressed, err := codec.Decompress(plain, expectedDecompLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrMalformedBlock, err)
	}

	if expectedDecompLen > 0 && len(decompressed) != expectedDecompLen {
		return nil, fmt.Errorf("%w: decompressed %d bytes, expected %d",
			errs.ErrMalformedBlock, len(decompressed), expectedDecompLen)
	}

	return New(decompressed, s.cfg), nil
}
