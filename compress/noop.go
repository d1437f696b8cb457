package compress

// noopDecompressor handles compression tag 0: the block payload is already
// plaintext. internal/scanner.ReadBlock actually special-cases tag 0 before
// reaching a codec, so this exists mainly so Get never returns a nil
// Decompressor for a recognized tag.
type noopDecompressor struct{}

func (noopDecompressor) Decompress(data []byte, _ int) ([]byte, error) {
	return data, nil
}
