package dict_test

import (
	"bytes"
	"compress/flate"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"

	"github.com/gomdict/mdict/dict"
	"github.com/gomdict/mdict/errs"
	"github.com/gomdict/mdict/format"
)

// fixtureEntry is one keyword/record pair used to assemble a synthetic
// dictionary file. Key must already be in its final adapted (case-folded,
// and for mdd, path-normalized) form, and entries must be supplied in
// ascending adapted-key order, matching how a real keyword index is laid
// out on disk.
type fixtureEntry struct {
	Key  string
	Data []byte
}

func encodeUTF16LE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)

	for _, u := range units {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, u)
		out = append(out, b...)
	}

	return out
}

func encodeText(s string, enc format.Encoding) []byte {
	if enc == format.EncodingUTF16 {
		return encodeUTF16LE(s)
	}

	return []byte(s)
}

func unitLen(s string, enc format.Encoding) int {
	return len(encodeText(s, enc)) / enc.BytesPerUnit()
}

func writeNum(buf *bytes.Buffer, v2 bool, v uint32) {
	if v2 {
		_ = binary.Write(buf, binary.BigEndian, uint64(v))

		return
	}

	_ = binary.Write(buf, binary.BigEndian, v)
}

func writeShort(buf *bytes.Buffer, v2 bool, v uint16) {
	if v2 {
		_ = binary.Write(buf, binary.BigEndian, v)

		return
	}

	_ = binary.Write(buf, binary.BigEndian, uint8(v))
}

func writeTextSized(buf *bytes.Buffer, v2 bool, s string, enc format.Encoding) {
	buf.Write(encodeText(s, enc))

	if v2 {
		buf.Write(make([]byte, enc.BytesPerUnit()))
	}
}

func writeTextTerminated(buf *bytes.Buffer, v2 bool, s string, enc format.Encoding) {
	buf.Write(encodeText(s, enc))
	buf.Write(make([]byte, enc.BytesPerUnit())) // NUL terminator

	if v2 {
		buf.Write(make([]byte, enc.BytesPerUnit())) // v2 tail padding
	}
}

func deflateRaw(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestSpeed)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// buildFixture assembles a complete, minimal MDict file in memory: one
// keyword block (optionally deflate-compressed) and one record block
// (always stored uncompressed), holding exactly the given entries.
func buildFixture(t *testing.T, kind format.Kind, v2 bool, enc format.Encoding, keyTag format.CompressionTag, entries []fixtureEntry) []byte {
	t.Helper()
	require.NotEmpty(t, entries)

	// Record stream: each entry's data, NUL-terminated for mdx (trimmed back
	// off by the reader), stored raw for mdd.
	var recordStream bytes.Buffer
	offsets := make([]int, len(entries))

	for i, e := range entries {
		offsets[i] = recordStream.Len()
		recordStream.Write(e.Data)

		if kind == format.KindMDX {
			recordStream.WriteByte(0)
		}
	}

	// Key block payload: (record_offset, keyword) pairs.
	var keyPayload bytes.Buffer

	for i, e := range entries {
		writeNum(&keyPayload, v2, uint32(offsets[i]))
		writeTextTerminated(&keyPayload, v2, e.Key, enc)
	}

	var compressedKeyPayload []byte

	switch keyTag {
	case format.CompressionDeflate:
		compressedKeyPayload = deflateRaw(t, keyPayload.Bytes())
	default:
		compressedKeyPayload = keyPayload.Bytes()
	}

	var keyBlock bytes.Buffer
	_ = binary.Write(&keyBlock, binary.BigEndian, uint32(keyTag))
	_ = binary.Write(&keyBlock, binary.BigEndian, uint32(0)) // checksum, unverified
	keyBlock.Write(compressedKeyPayload)

	// Keyword index: one entry describing the single key block above.
	var indexPayload bytes.Buffer
	writeNum(&indexPayload, v2, uint32(len(entries)))
	writeShort(&indexPayload, v2, uint16(unitLen(entries[0].Key, enc)))
	writeTextSized(&indexPayload, v2, entries[0].Key, enc)
	last := entries[len(entries)-1]
	writeShort(&indexPayload, v2, uint16(unitLen(last.Key, enc)))
	writeTextSized(&indexPayload, v2, last.Key, enc)
	writeNum(&indexPayload, v2, uint32(keyBlock.Len()))
	writeNum(&indexPayload, v2, uint32(keyPayload.Len()))

	var indexBlock bytes.Buffer
	_ = binary.Write(&indexBlock, binary.BigEndian, uint32(format.CompressionNone))
	_ = binary.Write(&indexBlock, binary.BigEndian, uint32(0))
	indexBlock.Write(indexPayload.Bytes())

	var keywordSummary bytes.Buffer
	writeNum(&keywordSummary, v2, 1)
	writeNum(&keywordSummary, v2, uint32(len(entries)))

	if v2 {
		writeNum(&keywordSummary, v2, uint32(indexPayload.Len()))
	}

	writeNum(&keywordSummary, v2, uint32(indexBlock.Len()))
	writeNum(&keywordSummary, v2, uint32(keyBlock.Len()))

	if v2 {
		_ = binary.Write(&keywordSummary, binary.BigEndian, uint32(0))
	}

	// Record section: one uncompressed record block.
	var recordBlock bytes.Buffer
	_ = binary.Write(&recordBlock, binary.BigEndian, uint32(format.CompressionNone))
	_ = binary.Write(&recordBlock, binary.BigEndian, uint32(0))
	recordBlock.Write(recordStream.Bytes())

	var recordBlockIndex bytes.Buffer
	writeNum(&recordBlockIndex, v2, uint32(recordBlock.Len()))
	writeNum(&recordBlockIndex, v2, uint32(recordStream.Len()))

	var recordSummary bytes.Buffer
	writeNum(&recordSummary, v2, 1)
	writeNum(&recordSummary, v2, uint32(len(entries)))
	writeNum(&recordSummary, v2, uint32(recordBlockIndex.Len()))
	writeNum(&recordSummary, v2, uint32(recordBlock.Len()))

	// Header.
	ver := "1.2"
	if v2 {
		ver = "2.0"
	}

	xml := fmt.Sprintf(`<Dictionary GeneratedByEngineVersion="%s" Encrypted="0" Encoding="%s" KeyCaseSensitive="No" StripKey="No"/>`, ver, enc.String())
	headerBytes := encodeUTF16LE(xml + "\x00")

	var file bytes.Buffer
	_ = binary.Write(&file, binary.BigEndian, uint32(len(headerBytes)))
	file.Write(headerBytes)
	_ = binary.Write(&file, binary.BigEndian, uint32(0)) // header checksum

	file.Write(keywordSummary.Bytes())
	file.Write(indexBlock.Bytes())
	file.Write(keyBlock.Bytes())
	file.Write(recordSummary.Bytes())
	file.Write(recordBlockIndex.Bytes())
	file.Write(recordBlock.Bytes())

	return file.Bytes()
}

// buildCrossBlockFixture assembles a v1, uncompressed, case-insensitive mdx
// fixture with two keyword blocks sharing a single record block. "Ink" ends
// the first key block but isn't the dictionary's last keyword, so its
// record size must come from the second key block's first record_offset
// rather than the record block's end; and the lookup key "ink" only lands on
// the first block if FirstWord/LastWord are compared in adapted (lower-cased)
// form rather than as stored on disk ("Hello"/"Ink" vs "Jelly"/"Kite").
func buildCrossBlockFixture(t *testing.T) []byte {
	t.Helper()

	enc := format.EncodingUTF8
	block0 := []fixtureEntry{
		{Key: "Hello", Data: []byte("greeting word")},
		{Key: "Ink", Data: []byte("writing fluid")},
	}
	block1 := []fixtureEntry{
		{Key: "Jelly", Data: []byte("fruit preserve")},
		{Key: "Kite", Data: []byte("flying toy")},
	}

	var recordStream bytes.Buffer
	offsets := make(map[string]int)

	for _, e := range append(append([]fixtureEntry{}, block0...), block1...) {
		offsets[e.Key] = recordStream.Len()
		recordStream.Write(e.Data)
		recordStream.WriteByte(0)
	}

	buildKeyBlock := func(entries []fixtureEntry) (block, index bytes.Buffer) {
		var payload bytes.Buffer

		for _, e := range entries {
			writeNum(&payload, false, uint32(offsets[e.Key]))
			writeTextTerminated(&payload, false, e.Key, enc)
		}

		_ = binary.Write(&block, binary.BigEndian, uint32(format.CompressionNone))
		_ = binary.Write(&block, binary.BigEndian, uint32(0))
		block.Write(payload.Bytes())

		first, last := entries[0], entries[len(entries)-1]
		writeNum(&index, false, uint32(len(entries)))
		writeShort(&index, false, uint16(unitLen(first.Key, enc)))
		writeTextSized(&index, false, first.Key, enc)
		writeShort(&index, false, uint16(unitLen(last.Key, enc)))
		writeTextSized(&index, false, last.Key, enc)
		writeNum(&index, false, uint32(block.Len()))
		writeNum(&index, false, uint32(payload.Len()))

		return block, index
	}

	block0Bytes, index0 := buildKeyBlock(block0)
	block1Bytes, index1 := buildKeyBlock(block1)

	var indexPayload bytes.Buffer
	indexPayload.Write(index0.Bytes())
	indexPayload.Write(index1.Bytes())

	var indexBlock bytes.Buffer
	_ = binary.Write(&indexBlock, binary.BigEndian, uint32(format.CompressionNone))
	_ = binary.Write(&indexBlock, binary.BigEndian, uint32(0))
	indexBlock.Write(indexPayload.Bytes())

	totalEntries := len(block0) + len(block1)

	var keywordSummary bytes.Buffer
	writeNum(&keywordSummary, false, 2)
	writeNum(&keywordSummary, false, uint32(totalEntries))
	writeNum(&keywordSummary, false, uint32(indexBlock.Len()))
	writeNum(&keywordSummary, false, uint32(block0Bytes.Len()+block1Bytes.Len()))

	var recordBlock bytes.Buffer
	_ = binary.Write(&recordBlock, binary.BigEndian, uint32(format.CompressionNone))
	_ = binary.Write(&recordBlock, binary.BigEndian, uint32(0))
	recordBlock.Write(recordStream.Bytes())

	var recordBlockIndex bytes.Buffer
	writeNum(&recordBlockIndex, false, uint32(recordBlock.Len()))
	writeNum(&recordBlockIndex, false, uint32(recordStream.Len()))

	var recordSummary bytes.Buffer
	writeNum(&recordSummary, false, 1)
	writeNum(&recordSummary, false, uint32(totalEntries))
	writeNum(&recordSummary, false, uint32(recordBlockIndex.Len()))
	writeNum(&recordSummary, false, uint32(recordBlock.Len()))

	xml := `<Dictionary GeneratedByEngineVersion="1.2" Encrypted="0" Encoding="UTF-8" KeyCaseSensitive="No" StripKey="No"/>`
	headerBytes := encodeUTF16LE(xml + "\x00")

	var file bytes.Buffer
	_ = binary.Write(&file, binary.BigEndian, uint32(len(headerBytes)))
	file.Write(headerBytes)
	_ = binary.Write(&file, binary.BigEndian, uint32(0))

	file.Write(keywordSummary.Bytes())
	file.Write(indexBlock.Bytes())
	file.Write(block0Bytes.Bytes())
	file.Write(block1Bytes.Bytes())
	file.Write(recordSummary.Bytes())
	file.Write(recordBlockIndex.Bytes())
	file.Write(recordBlock.Bytes())

	return file.Bytes()
}

func TestLookup_ScanMode_CrossBlockBoundaries(t *testing.T) {
	d := openFixture(t, buildCrossBlockFixture(t), dict.WithScanMode())

	// "ink" only resolves to the first key block ("Hello".."Ink") if its
	// range is compared against the lookup phrase in adapted (lower-cased)
	// form; compared raw, the adapted query sorts after every upper-cased
	// bound and the search lands on the last block instead.
	defs, err := d.Lookup(context.Background(), "ink")
	require.NoError(t, err)
	require.Len(t, defs, 1)

	// "Ink" is the last entry of its key block but not the dictionary's last
	// keyword; its size must come from the next key block's first
	// record_offset, not the shared record block's end, or this text would
	// swallow "jelly"'s and "kite"'s records too.
	require.Equal(t, "writing fluid", defs[0].Text)

	defs, err = d.Lookup(context.Background(), "kite")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "flying toy", defs[0].Text)
}

func mdxFixture(t *testing.T) []byte {
	t.Helper()

	return buildFixture(t, format.KindMDX, true, format.EncodingUTF8, format.CompressionDeflate, []fixtureEntry{
		{Key: "hello", Data: []byte("greeting word")},
		{Key: "hi", Data: []byte("@@@LINK=hello")},
		{Key: "world", Data: []byte("the earth")},
	})
}

func openFixture(t *testing.T, data []byte, opts ...dict.OpenOption) *dict.Dictionary {
	t.Helper()

	d, err := dict.Open(context.Background(), bytes.NewReader(data), int64(len(data)), opts...)
	require.NoError(t, err)

	return d
}

func TestLookup_ExpressMode_DeflateKeyBlockWithLink(t *testing.T) {
	d := openFixture(t, mdxFixture(t))

	defs, err := d.Lookup(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "greeting word", defs[0].Text)

	defs, err = d.Lookup(context.Background(), "WORLD")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "the earth", defs[0].Text)
}

func TestLookup_ExpressMode_ResolvesLink(t *testing.T) {
	d := openFixture(t, mdxFixture(t))

	defs, err := d.Lookup(context.Background(), "hi")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "greeting word", defs[0].Text)
}

func TestLookup_ScanMode_MatchesExpressMode(t *testing.T) {
	data := mdxFixture(t)
	scanDict := openFixture(t, data, dict.WithScanMode())

	defs, err := scanDict.Lookup(context.Background(), "hi")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "greeting word", defs[0].Text)

	defs, err = scanDict.Lookup(context.Background(), "world")
	require.NoError(t, err)
	require.Equal(t, "the earth", defs[0].Text)
}

func TestLookup_NotFound(t *testing.T) {
	d := openFixture(t, mdxFixture(t))

	_, err := d.Lookup(context.Background(), "nope")
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestSearch_ExpressAndScanMode(t *testing.T) {
	data := mdxFixture(t)

	express := openFixture(t, data)
	candidates, err := express.Search(context.Background(), "h")
	require.NoError(t, err)
	require.Equal(t, []string{"hello", "hi", "world"}, candidates)

	scan := openFixture(t, data, dict.WithScanMode())
	candidates, err = scan.Search(context.Background(), "h")
	require.NoError(t, err)
	require.Equal(t, []string{"hello", "hi", "world"}, candidates)
}

func TestLookup_MDDPathNormalization(t *testing.T) {
	resource := []byte{0x01, 0x02, 0x03, 0x04}
	data := buildFixture(t, format.KindMDD, false, format.EncodingUTF8, format.CompressionNone, []fixtureEntry{
		{Key: `\img\a.png`, Data: resource},
	})

	d := openFixture(t, data, dict.WithKind(format.KindMDD))

	for _, phrase := range []string{`img/a.png`, `/img/a.png`, `\img\a.png`} {
		defs, err := d.Lookup(context.Background(), phrase)
		require.NoError(t, err, "phrase %q", phrase)
		require.Len(t, defs, 1)
		require.Equal(t, resource, defs[0].Data)
	}
}

func TestOpen_RejectsHeaderEncryption(t *testing.T) {
	xml := `<Dictionary GeneratedByEngineVersion="2.0" Encrypted="1" Encoding="UTF-8" KeyCaseSensitive="No" StripKey="No"/>`
	headerBytes := encodeUTF16LE(xml + "\x00")

	var file bytes.Buffer
	_ = binary.Write(&file, binary.BigEndian, uint32(len(headerBytes)))
	file.Write(headerBytes)
	_ = binary.Write(&file, binary.BigEndian, uint32(0))

	_, err := dict.Open(context.Background(), bytes.NewReader(file.Bytes()), int64(file.Len()))
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrDecryption))
}

func TestDictionary_DescriptionAndKind(t *testing.T) {
	d := openFixture(t, mdxFixture(t))

	require.Equal(t, format.KindMDX, d.Kind())
	require.Equal(t, "", d.Description())
}
