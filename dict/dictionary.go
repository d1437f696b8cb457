package dict

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/gomdict/mdict/crypto"
	"github.com/gomdict/mdict/errs"
	"github.com/gomdict/mdict/format"
	"github.com/gomdict/mdict/internal/cache"
	"github.com/gomdict/mdict/internal/options"
	"github.com/gomdict/mdict/internal/scanner"
	"github.com/gomdict/mdict/metrics"
	"github.com/gomdict/mdict/section"
)

const maxHeaderLen = 16 * 1024 * 1024 // 16MiB, per §4.3's "absurd length" guard

// Dictionary is an opened MDict mdx or mdd file: its parsed attributes and
// directories, ready to serve Lookup and Search calls. Safe for concurrent
// use after Open returns; its directories and attribute map are read-only,
// and its block cache is internally mutex-guarded.
type Dictionary struct {
	attrs    section.Attributes
	cfg      section.Config
	kind     format.Kind
	mode     lookupMode
	src      *source
	keyword  []section.KeywordIndexEntry
	table    *section.KeywordTable // nil in scan mode
	records  *section.RecordBlockDirectory
	cache    *cache.BlockCache
	recorder *metrics.Recorder
}

// Open parses source (size bytes long) as an MDict dictionary and returns a
// ready-to-query Dictionary. Parsing proceeds as an explicit sequence of
// steps, each one consuming a bounded read from source, rather than loading
// the whole file into memory.
func Open(ctx context.Context, src io.ReaderAt, size int64, opts ...OpenOption) (*Dictionary, error) {
	cfg := defaultOpenConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	if size > math.MaxUint32 {
		return nil, fmt.Errorf("%w: file size %d", errs.ErrOffsetOverflow, size)
	}

	s := newSource(src, size)

	offset, attrs, dcfg, err := parseHead(ctx, s)
	if err != nil {
		return nil, err
	}

	if dcfg.HeaderEncrypted() {
		return nil, errs.ErrDecryption
	}

	d := &Dictionary{
		attrs:    attrs,
		cfg:      dcfg,
		kind:     cfg.kind,
		mode:     cfg.mode,
		src:      s,
		cache:    cache.New(cfg.cacheSize),
		recorder: cfg.recorder,
	}

	offset, err = d.parseKeywordSection(ctx, offset)
	if err != nil {
		return nil, err
	}

	if err := d.parseRecordSection(ctx, offset); err != nil {
		return nil, err
	}

	return d, nil
}

// parseHead reads the header length, the XML header itself, and derives the
// dictionary's Config. Returns the byte offset immediately following the
// header (where the keyword summary begins).
func parseHead(ctx context.Context, s *source) (int64, section.Attributes, section.Config, error) {
	lenRaw, err := s.readAt(ctx, 0, 4)
	if err != nil {
		return 0, nil, section.Config{}, fmt.Errorf("%w: %w", errs.ErrBadHeader, err)
	}

	headerLenU32, err := scanner.New(lenRaw, scanner.Config{}).ReadU32()
	if err != nil {
		return 0, nil, section.Config{}, fmt.Errorf("%w: %w", errs.ErrBadHeader, err)
	}

	headerLen := int(headerLenU32)
	if headerLen <= 0 || headerLen > maxHeaderLen {
		return 0, nil, section.Config{}, fmt.Errorf("%w: implausible header length %d", errs.ErrBadHeader, headerLen)
	}

	raw, err := s.readAt(ctx, 4, headerLen+4)
	if err != nil {
		return 0, nil, section.Config{}, fmt.Errorf("%w: %w", errs.ErrBadHeader, err)
	}

	hs := scanner.New(raw, scanner.Config{})

	headerXML, err := hs.ReadUTF16LE(headerLen)
	if err != nil {
		return 0, nil, section.Config{}, fmt.Errorf("%w: %w", errs.ErrBadHeader, err)
	}

	if err := hs.Checksum(); err != nil {
		return 0, nil, section.Config{}, fmt.Errorf("%w: %w", errs.ErrBadHeader, err)
	}

	headerXML = trimUTF16Tail(headerXML)

	attrs, err := section.ParseAttributes(headerXML)
	if err != nil {
		return 0, nil, section.Config{}, err
	}

	return int64(4 + headerLen + 4), attrs, section.DeriveConfig(attrs), nil
}

// trimUTF16Tail strips the trailing NUL the header string carries once
// decoded (MDict NUL-terminates the header text inside its declared length).
func trimUTF16Tail(s string) string {
	for len(s) > 0 && s[len(s)-1] == 0 {
		s = s[:len(s)-1]
	}

	return s
}

func (d *Dictionary) scannerConfig() scanner.Config {
	return scanner.Config{V2: d.cfg.V2, Encoding: d.cfg.Encoding}
}

func (d *Dictionary) keywordIndexDecryptor() scanner.Decryptor {
	if !d.cfg.KeywordIndexEncrypted() {
		return nil
	}

	return crypto.DecryptKeywordIndex
}

// parseKeywordSection reads the keyword summary, keyword index, and (in
// express mode) every key block, returning the offset where the record
// section begins.
func (d *Dictionary) parseKeywordSection(ctx context.Context, offset int64) (int64, error) {
	sumRaw, err := d.src.readAt(ctx, offset, keywordSummarySize(d.cfg.V2))
	if err != nil {
		return 0, err
	}

	sum, err := parseKeywordSummary(sumRaw, d.cfg.V2)
	if err != nil {
		return 0, err
	}
	offset += int64(len(sumRaw))

	idxRaw, err := d.src.readAt(ctx, offset, sum.indexCompLen)
	if err != nil {
		return 0, err
	}

	idxScanner := scanner.New(idxRaw, d.scannerConfig())

	firstBlockOffset := offset + int64(sum.indexCompLen)

	decompressed, err := idxScanner.ReadBlock(sum.indexCompLen, sum.indexDecompLen, d.keywordIndexDecryptor())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrMalformedBlock, err)
	}

	entries, err := section.DecodeKeywordIndex(decompressed, sum.numBlocks, firstBlockOffset, d.cfg)
	if err != nil {
		return 0, err
	}

	if err := section.ValidateKeywordOrdering(entries); err != nil {
		return 0, err
	}

	d.keyword = entries

	if d.mode == modeExpress {
		table := section.NewKeywordTable(sum.numEntries)

		for _, entry := range entries {
			blockScanner, _, err := d.loadKeyBlock(ctx, entry)
			if err != nil {
				return 0, err
			}

			if err := decodeKeyBlock(blockScanner, entry.NumEntries, d.cfg, table); err != nil {
				return 0, err
			}
		}

		table.Sort()
		d.table = table
	}

	return firstBlockOffset + int64(sum.blocksLen), nil
}

// parseRecordSection reads the record summary and the record-block index,
// building the record-block directory.
func (d *Dictionary) parseRecordSection(ctx context.Context, offset int64) error {
	sumRaw, err := d.src.readAt(ctx, offset, recordSummarySize(d.cfg.V2))
	if err != nil {
		return err
	}

	sum, err := parseRecordSummary(sumRaw, d.cfg.V2)
	if err != nil {
		return err
	}
	offset += int64(len(sumRaw))

	idxSize := recordBlockIndexSize(d.cfg.V2, sum.numBlocks)

	idxRaw, err := d.src.readAt(ctx, offset, idxSize)
	if err != nil {
		return err
	}

	idxScanner := scanner.New(idxRaw, scanner.Config{V2: d.cfg.V2})

	firstRecordBlockOffset := offset + int64(idxSize)

	dir, err := section.DecodeRecordBlockIndex(idxScanner, sum.numBlocks, firstRecordBlockOffset)
	if err != nil {
		return err
	}

	d.records = dir

	return nil
}

// Kind reports whether this dictionary holds mdx definitions or mdd
// resources.
func (d *Dictionary) Kind() format.Kind { return d.kind }

// Attributes returns the header's decoded attribute map.
func (d *Dictionary) Attributes() section.Attributes { return d.attrs }

// Description returns the dictionary's Description attribute, or Title if
// Description is absent.
func (d *Dictionary) Description() string {
	if desc := d.attrs["Description"]; desc != "" {
		return desc
	}

	return d.attrs["Title"]
}

// Close releases resources held by the Dictionary. The underlying source is
// owned by the caller and is not closed here.
func (d *Dictionary) Close() error {
	return nil
}
