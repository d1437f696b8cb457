package dict

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gomdict/mdict/errs"
	"github.com/gomdict/mdict/format"
	"github.com/gomdict/mdict/internal/charset"
	"github.com/gomdict/mdict/internal/hash"
	"github.com/gomdict/mdict/section"
)

// Definition is one resolved record: Text for mdx dictionaries, Data for mdd
// resource containers. Exactly one of the two is populated, per Kind.
type Definition struct {
	Text string
	Data []byte
}

// adaptPhrase applies key case-folding/stripping, and for mdd containers,
// path normalization, yielding the form comparable against stored keys.
func (d *Dictionary) adaptPhrase(phrase string) string {
	adapted := d.cfg.AdaptKey(phrase)

	if d.kind == format.KindMDD {
		adapted = section.AdaptResourcePath(adapted)
	}

	return adapted
}

func (d *Dictionary) modeLabel() string {
	if d.mode == modeScan {
		return "scan"
	}

	return "express"
}

// Lookup resolves phrase to its definitions (mdx) or resource bytes (mdd),
// following @@@LINK= redirects up to section.MaxLinkDepth.
func (d *Dictionary) Lookup(ctx context.Context, phrase string) ([]Definition, error) {
	return d.lookup(ctx, phrase, 0)
}

func (d *Dictionary) lookup(ctx context.Context, phrase string, depth int) ([]Definition, error) {
	if depth > section.MaxLinkDepth {
		return nil, fmt.Errorf("%w: resolving %q", errs.ErrLinkCycle, phrase)
	}

	start := time.Now()
	adapted := d.adaptPhrase(phrase)

	matches, cacheHit, err := d.candidateKeyinfos(ctx, adapted)
	if err != nil {
		return nil, err
	}

	d.recorder.ObserveLookup(d.modeLabel(), cacheHit, time.Since(start))

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", errs.ErrNotFound, phrase)
	}

	defs := make([]Definition, 0, len(matches))

	for _, ki := range matches {
		def, err := d.readRecord(ctx, ki)
		if err != nil {
			return nil, err
		}

		if d.kind == format.KindMDX {
			if link, ok := strings.CutPrefix(def.Text, section.LinkPrefix); ok {
				resolved, err := d.lookup(ctx, link, depth+1)
				if err != nil {
					return nil, err
				}

				defs = append(defs, resolved...)

				continue
			}
		}

		defs = append(defs, def)
	}

	return defs, nil
}

// candidateKeyinfos resolves adapted to every Keyinfo whose stored key
// equals it, dispatching on express vs scan mode. The second return reports
// whether the resolving key block came from the block cache.
func (d *Dictionary) candidateKeyinfos(ctx context.Context, adapted string) ([]section.Keyinfo, bool, error) {
	if d.mode == modeExpress {
		return d.candidateKeyinfosExpress(adapted), false, nil
	}

	return d.candidateKeyinfosScan(ctx, adapted)
}

func (d *Dictionary) candidateKeyinfosExpress(adapted string) []section.Keyinfo {
	h := hash.ID(adapted)

	out := make([]section.Keyinfo, 0, 1)
	for _, m := range d.table.Find(h) {
		if m.AdaptedKey == adapted {
			out = append(out, m.Keyinfo)
		}
	}

	return out
}

// candidateKeyinfosScan binary-searches the keyword directory for the block
// that could hold adapted, loads it (consulting the block cache), and
// linearly scans its entries for an exact adapted-key match.
func (d *Dictionary) candidateKeyinfosScan(ctx context.Context, adapted string) ([]section.Keyinfo, bool, error) {
	idx := section.FindBlock(d.keyword, adapted)
	if idx < 0 {
		return nil, false, nil
	}

	entry := d.keyword[idx]

	blockScanner, cacheHit, err := d.loadKeyBlock(ctx, entry)
	if err != nil {
		return nil, false, err
	}

	var out []section.Keyinfo

	offsets := make([]int, 0, entry.NumEntries)

	for i := 0; i < entry.NumEntries; i++ {
		recordOffset, err := blockScanner.ReadNum(false)
		if err != nil {
			return nil, cacheHit, fmt.Errorf("scan key block %d entry %d: %w", idx, i, err)
		}

		keyword, err := blockScanner.ReadText()
		if err != nil {
			return nil, cacheHit, fmt.Errorf("scan key block %d entry %d: %w", idx, i, err)
		}

		offsets = append(offsets, int(recordOffset))

		if d.cfg.AdaptKey(keyword) == adapted {
			out = append(out, section.Keyinfo{Offset: int(recordOffset), Size: -1})
		}
	}

	if len(out) == 0 {
		return nil, cacheHit, nil
	}

	// Fill in sizes from the in-block offset sequence. A match landing on the
	// block's last entry has no in-block successor; key-block and
	// record-block boundaries are independent, so its size instead comes from
	// the next key block's first record_offset. Only a match in the
	// dictionary's final keyword block (no successor block at all) keeps
	// Size -1, resolved from its record block's end in readRecord.
	var nextFirstOffset int

	haveNextFirstOffset := false

	for i := range out {
		for j, off := range offsets {
			if off != out[i].Offset {
				continue
			}

			switch {
			case j+1 < len(offsets):
				out[i].Size = offsets[j+1] - off
			case idx+1 < len(d.keyword):
				if !haveNextFirstOffset {
					next, err := d.firstRecordOffset(ctx, d.keyword[idx+1])
					if err != nil {
						return nil, cacheHit, err
					}

					nextFirstOffset = next
					haveNextFirstOffset = true
				}

				out[i].Size = nextFirstOffset - off
			}

			break
		}
	}

	return out, cacheHit, nil
}

// firstRecordOffset returns the record_offset of entry's first keyword,
// without scanning the rest of the block. Used to resolve the size of a
// match that lands on the last entry of its own key block.
func (d *Dictionary) firstRecordOffset(ctx context.Context, entry section.KeywordIndexEntry) (int, error) {
	blockScanner, _, err := d.loadKeyBlock(ctx, entry)
	if err != nil {
		return 0, err
	}

	recordOffset, err := blockScanner.ReadNum(false)
	if err != nil {
		return 0, fmt.Errorf("peek key block %d: %w", entry.Ordinal, err)
	}

	return int(recordOffset), nil
}

// readRecord locates ki's owning record block, decompresses it (cache hit
// short-circuits the read), and slices out ki's bytes, decoding as text for
// mdx or returning raw bytes for mdd.
func (d *Dictionary) readRecord(ctx context.Context, ki section.Keyinfo) (Definition, error) {
	desc, ok := d.records.Find(ki.Offset)
	if !ok {
		return Definition{}, fmt.Errorf("%w: record offset %d out of range", errs.ErrMalformedBlock, ki.Offset)
	}

	blockScanner, _, err := d.loadRecordBlock(ctx, desc)
	if err != nil {
		return Definition{}, err
	}

	localOffset := ki.Offset - desc.DecompOffset

	size := ki.Size
	if size < 0 {
		size = desc.DecompSize - localOffset
	}

	if _, err := blockScanner.ReadRaw(localOffset); err != nil {
		return Definition{}, fmt.Errorf("%w: seeking to record offset %d: %w", errs.ErrMalformedBlock, ki.Offset, err)
	}

	raw, err := blockScanner.ReadRaw(size)
	if err != nil {
		return Definition{}, fmt.Errorf("%w: reading %d bytes at record offset %d: %w", errs.ErrMalformedBlock, size, ki.Offset, err)
	}

	if d.kind == format.KindMDD {
		data := make([]byte, len(raw))
		copy(data, raw)

		return Definition{Data: data}, nil
	}

	text, err := charset.Decode(trimTrailingNUL(raw, d.cfg.Encoding), d.cfg.Encoding)
	if err != nil {
		return Definition{}, fmt.Errorf("%w: %w", errs.ErrMalformedBlock, err)
	}

	return Definition{Text: text}, nil
}

// trimTrailingNUL strips one trailing NUL terminator's worth of units, since
// record_offset deltas span the terminator along with the text.
func trimTrailingNUL(raw []byte, enc format.Encoding) []byte {
	width := enc.BytesPerUnit()
	if len(raw) < width {
		return raw
	}

	for i := len(raw) - width; i < len(raw); i++ {
		if raw[i] != 0 {
			return raw
		}
	}

	return raw[:len(raw)-width]
}
