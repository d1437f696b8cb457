package dict

import (
	"context"
	"fmt"

	"github.com/gomdict/mdict/internal/cache"
	"github.com/gomdict/mdict/internal/scanner"
	"github.com/gomdict/mdict/section"
)

// recordSummary is the four-number preamble to the record-block index.
type recordSummary struct {
	numBlocks  int
	numEntries int
	indexLen   int
	blocksLen  int
}

func recordSummarySize(v2 bool) int {
	if v2 {
		return 4 * 8
	}

	return 4 * 4
}

func parseRecordSummary(raw []byte, v2 bool) (recordSummary, error) {
	s := scanner.New(raw, scanner.Config{V2: v2})

	var sum recordSummary

	fields := []*int{&sum.numBlocks, &sum.numEntries, &sum.indexLen, &sum.blocksLen}
	for i, field := range fields {
		v, err := s.ReadNum(false)
		if err != nil {
			return sum, fmt.Errorf("record summary field %d: %w", i, err)
		}
		*field = int(v)
	}

	return sum, nil
}

func recordBlockIndexSize(v2 bool, numBlocks int) int {
	width := 4
	if v2 {
		width = 8
	}

	return numBlocks * 2 * width
}

// loadRecordBlock fetches, decompresses, and caches the record block
// described by desc, returning a scanner over its decompressed payload. The
// second return reports whether the block was already cached.
func (d *Dictionary) loadRecordBlock(ctx context.Context, desc section.RecordBlockDescriptor) (*scanner.Scanner, bool, error) {
	key := cache.Key{Section: cache.SectionRecord, Ordinal: desc.BlockNo}
	if payload, ok := d.cache.Get(key); ok {
		return scanner.New(payload, d.scannerConfig()), true, nil
	}

	raw, err := d.src.readAt(ctx, desc.FileOffsetComp, desc.CompSize)
	if err != nil {
		return nil, false, err
	}

	s := scanner.New(raw, d.scannerConfig())
	block, err := s.ReadBlock(desc.CompSize, desc.DecompSize, nil)
	if err != nil {
		return nil, false, err
	}

	payload, _ := block.ReadRaw(block.Len())
	d.cache.Put(key, payload)

	return scanner.New(payload, d.scannerConfig()), false, nil
}
