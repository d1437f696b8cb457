package dict

import (
	"context"
	"fmt"

	"github.com/gomdict/mdict/internal/cache"
	"github.com/gomdict/mdict/internal/hash"
	"github.com/gomdict/mdict/internal/scanner"
	"github.com/gomdict/mdict/section"
)

// keywordSummary is the four- (v1) or five- (v2) number preamble to the
// keyword index: how many keyword blocks and total keywords the dictionary
// holds, and the keyword index's and key blocks' sizes on disk.
type keywordSummary struct {
	numBlocks      int
	numEntries     int
	indexDecompLen int // 0 (unknown) in v1
	indexCompLen   int
	blocksLen      int
}

func parseKeywordSummary(raw []byte, v2 bool) (keywordSummary, error) {
	s := scanner.New(raw, scanner.Config{V2: v2})

	var sum keywordSummary

	numBlocks, err := s.ReadNum(false)
	if err != nil {
		return sum, fmt.Errorf("keyword summary: %w", err)
	}
	sum.numBlocks = int(numBlocks)

	numEntries, err := s.ReadNum(false)
	if err != nil {
		return sum, fmt.Errorf("keyword summary: %w", err)
	}
	sum.numEntries = int(numEntries)

	if v2 {
		indexDecompLen, err := s.ReadNum(false)
		if err != nil {
			return sum, fmt.Errorf("keyword summary: %w", err)
		}
		sum.indexDecompLen = int(indexDecompLen)
	}

	indexCompLen, err := s.ReadNum(false)
	if err != nil {
		return sum, fmt.Errorf("keyword summary: %w", err)
	}
	sum.indexCompLen = int(indexCompLen)

	blocksLen, err := s.ReadNum(false)
	if err != nil {
		return sum, fmt.Errorf("keyword summary: %w", err)
	}
	sum.blocksLen = int(blocksLen)

	if v2 {
		if err := s.Checksum(); err != nil {
			return sum, fmt.Errorf("keyword summary: %w", err)
		}
	}

	return sum, nil
}

// keywordSummarySize returns the on-disk byte length of the keyword summary
// for the given wire variant, so the caller knows how much to read before
// parseKeywordSummary can run.
func keywordSummarySize(v2 bool) int {
	if v2 {
		return 5*8 + 4 // five 64-bit numbers + checksum
	}

	return 4 * 4 // four 32-bit numbers
}

// decodeKeyBlock reads one key block's (record_offset, keyword) pairs from a
// scanner over its decompressed payload and feeds each into table, hashing
// the adapted key with MurmurHash3 per §4.6.
func decodeKeyBlock(s *scanner.Scanner, numEntries int, cfg section.Config, table *section.KeywordTable) error {
	for i := 0; i < numEntries; i++ {
		recordOffset, err := s.ReadNum(false)
		if err != nil {
			return fmt.Errorf("key block entry %d: %w", i, err)
		}

		keyword, err := s.ReadText()
		if err != nil {
			return fmt.Errorf("key block entry %d: %w", i, err)
		}

		adapted := cfg.AdaptKey(keyword)
		table.Add(hash.ID(adapted), adapted, int(recordOffset))
	}

	return nil
}

// loadKeyBlock fetches and decompresses one key block by its
// KeywordIndexEntry, consulting and populating the block cache. The second
// return reports whether the block was already cached.
func (d *Dictionary) loadKeyBlock(ctx context.Context, entry section.KeywordIndexEntry) (*scanner.Scanner, bool, error) {
	key := cache.Key{Section: cache.SectionKeyword, Ordinal: entry.Ordinal}
	if payload, ok := d.cache.Get(key); ok {
		return scanner.New(payload, d.scannerConfig()), true, nil
	}

	raw, err := d.src.readAt(ctx, entry.FileOffset, entry.CompSize)
	if err != nil {
		return nil, false, err
	}

	s := scanner.New(raw, d.scannerConfig())
	block, err := s.ReadBlock(entry.CompSize, entry.DecompSize, nil)
	if err != nil {
		return nil, false, err
	}

	payload, _ := block.ReadRaw(block.Len())
	d.cache.Put(key, payload)

	return scanner.New(payload, d.scannerConfig()), false, nil
}
