package section

import (
	"fmt"

	"github.com/gomdict/mdict/errs"
	"github.com/gomdict/mdict/internal/scanner"
)

// KeywordIndexEntry describes one keyword block: how many keyword/offset
// pairs it holds, the adapted range of keys it covers, its size on disk both
// compressed and decompressed, its absolute file offset, and its ordinal
// position among all keyword blocks.
type KeywordIndexEntry struct {
	NumEntries int
	FirstWord  string
	LastWord   string
	CompSize   int
	DecompSize int
	FileOffset int64
	Ordinal    int
}

// DecodeKeywordIndex reads numBlocks KeywordIndexEntry records from s (a
// scanner over the decompressed keyword index payload) and assigns each a
// running FileOffset, starting at firstBlockOffset — the byte position of the
// first key block, immediately following the keyword index on disk.
// FirstWord and LastWord are stored in their cfg.AdaptKey-adapted form, so
// FindBlock can compare them directly against an adapted lookup phrase.
func DecodeKeywordIndex(s *scanner.Scanner, numBlocks int, firstBlockOffset int64, cfg Config) ([]KeywordIndexEntry, error) {
	entries := make([]KeywordIndexEntry, 0, numBlocks)

	offset := firstBlockOffset
	for i := 0; i < numBlocks; i++ {
		numEntries, err := s.ReadNum(false)
		if err != nil {
			return nil, fmt.Errorf("keyword index entry %d: %w", i, err)
		}

		firstWordSize, err := s.ReadShort()
		if err != nil {
			return nil, fmt.Errorf("keyword index entry %d: %w", i, err)
		}

		firstWord, err := s.ReadTextSized(int(firstWordSize))
		if err != nil {
			return nil, fmt.Errorf("keyword index entry %d: %w", i, err)
		}

		lastWordSize, err := s.ReadShort()
		if err != nil {
			return nil, fmt.Errorf("keyword index entry %d: %w", i, err)
		}

		lastWord, err := s.ReadTextSized(int(lastWordSize))
		if err != nil {
			return nil, fmt.Errorf("keyword index entry %d: %w", i, err)
		}

		compSize, err := s.ReadNum(false)
		if err != nil {
			return nil, fmt.Errorf("keyword index entry %d: %w", i, err)
		}

		decompSize, err := s.ReadNum(false)
		if err != nil {
			return nil, fmt.Errorf("keyword index entry %d: %w", i, err)
		}

		entries = append(entries, KeywordIndexEntry{
			NumEntries: int(numEntries),
			FirstWord:  cfg.AdaptKey(firstWord),
			LastWord:   cfg.AdaptKey(lastWord),
			CompSize:   int(compSize),
			DecompSize: int(decompSize),
			FileOffset: offset,
			Ordinal:    i,
		})

		offset += int64(compSize)
	}

	return entries, nil
}

// FindBlock binary-searches entries for the block whose [FirstWord, LastWord]
// range (both already adapted per Config.AdaptKey, as are all entries by
// construction) contains adaptedPhrase. When no block's range contains it,
// returns the block the binary search probed last; returns -1 only when
// entries is empty.
func FindBlock(entries []KeywordIndexEntry, adaptedPhrase string) int {
	lo, hi := 0, len(entries)-1
	best := -1

	for lo <= hi {
		mid := lo + (hi-lo)/2

		switch {
		case adaptedPhrase < entries[mid].FirstWord:
			hi = mid - 1
		case adaptedPhrase > entries[mid].LastWord:
			lo = mid + 1
		default:
			return mid
		}

		best = mid
	}

	if best < 0 {
		return -1
	}

	if best >= len(entries) {
		best = len(entries) - 1
	}

	return best
}

// ValidateKeywordOrdering checks the invariant adapted(entry[i].last_word) <=
// adapted(entry[i+1].first_word), used by tests and Open-time sanity checks.
func ValidateKeywordOrdering(entries []KeywordIndexEntry) error {
	for i := 1; i < len(entries); i++ {
		if entries[i-1].LastWord > entries[i].FirstWord {
			return fmt.Errorf("%w: keyword index entry %d out of order", errs.ErrMalformedBlock, i)
		}
	}

	return nil
}
