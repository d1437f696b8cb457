package dict

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gomdict/mdict/section"
)

// Search returns up to section.MaxCandidates consecutive headwords starting
// at the first key that matches (or sorts after) phrase once adapted. mdd
// containers have no meaningful prefix search over resource paths; callers
// should restrict Search to mdx dictionaries.
func (d *Dictionary) Search(ctx context.Context, phrase string) ([]string, error) {
	adapted := d.adaptPhrase(phrase)

	if d.mode == modeExpress {
		return d.searchExpress(adapted), nil
	}

	return d.searchScan(ctx, adapted)
}

func (d *Dictionary) searchExpress(adapted string) []string {
	keys := d.table.Keys()

	i := sort.SearchStrings(keys, adapted)

	return windowFrom(keys, i)
}

func (d *Dictionary) searchScan(ctx context.Context, adapted string) ([]string, error) {
	idx := section.FindBlock(d.keyword, adapted)
	if idx < 0 {
		idx = 0
	}

	out := make([]string, 0, section.MaxCandidates)

	for blockIdx := idx; blockIdx < len(d.keyword) && len(out) < section.MaxCandidates; blockIdx++ {
		entry := d.keyword[blockIdx]

		blockScanner, _, err := d.loadKeyBlock(ctx, entry)
		if err != nil {
			return nil, err
		}

		keys := make([]string, 0, entry.NumEntries)

		for i := 0; i < entry.NumEntries; i++ {
			if _, err := blockScanner.ReadNum(false); err != nil {
				return nil, fmt.Errorf("search key block %d entry %d: %w", blockIdx, i, err)
			}

			keyword, err := blockScanner.ReadText()
			if err != nil {
				return nil, fmt.Errorf("search key block %d entry %d: %w", blockIdx, i, err)
			}

			keys = append(keys, d.cfg.AdaptKey(keyword))
		}

		start := 0
		if blockIdx == idx {
			start = sort.SearchStrings(keys, adapted)
		}

		for i := start; i < len(keys) && len(out) < section.MaxCandidates; i++ {
			out = append(out, keys[i])
		}
	}

	return out, nil
}

// windowFrom returns up to section.MaxCandidates entries of keys starting at
// i, walking back first over any run of adapted keys equal to keys[i] that
// precede it (ties on trailing "-" or a trailing space can sort either side
// of the exact phrase depending on locale collation; walking back over the
// whole equal-run keeps the candidate window stable).
func windowFrom(keys []string, i int) []string {
	for i > 0 && i < len(keys) && strings.TrimRight(keys[i-1], "- ") == strings.TrimRight(keys[i], "- ") {
		i--
	}

	end := i + section.MaxCandidates
	if end > len(keys) {
		end = len(keys)
	}

	if i >= len(keys) {
		return nil
	}

	return append([]string(nil), keys[i:end]...)
}
