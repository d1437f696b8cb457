package section

import "sort"

// Keyinfo locates one record within the concatenated decompressed record
// stream. Size is -1 when the keyinfo refers to the dictionary's last
// keyword, whose size must instead be computed from its record block's end.
type Keyinfo struct {
	Offset int
	Size   int
}

// Match pairs a keyword table hit with the adapted key it was stored under,
// letting the caller verify true key equality after a hash match rather than
// trusting MurmurHash3's collision rate alone.
type Match struct {
	AdaptedKey string
	Keyinfo    Keyinfo
}

// KeywordTable is the express-mode keyword hash table: a packed array of
// (hash32, ordinal) pairs sorted by hash for binary search, a parallel
// record-offset array indexed by ordinal, and the adapted key strings needed
// to verify a hash hit actually matches the query.
//
// The packed pairs use a native []uint64 (hash in the high 32 bits, ordinal
// in the low 32 bits) sorted directly by value, rather than a host runtime's
// float bit-pattern trick — see the root design notes.
type KeywordTable struct {
	packed  []uint64
	offsets []int
	keys    []string
	sorted  bool
}

// NewKeywordTable returns an empty table sized for capacity entries.
func NewKeywordTable(capacity int) *KeywordTable {
	return &KeywordTable{
		packed:  make([]uint64, 0, capacity),
		offsets: make([]int, 0, capacity),
		keys:    make([]string, 0, capacity),
	}
}

// Add appends one keyword's (hash, adapted key, record-offset) triple. The
// ordinal assigned is dense and increasing, matching the keyword's position
// in alphabetical (on-disk) order.
func (t *KeywordTable) Add(hash uint32, adaptedKey string, recordOffset int) {
	ordinal := len(t.offsets)
	t.packed = append(t.packed, uint64(hash)<<32|uint64(ordinal))
	t.offsets = append(t.offsets, recordOffset)
	t.keys = append(t.keys, adaptedKey)
	t.sorted = false
}

// Sort orders the packed array by hash (high 32 bits), ascending, enabling
// binary search in Find. Must be called once after every Add, before the
// table serves lookups.
func (t *KeywordTable) Sort() {
	sort.Slice(t.packed, func(i, j int) bool { return t.packed[i] < t.packed[j] })
	t.sorted = true
}

// Len returns the number of keywords in the table.
func (t *KeywordTable) Len() int { return len(t.offsets) }

// Keys returns every adapted key in ascending (on-disk) order, as built by
// Add — independent of the hash-sorted packed array Find searches. Used for
// prefix search, which needs alphabetical rather than hash order.
func (t *KeywordTable) Keys() []string {
	return append([]string(nil), t.keys...)
}

func unpack(v uint64) (hash uint32, ordinal int) {
	return uint32(v >> 32), int(uint32(v))
}

func (t *KeywordTable) keyinfoFor(ordinal int) Keyinfo {
	offset := t.offsets[ordinal]

	size := -1
	if ordinal+1 < len(t.offsets) {
		size = t.offsets[ordinal+1] - offset
	}

	return Keyinfo{Offset: offset, Size: size}
}

// Find returns every Match whose hash equals hash, expanding in both
// directions from the binary-search hit to collect all entries sharing it
// (hash collisions). Each Match carries the adapted key it was stored under
// so the caller can filter to the one actually equal to the query.
func (t *KeywordTable) Find(hash uint32) []Match {
	if !t.sorted || len(t.packed) == 0 {
		return nil
	}

	i := sort.Search(len(t.packed), func(i int) bool {
		h, _ := unpack(t.packed[i])

		return h >= hash
	})

	if i >= len(t.packed) {
		return nil
	}
	if h, _ := unpack(t.packed[i]); h != hash {
		return nil
	}

	lo, hi := i, i
	for lo > 0 {
		if h, _ := unpack(t.packed[lo-1]); h != hash {
			break
		}
		lo--
	}
	for hi+1 < len(t.packed) {
		if h, _ := unpack(t.packed[hi+1]); h != hash {
			break
		}
		hi++
	}

	out := make([]Match, 0, hi-lo+1)
	for idx := lo; idx <= hi; idx++ {
		_, ordinal := unpack(t.packed[idx])
		out = append(out, Match{AdaptedKey: t.keys[ordinal], Keyinfo: t.keyinfoFor(ordinal)})
	}

	return out
}
