package section

import (
	"fmt"
	"sort"

	"github.com/gomdict/mdict/internal/scanner"
)

// RecordBlockDescriptor describes where one record block lives on disk and
// where its decompressed bytes fall in the concatenated record stream.
type RecordBlockDescriptor struct {
	BlockNo        int
	FileOffsetComp int64
	CompSize       int
	DecompOffset   int
	DecompSize     int
}

// RecordBlockDirectory is the ordered array of (file_offset_comp,
// cumulative_offset_decomp) pairs used to locate which record block holds a
// given decompressed record offset. Both columns are strictly increasing;
// the final element is a sentinel carrying the total compressed and
// decompressed sizes.
type RecordBlockDirectory struct {
	fileOffsets  []int64
	compSizes    []int
	decompOffset []int
	decompSizes  []int
}

// DecodeRecordBlockIndex reads numBlocks (compSize, decompSize) pairs from s
// (a scanner positioned at the start of the record-block index) and builds
// the directory's cumulative-offset columns. firstBlockOffset is the byte
// position of the first record block, immediately following the
// record-block index on disk.
func DecodeRecordBlockIndex(s *scanner.Scanner, numBlocks int, firstBlockOffset int64) (*RecordBlockDirectory, error) {
	d := &RecordBlockDirectory{
		fileOffsets:  make([]int64, 0, numBlocks+1),
		compSizes:    make([]int, 0, numBlocks),
		decompOffset: make([]int, 0, numBlocks+1),
		decompSizes:  make([]int, 0, numBlocks),
	}

	fileOffset := firstBlockOffset
	decompOffset := 0

	for i := 0; i < numBlocks; i++ {
		compSize, err := s.ReadNum(false)
		if err != nil {
			return nil, fmt.Errorf("record block index %d: %w", i, err)
		}

		decompSize, err := s.ReadNum(false)
		if err != nil {
			return nil, fmt.Errorf("record block index %d: %w", i, err)
		}

		d.fileOffsets = append(d.fileOffsets, fileOffset)
		d.compSizes = append(d.compSizes, int(compSize))
		d.decompOffset = append(d.decompOffset, decompOffset)
		d.decompSizes = append(d.decompSizes, int(decompSize))

		fileOffset += int64(compSize)
		decompOffset += int(decompSize)
	}

	// Sentinel: total sizes, used as the upper bound in Find and for
	// computing the last record's size from block end.
	d.fileOffsets = append(d.fileOffsets, fileOffset)
	d.decompOffset = append(d.decompOffset, decompOffset)

	return d, nil
}

// NumBlocks returns the number of real (non-sentinel) record blocks.
func (d *RecordBlockDirectory) NumBlocks() int { return len(d.compSizes) }

// TotalDecompSize returns the sentinel's cumulative decompressed size: the
// length of the full concatenated record stream.
func (d *RecordBlockDirectory) TotalDecompSize() int {
	if len(d.decompOffset) == 0 {
		return 0
	}

	return d.decompOffset[len(d.decompOffset)-1]
}

// Find performs a binary search over the decompressed-offset column for the
// block containing recordOffset. The second return is false when
// recordOffset is negative or reaches/exceeds the final sentinel.
func (d *RecordBlockDirectory) Find(recordOffset int) (RecordBlockDescriptor, bool) {
	if recordOffset < 0 || d.NumBlocks() == 0 || recordOffset >= d.TotalDecompSize() {
		return RecordBlockDescriptor{}, false
	}

	// decompOffset[:NumBlocks()] holds each block's start; find the last
	// start <= recordOffset.
	i := sort.Search(d.NumBlocks(), func(i int) bool {
		return d.decompOffset[i] > recordOffset
	})
	blockNo := i - 1

	if blockNo < 0 {
		return RecordBlockDescriptor{}, false
	}

	return RecordBlockDescriptor{
		BlockNo:        blockNo,
		FileOffsetComp: d.fileOffsets[blockNo],
		CompSize:       d.compSizes[blockNo],
		DecompOffset:   d.decompOffset[blockNo],
		DecompSize:     d.decompSizes[blockNo],
	}, true
}
