package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockCache_PutGet(t *testing.T) {
	c := New(4)

	key := Key{Section: SectionKeyword, Ordinal: 2}
	c.Put(key, []byte("payload"))

	got, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, []byte("payload"), got)
}

func TestBlockCache_Miss(t *testing.T) {
	c := New(4)

	_, ok := c.Get(Key{Section: SectionRecord, Ordinal: 0})
	require.False(t, ok)
}

func TestBlockCache_SectionsShareCapacity(t *testing.T) {
	c := New(1)

	c.Put(Key{Section: SectionKeyword, Ordinal: 0}, []byte("kw"))
	c.Put(Key{Section: SectionRecord, Ordinal: 0}, []byte("rec"))

	// Capacity 1 is a single global slot shared across sections (matching
	// the distilled single-last-block design); the most recent Put wins.
	_, recOK := c.Get(Key{Section: SectionRecord, Ordinal: 0})
	require.True(t, recOK)
}

func TestBlockCache_CapacityZeroDefaults(t *testing.T) {
	c := New(0)
	for i := 0; i < DefaultCapacity+1; i++ {
		c.Put(Key{Section: SectionKeyword, Ordinal: i}, []byte{byte(i)})
	}

	require.Equal(t, DefaultCapacity, c.Len())
}
