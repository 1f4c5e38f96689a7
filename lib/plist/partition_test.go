package plist

import (
	"cmp"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionAddAndRead(t *testing.T) {
	p := newPartition[int, string](4, false)

	require.NoError(t, p.Add(1, "a"))
	require.NoError(t, p.Add(3, "c"))
	assert.Equal(t, 2, p.Count())
	assert.False(t, p.IsFull())

	k, err := p.Key(1)
	require.NoError(t, err)
	assert.Equal(t, 3, k)

	v, err := p.Value(0)
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	first, err := p.FirstKey()
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 3, p.lastKey())
}

func TestPartitionCapacityExceeded(t *testing.T) {
	p := newPartition[int, int](2, true)

	require.NoError(t, p.Add(1, 1))
	require.NoError(t, p.Add(2, 2))
	assert.True(t, p.IsFull())

	err := p.Add(3, 3)
	assert.True(t, errors.Is(err, ErrCapacityExceeded), "got %v", err)
	assert.Equal(t, 2, p.Count())
}

func TestPartitionOutOfRange(t *testing.T) {
	p := newPartition[int, int](4, false)
	require.NoError(t, p.Add(1, 10))

	_, err := p.Key(1)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = p.Value(-1)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	err = p.UpdateValue(5, 0)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestPartitionUpdateValueKeepsKey(t *testing.T) {
	p := newPartition[int, string](4, false)
	require.NoError(t, p.Add(7, "old"))

	require.NoError(t, p.UpdateValue(0, "new"))

	k, _ := p.Key(0)
	v, _ := p.Value(0)
	assert.Equal(t, 7, k)
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, p.Count())
}

func TestPartitionFirstKeyEmpty(t *testing.T) {
	p := newPartition[string, int](4, false)

	_, err := p.FirstKey()
	assert.True(t, errors.Is(err, ErrEmptyCollection))
}

func TestPartitionBinarySearch(t *testing.T) {
	p := newPartition[int, int](8, true)
	for _, k := range []int{10, 20, 30, 40} {
		require.NoError(t, p.Add(k, k*10))
	}

	tests := []struct {
		key  int
		want SearchResult
	}{
		{10, Found(0)},
		{30, Found(2)},
		{40, Found(3)},
		{5, NotFound(0)},
		{25, NotFound(2)},
		{45, NotFound(4)},
	}
	for _, tt := range tests {
		got := p.BinarySearch(tt.key, cmp.Compare[int])
		assert.Equal(t, tt.want, got, "key %d", tt.key)
	}

	empty := newPartition[int, int](8, false)
	assert.Equal(t, NotFound(0), empty.BinarySearch(1, cmp.Compare[int]))
}

func TestPartitionGrowthIsClamped(t *testing.T) {
	// 1000 is not reachable by doubling from 16, growth must stop exactly at capacity
	const capacity = 1000
	p := newPartition[int64, int64](capacity, false)
	assert.Equal(t, minGrowCapacity, cap(p.keys))

	for i := 0; i < capacity; i++ {
		require.NoError(t, p.Add(int64(i), int64(i)))
		assert.LessOrEqual(t, cap(p.keys), capacity)
		assert.LessOrEqual(t, cap(p.values), capacity)
	}
	assert.Equal(t, capacity, cap(p.keys))
	assert.Equal(t, capacity, cap(p.values))

	for i := 0; i < capacity; i++ {
		k, err := p.Key(i)
		require.NoError(t, err)
		require.Equal(t, int64(i), k)
	}
}

func TestPartitionPreallocated(t *testing.T) {
	p := newPartition[int, int](512, true)
	assert.Equal(t, 512, cap(p.keys))
	assert.Equal(t, 512, cap(p.values))

	small := newPartition[int, int](4, false)
	assert.Equal(t, 4, cap(small.keys))
}

func TestSearchResultAndLocation(t *testing.T) {
	assert.True(t, Found(3).Found)
	assert.Equal(t, 3, Found(3).InsertionPoint())
	assert.False(t, NotFound(2).Found)
	assert.Equal(t, 2, NotFound(2).InsertionPoint())
	assert.Equal(t, "Found(3)", Found(3).String())
	assert.Equal(t, "NotFound(2)", NotFound(2).String())

	assert.False(t, NoLocation.Valid())
	assert.True(t, Location{Partition: 0, Item: 0}.Valid())
	assert.Equal(t, "Location{1:2}", Location{Partition: 1, Item: 2}.String())
	assert.Equal(t, "Location{none}", NoLocation.String())
}

func TestPartitionComparer(t *testing.T) {
	pc := partitionComparer[int, int]{compare: cmp.Compare[int]}

	p := newPartition[int, int](4, false)
	assert.Equal(t, -1, pc.Compare(p, 0), "empty partitions sort first")

	require.NoError(t, p.Add(5, 0))
	require.NoError(t, p.Add(9, 0))
	assert.Equal(t, 0, pc.Compare(p, 5))
	assert.Equal(t, -1, pc.Compare(p, 7), "only the first key counts")
	assert.Equal(t, 1, pc.Compare(p, 4))
}
