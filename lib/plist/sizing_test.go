package plist

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type color uint8

type record struct {
	id    uint64
	score float64
	flags uint32
}

func TestDefaultPartitionSize(t *testing.T) {
	assert.Equal(t, 8192, DefaultPartitionSize[int64, int64]())
	assert.Equal(t, 65536, DefaultPartitionSize[byte, byte]())
	assert.Equal(t, 65536, DefaultPartitionSize[color, bool](), "named integer types use their underlying size")

	// int32: 16384 slots, string header (16 bytes): 4096 slots
	assert.Equal(t, 4096, DefaultPartitionSize[int32, string]())

	// reference kinds cost one pointer
	assert.Equal(t, 8192, DefaultPartitionSize[*record, map[string]int]())
	assert.Equal(t, 8192, DefaultPartitionSize[chan int, func()]())

	// 24 byte struct: 65536/24 = 2730, rounded down to 2048
	assert.Equal(t, 2048, DefaultPartitionSize[uint64, record]())

	// slice header (24 bytes)
	assert.Equal(t, 2048, DefaultPartitionSize[[]byte, int]())

	// odd sizes are rounded down to a power of two
	assert.Equal(t, 16384, DefaultPartitionSize[[3]byte, [3]byte]())
}

func TestDefaultPartitionSizeFallbacks(t *testing.T) {
	// zero sized types give no size to derive a slot count from
	assert.Equal(t, FallbackPartitionSize, DefaultPartitionSize[struct{}, struct{}]())
	assert.Equal(t, FallbackPartitionSize, DefaultPartitionSize[int64, struct{}]())

	// a value bigger than the limit still gets one slot
	assert.Equal(t, 1, DefaultPartitionSize[int, [LimitBytes + 1]byte]())
}

func TestDefaultPartitionSizeStaysBelowLimit(t *testing.T) {
	check := func(name string, size, slot int) {
		assert.LessOrEqual(t, size*slot, LimitBytes, name)
		assert.Equal(t, 0, size&(size-1), "%s: %d is not a power of two", name, size)
	}

	check("int64", DefaultPartitionSize[int64, int64](), 8)
	check("record", DefaultPartitionSize[record, record](), 24)
	check("[5]byte", DefaultPartitionSize[[5]byte, [5]byte](), 5)
	check("string", DefaultPartitionSize[string, string](), 16)
}

func TestFloorPowerOfTwo(t *testing.T) {
	for n, want := range map[int]int{1: 1, 2: 2, 3: 2, 1000: 512, 1024: 1024, 21845: 16384} {
		assert.Equal(t, want, floorPowerOfTwo(n), "n=%d", n)
	}
}

func TestSizeCache(t *testing.T) {
	c := NewSizeCache()
	assert.Equal(t, 0, c.Len())

	assert.Equal(t, 4096, PartitionSizeFor[int32, string](c))
	assert.Equal(t, 4096, PartitionSizeFor[int32, string](c))
	assert.Equal(t, 1, c.Len())

	assert.Equal(t, 8192, PartitionSizeFor[int64, int64](c))
	assert.Equal(t, 2, c.Len())

	// the pair is ordered: (K, V) and (V, K) are memoized separately
	assert.Equal(t, 4096, PartitionSizeFor[string, int32](c))
	assert.Equal(t, 3, c.Len())

	// without a cache the size is computed directly
	assert.Equal(t, 8192, PartitionSizeFor[int64, int64](nil))
}

func TestSizeCacheConcurrent(t *testing.T) {
	c := NewSizeCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 2048, PartitionSizeFor[uint64, record](c))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, c.Len())
}

func TestSizeCacheIsUsedByConstructor(t *testing.T) {
	c := NewSizeCache()

	l, err := NewPartitionedList[int64, int64](&Options{SizeCache: c})
	assert.NoError(t, err)
	assert.Equal(t, 8192, l.MaxPartitionSize())
	assert.Equal(t, 1, c.Len())

	// an explicit size bypasses the cache
	l2, err := NewPartitionedList[int32, int32](&Options{MaxPartitionSize: 16, SizeCache: c})
	assert.NoError(t, err)
	assert.Equal(t, 16, l2.MaxPartitionSize())
	assert.Equal(t, 1, c.Len())
}
