package plist

import (
	"math/bits"
	"reflect"

	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// LimitBytes is the upper bound for the backing array of a single partition
	// slice. It stays well below the size at which the runtime hands allocations
	// to the large object path, leaving headroom for allocator size classes.
	LimitBytes = 64 << 10

	// PointerSlotBytes is the slot cost assumed for reference kinds.
	PointerSlotBytes = 8

	// FallbackPartitionSize is used when a slot size cannot be derived from the type.
	FallbackPartitionSize = 1024
)

// --------------------------------------------------------------------------
// Default Partition Size
// --------------------------------------------------------------------------

// DefaultPartitionSize returns the number of entries per partition for the
// key/value type pair K, V. It is the smaller of the per-type candidates, each a
// power of two so that doubling growth of the backing slices never crosses
// LimitBytes.
//
// The result is recomputed on every call; use a SizeCache to memoize it.
func DefaultPartitionSize[K, V any]() int {
	return min(slotsFor(reflect.TypeFor[K]()), slotsFor(reflect.TypeFor[V]()))
}

// slotsFor returns how many values of type t fit into LimitBytes, rounded down to
// a power of two.
func slotsFor(t reflect.Type) int {
	var size uintptr
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func:
		size = PointerSlotBytes
	default:
		// named integer types report the size of their underlying representation
		size = t.Size()
	}

	if size == 0 {
		return FallbackPartitionSize
	}

	candidate := LimitBytes / int(size)
	if candidate < 1 {
		// a single value already exceeds the limit, nothing smaller than one slot exists
		return 1
	}
	return floorPowerOfTwo(candidate)
}

// floorPowerOfTwo returns the largest power of two <= n, n must be positive
func floorPowerOfTwo(n int) int {
	return 1 << (bits.Len(uint(n)) - 1)
}

// --------------------------------------------------------------------------
// Size Cache
// --------------------------------------------------------------------------

type typePair struct {
	key   reflect.Type
	value reflect.Type
}

// SizeCache memoizes default partition sizes per key/value type pair. A cache is
// owned by whoever creates it and handed to lists through Options.SizeCache; there
// is no process-wide instance.
//
// Thread-safety: A SizeCache is safe for concurrent use.
type SizeCache struct {
	sizes *xsync.MapOf[typePair, int]
}

// NewSizeCache creates an empty cache.
func NewSizeCache() *SizeCache {
	return &SizeCache{
		sizes: xsync.NewMapOf[typePair, int](),
	}
}

// PartitionSizeFor returns the default partition size for K, V, computing it at most
// once per cache. A nil cache computes the size without memoization.
func PartitionSizeFor[K, V any](c *SizeCache) int {
	if c == nil {
		return DefaultPartitionSize[K, V]()
	}
	pair := typePair{key: reflect.TypeFor[K](), value: reflect.TypeFor[V]()}
	size, _ := c.sizes.LoadOrCompute(pair, func() int {
		return min(slotsFor(pair.key), slotsFor(pair.value))
	})
	return size
}

// Len returns the number of memoized type pairs.
func (c *SizeCache) Len() int {
	return c.sizes.Size()
}
