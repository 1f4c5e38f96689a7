package plist

import (
	"github.com/cockroachdb/errors"
)

// minGrowCapacity is the first backing capacity of an incrementally growing partition
const minGrowCapacity = 16

// --------------------------------------------------------------------------
// Partition
// --------------------------------------------------------------------------

// Partition is a bounded, append-only chunk of entries. Keys and values are kept
// in parallel slices so that no per-entry pair is allocated. A partition never
// reorders or removes entries and its backing slices never hold more than
// capacity slots, which keeps every allocation below the size the list was
// configured for.
//
// Thread-safety: A partition is not safe for concurrent mutation. Concurrent reads
// are safe while no writer is active.
type Partition[K, V any] struct {
	keys     []K
	values   []V
	capacity int
}

// newPartition creates an empty partition that holds at most capacity entries.
// With preallocate the backing slices are allocated at full capacity up front,
// otherwise they start small and double until they reach capacity.
func newPartition[K, V any](capacity int, preallocate bool) *Partition[K, V] {
	initial := capacity
	if !preallocate {
		initial = min(capacity, minGrowCapacity)
	}
	return &Partition[K, V]{
		keys:     make([]K, 0, initial),
		values:   make([]V, 0, initial),
		capacity: capacity,
	}
}

// Count returns the number of entries in the partition.
func (p *Partition[K, V]) Count() int {
	return len(p.keys)
}

// Capacity returns the maximum number of entries the partition can hold.
func (p *Partition[K, V]) Capacity() int {
	return p.capacity
}

// IsFull reports whether another Add would fail.
func (p *Partition[K, V]) IsFull() bool {
	return len(p.keys) >= p.capacity
}

// Add appends an entry at the end of the partition.
// Returns ErrCapacityExceeded if the partition already holds capacity entries.
func (p *Partition[K, V]) Add(key K, value V) error {
	n := len(p.keys)
	if n >= p.capacity {
		return errors.Wrapf(ErrCapacityExceeded, "partition holds %d of %d entries", n, p.capacity)
	}
	if n == cap(p.keys) {
		p.grow()
	}
	p.keys = append(p.keys, key)
	p.values = append(p.values, value)
	return nil
}

// grow doubles the backing storage, clamped at the partition capacity
func (p *Partition[K, V]) grow() {
	newCap := min(max(2*cap(p.keys), minGrowCapacity), p.capacity)

	keys := make([]K, len(p.keys), newCap)
	copy(keys, p.keys)
	p.keys = keys

	values := make([]V, len(p.values), newCap)
	copy(values, p.values)
	p.values = values
}

// Key returns the key at ordinal i.
func (p *Partition[K, V]) Key(i int) (K, error) {
	if err := p.checkOrdinal(i); err != nil {
		var zero K
		return zero, err
	}
	return p.keys[i], nil
}

// Value returns the value at ordinal i.
func (p *Partition[K, V]) Value(i int) (V, error) {
	if err := p.checkOrdinal(i); err != nil {
		var zero V
		return zero, err
	}
	return p.values[i], nil
}

// UpdateValue replaces the value at ordinal i. The key at i is left untouched.
func (p *Partition[K, V]) UpdateValue(i int, value V) error {
	if err := p.checkOrdinal(i); err != nil {
		return err
	}
	p.values[i] = value
	return nil
}

// FirstKey returns the key at ordinal 0.
// Returns ErrEmptyCollection if the partition holds no entries.
func (p *Partition[K, V]) FirstKey() (K, error) {
	if len(p.keys) == 0 {
		var zero K
		return zero, errors.Wrap(ErrEmptyCollection, "first key of empty partition")
	}
	return p.keys[0], nil
}

// lastKey returns the most recently appended key, the caller guarantees Count() > 0
func (p *Partition[K, V]) lastKey() K {
	return p.keys[len(p.keys)-1]
}

// BinarySearch searches the ascending key sequence for key using compare.
// The keys of the partition must have been appended in ascending order.
func (p *Partition[K, V]) BinarySearch(key K, compare func(a, b K) int) SearchResult {
	lo, hi := 0, len(p.keys)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		c := compare(p.keys[mid], key)
		switch {
		case c == 0:
			return Found(mid)
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return NotFound(lo)
}

func (p *Partition[K, V]) checkOrdinal(i int) error {
	if i < 0 || i >= len(p.keys) {
		return errors.Wrapf(ErrOutOfRange, "ordinal %d, partition holds %d entries", i, len(p.keys))
	}
	return nil
}
