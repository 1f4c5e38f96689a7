package plist

import (
	"iter"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("plist")

// --------------------------------------------------------------------------
// Partitioned List
// --------------------------------------------------------------------------

// PartitionedList is an unbounded, append-only sequence of entries stored in a
// growing sequence of fixed-capacity partitions. Appends always go to the last
// ("current") partition; when it is full a new partition is allocated.
//
// Thread-safety: Add and Clear must not be called concurrently. Count is safe to
// call at any time. Reads and enumeration are safe while no writer is active.
type PartitionedList[K, V any] struct {
	name              string
	partitions        []*Partition[K, V]
	current           *Partition[K, V] // always partitions[len(partitions)-1]
	count             atomic.Int64
	maxPartitionSize  int
	maxPartitionCount int
	observer          Observer
}

// NewPartitionedList creates an empty list with one empty partition.
// If opts is nil, DefaultOptions is used.
func NewPartitionedList[K, V any](opts *Options) (*PartitionedList[K, V], error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	size, count, err := resolve[K, V](opts)
	if err != nil {
		return nil, err
	}

	name := opts.Name
	if name == "" {
		name = "default"
	}

	l := &PartitionedList[K, V]{
		name:              name,
		maxPartitionSize:  size,
		maxPartitionCount: count,
		observer:          opts.Observer,
	}
	l.reset()

	plog.Debugf("list %s: created (partition size %d, partition cap %d)", l.name, size, count)
	return l, nil
}

// reset installs a single fresh partition. The first partition grows on demand.
func (l *PartitionedList[K, V]) reset() {
	first := newPartition[K, V](l.maxPartitionSize, false)
	l.partitions = []*Partition[K, V]{first}
	l.current = first
	l.count.Store(0)
	if l.observer != nil {
		l.observer.PartitionAllocated(l.maxPartitionSize)
	}
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

// Add appends an entry. If the current partition is full a new partition is
// allocated at full capacity and becomes current.
// Returns ErrCapacityExceeded if the list already holds MaxPartitionCount full
// partitions.
//
// Thread-safety: This method is not thread-safe.
func (l *PartitionedList[K, V]) Add(key K, value V) error {
	if l.current.IsFull() {
		if err := l.rollover(); err != nil {
			return err
		}
	}

	if err := l.current.Add(key, value); err != nil {
		return err
	}

	l.count.Add(1)
	if l.observer != nil {
		l.observer.Appended()
	}
	return nil
}

// rollover allocates a new current partition
func (l *PartitionedList[K, V]) rollover() error {
	if len(l.partitions) >= l.maxPartitionCount {
		plog.Warningf("list %s: partition cap of %d reached at %d entries", l.name, l.maxPartitionCount, l.Count())
		return errors.Wrapf(ErrCapacityExceeded, "list %s holds %d full partitions", l.name, len(l.partitions))
	}

	next := newPartition[K, V](l.maxPartitionSize, true)
	l.partitions = append(l.partitions, next)
	l.current = next

	plog.Debugf("list %s: allocated partition %d (capacity %d)", l.name, len(l.partitions)-1, l.maxPartitionSize)
	if l.observer != nil {
		l.observer.PartitionAllocated(l.maxPartitionSize)
	}
	return nil
}

// Clear discards all entries and partitions. Afterwards the list behaves exactly
// like a freshly constructed one: a new empty partition is installed as current
// and the count is zero.
//
// Thread-safety: This method is not thread-safe.
func (l *PartitionedList[K, V]) Clear() {
	dropped := l.Count()
	partitions := len(l.partitions)

	// drop references so the old partitions can be collected right away
	clear(l.partitions)
	l.reset()

	plog.Debugf("list %s: cleared %d entries in %d partitions", l.name, dropped, partitions)
	if l.observer != nil {
		l.observer.Cleared(dropped)
	}
}

// --------------------------------------------------------------------------
// Read Operations
// --------------------------------------------------------------------------

// Count returns the total number of entries.
//
// Thread-safety: This method is safe for concurrent use. The value may be stale
// if a writer is active.
func (l *PartitionedList[K, V]) Count() int {
	return int(l.count.Load())
}

// LastKey returns the most recently appended key.
// Returns ErrEmptyCollection if the list holds no entries.
func (l *PartitionedList[K, V]) LastKey() (K, error) {
	if l.current.Count() == 0 {
		var zero K
		return zero, errors.Wrapf(ErrEmptyCollection, "last key of empty list %s", l.name)
	}
	return l.current.lastKey(), nil
}

// PartitionCount returns the number of allocated partitions (at least one).
func (l *PartitionedList[K, V]) PartitionCount() int {
	return len(l.partitions)
}

// Partition returns the partition at index i, oldest first.
// Returns ErrOutOfRange if i is outside [0, PartitionCount()).
//
// The partition is shared with the list and must be treated as read-only: adding
// to it bypasses the entry count and ordering checks. It stays valid until the
// next Clear.
func (l *PartitionedList[K, V]) Partition(i int) (*Partition[K, V], error) {
	if i < 0 || i >= len(l.partitions) {
		return nil, errors.Wrapf(ErrOutOfRange, "partition %d of %d in list %s", i, len(l.partitions), l.name)
	}
	return l.partitions[i], nil
}

// MaxPartitionSize returns the number of entries per partition.
func (l *PartitionedList[K, V]) MaxPartitionSize() int {
	return l.maxPartitionSize
}

// MaxPartitionCount returns the partition cap.
func (l *PartitionedList[K, V]) MaxPartitionCount() int {
	return l.maxPartitionCount
}

// Name returns the name the list was configured with.
func (l *PartitionedList[K, V]) Name() string {
	return l.name
}

// --------------------------------------------------------------------------
// Enumeration
// --------------------------------------------------------------------------

// All returns a sequence over every entry in partition order and, within a
// partition, in append order. Each call returns an independent traversal.
// Mutating the list while iterating is not supported.
func (l *PartitionedList[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, p := range l.partitions {
			for i := range p.keys {
				if !yield(p.keys[i], p.values[i]) {
					return
				}
			}
		}
	}
}

// Keys returns a sequence over every key, see All.
func (l *PartitionedList[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, p := range l.partitions {
			for _, k := range p.keys {
				if !yield(k) {
					return
				}
			}
		}
	}
}

// Values returns a sequence over every value, see All.
func (l *PartitionedList[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, p := range l.partitions {
			for _, v := range p.values {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// from yields all entries starting at loc, loc must be valid or point one past the
// end of a partition
func (l *PartitionedList[K, V]) from(loc Location) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for pi := loc.Partition; pi < len(l.partitions); pi++ {
			p := l.partitions[pi]
			start := 0
			if pi == loc.Partition {
				start = loc.Item
			}
			for i := start; i < len(p.keys); i++ {
				if !yield(p.keys[i], p.values[i]) {
					return
				}
			}
		}
	}
}
