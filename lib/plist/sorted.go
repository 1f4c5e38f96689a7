package plist

import (
	"iter"
	"reflect"
	"slices"

	"github.com/cockroachdb/errors"
)

// --------------------------------------------------------------------------
// Partitioned Sorted List
// --------------------------------------------------------------------------

// PartitionedSortedList is a PartitionedList whose keys are appended in strictly
// increasing order. Append order therefore is sort order, which makes the
// partition sequence itself sorted by first key and allows O(log n) lookups with a
// binary search over partitions followed by one inside the candidate partition.
//
// The list never inserts through Set; new keys are only created by Add.
//
// Thread-safety: Same as PartitionedList. Set is a write operation.
type PartitionedSortedList[K, V any] struct {
	*PartitionedList[K, V]
	compare      func(a, b K) int
	byFirstKey   partitionComparer[K, V]
	nillableKeys bool
	unchecked    bool
}

// NewPartitionedSortedList creates an empty sorted list ordered by compare.
// If opts is nil, DefaultSortedOptions is used.
func NewPartitionedSortedList[K, V any](compare func(a, b K) int, opts *SortedOptions) (*PartitionedSortedList[K, V], error) {
	if compare == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "comparator is nil")
	}
	if opts == nil {
		opts = DefaultSortedOptions()
	}

	list, err := NewPartitionedList[K, V](&opts.Options)
	if err != nil {
		return nil, err
	}

	return &PartitionedSortedList[K, V]{
		PartitionedList: list,
		compare:         compare,
		byFirstKey:      partitionComparer[K, V]{compare: compare},
		nillableKeys:    isNillable(reflect.TypeFor[K]()),
		unchecked:       opts.UncheckedAppend,
	}, nil
}

// Compare returns the comparator the list is ordered by.
func (s *PartitionedSortedList[K, V]) Compare() func(a, b K) int {
	return s.compare
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

// Add appends an entry whose key must be strictly greater than the last appended
// key.
// Returns ErrInvalidArgument for a nil key and ErrOrderingViolation for a key that
// is not greater than the last key (unless the list was created with
// UncheckedAppend). An ordering violation means the producer handed in unsorted
// input and is not recoverable by retrying.
//
// Nil keys are nil pointers, maps, channels and funcs, and interfaces that are nil
// or hold one of those. A nil slice is an ordinary key and the comparator decides
// how it orders (bytes.Compare treats it like an empty slice).
//
// Thread-safety: This method is not thread-safe.
func (s *PartitionedSortedList[K, V]) Add(key K, value V) error {
	if s.nillableKeys && isNilKey(key) {
		return errors.Wrapf(ErrInvalidArgument, "nil key appended to list %s", s.name)
	}

	if !s.unchecked && s.current.Count() > 0 {
		last := s.current.lastKey()
		if s.compare(key, last) <= 0 {
			plog.Errorf("list %s: key %v appended after %v, input is not sorted", s.name, key, last)
			return errors.Wrapf(ErrOrderingViolation, "key %v is not greater than last key %v", key, last)
		}
	}

	return s.PartitionedList.Add(key, value)
}

// Set replaces the value stored for an existing key. Key order and count are
// unchanged.
// Returns ErrKeyNotFound if the key was never appended; Set never inserts.
//
// Thread-safety: This method is not thread-safe.
func (s *PartitionedSortedList[K, V]) Set(key K, value V) error {
	loc := s.lookup(key)
	if !loc.Valid() {
		return errors.Wrapf(ErrKeyNotFound, "set %v in list %s", key, s.name)
	}
	return s.partitions[loc.Partition].UpdateValue(loc.Item, value)
}

// --------------------------------------------------------------------------
// Lookup Operations
// --------------------------------------------------------------------------

// TryGetValue returns the value stored for key and whether it exists.
func (s *PartitionedSortedList[K, V]) TryGetValue(key K) (V, bool) {
	loc := s.lookup(key)
	if !loc.Valid() {
		var zero V
		return zero, false
	}
	return s.partitions[loc.Partition].values[loc.Item], true
}

// ContainsKey reports whether key was appended.
func (s *PartitionedSortedList[K, V]) ContainsKey(key K) bool {
	return s.lookup(key).Valid()
}

// Get returns the value stored for key.
// Returns ErrKeyNotFound if the key was never appended.
func (s *PartitionedSortedList[K, V]) Get(key K) (V, error) {
	v, ok := s.TryGetValue(key)
	if !ok {
		return v, errors.Wrapf(ErrKeyNotFound, "get %v from list %s", key, s.name)
	}
	return v, nil
}

// Locate resolves key to its location, or NoLocation if the key is absent.
// The location is invalidated by the next Add or Clear.
func (s *PartitionedSortedList[K, V]) Locate(key K) Location {
	if s.Count() == 0 {
		return NoLocation
	}

	// first level: the partition sequence ordered by first key
	pi, found := slices.BinarySearchFunc(s.partitions, key, s.byFirstKey.Compare)
	if found {
		return Location{Partition: pi, Item: 0}
	}

	// the key can only live in the partition preceding the insertion point
	candidate := pi - 1
	if candidate < 0 {
		return NoLocation
	}

	// second level: inside the candidate partition
	r := s.partitions[candidate].BinarySearch(key, s.compare)
	if !r.Found {
		return NoLocation
	}
	return Location{Partition: candidate, Item: r.Index}
}

// lookup is Locate with observer notification
func (s *PartitionedSortedList[K, V]) lookup(key K) Location {
	loc := s.Locate(key)
	if s.observer != nil {
		s.observer.Looked(loc.Valid())
	}
	return loc
}

// --------------------------------------------------------------------------
// Range Scan
// --------------------------------------------------------------------------

// AscendFrom returns a sequence over every entry whose key is >= key, in order.
// Each call returns an independent traversal; mutating the list while iterating
// is not supported.
func (s *PartitionedSortedList[K, V]) AscendFrom(key K) iter.Seq2[K, V] {
	return s.from(s.lowerBound(key))
}

// lowerBound returns the location of the first key >= key. The location may point
// one past the last entry of a partition, or past the last partition.
func (s *PartitionedSortedList[K, V]) lowerBound(key K) Location {
	if s.Count() == 0 {
		return Location{Partition: len(s.partitions), Item: 0}
	}

	pi, found := slices.BinarySearchFunc(s.partitions, key, s.byFirstKey.Compare)
	if found {
		return Location{Partition: pi, Item: 0}
	}
	if pi == 0 {
		return Location{Partition: 0, Item: 0}
	}

	candidate := pi - 1
	r := s.partitions[candidate].BinarySearch(key, s.compare)
	return Location{Partition: candidate, Item: r.InsertionPoint()}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// isNillable reports whether keys of type t can be rejected as nil
func isNillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map,
		reflect.Chan, reflect.Func, reflect.Interface:
		return true
	default:
		return false
	}
}

// isNilKey reports whether key is a nil interface or a nil reference
func isNilKey[K any](key K) bool {
	v := any(key)
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
