// Package plist provides partitioned, append-optimized lists that hold very large
// numbers of key/value entries without ever making a single large allocation.
//
// The package focuses on:
//   - Near O(1) amortized append into fixed-capacity partitions
//   - O(log n) point lookup and in-place update for input that arrives sorted
//   - Bounding every backing array to LimitBytes so that the garbage collector never
//     deals with one huge object for the whole collection
//
// Key Components:
//
//   - Partition: A bounded, append-only chunk of entries. Keys and values live in
//     parallel slices. A partition supports positional access, in-place value updates
//     and a binary search returning an explicit SearchResult (Found or NotFound with
//     an insertion point).
//
//   - PartitionedList: An unbounded sequence of entries realized as a growing slice of
//     partitions. Appends go to the last ("current") partition; a full partition is
//     followed by a freshly allocated one, up to MaxPartitionCount. The entry count is
//     kept in an atomic counter so it can be read while other goroutines read the list.
//
//   - PartitionedSortedList: A PartitionedList whose keys must be strictly increasing
//     in append order. Because append order is sort order the partitions are sorted by
//     their first key, and a lookup is two binary searches: one over the partitions
//     (ordered by first key) and one inside the single candidate partition.
//
//   - Location: The resolved position (partition ordinal, item ordinal) of a key, or
//     NoLocation.
//
// Partition Sizing:
//
// If no MaxPartitionSize is configured the size is derived from the key and value
// types: for each type the number of slots fitting into LimitBytes is computed
// (reference kinds count as one pointer, everything else by its compile time size)
// and rounded down to a power of two; the smaller of both wins. Zero sized types
// fall back to FallbackPartitionSize. The computation can be memoized with a
// SizeCache that the caller owns and passes in through Options.
//
// Concurrency:
//
// All lists are single-writer. Add, Set and Clear must not run concurrently with
// each other or with readers. Count is always safe to call. Lookups and enumeration
// are safe from many goroutines as long as no writer is active.
//
// Errors:
//
// Every error wraps one of the package sentinels (ErrCapacityExceeded, ErrOutOfRange,
// ErrEmptyCollection, ErrInvalidArgument, ErrKeyNotFound, ErrOrderingViolation) and
// can be matched with errors.Is. ErrOrderingViolation indicates a producer handing in
// unsorted input; it is a bug upstream, not a transient condition.
//
// Related Packages:
//
// The metrics package (github.com/ValentinKolb/plist/lib/plist/metrics) provides an
// Observer exporting counters. The testing package
// (github.com/ValentinKolb/plist/lib/plist/testing) provides a conformance suite for
// SortedIndex implementations. The consolidate package
// (github.com/ValentinKolb/plist/lib/consolidate) merges sorted runs into a
// PartitionedSortedList.
package plist
