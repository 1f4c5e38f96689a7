package plist

import "strconv"

// --------------------------------------------------------------------------
// Search Result
// --------------------------------------------------------------------------

// SearchResult is the outcome of a binary search over an ascending sequence.
// When Found is true, Index is the ordinal of the matching element. Otherwise
// Index is the insertion point: the ordinal the key would occupy if it were
// inserted while keeping the sequence sorted.
type SearchResult struct {
	Index int
	Found bool
}

// Found returns a result for a match at ordinal i.
func Found(i int) SearchResult {
	return SearchResult{Index: i, Found: true}
}

// NotFound returns a result for a miss whose insertion point is p.
func NotFound(p int) SearchResult {
	return SearchResult{Index: p}
}

// InsertionPoint returns the position at which the probed key belongs. For a
// match this is the ordinal of the match itself.
func (r SearchResult) InsertionPoint() int {
	return r.Index
}

func (r SearchResult) String() string {
	if r.Found {
		return "Found(" + strconv.Itoa(r.Index) + ")"
	}
	return "NotFound(" + strconv.Itoa(r.Index) + ")"
}

// --------------------------------------------------------------------------
// Location
// --------------------------------------------------------------------------

// Location identifies an entry by the ordinal of its partition and its ordinal
// inside that partition. It is only meaningful until the next mutation.
type Location struct {
	Partition int
	Item      int
}

// NoLocation is the sentinel returned when a key could not be resolved.
var NoLocation = Location{Partition: -1, Item: -1}

// Valid reports whether l refers to an entry.
func (l Location) Valid() bool {
	return l.Partition >= 0 && l.Item >= 0
}

func (l Location) String() string {
	if !l.Valid() {
		return "Location{none}"
	}
	return "Location{" + strconv.Itoa(l.Partition) + ":" + strconv.Itoa(l.Item) + "}"
}

// --------------------------------------------------------------------------
// Partition Comparer
// --------------------------------------------------------------------------

// partitionComparer orders partitions solely by their first key so that the
// partition sequence of a sorted list can be binary searched with the same key
// comparator as the entries themselves.
type partitionComparer[K, V any] struct {
	compare func(a, b K) int
}

// Compare compares the first key of p with key. Empty partitions sort before any
// key; a sorted list only holds an empty partition when it holds no entries at all.
func (pc partitionComparer[K, V]) Compare(p *Partition[K, V], key K) int {
	if p.Count() == 0 {
		return -1
	}
	return pc.compare(p.keys[0], key)
}
