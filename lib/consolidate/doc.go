// Package consolidate merges sorted runs of key/value entries into a single
// plist.PartitionedSortedList.
//
// A run is any iter.Seq2 whose keys are strictly increasing, for example the All
// sequence of another sorted list or entries decoded from a file. Runs are passed
// ordered from oldest to newest. When several runs contain the same key the entry
// of the newest run wins and the older ones are counted as shadowed. An optional
// Tombstone predicate marks winning entries that represent deletions; they are
// dropped instead of being written to the output.
//
// The merge is a k-way merge over a util.MapHeap holding the current head of every
// run, so it needs O(k) memory besides the output and O(n log k) comparisons.
//
// Example usage:
//
//	older := ... // iter.Seq2[int64, string]
//	newer := ... // iter.Seq2[int64, string]
//	list, res, err := consolidate.Merge(ctx, cmp.Compare[int64],
//		[]iter.Seq2[int64, string]{older, newer}, nil)
package consolidate
