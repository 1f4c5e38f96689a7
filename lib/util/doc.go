// Package util provides utility components shared by the partitioned list and the
// run consolidation packages.
//
// The package contains:
//   - statistics: Summary and distribution statistics and a FillHistogram for reporting partition fill levels
//   - mapheap: A priority queue with key-based access, used to drive k-way merges of sorted runs
//
// None of the components is thread-safe; they are meant to be owned by a single
// goroutine, the same way the lists and the merge that use them are.
package util
