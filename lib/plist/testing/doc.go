// Package testing provides standardised tests and benchmarks for
// index implementations that satisfy the plist.SortedIndex interface.
//
// The package contains:
//   - testing: A conformance suite validating the SortedIndex contract (ordering,
//     lookups, updates, enumeration, clear semantics)
//   - benchmark: Performance tests for appends, lookups, updates and scans
//
// Tests for features an implementation does not report through SupportsFeature
// are skipped.
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() plist.SortedIndex[int64, string] {
//		s, _ := plist.NewPartitionedSortedList[int64, string](cmp.Compare[int64], nil)
//		return s
//	}
//
//	// Running the standard test suite
//	plisttesting.RunSortedIndexTests(t, "Default", factory)
//
//	// Running performance benchmarks
//	plisttesting.RunSortedIndexBenchmarks(b, "Default", factory)
package testing
