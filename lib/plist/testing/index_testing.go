package testing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/plist/lib/plist"
	"github.com/cockroachdb/errors"
)

// IndexFactory is a function that creates a new, empty SortedIndex
type IndexFactory func() plist.SortedIndex[int64, string]

// RunSortedIndexTests runs a comprehensive test suite for a SortedIndex implementation.
func RunSortedIndexTests(t *testing.T, name string, factory IndexFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Add&Get", func(t *testing.T) {
			testAddGet(t, factory())
		})

		t.Run("Missing", func(t *testing.T) {
			testMissing(t, factory())
		})

		t.Run("Set", func(t *testing.T) {
			testSet(t, factory())
		})

		t.Run("OrderValidation", func(t *testing.T) {
			testOrderValidation(t, factory())
		})

		t.Run("Enumerate", func(t *testing.T) {
			testEnumerate(t, factory())
		})

		t.Run("AscendFrom", func(t *testing.T) {
			testAscendFrom(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("ConcurrentReads", func(t *testing.T) {
			testConcurrentReads(t, factory())
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the index supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, index plist.SortedIndex[int64, string], feature plist.Feature) {
	if !index.SupportsFeature(feature) {
		t.Skip()
	}
}

// fill appends the keys 0, step, 2*step, ... (n keys) with the value "value-<key>"
func fill(t testing.TB, index plist.SortedIndex[int64, string], n int, step int64) {
	t.Helper()
	for i := 0; i < n; i++ {
		key := int64(i) * step
		if err := index.Add(key, valueFor(key)); err != nil {
			t.Fatalf("Add(%d) failed: %v", key, err)
		}
	}
}

func valueFor(key int64) string {
	return fmt.Sprintf("value-%d", key)
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testAddGet(t *testing.T, index plist.SortedIndex[int64, string]) {
	requireFeature(t, index, plist.FeatureAppend|plist.FeatureLookup)

	const n = 10_000
	fill(t, index, n, 3)

	if index.Count() != n {
		t.Errorf("Expected count %d, got %d", n, index.Count())
	}

	for i := 0; i < n; i++ {
		key := int64(i) * 3
		value, ok := index.TryGetValue(key)
		if !ok {
			t.Errorf("Expected key %d to exist after Add", key)
			continue
		}
		if value != valueFor(key) {
			t.Errorf("Expected value %s, got %s", valueFor(key), value)
		}
		if !index.ContainsKey(key) {
			t.Errorf("ContainsKey(%d) returned false for an existing key", key)
		}
	}

	last, err := index.LastKey()
	if err != nil {
		t.Fatalf("LastKey failed: %v", err)
	}
	if last != int64(n-1)*3 {
		t.Errorf("Expected last key %d, got %d", int64(n-1)*3, last)
	}
}

func testMissing(t *testing.T, index plist.SortedIndex[int64, string]) {
	requireFeature(t, index, plist.FeatureAppend|plist.FeatureLookup)

	if _, ok := index.TryGetValue(1); ok {
		t.Errorf("Expected lookup in an empty index to fail")
	}
	if _, err := index.LastKey(); !errors.Is(err, plist.ErrEmptyCollection) {
		t.Errorf("Expected ErrEmptyCollection from an empty index, got %v", err)
	}

	fill(t, index, 1000, 2)

	// odd keys fall between the stored even keys
	for _, key := range []int64{-1, 1, 501, 1997, 1999, 1 << 40} {
		if index.ContainsKey(key) {
			t.Errorf("Expected key %d to be missing", key)
		}
		if _, err := index.Get(key); !errors.Is(err, plist.ErrKeyNotFound) {
			t.Errorf("Expected ErrKeyNotFound for key %d, got %v", key, err)
		}
	}
}

func testSet(t *testing.T, index plist.SortedIndex[int64, string]) {
	requireFeature(t, index, plist.FeatureAppend|plist.FeatureUpdate|plist.FeatureLookup)

	fill(t, index, 500, 1)

	for key := int64(0); key < 500; key += 7 {
		if err := index.Set(key, "updated"); err != nil {
			t.Fatalf("Set(%d) failed: %v", key, err)
		}
	}

	for key := int64(0); key < 500; key++ {
		want := valueFor(key)
		if key%7 == 0 {
			want = "updated"
		}
		got, err := index.Get(key)
		if err != nil {
			t.Errorf("Get(%d) failed: %v", key, err)
			continue
		}
		if got != want {
			t.Errorf("Expected value %s for key %d, got %s", want, key, got)
		}
	}

	if err := index.Set(1000, "new"); !errors.Is(err, plist.ErrKeyNotFound) {
		t.Errorf("Expected Set on a missing key to fail with ErrKeyNotFound, got %v", err)
	}
	if index.Count() != 500 {
		t.Errorf("Set must not change the count, got %d", index.Count())
	}
}

func testOrderValidation(t *testing.T, index plist.SortedIndex[int64, string]) {
	requireFeature(t, index, plist.FeatureAppend|plist.FeatureOrderValidation)

	fill(t, index, 100, 10)
	last := int64(99 * 10)

	for _, key := range []int64{last, last - 1, 0, -5} {
		if err := index.Add(key, "bad"); !errors.Is(err, plist.ErrOrderingViolation) {
			t.Errorf("Expected ErrOrderingViolation for key %d, got %v", key, err)
		}
	}

	if index.Count() != 100 {
		t.Errorf("Rejected adds must not change the count, got %d", index.Count())
	}
	if err := index.Add(last+1, "ok"); err != nil {
		t.Errorf("Add after a rejected key failed: %v", err)
	}
}

func testEnumerate(t *testing.T, index plist.SortedIndex[int64, string]) {
	requireFeature(t, index, plist.FeatureAppend|plist.FeatureEnumerate)

	const n = 5000
	fill(t, index, n, 1)

	for pass := 0; pass < 2; pass++ {
		expected := int64(0)
		for key, value := range index.All() {
			if key != expected {
				t.Fatalf("Pass %d: expected key %d, got %d", pass, expected, key)
			}
			if value != valueFor(key) {
				t.Fatalf("Pass %d: expected value %s, got %s", pass, valueFor(key), value)
			}
			expected++
		}
		if expected != n {
			t.Errorf("Pass %d: enumerated %d entries, expected %d", pass, expected, n)
		}
	}

	// stopping early is allowed
	seen := 0
	for range index.All() {
		seen++
		if seen == 10 {
			break
		}
	}
	if seen != 10 {
		t.Errorf("Expected to stop after 10 entries, saw %d", seen)
	}
}

func testAscendFrom(t *testing.T, index plist.SortedIndex[int64, string]) {
	requireFeature(t, index, plist.FeatureAppend|plist.FeatureRangeScan)

	const n = 1000
	fill(t, index, n, 10)

	cases := []struct {
		from  int64
		first int64
		count int
	}{
		{-100, 0, n},
		{0, 0, n},
		{5, 10, n - 1},
		{10, 10, n - 1},
		{5001, 5010, n - 501},
		{9990, 9990, 1},
		{9991, -1, 0},
	}

	for _, c := range cases {
		count := 0
		prev := int64(-1 << 62)
		for key := range index.AscendFrom(c.from) {
			if count == 0 && key != c.first {
				t.Errorf("AscendFrom(%d): expected first key %d, got %d", c.from, c.first, key)
			}
			if key < c.from {
				t.Errorf("AscendFrom(%d): yielded smaller key %d", c.from, key)
			}
			if key <= prev {
				t.Errorf("AscendFrom(%d): keys out of order (%d after %d)", c.from, key, prev)
			}
			prev = key
			count++
		}
		if count != c.count {
			t.Errorf("AscendFrom(%d): expected %d entries, got %d", c.from, c.count, count)
		}
	}
}

func testClear(t *testing.T, index plist.SortedIndex[int64, string]) {
	requireFeature(t, index, plist.FeatureAppend|plist.FeatureClear)

	fill(t, index, 3000, 1)
	index.Clear()

	if index.Count() != 0 {
		t.Errorf("Expected count 0 after Clear, got %d", index.Count())
	}
	for range index.All() {
		t.Fatalf("Expected no entries after Clear")
	}

	// keys smaller than the ones before Clear are accepted again
	fill(t, index, 10, 1)
	if index.Count() != 10 {
		t.Errorf("Expected count 10 after refilling, got %d", index.Count())
	}

	entries := 0
	for range index.All() {
		entries++
	}
	if entries != 10 {
		t.Errorf("Entries added after Clear must be enumerable, got %d", entries)
	}

	if index.SupportsFeature(plist.FeatureLookup) {
		if value, ok := index.TryGetValue(9); !ok || value != valueFor(9) {
			t.Errorf("Entries added after Clear must be visible to lookups")
		}
		if index.ContainsKey(100) {
			t.Errorf("Key from before Clear must be gone")
		}
	}
}

func testEdgeCases(t *testing.T, index plist.SortedIndex[int64, string]) {
	requireFeature(t, index, plist.FeatureAppend|plist.FeatureLookup)

	// extreme keys
	keys := []int64{-1 << 63, -1, 0, 1, 1<<63 - 1}
	for _, key := range keys {
		if err := index.Add(key, ""); err != nil {
			t.Fatalf("Add(%d) failed: %v", key, err)
		}
	}

	for _, key := range keys {
		value, ok := index.TryGetValue(key)
		if !ok {
			t.Errorf("Expected key %d to exist", key)
		}
		if value != "" {
			t.Errorf("Expected empty value for key %d, got %q", key, value)
		}
	}

	if index.ContainsKey(2) {
		t.Errorf("Expected key 2 to be missing")
	}
}

func testConcurrentReads(t *testing.T, index plist.SortedIndex[int64, string]) {
	requireFeature(t, index, plist.FeatureAppend|plist.FeatureLookup)

	const n = 20_000
	fill(t, index, n, 2)

	numWorkers := 8
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	errs := make(chan error, numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func(workerId int) {
			defer wg.Done()
			for i := workerId; i < n; i += numWorkers {
				key := int64(i) * 2
				value, ok := index.TryGetValue(key)
				if !ok || value != valueFor(key) {
					errs <- fmt.Errorf("worker %d: lookup of key %d failed", workerId, key)
					return
				}
				if index.ContainsKey(key + 1) {
					errs <- fmt.Errorf("worker %d: odd key %d found", workerId, key+1)
					return
				}
			}
		}(w)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func testInfo(t *testing.T, index plist.SortedIndex[int64, string]) {
	fill(t, index, 100, 1)

	info := index.Info()
	if info.Count != 100 {
		t.Errorf("Expected info count 100, got %d", info.Count)
	}
	if info.Partitions < 1 {
		t.Errorf("Expected at least one partition, got %d", info.Partitions)
	}
	if info.Partitions*info.MaxPartitionSize < info.Count {
		t.Errorf("%d partitions of %d entries cannot hold %d entries",
			info.Partitions, info.MaxPartitionSize, info.Count)
	}
	if info.String() == "" {
		t.Errorf("Expected a non-empty info string")
	}
}
