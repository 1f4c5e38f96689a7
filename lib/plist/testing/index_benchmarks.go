package testing

import (
	"math/rand"
	"testing"

	"github.com/ValentinKolb/plist/lib/plist"
)

// RunSortedIndexBenchmarks runs all benchmarks for a SortedIndex implementation
func RunSortedIndexBenchmarks(b *testing.B, name string, factory IndexFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Add", func(b *testing.B) {
			benchmarkAdd(b, factory())
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, factory())
		})

		b.Run("Get(not)", func(b *testing.B) {
			benchmarkGetNot(b, factory())
		})

		b.Run("GetParallel", func(b *testing.B) {
			benchmarkGetParallel(b, factory())
		})

		b.Run("Set", func(b *testing.B) {
			benchmarkSet(b, factory())
		})

		b.Run("Scan", func(b *testing.B) {
			benchmarkScan(b, factory())
		})

		b.Run("AscendFrom", func(b *testing.B) {
			benchmarkAscendFrom(b, factory())
		})
	})
}

// prefill is the number of entries added before the read benchmarks
const prefill = 1 << 20

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for strictly increasing appends
func benchmarkAdd(b *testing.B, index plist.SortedIndex[int64, string]) {
	requireFeature(b, index, plist.FeatureAppend)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := index.Add(int64(i), "v"); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark for lookups of existing keys
func benchmarkGet(b *testing.B, index plist.SortedIndex[int64, string]) {
	requireFeature(b, index, plist.FeatureAppend|plist.FeatureLookup)
	fill(b, index, prefill, 2)

	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := int64(rng.Intn(prefill)) * 2
		if _, ok := index.TryGetValue(key); !ok {
			b.Fatalf("key %d not found", key)
		}
	}
}

// Benchmark for lookups of keys between stored keys
func benchmarkGetNot(b *testing.B, index plist.SortedIndex[int64, string]) {
	requireFeature(b, index, plist.FeatureAppend|plist.FeatureLookup)
	fill(b, index, prefill, 2)

	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := int64(rng.Intn(prefill))*2 + 1
		if index.ContainsKey(key) {
			b.Fatalf("key %d unexpectedly found", key)
		}
	}
}

// Parallel benchmarking for lookups, readers only
func benchmarkGetParallel(b *testing.B, index plist.SortedIndex[int64, string]) {
	requireFeature(b, index, plist.FeatureAppend|plist.FeatureLookup)
	fill(b, index, prefill, 2)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			index.TryGetValue(int64(counter%prefill) * 2)
			counter += 7919
		}
	})
}

// Benchmark for in-place value updates
func benchmarkSet(b *testing.B, index plist.SortedIndex[int64, string]) {
	requireFeature(b, index, plist.FeatureAppend|plist.FeatureUpdate)
	fill(b, index, prefill, 1)

	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := index.Set(int64(rng.Intn(prefill)), "updated"); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark for a full enumeration, reported per entry
func benchmarkScan(b *testing.B, index plist.SortedIndex[int64, string]) {
	requireFeature(b, index, plist.FeatureAppend|plist.FeatureEnumerate)
	fill(b, index, prefill, 1)

	b.ResetTimer()
	entries := 0
	for entries < b.N {
		for range index.All() {
			entries++
			if entries >= b.N {
				break
			}
		}
	}
}

// Benchmark for short range scans of 100 entries from a random start
func benchmarkAscendFrom(b *testing.B, index plist.SortedIndex[int64, string]) {
	requireFeature(b, index, plist.FeatureAppend|plist.FeatureRangeScan)
	fill(b, index, prefill, 1)

	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n := 0
		for range index.AscendFrom(int64(rng.Intn(prefill))) {
			n++
			if n == 100 {
				break
			}
		}
	}
}
