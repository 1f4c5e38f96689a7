package plist

import (
	"fmt"
	"iter"
	"strings"

	"github.com/ValentinKolb/plist/lib/util"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Kind string

const (
	KindPartitioned       Kind = "partitioned"
	KindPartitionedSorted Kind = "partitioned-sorted"
)

// Feature represents index features as bit flags
type Feature uint64

const (
	FeatureAppend          Feature = 1 << iota // Support for Add
	FeatureEnumerate                           // Support for All, Keys and Values
	FeatureClear                               // Support for Clear
	FeatureLookup                              // Support for TryGetValue, ContainsKey and Get
	FeatureUpdate                              // Support for Set
	FeatureRangeScan                           // Support for AscendFrom
	FeatureOrderValidation                     // Add rejects keys that are not strictly increasing
)

func (f Feature) String() string {
	switch f {
	case FeatureAppend:
		return "Append"
	case FeatureEnumerate:
		return "Enumerate"
	case FeatureClear:
		return "Clear"
	case FeatureLookup:
		return "Lookup"
	case FeatureUpdate:
		return "Update"
	case FeatureRangeScan:
		return "RangeScan"
	case FeatureOrderValidation:
		return "OrderValidation"
	default:
		return "Unknown"
	}
}

// features returns the names of all flags set in f
func (f Feature) features() []string {
	var names []string
	for bit := FeatureAppend; bit <= FeatureOrderValidation; bit <<= 1 {
		if f&bit != 0 {
			names = append(names, bit.String())
		}
	}
	return names
}

// IndexInfo describes the shape of an index. Byte sizes are estimates derived from
// the slot sizes of K and V; memory referenced by keys or values is not included.
type IndexInfo struct {
	Name                  string                 `json:"name"`
	Kind                  Kind                   `json:"kind"`
	Count                 int                    `json:"count"`
	Partitions            int                    `json:"partitions"`
	MaxPartitionSize      int                    `json:"max_partition_size"`
	MaxPartitionCount     int                    `json:"max_partition_count"`
	SizeBytes             int                    `json:"size_bytes"`
	PartitionDistribution util.DistributionStats `json:"partition_distribution"`
	Fill                  util.FillHistogram     `json:"fill"`
	SupportedFeatures     []string               `json:"supported_features"`
}

func (i IndexInfo) String() string {
	var sb strings.Builder
	addField := func(name string, value any) {
		sb.WriteString(fmt.Sprintf("  %-22s: %v\n", name, value))
	}

	addField("Name", i.Name)
	addField("Kind", string(i.Kind))
	addField("Entries", i.Count)
	addField("Partitions", i.Partitions)
	addField("Max Partition Size", i.MaxPartitionSize)
	addField("Max Partition Count", i.MaxPartitionCount)
	addField("Estimated Size (bytes)", i.SizeBytes)
	addField("Utilization", fmt.Sprintf("%.2f", i.Fill.Utilization()))
	addField("Median Partition Fill", fmt.Sprintf("%.2f", i.Fill.MedianFill()))
	addField("Distribution Quality", fmt.Sprintf("%.2f", i.PartitionDistribution.DistributionQuality))
	addField("Features", strings.Join(i.SupportedFeatures, ","))
	return sb.String()
}

// --------------------------------------------------------------------------
// Index Interfaces
// --------------------------------------------------------------------------

// Index is an append-only, enumerable collection of key/value entries.
type Index[K, V any] interface {
	// Add appends an entry.
	Add(key K, value V) (err error)

	// Count returns the number of entries. Safe to call concurrently.
	Count() (n int)

	// LastKey returns the most recently appended key.
	LastKey() (key K, err error)

	// All enumerates every entry in append order.
	All() iter.Seq2[K, V]

	// Clear discards all entries, leaving an index equivalent to a new one.
	Clear()

	// SupportsFeature checks if the index supports all of the specified features.
	// Multiple features can be checked at once using bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// Info returns information about the index.
	Info() (info IndexInfo)
}

// SortedIndex is an Index whose keys are strictly increasing in append order and
// which supports point lookups and in-place updates.
type SortedIndex[K, V any] interface {
	Index[K, V]

	// TryGetValue returns the value for key and whether it exists.
	TryGetValue(key K) (value V, ok bool)

	// ContainsKey reports whether key exists.
	ContainsKey(key K) (ok bool)

	// Get returns the value for key or ErrKeyNotFound.
	Get(key K) (value V, err error)

	// Set updates the value of an existing key or returns ErrKeyNotFound.
	Set(key K, value V) (err error)

	// AscendFrom enumerates every entry with a key >= key.
	AscendFrom(key K) iter.Seq2[K, V]
}

var (
	_ Index[int, int]       = (*PartitionedList[int, int])(nil)
	_ SortedIndex[int, int] = (*PartitionedSortedList[int, int])(nil)
)
