package plist

import (
	"reflect"

	"github.com/ValentinKolb/plist/lib/util"
)

// listFeatures is the feature set of every PartitionedList
const listFeatures = FeatureAppend | FeatureEnumerate | FeatureClear

// --------------------------------------------------------------------------
// Features and Metadata
// --------------------------------------------------------------------------

// SupportsFeature checks if the list supports all of the specified features.
func (l *PartitionedList[K, V]) SupportsFeature(feature Feature) bool {
	return listFeatures&feature == feature
}

// Info returns statistics about the list.
//
// Thread-safety: Must not be called concurrently with a writer.
func (l *PartitionedList[K, V]) Info() IndexInfo {
	return l.info(KindPartitioned, listFeatures)
}

// SupportsFeature checks if the sorted list supports all of the specified features.
// FeatureOrderValidation is only reported if the list was not created with
// UncheckedAppend.
func (s *PartitionedSortedList[K, V]) SupportsFeature(feature Feature) bool {
	return s.features()&feature == feature
}

// Info returns statistics about the sorted list.
//
// Thread-safety: Must not be called concurrently with a writer.
func (s *PartitionedSortedList[K, V]) Info() IndexInfo {
	return s.info(KindPartitionedSorted, s.features())
}

func (s *PartitionedSortedList[K, V]) features() Feature {
	f := listFeatures | FeatureLookup | FeatureUpdate | FeatureRangeScan
	if !s.unchecked {
		f |= FeatureOrderValidation
	}
	return f
}

// info walks the partitions once; nothing is tracked on the append path
func (l *PartitionedList[K, V]) info(kind Kind, features Feature) IndexInfo {
	slotBytes := int(reflect.TypeFor[K]().Size() + reflect.TypeFor[V]().Size())

	var fill util.FillHistogram
	counts := make([]float64, len(l.partitions))
	sizeBytes := 0
	for i, p := range l.partitions {
		fill.AddSample(p.Count(), p.Capacity())
		counts[i] = float64(p.Count())
		sizeBytes += cap(p.keys) * slotBytes
	}

	return IndexInfo{
		Name:                  l.name,
		Kind:                  kind,
		Count:                 l.Count(),
		Partitions:            len(l.partitions),
		MaxPartitionSize:      l.maxPartitionSize,
		MaxPartitionCount:     l.maxPartitionCount,
		SizeBytes:             sizeBytes,
		PartitionDistribution: util.NewDistributionStats(counts),
		Fill:                  fill,
		SupportedFeatures:     features.features(),
	}
}
