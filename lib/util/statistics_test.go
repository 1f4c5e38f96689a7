package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStats(t *testing.T) {
	stats := NewStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	assert.Equal(t, 2.0, stats.Min)
	assert.Equal(t, 9.0, stats.Max)
	assert.Equal(t, 5.0, stats.Mean)
	assert.InDelta(t, 2.0, stats.StdDeviation, 1e-9)
	assert.InDelta(t, 2.0/9.0, stats.MinMaxRatio, 1e-9)

	assert.Equal(t, Stats{}, NewStats(nil))
}

func TestNewDistributionStats(t *testing.T) {
	even := NewDistributionStats([]float64{8, 8, 8, 8})
	assert.InDelta(t, 1.0, even.DistributionQuality, 1e-9)

	uneven := NewDistributionStats([]float64{8, 8, 8, 1})
	assert.Less(t, uneven.DistributionQuality, even.DistributionQuality)
	assert.False(t, math.IsNaN(uneven.DistributionQuality))
}

func TestFillHistogram(t *testing.T) {
	var h FillHistogram

	// three full partitions and a tail at 25%
	h.AddSample(4, 4)
	h.AddSample(4, 4)
	h.AddSample(4, 4)
	h.AddSample(1, 4)
	h.AddSample(1, 0) // ignored

	assert.Equal(t, 4, h.Count)
	assert.Equal(t, 3, h.Full)
	assert.Equal(t, 1, h.Buckets[2])
	assert.InDelta(t, 13.0/16.0, h.Utilization(), 1e-9)
	assert.Equal(t, 1.0, h.MedianFill())

	h.Reset()
	assert.Equal(t, 0, h.Count)
	assert.Equal(t, 0.0, h.Utilization())
	assert.Equal(t, 0.0, h.MedianFill())
}

func TestFillHistogramMedianInBuckets(t *testing.T) {
	var h FillHistogram

	h.AddSample(0, 100)
	h.AddSample(15, 100)
	h.AddSample(16, 100)

	// median sample falls into the 10%..20% bucket
	assert.InDelta(t, 0.15, h.MedianFill(), 1e-9)
}
