// Package util
//
// This file implements small statistics helpers used to report on the shape of a
// partitioned list without keeping any bookkeeping on the append path: summary
// statistics over a set of values and a histogram of partition fill levels.
package util

import (
	"math"
)

// ----------------------------------------------------------------------------
// Summary statistics
// ----------------------------------------------------------------------------

type Stats struct {
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	MinMaxRatio  float64 `json:"min_max_ratio"`
}

// NewStats computes mean, population standard deviation, minimum and maximum of values.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	minV, maxV := values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	mean := sum / float64(len(values))

	var sumSquaredDiffs float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}

	minMaxRatio := 1.0
	if maxV > 0 {
		minMaxRatio = minV / maxV
	}

	return Stats{
		StdDeviation: math.Sqrt(sumSquaredDiffs / float64(len(values))),
		Min:          minV,
		Max:          maxV,
		Mean:         mean,
		MinMaxRatio:  minMaxRatio,
	}
}

type DistributionStats struct {
	Stats
	DistributionQuality float64 `json:"distribution_quality"`
}

// NewDistributionStats computes how evenly values are spread. The quality is 1 for
// identical values and approaches 0 for a very uneven spread.
func NewDistributionStats(values []float64) DistributionStats {
	stats := NewStats(values)

	// coefficient of variation
	var cv float64
	if stats.Mean > 0 {
		cv = stats.StdDeviation / stats.Mean
	}

	// lower CV and higher min/max ratio indicate better distribution
	return DistributionStats{
		Stats:               stats,
		DistributionQuality: (1.0-math.Min(1.0, cv))*0.5 + stats.MinMaxRatio*0.5,
	}
}

// ----------------------------------------------------------------------------
// FillHistogram
// ----------------------------------------------------------------------------

// fillBuckets is the number of histogram buckets, each covering 10% of capacity.
// A separate bucket counts completely full partitions.
const fillBuckets = 10

// FillHistogram tracks how full a set of bounded containers is. Samples are bucketed
// by fill ratio in steps of 10%; completely full containers are counted separately
// because a healthy partitioned list consists of full partitions plus one tail.
//
// Thread-safety: A FillHistogram is not safe for concurrent use.
type FillHistogram struct {
	Buckets [fillBuckets]int `json:"buckets"` // samples per 10% fill step, full ones excluded
	Full    int              `json:"full"`    // samples filled to capacity
	Count   int              `json:"count"`   // total number of samples
	used    int
	total   int
}

// AddSample records a container holding used out of capacity slots.
// Samples with a non-positive capacity are ignored.
func (h *FillHistogram) AddSample(used, capacity int) {
	if capacity <= 0 {
		return
	}
	used = min(max(used, 0), capacity)

	h.Count++
	h.used += used
	h.total += capacity

	if used == capacity {
		h.Full++
		return
	}
	h.Buckets[used*fillBuckets/capacity]++
}

// Utilization returns used slots divided by total slots over all samples.
func (h *FillHistogram) Utilization() float64 {
	if h.total == 0 {
		return 0
	}
	return float64(h.used) / float64(h.total)
}

// MedianFill estimates the median fill ratio from the buckets (bucket midpoints,
// 1.0 for full containers).
func (h *FillHistogram) MedianFill() float64 {
	if h.Count == 0 {
		return 0
	}

	target := (h.Count + 1) / 2
	cumulative := 0
	for i, n := range h.Buckets {
		cumulative += n
		if cumulative >= target {
			return (float64(i) + 0.5) / fillBuckets
		}
	}
	return 1.0
}

// Reset clears all samples.
func (h *FillHistogram) Reset() {
	*h = FillHistogram{}
}
