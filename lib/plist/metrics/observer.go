package metrics

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ValentinKolb/plist/lib/plist"
	vm "github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var mlog = logger.GetLogger("metrics")

// Observer implements plist.Observer on top of a VictoriaMetrics set.
//
// Thread-safety: all notifications are safe for concurrent use. Lookups are
// reported from reader goroutines while appends come from the single writer.
type Observer struct {
	name string
	set  *vm.Set

	appends    *vm.Counter
	partitions *vm.Counter
	slots      *vm.Counter
	hits       *vm.Counter
	misses     *vm.Counter
	clears     *vm.Counter
	dropped    *vm.Histogram

	entries atomic.Int64
}

var _ plist.Observer = (*Observer)(nil)

// NewObserver creates an Observer whose metrics are labeled with index="name".
func NewObserver(name string) *Observer {
	o := &Observer{
		name: name,
		set:  vm.NewSet(),
	}

	o.appends = o.set.NewCounter(o.metric("plist_appends_total"))
	o.partitions = o.set.NewCounter(o.metric("plist_partitions_allocated_total"))
	o.slots = o.set.NewCounter(o.metric("plist_partition_slots_allocated_total"))
	o.hits = o.set.NewCounter(o.metric("plist_lookups_hit_total"))
	o.misses = o.set.NewCounter(o.metric("plist_lookups_miss_total"))
	o.clears = o.set.NewCounter(o.metric("plist_clears_total"))
	o.dropped = o.set.NewHistogram(o.metric("plist_clear_dropped_entries"))
	o.set.NewGauge(o.metric("plist_entries"), func() float64 {
		return float64(o.entries.Load())
	})

	mlog.Debugf("created observer for index %q", name)
	return o
}

// metric returns the full metric name including the index label
func (o *Observer) metric(base string) string {
	return fmt.Sprintf("%s{index=%q}", base, o.name)
}

// Name returns the index label of the observer.
func (o *Observer) Name() string {
	return o.name
}

// --------------------------------------------------------------------------
// plist.Observer
// --------------------------------------------------------------------------

func (o *Observer) PartitionAllocated(capacity int) {
	o.partitions.Inc()
	o.slots.Add(capacity)
}

func (o *Observer) Appended() {
	o.appends.Inc()
	o.entries.Add(1)
}

func (o *Observer) Looked(found bool) {
	if found {
		o.hits.Inc()
	} else {
		o.misses.Inc()
	}
}

func (o *Observer) Cleared(dropped int) {
	o.clears.Inc()
	o.dropped.Update(float64(dropped))
	o.entries.Add(-int64(dropped))
}

// --------------------------------------------------------------------------
// Export
// --------------------------------------------------------------------------

// Snapshot is a point-in-time copy of the counters of an Observer.
type Snapshot struct {
	Appends             uint64
	PartitionsAllocated uint64
	SlotsAllocated      uint64
	LookupHits          uint64
	LookupMisses        uint64
	Clears              uint64
	Entries             int64
}

// HitRatio returns the fraction of lookups that found their key, or 0 without lookups.
func (s Snapshot) HitRatio() float64 {
	total := s.LookupHits + s.LookupMisses
	if total == 0 {
		return 0
	}
	return float64(s.LookupHits) / float64(total)
}

// Snapshot returns the current counter values.
func (o *Observer) Snapshot() Snapshot {
	return Snapshot{
		Appends:             o.appends.Get(),
		PartitionsAllocated: o.partitions.Get(),
		SlotsAllocated:      o.slots.Get(),
		LookupHits:          o.hits.Get(),
		LookupMisses:        o.misses.Get(),
		Clears:              o.clears.Get(),
		Entries:             o.entries.Load(),
	}
}

// WritePrometheus writes all metrics of the observer in the Prometheus text format.
func (o *Observer) WritePrometheus(w io.Writer) {
	o.set.WritePrometheus(w)
}
