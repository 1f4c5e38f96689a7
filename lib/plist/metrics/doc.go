// Package metrics exports the activity of plist indexes in the Prometheus text format.
//
// An Observer is handed to a list through plist.Options.Observer and counts appends,
// partition allocations, lookup hits and misses and clears. Each Observer owns its
// own metrics.Set, so several indexes can be observed side by side and written out
// independently:
//
//	obs := metrics.NewObserver("orders")
//	opts := plist.DefaultSortedOptions()
//	opts.Observer = obs
//	list, _ := plist.NewPartitionedSortedList[int64, string](cmp.Compare[int64], opts)
//	...
//	obs.WritePrometheus(os.Stdout)
//
// All metric names carry an index label with the observer name.
package metrics
