package consolidate

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/ValentinKolb/plist/lib/plist"
	"github.com/ValentinKolb/plist/lib/util"
	"github.com/cockroachdb/errors"
	"github.com/lni/dragonboat/v4/logger"
)

var clog = logger.GetLogger("consolidate")

// ErrRunOutOfOrder is returned if a run yields a key that is not strictly greater
// than its previous key.
var ErrRunOutOfOrder = errors.New("consolidate: run out of order")

// ctxCheckInterval is the number of merged keys between two context checks
const ctxCheckInterval = 1024

// Options configures a merge.
type Options[V any] struct {
	// Tombstone reports whether a winning value marks a deleted key.
	// Such entries are dropped from the output. Nil keeps every entry.
	Tombstone func(value V) bool

	// List configures the output list created by Merge. Ignored by MergeInto.
	List *plist.SortedOptions
}

// Result summarizes a merge.
type Result struct {
	Runs     int           // Number of input runs
	Input    int           // Entries read from all runs
	Output   int           // Entries written to the output
	Shadowed int           // Entries replaced by the same key in a newer run
	Dropped  int           // Winning entries removed by the tombstone predicate
	Elapsed  time.Duration // Wall time of the merge
}

func (r Result) String() string {
	return fmt.Sprintf("runs=%d input=%d output=%d shadowed=%d dropped=%d elapsed=%s",
		r.Runs, r.Input, r.Output, r.Shadowed, r.Dropped, r.Elapsed)
}

// head is the current entry of a run inside the heap
type head[K, V any] struct {
	key   K
	value V
	run   int
}

// cursor pulls entries from a single run and validates their order
type cursor[K, V any] struct {
	next    func() (K, V, bool)
	stop    func()
	last    K
	started bool
}

// --------------------------------------------------------------------------
// Merge
// --------------------------------------------------------------------------

// Merge merges runs (ordered oldest to newest) into a new sorted list.
func Merge[K, V any](ctx context.Context, compare func(a, b K) int, runs []iter.Seq2[K, V], opts *Options[V]) (*plist.PartitionedSortedList[K, V], Result, error) {
	if opts == nil {
		opts = &Options[V]{}
	}

	dst, err := plist.NewPartitionedSortedList[K, V](compare, opts.List)
	if err != nil {
		return nil, Result{}, err
	}

	res, err := MergeInto(ctx, dst, runs, opts)
	if err != nil {
		return nil, res, err
	}
	return dst, res, nil
}

// MergeInto merges runs (ordered oldest to newest) and appends the result to dst
// using the comparator of dst. All merged keys must be greater than the last key
// of dst.
//
// On error dst keeps every entry appended so far.
func MergeInto[K, V any](ctx context.Context, dst *plist.PartitionedSortedList[K, V], runs []iter.Seq2[K, V], opts *Options[V]) (res Result, err error) {
	if opts == nil {
		opts = &Options[V]{}
	}
	start := time.Now()
	compare := dst.Compare()
	res.Runs = len(runs)

	// newest run first on equal keys
	queue := util.NewMapHeap(func(a, b head[K, V]) bool {
		if c := compare(a.key, b.key); c != 0 {
			return c < 0
		}
		return a.run > b.run
	})

	cursors := make([]*cursor[K, V], len(runs))
	defer func() {
		for _, c := range cursors {
			if c != nil {
				c.stop()
			}
		}
	}()

	// advance reads the next entry of run i into the queue, or removes the run
	advance := func(i int) error {
		c := cursors[i]
		k, v, ok := c.next()
		if !ok {
			queue.RemoveByKey(uint64(i))
			return nil
		}
		if c.started && compare(k, c.last) <= 0 {
			return errors.Wrapf(ErrRunOutOfOrder, "run %d: key %v after %v", i, k, c.last)
		}
		c.last, c.started = k, true
		res.Input++
		queue.AddItem(uint64(i), head[K, V]{key: k, value: v, run: i})
		return nil
	}

	for i, run := range runs {
		next, stop := iter.Pull2(run)
		cursors[i] = &cursor[K, V]{next: next, stop: stop}
		if err := advance(i); err != nil {
			return res, err
		}
	}

	clog.Debugf("merging %d runs into list %s", len(runs), dst.Name())

	merged := 0
	for queue.Len() > 0 {
		if merged%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, errors.Wrap(err, "merge interrupted")
			}
		}
		merged++

		top, _ := queue.Peek()
		winner := top.Priority

		// advance every run positioned on the winning key
		for {
			item, ok := queue.Peek()
			if !ok || compare(item.Priority.key, winner.key) != 0 {
				break
			}
			if item.Priority.run != winner.run {
				res.Shadowed++
			}
			if err := advance(item.Priority.run); err != nil {
				return res, err
			}
		}

		if opts.Tombstone != nil && opts.Tombstone(winner.value) {
			res.Dropped++
			continue
		}
		if err := dst.Add(winner.key, winner.value); err != nil {
			return res, errors.Wrapf(err, "merge into %s", dst.Name())
		}
		res.Output++
	}

	res.Elapsed = time.Since(start)
	clog.Infof("merged into list %s: %s", dst.Name(), res)
	return res, nil
}
