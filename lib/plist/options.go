package plist

import (
	"math"

	"github.com/cockroachdb/errors"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// UnboundedPartitionCount is the partition cap used when none is configured.
const UnboundedPartitionCount = math.MaxInt32

// --------------------------------------------------------------------------
// Observer
// --------------------------------------------------------------------------

// Observer receives notifications about list activity. Implementations must be
// cheap: Appended and Looked are called on every append and lookup.
type Observer interface {
	// PartitionAllocated is called whenever the list creates a partition,
	// including the initial one and the one installed by Clear.
	PartitionAllocated(capacity int)
	// Appended is called after every successful append.
	Appended()
	// Looked is called after every point lookup with its outcome.
	Looked(found bool)
	// Cleared is called by Clear with the number of entries discarded.
	Cleared(dropped int)
}

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options configures a PartitionedList.
type Options struct {
	// Name identifies the list in log output and metrics (empty = "default")
	Name string
	// MaxPartitionSize is the number of entries per partition (0 = derive from K and V)
	MaxPartitionSize int
	// MaxPartitionCount caps the number of partitions (0 = UnboundedPartitionCount)
	MaxPartitionCount int
	// SizeCache memoizes the derived partition size (nil = compute on construction)
	SizeCache *SizeCache
	// Observer is notified about list activity (nil = no notifications)
	Observer Observer
}

// DefaultOptions returns options with a derived partition size and no partition cap.
func DefaultOptions() *Options {
	return &Options{
		Name:              "default",
		MaxPartitionSize:  0,
		MaxPartitionCount: UnboundedPartitionCount,
	}
}

// SortedOptions configures a PartitionedSortedList.
type SortedOptions struct {
	Options
	// UncheckedAppend disables the strictly-increasing key check on Add. Callers
	// that set it are solely responsible for the ordering; appending out of order
	// silently breaks lookups.
	UncheckedAppend bool
}

// DefaultSortedOptions returns DefaultOptions with ordering validation enabled.
func DefaultSortedOptions() *SortedOptions {
	return &SortedOptions{Options: *DefaultOptions()}
}

// resolve validates the options and returns the effective partition size and count
func resolve[K, V any](opts *Options) (size, count int, err error) {
	if opts.MaxPartitionSize < 0 {
		return 0, 0, errors.Wrapf(ErrInvalidArgument, "max partition size %d is negative", opts.MaxPartitionSize)
	}
	if opts.MaxPartitionCount < 0 {
		return 0, 0, errors.Wrapf(ErrInvalidArgument, "max partition count %d is negative", opts.MaxPartitionCount)
	}

	size = opts.MaxPartitionSize
	if size == 0 {
		size = PartitionSizeFor[K, V](opts.SizeCache)
	}

	count = opts.MaxPartitionCount
	if count == 0 {
		count = UnboundedPartitionCount
	}
	return size, count, nil
}
