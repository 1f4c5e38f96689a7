package plist

import "github.com/cockroachdb/errors"

// --------------------------------------------------------------------------
// Error Taxonomy
// --------------------------------------------------------------------------

// All errors returned by this package wrap one of the sentinels below and can be
// matched with errors.Is. None of them is transient: retrying the same call on the
// same list yields the same error.
var (
	// ErrCapacityExceeded is returned when a partition is full and no further
	// partition may be allocated.
	ErrCapacityExceeded = errors.New("plist: capacity exceeded")

	// ErrOutOfRange is returned for an ordinal outside [0, count).
	ErrOutOfRange = errors.New("plist: ordinal out of range")

	// ErrEmptyCollection is returned when reading the first or last key of an empty
	// partition or list.
	ErrEmptyCollection = errors.New("plist: collection is empty")

	// ErrInvalidArgument is returned for nil keys, nil comparators and invalid options.
	ErrInvalidArgument = errors.New("plist: invalid argument")

	// ErrKeyNotFound is returned by Get and Set when the key was never appended.
	ErrKeyNotFound = errors.New("plist: key not found")

	// ErrOrderingViolation is returned by the sorted list when a key is not strictly
	// greater than the last appended key. It signals a bug in the producer.
	ErrOrderingViolation = errors.New("plist: ordering violation")
)
