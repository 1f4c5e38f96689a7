// Package util
//
// This file provides a priority queue with key-based access for k-way merges.
//
// The implementation combines a binary heap with a hash map. Every item carries a
// uint64 key (for a merge: the ordinal of the input run) and a priority (for a
// merge: the current head entry of that run). The heap order is defined by a
// caller supplied less function, which makes the queue usable with any comparator
// instead of only numeric priorities.
//
// Time Complexity:
//   - O(log n) for priority operations (Push, Pop, AddItem on an existing key)
//   - O(log n) for key-based removal
//
// Concurrency Considerations:
//   - This implementation is not thread-safe
//   - For concurrent use, external synchronization should be applied
//
// Example usage:
//
//	// Create a queue ordered by the head key of each run
//	q := NewMapHeap(func(a, b string) bool { return a < b })
//
//	// Register the head of every run
//	q.AddItem(0, "apple")
//	q.AddItem(1, "banana")
//
//	// Get the run with the smallest head
//	head, exists := q.Peek()
//
//	// Advance a run (re-prioritizes it) or drop it once it is exhausted
//	q.AddItem(head.Key, "cherry")
//	q.RemoveByKey(1)
package util

import (
	"container/heap"
	"fmt"
)

// Item is an entry of a MapHeap
type Item[P any] struct {
	Key      uint64 // Unique identifier for the item
	Priority P      // Priority used for ordering in the heap
	index    int    // Index in the heap, maintained by heap package
}

func (i *Item[P]) String() string {
	return fmt.Sprintf("{Key: %d, Priority: %v}", i.Key, i.Priority)
}

// MapHeap implements a min priority queue with both heap operations and key-based access
type MapHeap[P any] struct {
	items    []*Item[P]          // The actual heap slice
	itemsMap map[uint64]*Item[P] // Map for O(1) access by key
	less     func(a, b P) bool   // Strict ordering of priorities
}

// NewMapHeap creates a new queue ordered by less. The returned heap is already
// initialized.
func NewMapHeap[P any](less func(a, b P) bool) *MapHeap[P] {
	return &MapHeap[P]{
		items:    make([]*Item[P], 0),
		itemsMap: make(map[uint64]*Item[P]),
		less:     less,
	}
}

// Len returns the number of items in the queue (part of heap.Interface)
func (mh *MapHeap[P]) Len() int { return len(mh.items) }

// Less compares items by priority (part of heap.Interface)
func (mh *MapHeap[P]) Less(i, j int) bool {
	return mh.less(mh.items[i].Priority, mh.items[j].Priority)
}

// Swap exchanges items at positions i and j (part of heap.Interface)
func (mh *MapHeap[P]) Swap(i, j int) {
	mh.items[i], mh.items[j] = mh.items[j], mh.items[i]
	mh.items[i].index = i
	mh.items[j].index = j
}

// Push adds an item to the heap (part of heap.Interface)
func (mh *MapHeap[P]) Push(x any) {
	n := len(mh.items)
	item := x.(*Item[P])
	item.index = n
	mh.items = append(mh.items, item)
	mh.itemsMap[item.Key] = item
}

// Pop removes and returns the last item (part of heap.Interface, use heap.Pop)
func (mh *MapHeap[P]) Pop() any {
	old := mh.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // Avoid memory leak
	item.index = -1 // For safety
	mh.items = old[:n-1]
	delete(mh.itemsMap, item.Key)
	return item
}

// AddItem adds a new item to the queue or updates the priority of an existing one
func (mh *MapHeap[P]) AddItem(key uint64, priority P) {
	// Check if item already exists
	if item, exists := mh.itemsMap[key]; exists {
		// Update priority and fix heap
		item.Priority = priority
		heap.Fix(mh, item.index)
		return
	}

	heap.Push(mh, &Item[P]{
		Key:      key,
		Priority: priority,
	})
}

// RemoveByKey removes an item by its key and returns its priority
func (mh *MapHeap[P]) RemoveByKey(key uint64) (P, bool) {
	item, exists := mh.itemsMap[key]
	if !exists {
		var zero P
		return zero, false
	}

	heap.Remove(mh, item.index)
	return item.Priority, true
}

// Peek returns the minimum item without removing it
func (mh *MapHeap[P]) Peek() (*Item[P], bool) {
	if len(mh.items) == 0 {
		return nil, false
	}
	return mh.items[0], true
}
