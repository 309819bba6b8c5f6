// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

// clearTickInterval is how many visited bucket indices elapse between
// calls to a Clear tick callback, so a long-running teardown can
// cooperate with a host event loop (spec.md §4.C, §6 constants).
const clearTickInterval = 65536

// subTable is one flat bucket array: a slice of chain heads, its size
// (always a power of two, or zero when uninitialized), the derived
// mask, and the live-entry count.
type subTable[K comparable, V any] struct {
	buckets []*entry[K, V]
	size    uint64
	mask    uint64
	used    uint64
}

func newSubTable[K comparable, V any](size uint64) *subTable[K, V] {
	return &subTable[K, V]{
		buckets: make([]*entry[K, V], size),
		size:    size,
		mask:    size - 1,
	}
}

// reset zeroes the fields without freeing the bucket array; the caller
// is responsible for disposing of it (or, as in rehash completion,
// handing it off to the other slot).
func (t *subTable[K, V]) reset() {
	t.buckets = nil
	t.size = 0
	t.mask = 0
	t.used = 0
}

// clear frees every chained entry via the descriptor's destroy hooks,
// drops the bucket array, and resets the table. tick, if non-nil, is
// invoked every clearTickInterval visited bucket indices so a caller
// tearing down a very large table can check for external cancellation.
func (t *subTable[K, V]) clear(desc *Descriptor[K, V], tick func()) {
	for i := uint64(0); i < t.size; i++ {
		if tick != nil && i > 0 && i%clearTickInterval == 0 {
			tick()
		}

		e := t.buckets[i]
		for e != nil {
			next := e.next
			desc.destroyKey(e.key)
			desc.destroyVal(e.val)
			e = next
		}
	}

	t.reset()
}
