// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import "math/bits"

// Scan performs one step of a stateless, resize-tolerant traversal. The
// entire iteration state is the cursor value returned from the previous
// call; cursor 0 starts a scan, and a returned cursor of 0 ends it.
//
// Guarantee: every entry present throughout the whole scan is visited
// at least once, even if the table grows or shrinks (by a power-of-two
// ratio) between calls. Entries inserted or removed mid-scan may or may
// not be visited, and an entry may be visited more than once -- no
// stronger guarantee is made or needed (spec.md §4.F).
//
// fn is invoked once per visited entry, with its successor already
// cached so fn may delete the entry it was just given. bucketFn, if
// non-nil, is invoked once per visited bucket (table id 0 or 1, index
// within that table) before its entries are emitted.
func (d *Dict[K, V]) Scan(cursor uint64, fn func(e *Entry[K, V]), bucketFn func(tableID int, bucketIndex uint64)) uint64 {
	if d.Len() == 0 {
		return 0
	}

	// A scan callback may itself call Find or similar, which would
	// otherwise trigger the opportunistic rehash step mid-scan.
	d.iterators++
	defer func() { d.iterators-- }()

	if !d.isRehashing() {
		t0 := d.ht[0]
		m0 := t0.mask

		idx := cursor & m0
		if bucketFn != nil {
			bucketFn(0, idx)
		}
		emitChain(t0.buckets[idx], fn)

		return advanceCursor(cursor, m0)
	}

	small, big := d.ht[0], d.ht[1]
	smallID, bigID := 0, 1
	if small.size > big.size {
		small, big = big, small
		smallID, bigID = 1, 0
	}
	mSmall, mBig := small.mask, big.mask

	idx := cursor & mSmall
	if bucketFn != nil {
		bucketFn(smallID, idx)
	}
	emitChain(small.buckets[idx], fn)

	// Iterate over every index of the bigger table that is an
	// expansion of the small table's bucket, i.e. shares its low bits.
	for {
		bigIdx := cursor & mBig
		if bucketFn != nil {
			bucketFn(bigID, bigIdx)
		}
		emitChain(big.buckets[bigIdx], fn)

		cursor = advanceCursor(cursor, mBig)

		if cursor&(mSmall^mBig) == 0 {
			break
		}
	}

	return cursor
}

// advanceCursor is the reverse-binary increment: set every bit not
// covered by mask, bit-reverse, add one (carrying from the top bit
// down through the masked range), bit-reverse back. Because bucket
// index is hash & mask and mask is always size-1 for a power-of-two
// size, doubling the table splits bucket b into b and b+oldSize and
// halving merges the reverse; counting buckets in reverse-binary order
// visits every high-bit extension of a low-bit pattern before moving
// to the next one, so a split or merge can never skip a bucket.
func advanceCursor(cursor, mask uint64) uint64 {
	cursor |= ^mask
	cursor = bits.Reverse64(cursor)
	cursor++
	cursor = bits.Reverse64(cursor)
	return cursor
}

func emitChain[K comparable, V any](head *entry[K, V], fn func(*Entry[K, V])) {
	e := head
	for e != nil {
		next := e.next
		fn(wrap(e))
		e = next
	}
}
