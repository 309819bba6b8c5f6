// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import "time"

// rehashN migrates at most n non-empty buckets from ht[0] to ht[1]. To
// bound the worst-case cost on a sparse table it gives up early once it
// has skipped 10*n empty buckets without migrating n of them -- this is
// what keeps the amortized cost O(1) per call even right after a table
// full of deletions. It returns true while rehashing work remains,
// false once ht[0] has been fully drained and folded into ht[1]
// (spec.md §4.D.3).
func (d *Dict[K, V]) rehashN(n int) bool {
	if !d.isRehashing() {
		return false
	}

	emptyVisits := n * 10

	for ; n > 0 && d.ht[0].used != 0; n-- {
		for d.ht[0].buckets[d.rehashIdx] == nil {
			d.rehashIdx++
			emptyVisits--
			if emptyVisits == 0 {
				return true
			}
		}

		e := d.ht[0].buckets[d.rehashIdx]
		for e != nil {
			next := e.next

			h := d.desc.Hash(e.key)
			idx := h & d.ht[1].mask
			e.next = d.ht[1].buckets[idx]
			d.ht[1].buckets[idx] = e

			d.ht[0].used--
			d.ht[1].used++
			e = next
		}

		d.ht[0].buckets[d.rehashIdx] = nil
		d.rehashIdx++
	}

	if d.ht[0].used == 0 {
		d.ht[0] = d.ht[1]
		d.ht[1] = &subTable[K, V]{}
		d.rehashIdx = -1
		return false
	}

	return true
}

// Rehash runs rehashN(n) directly, bypassing the iterator gate. It is
// idempotent when the dictionary is already idle (it simply returns
// false). Unlike the background step, explicit Rehash calls are not
// blocked by a live iterator -- doing so while a safe iterator exists
// will make that iterator skip or repeat entries, which is permitted
// (see spec.md §5).
func (d *Dict[K, V]) Rehash(n int) bool {
	return d.rehashN(n)
}

// backgroundRehashStep runs one rehash bucket migration, but only when
// no iterator is live. It is called at the head of every mutating or
// lookup operation.
func (d *Dict[K, V]) backgroundRehashStep() {
	if d.iterators == 0 {
		d.rehashN(1)
	}
}

// RehashMilliseconds runs rehashN(100) repeatedly until either
// rehashing completes or ms milliseconds have elapsed, whichever comes
// first. It refuses to run at all while any iterator is live -- a
// structural change is forbidden for as long as an iterator might
// observe it -- returning false immediately in that case. It returns
// true if the dictionary is still rehashing when it returns.
func (d *Dict[K, V]) RehashMilliseconds(ms int) bool {
	if d.iterators > 0 {
		return false
	}

	start := time.Now()
	budget := time.Duration(ms) * time.Millisecond

	for d.rehashN(100) {
		if time.Since(start) > budget {
			break
		}
	}

	return d.isRehashing()
}
