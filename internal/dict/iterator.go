// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import "unsafe"

// Iterator performs a linear walk over both sub-tables in two modes
// (spec.md §4.E):
//
//   - Safe: increments the dictionary's iterator count on first Next,
//     which suppresses the opportunistic background rehash step for as
//     long as the iterator is live. The caller may freely mutate the
//     dictionary between Next calls; if the dictionary is explicitly
//     rehashed mid-iteration some entries may be missed or duplicated
//     -- "safe" means no crash, not no loss.
//   - Unsafe: records a fingerprint of the dictionary's structural
//     state on first Next and asserts it is unchanged on Release. Only
//     Next may be called between GetIterator and Release; any mutation
//     is a programmer error that panics on Release.
type Iterator[K comparable, V any] struct {
	dict *Dict[K, V]

	table int
	index int64

	cur        *entry[K, V]
	nextCached *entry[K, V]

	safe        bool
	fingerprint uint64
}

// GetIterator returns an unsafe iterator over d.
func (d *Dict[K, V]) GetIterator() *Iterator[K, V] {
	return &Iterator[K, V]{dict: d, index: -1}
}

// GetSafeIterator returns a safe iterator over d.
func (d *Dict[K, V]) GetSafeIterator() *Iterator[K, V] {
	return &Iterator[K, V]{dict: d, index: -1, safe: true}
}

// Next advances the iterator and reports whether an entry is available.
// The entry the caller is positioned on may safely be deleted from the
// dictionary before the next call to Next, because the successor is
// cached before Next returns.
func (it *Iterator[K, V]) Next() bool {
	for {
		if it.cur == nil {
			ht := it.dict.ht[it.table]

			if it.index == -1 && it.table == 0 {
				if it.safe {
					it.dict.iterators++
				} else {
					it.fingerprint = it.dict.fingerprint()
				}
			}

			it.index++
			if uint64(it.index) >= ht.size {
				if it.dict.isRehashing() && it.table == 0 {
					it.table++
					it.index = 0
					ht = it.dict.ht[1]
				} else {
					return false
				}
			}

			it.cur = ht.buckets[it.index]
		} else {
			it.cur = it.nextCached
		}

		if it.cur != nil {
			it.nextCached = it.cur.next
			return true
		}
	}
}

// Entry returns the entry the iterator is currently positioned on. It
// is only valid after a call to Next that returned true.
func (it *Iterator[K, V]) Entry() *Entry[K, V] {
	return wrap(it.cur)
}

// Release ends the iteration: for a safe iterator it decrements the
// dictionary's iterator count; for an unsafe iterator it recomputes the
// fingerprint and panics if it no longer matches the one recorded on
// first Next, since that means the dictionary's structure changed
// while only Next should have been called.
func (it *Iterator[K, V]) Release() {
	if it.index == -1 && it.table == 0 {
		return
	}

	if it.safe {
		it.dict.iterators--
		return
	}

	if it.fingerprint != it.dict.fingerprint() {
		panic("dict: unsafe iterator detected a structural mutation between creation and release")
	}
}

// fingerprint mixes both sub-tables' table pointer, size and used count
// into a single 64-bit value via Tomas Wang's integer hash, applied as
// a running sum: hash(hash(hash(int1)+int2)+int3)... so the same six
// integers in a different order are (likely) to hash differently, and
// any structural change to either sub-table changes the result, while
// mutating an existing entry's value does not (spec.md §4.E.1).
func (d *Dict[K, V]) fingerprint() uint64 {
	ints := [6]uint64{
		tableIdentity(d.ht[0].buckets), d.ht[0].size, d.ht[0].used,
		tableIdentity(d.ht[1].buckets), d.ht[1].size, d.ht[1].used,
	}

	var hash uint64
	for _, n := range ints {
		hash += n
		hash = mixBits(hash)
	}
	return hash
}

// tableIdentity returns the bucket slice's backing-array address as a
// uint64, or 0 for a nil/empty slice, standing in for the C original's
// raw `dictEntry **table` pointer value.
func tableIdentity[K comparable, V any](buckets []*entry[K, V]) uint64 {
	if len(buckets) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(unsafe.SliceData(buckets))))
}

// mixBits is Thomas Wang's 64-bit integer hash, used unchanged from the
// original dictFingerprint.
func mixBits(key uint64) uint64 {
	key = (^key) + (key << 21)
	key = key ^ (key >> 24)
	key = key + (key << 3) + (key << 8)
	key = key ^ (key >> 14)
	key = key + (key << 2) + (key << 4)
	key = key ^ (key >> 28)
	key = key + (key << 31)
	return key
}
