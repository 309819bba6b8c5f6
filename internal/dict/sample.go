// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import "math/rand/v2"

// fairSamplePoolSize is how many entries FairRandomKey draws via
// SomeKeys before picking one uniformly (spec.md §6 constants).
const fairSamplePoolSize = 15

// emptyStreakJumpThreshold is the minimum run of consecutive empty
// buckets SomeKeys will tolerate before jumping to a fresh random
// index, provided the run also exceeds the requested count.
const emptyStreakJumpThreshold = 5

func randUint64N(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return rand.N(n)
}

func randIntN(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.N(n)
}

// pickFromChain returns a uniformly random entry from a bucket chain.
// The only sane way to do it without a second data structure is to
// count the chain, then walk to a random index (spec.md §4.D.7).
func pickFromChain[K comparable, V any](head *entry[K, V]) *Entry[K, V] {
	n := 0
	for e := head; e != nil; e = e.next {
		n++
	}
	k := randIntN(n)
	e := head
	for ; k > 0; k-- {
		e = e.next
	}
	return wrap(e)
}

// RandomKey returns a uniformly-random bucket, then a uniformly-random
// element of that bucket's chain. Every non-empty bucket is equally
// likely whatever its chain length, so an entry in a short chain is
// more likely to be returned than an entry in a long one.
func (d *Dict[K, V]) RandomKey() (*Entry[K, V], bool) {
	if d.Len() == 0 {
		return nil, false
	}

	d.backgroundRehashStep()

	if d.isRehashing() {
		span := d.ht[0].size + d.ht[1].size - uint64(d.rehashIdx)
		for {
			h := uint64(d.rehashIdx) + randUint64N(span)
			var e *entry[K, V]
			if h >= d.ht[0].size {
				e = d.ht[1].buckets[h-d.ht[0].size]
			} else {
				e = d.ht[0].buckets[h]
			}
			if e != nil {
				return pickFromChain(e), true
			}
		}
	}

	for {
		h := randUint64N(d.ht[0].size)
		e := d.ht[0].buckets[h]
		if e != nil {
			return pickFromChain(e), true
		}
	}
}

// SomeKeys samples approximately count entries biased toward locality:
// it walks sequentially from a random starting bucket, emitting every
// entry of every non-empty bucket it passes, and jumps to a fresh
// random bucket after a long enough run of empty ones. It guarantees
// neither uniqueness nor an exact count -- including possibly zero
// entries even when the dictionary is non-empty (spec.md §9 Open
// Question) -- but is far cheaper than repeated RandomKey calls when a
// caller just needs to sample a batch (spec.md §4.D.7).
func (d *Dict[K, V]) SomeKeys(count int) []*Entry[K, V] {
	total := d.Len()
	if uint64(count) > total {
		count = int(total)
	}
	if count <= 0 {
		return nil
	}

	maxSteps := count * 10

	// Do rehashing work proportional to count before sampling, the way
	// every other read operation nudges the background step.
	for j := 0; j < count; j++ {
		if d.isRehashing() {
			d.backgroundRehashStep()
		} else {
			break
		}
	}

	tables := 1
	if d.isRehashing() {
		tables = 2
	}

	maxSizeMask := d.ht[0].mask
	if tables > 1 && maxSizeMask < d.ht[1].mask {
		maxSizeMask = d.ht[1].mask
	}

	i := randUint64N(maxSizeMask + 1)
	emptyLen := 0

	result := make([]*Entry[K, V], 0, count)

	for len(result) < count && maxSteps > 0 {
		maxSteps--

		for j := 0; j < tables; j++ {
			// Invariant: buckets [0, rehashIdx) of ht[0] are known
			// empty while rehashing, so ht[0] can be skipped there.
			if tables == 2 && j == 0 && i < uint64(d.rehashIdx) {
				if i >= d.ht[1].size {
					i = uint64(d.rehashIdx)
				} else {
					continue
				}
			}
			if i >= d.ht[j].size {
				continue
			}

			e := d.ht[j].buckets[i]
			if e == nil {
				emptyLen++
				if emptyLen >= emptyStreakJumpThreshold && emptyLen > count {
					i = randUint64N(maxSizeMask + 1)
					emptyLen = 0
				}
				continue
			}

			emptyLen = 0
			for e != nil {
				result = append(result, wrap(e))
				e = e.next
				if len(result) == count {
					return result
				}
			}
		}

		i = (i + 1) & maxSizeMask
	}

	return result
}

// FairRandomKey improves on RandomKey's chain-length bias: it draws a
// small pool via SomeKeys and picks uniformly from the pool, treating
// the pool as a flattened range rather than bucket-then-chain. It falls
// back to RandomKey when SomeKeys happens to return nothing, which can
// occur even with entries present (spec.md §9 Open Question).
func (d *Dict[K, V]) FairRandomKey() (*Entry[K, V], bool) {
	pool := d.SomeKeys(fairSamplePoolSize)
	if len(pool) == 0 {
		return d.RandomKey()
	}
	return pool[randIntN(len(pool))], true
}
