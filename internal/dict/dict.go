// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dict implements a generic associative container with
// incremental (amortized) rehashing and a resize-tolerant cursor scan,
// suitable for a single-threaded event-loop host where resizing a large
// table must never introduce a latency spike.
//
// The dictionary keeps two sub-tables at once while growing or
// shrinking and migrates one bucket at a time, piggy-backed on ordinary
// operations, instead of rehashing the whole table in one call.
package dict

import "sync/atomic"

const (
	// initialSize is the bucket count of the first sub-table allocation.
	initialSize = 4

	// forceResizeRatio is the load factor (used/size) above which
	// growth happens even when opportunistic resizing is disabled.
	forceResizeRatio = 5
)

// globalResizeEnabled is the process-wide default for opportunistic
// resizing. A Dict created with NewDict follows this flag unless
// SetResizeEnabled gives it its own override -- spec.md §9's design
// note on the global resize flag, resolved as "per-instance override
// plus a shared flag" so callers doing copy-on-write snapshotting can
// suppress growth process-wide.
var globalResizeEnabled atomic.Bool

func init() {
	globalResizeEnabled.Store(true)
}

// EnableResize turns on the process-wide opportunistic resize default.
func EnableResize() { globalResizeEnabled.Store(true) }

// DisableResize turns off the process-wide opportunistic resize
// default. The forced-resize ratio still overrides this: a dictionary
// whose load factor exceeds forceResizeRatio grows regardless.
func DisableResize() { globalResizeEnabled.Store(false) }

// Dict is the two-table incremental-rehash dictionary (spec.md §3-§4.D).
type Dict[K comparable, V any] struct {
	desc    *Descriptor[K, V]
	private any

	ht [2]*subTable[K, V]

	// rehashIdx is the next ht[0] bucket to migrate; -1 means idle.
	rehashIdx int64

	// iterators is the live-iterator count; while > 0 the opportunistic
	// per-operation rehash step is suppressed.
	iterators int

	// resizeOverride, if non-nil, takes precedence over
	// globalResizeEnabled for this instance.
	resizeOverride *bool
}

// NewDict creates an empty dictionary. private is opaque data stored
// with the dictionary and returned by Private (none of the Descriptor
// hooks in this package take it, but callers building their own hash
// functions around GetHashSeed commonly want a place to stash
// per-instance state, so it is kept for parity with spec.md §3).
func NewDict[K comparable, V any](desc *Descriptor[K, V], private any) *Dict[K, V] {
	return &Dict[K, V]{
		desc:      desc,
		private:   private,
		ht:        [2]*subTable[K, V]{{}, {}},
		rehashIdx: -1,
	}
}

// Private returns the opaque private-data pointer passed to NewDict.
func (d *Dict[K, V]) Private() any { return d.private }

// Len returns the total number of live entries across both sub-tables.
func (d *Dict[K, V]) Len() uint64 {
	return d.ht[0].used + d.ht[1].used
}

// Slots returns the total bucket count across both sub-tables.
func (d *Dict[K, V]) Slots() uint64 {
	return d.ht[0].size + d.ht[1].size
}

func (d *Dict[K, V]) isRehashing() bool {
	return d.rehashIdx != -1
}

// IsRehashing reports whether the dictionary currently owns two live
// sub-tables and is migrating buckets opportunistically.
func (d *Dict[K, V]) IsRehashing() bool {
	return d.isRehashing()
}

// SetResizeEnabled overrides the process-wide resize default for this
// instance only. Passing nil reverts to following the global flag.
func (d *Dict[K, V]) SetResizeEnabled(enabled *bool) {
	d.resizeOverride = enabled
}

func (d *Dict[K, V]) resizeAllowed() bool {
	if d.resizeOverride != nil {
		return *d.resizeOverride
	}
	return globalResizeEnabled.Load()
}

// Release tears the dictionary down: both sub-tables are cleared
// (running the descriptor's destroy hooks over every entry) and freed.
func (d *Dict[K, V]) Release() {
	d.ht[0].clear(d.desc, nil)
	d.ht[1].clear(d.desc, nil)
	d.rehashIdx = -1
}

// Empty clears the dictionary's contents but keeps it usable, the way
// Release does, except the dictionary itself survives. tick, if
// non-nil, is invoked every 65536 visited buckets (spec.md §4.C).
func (d *Dict[K, V]) Empty(tick func()) {
	d.ht[0].clear(d.desc, tick)
	d.ht[1].clear(d.desc, tick)
	d.rehashIdx = -1
}

// nextPowerOfTwo rounds size up to the next power of two, starting
// from initialSize -- mirroring the original _dictNextPower, which
// never returns less than DICT_HT_INITIAL_SIZE.
func nextPowerOfTwo(size uint64) uint64 {
	i := uint64(initialSize)
	if size >= 1<<63 {
		return 1 << 63
	}
	for i < size {
		i <<= 1
	}
	return i
}

// expand is the shared implementation behind the public Expand and the
// internal opportunistic growth path (spec.md §4.D.1, §4.D.2).
//
// Rejections, checked in this order against the teacher's ancestor and
// original_source/src/dict.c:
//   - already rehashing: ErrAlreadyRehashing
//   - size below current ht[0] occupancy (checked against the raw,
//     unrounded argument): ErrTargetTooSmall
//   - size rounds to the same power of two as the current ht[0] size:
//     ErrRedundant, even when used == size (see DESIGN.md).
func (d *Dict[K, V]) expand(size uint64) error {
	if d.isRehashing() {
		return ErrAlreadyRehashing
	}
	if d.ht[0].used > size {
		return ErrTargetTooSmall
	}

	realSize := nextPowerOfTwo(size)
	if realSize == d.ht[0].size {
		return ErrRedundant
	}

	n := newSubTable[K, V](realSize)

	if d.ht[0].size == 0 {
		// First expansion: allocate directly into ht[0], still idle.
		d.ht[0] = n
		return nil
	}

	// Subsequent expansion or voluntary shrink: stage the new table in
	// ht[1] and begin incremental rehashing.
	d.ht[1] = n
	d.rehashIdx = 0
	return nil
}

// Expand grows (or starts shrinking) the dictionary toward size,
// rounded up to a power of two.
func (d *Dict[K, V]) Expand(size uint64) error {
	return d.expand(size)
}

// Resize is a voluntary shrink: it retargets the dictionary to
// max(used, initialSize). It is a silent no-op, not an error, when the
// process-wide (or per-instance) resize policy currently disallows
// opportunistic resizing -- spec.md's error taxonomy (§7) has no
// "resize disabled" kind, and disabling resize is meant to make growth
// inert, not to make a voluntary shrink request fail loudly.
func (d *Dict[K, V]) Resize() error {
	if !d.resizeAllowed() {
		return nil
	}
	minimal := d.ht[0].used
	if minimal < initialSize {
		minimal = initialSize
	}
	return d.expand(minimal)
}

// expandIfNeeded implements spec.md §4.D.8: no-op while already
// rehashing; initial allocation on first use; doubling once the load
// factor crosses 1, gated by the resize policy and the forced ceiling.
func (d *Dict[K, V]) expandIfNeeded() {
	if d.isRehashing() {
		return
	}

	if d.ht[0].size == 0 {
		_ = d.expand(initialSize)
		return
	}

	if d.ht[0].used >= d.ht[0].size {
		loadFactor := float64(d.ht[0].used) / float64(d.ht[0].size)
		if d.resizeAllowed() || loadFactor > forceResizeRatio {
			_ = d.expand(d.ht[0].used * 2)
		}
	}
}

// addRaw is the shared core behind Add, AddOrFind and Replace
// (spec.md §4.D.4). It returns the freshly created entry, or nil plus
// the pre-existing entry when the key is already present.
func (d *Dict[K, V]) addRaw(key K) (created *entry[K, V], existing *entry[K, V]) {
	d.backgroundRehashStep()

	h := d.desc.Hash(key)

	d.expandIfNeeded()

	destIdx := 0
	if d.isRehashing() {
		destIdx = 1
	}

	for i := 0; i < 2; i++ {
		t := d.ht[i]
		if t.size > 0 {
			idx := h & t.mask
			for e := t.buckets[idx]; e != nil; e = e.next {
				if d.desc.equal(e.key, key) {
					return nil, e
				}
			}
		}
		if !d.isRehashing() {
			break
		}
	}

	dest := d.ht[destIdx]
	idx := h & dest.mask
	node := &entry[K, V]{key: d.desc.dupKey(key), next: dest.buckets[idx]}
	dest.buckets[idx] = node
	dest.used++

	return node, nil
}

// AddRaw exposes addRaw's contract directly: it returns the new entry
// on success, or nil plus the pre-existing entry when key is present.
func (d *Dict[K, V]) AddRaw(key K) (created *Entry[K, V], existing *Entry[K, V]) {
	c, e := d.addRaw(key)
	return wrap(c), wrap(e)
}

// Add inserts key with value val. It returns ErrKeyExists if key is
// already present, leaving the existing entry untouched.
func (d *Dict[K, V]) Add(key K, val V) error {
	created, _ := d.addRaw(key)
	if created == nil {
		return ErrKeyExists
	}
	created.val = d.desc.dupVal(val)
	return nil
}

// AddOrFind returns the entry for key, creating it (with the zero
// value) if absent. created reports whether a new entry was made.
func (d *Dict[K, V]) AddOrFind(key K) (e *Entry[K, V], created bool) {
	c, existing := d.addRaw(key)
	if c != nil {
		return wrap(c), true
	}
	return wrap(existing), false
}

// Replace inserts (key, val) if key is absent, or overwrites the
// existing value otherwise. On overwrite the new value is assigned
// before the old value is destroyed, so the two may safely alias the
// same reference-counted object (spec.md §4.D.4, scenario S2).
func (d *Dict[K, V]) Replace(key K, val V) {
	created, existing := d.addRaw(key)
	if created != nil {
		created.val = d.desc.dupVal(val)
		return
	}

	old := existing.val
	existing.val = d.desc.dupVal(val)
	d.desc.destroyVal(old)
}

// Find looks up key and returns its entry, or (nil, false) if absent.
func (d *Dict[K, V]) Find(key K) (*Entry[K, V], bool) {
	if d.Len() == 0 {
		return nil, false
	}

	d.backgroundRehashStep()

	h := d.desc.Hash(key)
	for i := 0; i < 2; i++ {
		t := d.ht[i]
		if t.size > 0 {
			idx := h & t.mask
			for e := t.buckets[idx]; e != nil; e = e.next {
				if d.desc.equal(e.key, key) {
					return wrap(e), true
				}
			}
		}
		if !d.isRehashing() {
			break
		}
	}
	return nil, false
}

// FetchValue is Find followed by value extraction.
func (d *Dict[K, V]) FetchValue(key K) (V, bool) {
	e, ok := d.Find(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.Value(), true
}

// genericDelete is the shared core behind Delete and Unlink.
func (d *Dict[K, V]) genericDelete(key K, release bool) *entry[K, V] {
	if d.Len() == 0 {
		return nil
	}

	d.backgroundRehashStep()

	h := d.desc.Hash(key)
	for i := 0; i < 2; i++ {
		t := d.ht[i]
		if t.size > 0 {
			idx := h & t.mask
			var prev *entry[K, V]
			e := t.buckets[idx]
			for e != nil {
				if d.desc.equal(e.key, key) {
					if prev == nil {
						t.buckets[idx] = e.next
					} else {
						prev.next = e.next
					}
					if release {
						d.desc.destroyKey(e.key)
						d.desc.destroyVal(e.val)
					}
					t.used--
					return e
				}
				prev = e
				e = e.next
			}
		}
		if !d.isRehashing() {
			break
		}
	}
	return nil
}

// Delete removes key, destroying its key and value via the descriptor.
// It returns ErrNotFound if key is absent.
func (d *Dict[K, V]) Delete(key K) error {
	if d.genericDelete(key, true) == nil {
		return ErrNotFound
	}
	return nil
}

// Unlink removes key from the dictionary without destroying it,
// returning the detached entry so the caller can inspect it (its value
// in particular) before disposing of it with FreeUnlinkedEntry. A
// concurrent Find for the same key returns absent immediately, even
// though the entry has not been released yet.
func (d *Dict[K, V]) Unlink(key K) (*Entry[K, V], bool) {
	e := d.genericDelete(key, false)
	if e == nil {
		return nil, false
	}
	return wrap(e), true
}

// FreeUnlinkedEntry runs the descriptor's destroy hooks over an entry
// previously detached by Unlink. Calling it on any other entry, or
// twice on the same entry, is a misuse the dictionary cannot detect.
func (d *Dict[K, V]) FreeUnlinkedEntry(e *Entry[K, V]) {
	if e == nil {
		return
	}
	d.desc.destroyKey(e.node.key)
	d.desc.destroyVal(e.node.val)
}

// FindEntryRefByHash bypasses Descriptor.Equal entirely: it walks the
// bucket chain(s) addressed by hash and returns the first entry for
// which match reports true. This is the generic-safe resolution of
// spec.md's findEntryRefByPtrAndHash (see SPEC_FULL.md §2.1) -- the
// caller supplies identity (e.g. pointer equality on a reference-typed
// K) instead of the dictionary invoking its own comparator.
func (d *Dict[K, V]) FindEntryRefByHash(hash uint64, match func(key K) bool) (*Entry[K, V], bool) {
	for i := 0; i < 2; i++ {
		t := d.ht[i]
		if t.size > 0 {
			idx := hash & t.mask
			for e := t.buckets[idx]; e != nil; e = e.next {
				if match(e.key) {
					return wrap(e), true
				}
			}
		}
		if !d.isRehashing() {
			break
		}
	}
	return nil, false
}
