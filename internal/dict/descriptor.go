// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

// Descriptor is the caller-supplied type descriptor for a Dict. It plays
// the role of the teacher's function-pointer dictType, but as a
// generic-friendly struct of optional callbacks instead of six raw C
// function pointers.
//
// Hash is the only required field; every other callback has a defined
// default when left nil, matching spec.md §4.B:
//
//   - KeyDup / ValDup absent: the key or value is kept as-is (Go's value
//     semantics already give a shallow copy on assignment; these hooks
//     only matter when K or V is itself a reference type the caller
//     wants deep-copied or reference-counted, see Equal below).
//   - Equal absent: Go's built-in `==` on the comparable type K.
//   - KeyDestroy / ValDestroy absent: no-op.
type Descriptor[K comparable, V any] struct {
	// Hash computes the hash of a key. Required; used on every insert,
	// lookup, and delete.
	Hash func(key K) uint64

	// KeyDup, if set, is invoked on insert to obtain the stored key.
	KeyDup func(key K) K

	// ValDup, if set, is invoked whenever a value is stored (on insert
	// and on replace) to obtain the stored value.
	ValDup func(val V) V

	// Equal, if set, compares two keys for identity. Defaults to `==`.
	Equal func(a, b K) bool

	// KeyDestroy, if set, is invoked when a key is removed from the
	// dictionary (by Delete, by Empty, or by Release).
	KeyDestroy func(key K)

	// ValDestroy, if set, is invoked when a value is removed or
	// overwritten (by Delete, by Replace's old value, by Empty, or by
	// Release).
	ValDestroy func(val V)
}

func (d *Descriptor[K, V]) equal(a, b K) bool {
	if d.Equal != nil {
		return d.Equal(a, b)
	}
	return a == b
}

func (d *Descriptor[K, V]) dupKey(k K) K {
	if d.KeyDup != nil {
		return d.KeyDup(k)
	}
	return k
}

func (d *Descriptor[K, V]) dupVal(v V) V {
	if d.ValDup != nil {
		return d.ValDup(v)
	}
	return v
}

func (d *Descriptor[K, V]) destroyKey(k K) {
	if d.KeyDestroy != nil {
		d.KeyDestroy(k)
	}
}

func (d *Descriptor[K, V]) destroyVal(v V) {
	if d.ValDestroy != nil {
		d.ValDestroy(v)
	}
}
